package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error code constants for pipeline failures
const (
	CodeSourceRead     = "SOURCE_READ_ERROR"
	CodeSchemaMismatch = "SCHEMA_MISMATCH_ERROR"
	CodeWrite          = "WRITE_ERROR"
	CodeConfig         = "CONFIG_ERROR"
)

// Sentinel errors, one per code, for use with errors.Is.
var (
	ErrSourceRead     = stderrors.New("source read failed")
	ErrSchemaMismatch = stderrors.New("schema mismatch")
	ErrWrite          = stderrors.New("write failed")
	ErrConfig         = stderrors.New("invalid configuration")
)

// PipelineError is a fatal failure of one pipeline stage.
type PipelineError struct {
	Code string
	Op   string // stage or operation, e.g. "read existing buildings"
	Path string // file involved, if any
	Err  error
}

// Error formats the failure as "op path: cause".
func (e *PipelineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the error's code.
func (e *PipelineError) Is(target error) bool {
	return sentinels[e.Code] == target
}

var sentinels = map[string]error{
	CodeSourceRead:     ErrSourceRead,
	CodeSchemaMismatch: ErrSchemaMismatch,
	CodeWrite:          ErrWrite,
	CodeConfig:         ErrConfig,
}

// SourceRead wraps a failure to read or interpret an input source.
func SourceRead(path string, err error) error {
	return &PipelineError{Code: CodeSourceRead, Op: "read source", Path: path, Err: err}
}

// MissingColumn reports a required attribute column absent from a source.
func MissingColumn(path, column string) error {
	return SourceRead(path, fmt.Errorf("missing required column %q", column))
}

// SchemaMismatch reports a geometry incompatible with building footprints.
func SchemaMismatch(source string, row int, kind string) error {
	return &PipelineError{
		Code: CodeSchemaMismatch,
		Op:   "merge sources",
		Err:  fmt.Errorf("%s row %d has %s geometry, expected Polygon or MultiPolygon", source, row, describeKind(kind)),
	}
}

// Write wraps a failure to produce an output file.
func Write(path string, err error) error {
	return &PipelineError{Code: CodeWrite, Op: "write output", Path: path, Err: err}
}

// Config wraps a configuration failure. Validation errors from the
// validator package are rendered field by field.
func Config(err error) error {
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			msgs = append(msgs, fe.Field()+": "+formatValidationError(fe))
		}
		err = stderrors.New(strings.Join(msgs, "; "))
	}
	return &PipelineError{Code: CodeConfig, Op: "load configuration", Err: err}
}

// CodeOf returns the pipeline error code carried by err, or "".
func CodeOf(err error) string {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func describeKind(kind string) string {
	if kind == "" {
		return "empty"
	}
	return kind
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "nefield":
		return "Must differ from " + err.Param()
	case "dir":
		return "Must be an existing directory"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
