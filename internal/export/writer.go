package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	apperrors "github.com/stwalsh4118/citybuildings/internal/errors"
	"github.com/stwalsh4118/citybuildings/internal/logger"
)

// GeoJSONWriter encodes layers, checks them against their schemas and
// commits them together.
type GeoJSONWriter struct {
	schemas map[string]*jsonschema.Schema
	log     *logger.Logger
}

// NewGeoJSONWriter creates a writer with the layer schemas compiled.
func NewGeoJSONWriter(log *logger.Logger) (*GeoJSONWriter, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &GeoJSONWriter{schemas: schemas, log: log}, nil
}

// staged is an encoded layer waiting in a temp file next to its target.
type staged struct {
	layer Layer
	tmp   string
}

// Write writes every layer or none of them. Each layer is encoded, validated
// and written to a temp file; only when all of them succeeded are the temp
// files renamed into place. A failed rename removes the layers committed
// before it.
func (w *GeoJSONWriter) Write(ctx context.Context, layers ...Layer) error {
	var pending []staged
	defer func() {
		for _, s := range pending {
			os.Remove(s.tmp)
		}
	}()

	for _, layer := range layers {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := w.encode(layer)
		if err != nil {
			return apperrors.Write(layer.Path, err)
		}

		tmp, err := writeTemp(layer.Path, data)
		if err != nil {
			return apperrors.Write(layer.Path, err)
		}
		pending = append(pending, staged{layer: layer, tmp: tmp})
	}

	var committed []string
	for len(pending) > 0 {
		s := pending[0]
		if err := os.Rename(s.tmp, s.layer.Path); err != nil {
			for _, path := range committed {
				os.Remove(path)
			}
			return apperrors.Write(s.layer.Path, err)
		}
		committed = append(committed, s.layer.Path)
		pending = pending[1:]

		w.log.Info("Layer written", map[string]interface{}{
			"layer":    s.layer.Name,
			"path":     s.layer.Path,
			"features": len(s.layer.Records),
		})
	}

	return nil
}

func (w *GeoJSONWriter) encode(layer Layer) ([]byte, error) {
	data, err := json.Marshal(layer.collection())
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s layer: %w", layer.Name, err)
	}

	schema, ok := w.schemas[layer.schema]
	if !ok {
		return nil, fmt.Errorf("no schema for %s layer", layer.Name)
	}
	if err := validateDocument(schema, data); err != nil {
		return nil, fmt.Errorf("%s layer: %w", layer.Name, err)
	}
	return data, nil
}

// writeTemp writes data to a temp file in the target's directory so the
// final rename stays on one filesystem.
func writeTemp(target string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+"-*")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
