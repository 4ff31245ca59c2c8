package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entries decodes one JSON log line per element.
func entries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		out = append(out, entry)
	}
	return out
}

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production", "test"} {
		log := New(env)
		require.NotNil(t, log, env)
		assert.NotNil(t, log.GetZerolog(), env)
	}
}

func TestNewWithWriter_DebugOnlyInDevelopment(t *testing.T) {
	tests := []struct {
		env       string
		wantDebug bool
	}{
		{env: "development", wantDebug: true},
		{env: "production", wantDebug: false},
		{env: "test", wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.env, &buf)

			log.Debug("Use codes without land-use category", map[string]interface{}{"count": 3})

			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "Use codes without land-use category"))
		})
	}
}

func TestNewWithWriter_DevelopmentIsConsole(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	log.Info("Sources read", map[string]interface{}{"existing": 2})

	assert.Contains(t, buf.String(), "Sources read")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "development output is for humans")
}

func TestPipelineEvents(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Info("Sources read", map[string]interface{}{"existing": 120, "new": 4})
	log.Warn("Failed to render preview", map[string]interface{}{"path": "landuse.png"})
	log.Error("Run failed", errors.New("missing required column \"GFK\""), map[string]interface{}{
		"code": "SOURCE_READ_ERROR",
	})

	got := entries(t, &buf)
	require.Len(t, got, 3)

	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "Sources read", got[0]["message"])
	assert.Equal(t, float64(120), got[0]["existing"])
	assert.Equal(t, float64(4), got[0]["new"])
	assert.Contains(t, got[0], "time")

	assert.Equal(t, "warn", got[1]["level"])
	assert.Equal(t, "landuse.png", got[1]["path"])

	assert.Equal(t, "error", got[2]["level"])
	assert.Equal(t, "SOURCE_READ_ERROR", got[2]["code"])
	assert.Equal(t, `missing required column "GFK"`, got[2]["error"])
}

func TestWithRunIDAndStage(t *testing.T) {
	var buf bytes.Buffer
	run := NewWithWriter("production", &buf).WithRunID("3f2b8c1e-run")

	run.WithStage("merge").Info("Sources merged", nil)
	run.Info("Run finished", nil)

	got := entries(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "3f2b8c1e-run", got[0]["run_id"])
	assert.Equal(t, "merge", got[0]["stage"])
	assert.Equal(t, "3f2b8c1e-run", got[1]["run_id"])
	assert.NotContains(t, got[1], "stage", "stage belongs to the child logger only")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf).With(map[string]interface{}{
		"layer": "groundfloor",
	})

	log.Info("Layer written", map[string]interface{}{"features": 7})

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "groundfloor", got[0]["layer"])
	assert.Equal(t, float64(7), got[0]["features"])
}

func TestNilFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Info("Run finished", nil)

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "Run finished", got[0]["message"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		log := Nop()
		log.Debug("discarded", nil)
		log.Info("discarded", map[string]interface{}{"k": "v"})
		log.Error("discarded", errors.New("boom"), nil)
	})
}
