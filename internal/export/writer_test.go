package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/stwalsh4118/citybuildings/internal/errors"
	"github.com/stwalsh4118/citybuildings/internal/logger"
	"github.com/stwalsh4118/citybuildings/internal/models"
	"github.com/stwalsh4118/citybuildings/internal/projection"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func enrichedRecords() []models.BuildingRecord {
	square := models.NewPolygonFootprint([][][2]float64{
		{{9.99, 53.55}, {9.99, 53.5501}, {9.9901, 53.5501}, {9.9901, 53.55}, {9.99, 53.55}},
	}, projection.WGS84)

	return []models.BuildingRecord{
		{
			Geometry:            square,
			IsExisting:          true,
			UpperFloorCount:     intPtr(2),
			BuildingHeight:      floatPtr(10),
			AreaPlanningType:    "building",
			FloorArea:           floatPtr(120.5),
			RowID:               0,
			CityScopeID:         "B-0",
			LandUseDetailedType: "apartments",
		},
		{
			Geometry:            square,
			IsExisting:          false,
			AreaPlanningType:    "building",
			RowID:               1,
			CityScopeID:         "B-1",
			LandUseDetailedType: "unknown",
		},
	}
}

type decodedLayer struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Features []struct {
		Type       string                 `json:"type"`
		Properties map[string]interface{} `json:"properties"`
		Geometry   map[string]interface{} `json:"geometry"`
	} `json:"features"`
}

func readLayer(t *testing.T, path string) decodedLayer {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var layer decodedLayer
	require.NoError(t, json.Unmarshal(data, &layer))
	return layer
}

func TestWrite_BothLayers(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writer, err := NewGeoJSONWriter(logger.Nop())
	require.NoError(t, err)

	records := enrichedRecords()
	upper := filepath.Join(dir, "upperfloor.json")
	ground := filepath.Join(dir, "groundfloor.json")

	// Act
	err = writer.Write(context.Background(),
		UpperfloorLayer(upper, records[:1]),
		GroundfloorLayer(ground, records),
	)

	// Assert
	require.NoError(t, err)

	upperLayer := readLayer(t, upper)
	assert.Equal(t, "FeatureCollection", upperLayer.Type)
	assert.Equal(t, "upperfloor", upperLayer.Name)
	require.Len(t, upperLayer.Features, 1)
	props := upperLayer.Features[0].Properties
	assert.Equal(t, map[string]interface{}{
		"id":                     float64(0),
		"is_existing":            true,
		"upper_floor_count":      float64(2),
		"building_height":        float64(10),
		"area_planning_type":     "building",
		"floor_area":             120.5,
		"row_id":                 float64(0),
		"city_scope_id":          "B-0",
		"land_use_detailed_type": "apartments",
	}, props)
	assert.Equal(t, "Polygon", upperLayer.Features[0].Geometry["type"])

	groundLayer := readLayer(t, ground)
	require.Len(t, groundLayer.Features, 2)
	for _, f := range groundLayer.Features {
		assert.NotContains(t, f.Properties, "building_height")
	}
	c := groundLayer.Features[1].Properties
	assert.Equal(t, float64(1), c["id"])
	assert.Equal(t, "B-1", c["city_scope_id"])
	assert.Nil(t, c["upper_floor_count"])
	assert.Nil(t, c["floor_area"])

	// no temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWrite_SchemaViolationWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewGeoJSONWriter(logger.Nop())
	require.NoError(t, err)

	records := enrichedRecords()
	upper := filepath.Join(dir, "upperfloor.json")
	ground := filepath.Join(dir, "groundfloor.json")

	// the new building has no upper floors and must not be in the upper layer
	err = writer.Write(context.Background(),
		GroundfloorLayer(ground, records),
		UpperfloorLayer(upper, records),
	)

	assert.ErrorIs(t, err, apperrors.ErrWrite)
	assert.NoFileExists(t, upper)
	assert.NoFileExists(t, ground)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWrite_UnwritableDirectory(t *testing.T) {
	writer, err := NewGeoJSONWriter(logger.Nop())
	require.NoError(t, err)

	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	err = writer.Write(context.Background(),
		GroundfloorLayer(filepath.Join(missing, "groundfloor.json"), enrichedRecords()),
	)

	assert.ErrorIs(t, err, apperrors.ErrWrite)
	assert.Equal(t, apperrors.CodeWrite, apperrors.CodeOf(err))
}

func TestWrite_CanceledContext(t *testing.T) {
	writer, err := NewGeoJSONWriter(logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "groundfloor.json")
	err = writer.Write(ctx, GroundfloorLayer(path, enrichedRecords()))

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestWrite_EmptyLayer(t *testing.T) {
	writer, err := NewGeoJSONWriter(logger.Nop())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "upperfloor.json")
	require.NoError(t, writer.Write(context.Background(), UpperfloorLayer(path, nil)))

	layer := readLayer(t, path)
	assert.Empty(t, layer.Features)
}

func TestWrite_NullGeometry(t *testing.T) {
	writer, err := NewGeoJSONWriter(logger.Nop())
	require.NoError(t, err)

	records := enrichedRecords()
	records[1].Geometry = models.Footprint{}
	path := filepath.Join(t.TempDir(), "groundfloor.json")

	require.NoError(t, writer.Write(context.Background(), GroundfloorLayer(path, records)))

	layer := readLayer(t, path)
	assert.Nil(t, layer.Features[1].Geometry)
}
