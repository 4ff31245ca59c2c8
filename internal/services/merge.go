package services

import (
	"fmt"

	apperrors "github.com/stwalsh4118/citybuildings/internal/errors"
	"github.com/stwalsh4118/citybuildings/internal/models"
	"github.com/stwalsh4118/citybuildings/internal/projection"
)

// Source names used in schema errors.
const (
	sourceExisting = "existing buildings"
	sourceNew      = "new buildings"
)

// Merge unifies the filtered existing buildings and the new buildings.
// Existing footprints are reprojected to EPSG:4326 with toWGS84; new
// footprints are taken as already being in EPSG:4326. Provenance is tagged
// and the result holds all existing records first, then all new records.
// A non-polygonal geometry in either source fails the whole merge.
func Merge(existing, proposed []models.BuildingRecord, toWGS84 projection.Func) ([]models.BuildingRecord, error) {
	if err := checkFootprints(sourceExisting, existing); err != nil {
		return nil, err
	}
	if err := checkFootprints(sourceNew, proposed); err != nil {
		return nil, err
	}

	merged := make([]models.BuildingRecord, 0, len(existing)+len(proposed))
	for i, rec := range existing {
		fp, err := rec.Geometry.Reproject(toWGS84, projection.WGS84)
		if err != nil {
			return nil, fmt.Errorf("failed to reproject %s row %d: %w", sourceExisting, i, err)
		}
		rec.Geometry = fp
		rec.IsExisting = true
		merged = append(merged, rec)
	}
	for _, rec := range proposed {
		rec.IsExisting = false
		merged = append(merged, rec)
	}

	return merged, nil
}

// checkFootprints rejects geometries other than Polygon and MultiPolygon.
// Null geometries pass through untouched.
func checkFootprints(source string, records []models.BuildingRecord) error {
	for i, rec := range records {
		if rec.Geometry.Geom == nil {
			continue
		}
		if !rec.Geometry.IsPolygonal() {
			return apperrors.SchemaMismatch(source, i, rec.Geometry.Kind())
		}
	}
	return nil
}
