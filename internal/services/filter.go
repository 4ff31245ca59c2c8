package services

import "github.com/stwalsh4118/citybuildings/internal/models"

// FilterExisting keeps full buildings with a classified use code. Structural
// parts (AX_Bauteil) and GFK 0 records are dropped; an absent code counts as 0.
// The input slice is not modified.
func FilterExisting(records []models.BuildingRecord) []models.BuildingRecord {
	kept := make([]models.BuildingRecord, 0, len(records))
	for _, rec := range records {
		if rec.SourceCategory != models.Building {
			continue
		}
		if rec.UseCode() == 0 {
			continue
		}
		kept = append(kept, projectExisting(rec))
	}
	return kept
}

// projectExisting keeps only the columns used downstream: id, GFK, AOG, GRF,
// geometry and provenance.
func projectExisting(rec models.BuildingRecord) models.BuildingRecord {
	return models.BuildingRecord{
		Geometry:           rec.Geometry,
		SourceCategory:     rec.SourceCategory,
		SourceID:           rec.SourceID,
		RawUseCode:         rec.RawUseCode,
		UpperFloorRawCount: rec.UpperFloorRawCount,
		GroundFloorAreaRaw: rec.GroundFloorAreaRaw,
		IsExisting:         rec.IsExisting,
	}
}

// DropRawColumns clears the raw ALKIS attributes (GFK, GRF, AOG, AUG) once
// their derived fields exist.
func DropRawColumns(records []models.BuildingRecord) {
	for i := range records {
		records[i].RawUseCode = nil
		records[i].GroundFloorAreaRaw = nil
		records[i].UpperFloorRawCount = nil
		records[i].UnderFloorRawCount = nil
	}
}
