package services

import "github.com/stwalsh4118/citybuildings/internal/models"

// Views are the two output projections of the enriched collection.
type Views struct {
	// Upperfloor holds buildings with at least one upper floor.
	Upperfloor []models.BuildingRecord
	// Groundfloor holds every building; its layer has no building height.
	Groundfloor []models.BuildingRecord
}

// HasUpperFloors reports whether a record belongs in the upper-floor view.
func HasUpperFloors(rec models.BuildingRecord) bool {
	return rec.UpperFloorCount != nil && *rec.UpperFloorCount >= 1
}

// Split partitions the enriched records into the two views. Records keep
// their merged order in both.
func Split(records []models.BuildingRecord) Views {
	views := Views{
		Upperfloor:  make([]models.BuildingRecord, 0, len(records)),
		Groundfloor: make([]models.BuildingRecord, 0, len(records)),
	}
	for _, rec := range records {
		if HasUpperFloors(rec) {
			views.Upperfloor = append(views.Upperfloor, rec)
		}
		ground := rec
		ground.BuildingHeight = nil
		views.Groundfloor = append(views.Groundfloor, ground)
	}
	return views
}
