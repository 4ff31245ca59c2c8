package services

import (
	"context"

	"github.com/stwalsh4118/citybuildings/internal/identity"
	"github.com/stwalsh4118/citybuildings/internal/landuse"
	"github.com/stwalsh4118/citybuildings/internal/models"
	"golang.org/x/sync/errgroup"
)

// Height model for derived building heights, in metres.
const (
	StoryHeight       = 3.0
	GroundFloorHeight = 4.0
)

// minChunkSize keeps tiny inputs on a single goroutine.
const minChunkSize = 256

// UpperFloorCount returns the stories above the ground floor; AOG counts the
// ground floor. The result is negative when AOG is 0.
func UpperFloorCount(rawCount int) int {
	return rawCount - 1
}

// BuildingHeight estimates a height from the upper floor count.
func BuildingHeight(upperFloors int) float64 {
	return float64(upperFloors)*StoryHeight + GroundFloorHeight
}

// EnrichRecord derives every planning attribute of the record at position.
// Records without ALKIS attributes keep nil heights and areas and are labeled
// landuse.Unknown.
func EnrichRecord(rec *models.BuildingRecord, position int) {
	rec.RowID = identity.RowID(position)
	rec.CityScopeID = identity.CityScopeID(position)
	rec.AreaPlanningType = models.AreaPlanningTypeBuilding

	if rec.UpperFloorRawCount != nil {
		upper := UpperFloorCount(*rec.UpperFloorRawCount)
		height := BuildingHeight(upper)
		rec.UpperFloorCount = &upper
		rec.BuildingHeight = &height
	}

	if rec.GroundFloorAreaRaw != nil {
		area := *rec.GroundFloorAreaRaw
		rec.FloorArea = &area
	}

	if rec.RawUseCode != nil {
		rec.LandUseDetailedType = landuse.Classify(*rec.RawUseCode)
	} else {
		rec.LandUseDetailedType = landuse.Unknown
	}
}

// Enrich enriches every record in place, position being the slice index.
// With workers > 1 the slice is split into contiguous chunks processed
// concurrently; records never interact, so the result does not depend on
// the worker count.
func Enrich(ctx context.Context, records []models.BuildingRecord, workers int) error {
	if workers < 1 {
		workers = 1
	}

	chunk := (len(records) + workers - 1) / workers
	if chunk < minChunkSize {
		chunk = minChunkSize
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(records); start += chunk {
		start := start
		end := min(start+chunk, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%minChunkSize == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				EnrichRecord(&records[i], i)
			}
			return nil
		})
	}

	return g.Wait()
}
