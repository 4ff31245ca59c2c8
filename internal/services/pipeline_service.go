package services

import (
	"context"
	"fmt"

	apperrors "github.com/stwalsh4118/citybuildings/internal/errors"
	"github.com/stwalsh4118/citybuildings/internal/landuse"
	"github.com/stwalsh4118/citybuildings/internal/logger"
	"github.com/stwalsh4118/citybuildings/internal/models"
	"github.com/stwalsh4118/citybuildings/internal/projection"
	"github.com/stwalsh4118/citybuildings/internal/repository"
)

// Stats summarizes one pipeline run.
type Stats struct {
	ExistingRead       int
	ExistingKept       int
	NewRead            int
	Merged             int
	ClassificationGaps int
	Upperfloor         int
	Groundfloor        int
	LandUse            map[string]int
}

// Result is the enriched collection and its output views.
type Result struct {
	Records []models.BuildingRecord
	Views   Views
	Stats   Stats
}

// PipelineService defines the interface for the building enrichment pipeline.
type PipelineService interface {
	// Run reads both sources, then filters, merges, enriches and splits them.
	// Any failure aborts the run and no partial result is returned.
	Run(ctx context.Context) (*Result, error)
}

// pipelineService is the concrete implementation of PipelineService.
type pipelineService struct {
	repo       repository.BuildingRepository
	sourceEPSG int
	workers    int
	log        *logger.Logger
}

// NewPipelineService creates a new instance of PipelineService.
// sourceEPSG is the projection of the existing-buildings source.
func NewPipelineService(repo repository.BuildingRepository, sourceEPSG, workers int, log *logger.Logger) PipelineService {
	return &pipelineService{
		repo:       repo,
		sourceEPSG: sourceEPSG,
		workers:    workers,
		log:        log,
	}
}

// Run executes the stages in order: read, filter, merge, enrich, drop raw
// columns, split.
func (s *pipelineService) Run(ctx context.Context) (*Result, error) {
	toWGS84, err := projection.ToWGS84(s.sourceEPSG)
	if err != nil {
		return nil, apperrors.Config(fmt.Errorf("failed to resolve source projection: %w", err))
	}

	existing, err := s.repo.FindExisting(ctx)
	if err != nil {
		s.log.Error("Failed to read existing buildings", err, nil)
		return nil, fmt.Errorf("failed to read existing buildings: %w", err)
	}
	proposed, err := s.repo.FindNew(ctx)
	if err != nil {
		s.log.Error("Failed to read new buildings", err, nil)
		return nil, fmt.Errorf("failed to read new buildings: %w", err)
	}

	stats := Stats{
		ExistingRead: len(existing),
		NewRead:      len(proposed),
	}
	s.log.Info("Sources read", map[string]interface{}{
		"existing": stats.ExistingRead,
		"new":      stats.NewRead,
	})

	kept := FilterExisting(existing)
	stats.ExistingKept = len(kept)
	s.log.Info("Existing buildings filtered", map[string]interface{}{
		"kept":    stats.ExistingKept,
		"dropped": stats.ExistingRead - stats.ExistingKept,
	})

	merged, err := Merge(kept, proposed, toWGS84)
	if err != nil {
		s.log.Error("Failed to merge sources", err, nil)
		return nil, fmt.Errorf("failed to merge sources: %w", err)
	}
	stats.Merged = len(merged)

	if err := Enrich(ctx, merged, s.workers); err != nil {
		return nil, fmt.Errorf("failed to enrich buildings: %w", err)
	}
	DropRawColumns(merged)

	stats.LandUse = make(map[string]int)
	for _, rec := range merged {
		stats.LandUse[rec.LandUseDetailedType]++
		if rec.IsExisting && landuse.IsFallback(rec.LandUseDetailedType) {
			stats.ClassificationGaps++
		}
	}
	if stats.ClassificationGaps > 0 {
		s.log.Debug("Use codes without land-use category", map[string]interface{}{
			"count": stats.ClassificationGaps,
		})
	}

	views := Split(merged)
	stats.Upperfloor = len(views.Upperfloor)
	stats.Groundfloor = len(views.Groundfloor)

	s.log.Info("Buildings enriched", map[string]interface{}{
		"merged":      stats.Merged,
		"upperfloor":  stats.Upperfloor,
		"groundfloor": stats.Groundfloor,
	})

	return &Result{
		Records: merged,
		Views:   views,
		Stats:   stats,
	}, nil
}
