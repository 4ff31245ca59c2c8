package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"github.com/stwalsh4118/citybuildings/internal/config"
	apperrors "github.com/stwalsh4118/citybuildings/internal/errors"
	"github.com/stwalsh4118/citybuildings/internal/export"
	"github.com/stwalsh4118/citybuildings/internal/logger"
	"github.com/stwalsh4118/citybuildings/internal/models"
	"github.com/stwalsh4118/citybuildings/internal/preview"
	"github.com/stwalsh4118/citybuildings/internal/repository"
	"github.com/stwalsh4118/citybuildings/internal/services"
)

const (
	version = "0.1.0"

	// areaPrecision is the geohash length logged for the run's extent (~1.2km cells).
	areaPrecision = 6
)

func main() {
	// Load configuration from .env and environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", apperrors.Config(err))
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.App.Env).WithRunID(uuid.NewString())
	log.Info("Starting citybuildings", map[string]interface{}{
		"version":     version,
		"environment": cfg.App.Env,
		"work_dir":    cfg.App.WorkDir,
	})

	// Stop between stages on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("Run failed", err, map[string]interface{}{
			"code": apperrors.CodeOf(err),
		})
		os.Exit(1)
	}

	log.Info("Run finished", nil)
}

// run reads both sources, writes the two layers and, when enabled, the
// land-use preview. Nothing is written unless the whole pipeline succeeds.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	writer, err := export.NewGeoJSONWriter(log.WithStage("export"))
	if err != nil {
		return fmt.Errorf("failed to prepare writer: %w", err)
	}

	// Initialize repository and service layers
	repo := repository.NewShapefileRepository(cfg.ExistingPath(), cfg.NewPath(), cfg.Sources.SourceEPSG)
	pipeline := services.NewPipelineService(repo, cfg.Sources.SourceEPSG, cfg.Pipeline.Workers, log.WithStage("pipeline"))

	log.Info("Reading sources", map[string]interface{}{
		"existing":    cfg.ExistingPath(),
		"new":         cfg.NewPath(),
		"source_epsg": cfg.Sources.SourceEPSG,
	})

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	if err := writer.Write(ctx,
		export.UpperfloorLayer(cfg.UpperfloorPath(), result.Views.Upperfloor),
		export.GroundfloorLayer(cfg.GroundfloorPath(), result.Views.Groundfloor),
	); err != nil {
		return err
	}

	log.Info("Layers written", map[string]interface{}{
		"upperfloor":          cfg.UpperfloorPath(),
		"upperfloor_count":    result.Stats.Upperfloor,
		"groundfloor":         cfg.GroundfloorPath(),
		"groundfloor_count":   result.Stats.Groundfloor,
		"classification_gaps": result.Stats.ClassificationGaps,
		"area":                areaHash(result.Records),
	})

	if cfg.Preview.Enabled {
		// The layers are already committed, a failed preview only warns.
		r := preview.NewRenderer(cfg.Preview.Width, cfg.Preview.Height)
		if err := r.WriteFile(cfg.PreviewPath(), result.Records); err != nil {
			log.Warn("Failed to render preview", map[string]interface{}{
				"path":  cfg.PreviewPath(),
				"error": err.Error(),
			})
		} else {
			log.Info("Preview rendered", map[string]interface{}{
				"path": cfg.PreviewPath(),
			})
		}
	}

	return nil
}

// areaHash returns the geohash of the centre of all footprints, or "" when
// there are none.
func areaHash(records []models.BuildingRecord) string {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, rec := range records {
		b := rec.Geometry.Bounds()
		if b == nil {
			continue
		}
		minX, minY = math.Min(minX, b.Min(0)), math.Min(minY, b.Min(1))
		maxX, maxY = math.Max(maxX, b.Max(0)), math.Max(maxY, b.Max(1))
	}
	if minX > maxX || minY > maxY {
		return ""
	}
	return geohash.EncodeWithPrecision((minY+maxY)/2, (minX+maxX)/2, areaPrecision)
}
