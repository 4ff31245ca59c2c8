package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Sources  SourcesConfig
	Output   OutputConfig
	Pipeline PipelineConfig
	Preview  PreviewConfig
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env     string `validate:"required,oneof=development production test"`
	WorkDir string `validate:"required"`
}

// SourcesConfig locates the two building shapefiles.
type SourcesConfig struct {
	Dir          string `validate:"required"`
	ExistingFile string `validate:"required"`
	NewFile      string `validate:"required,nefield=ExistingFile"`
	// SourceEPSG is the projection of the existing-buildings layer.
	SourceEPSG int `validate:"gt=0"`
}

// OutputConfig names the GeoJSON layers written to the working directory.
type OutputConfig struct {
	UpperfloorFile  string `validate:"required"`
	GroundfloorFile string `validate:"required,nefield=UpperfloorFile"`
}

// PipelineConfig tunes the enrichment stage.
type PipelineConfig struct {
	Workers int `validate:"gte=1,lte=64"`
}

// PreviewConfig controls the optional land-use rendering.
type PreviewConfig struct {
	Enabled bool
	File    string `validate:"required_if=Enabled true"`
	Width   int    `validate:"gte=64,lte=8192"`
	Height  int    `validate:"gte=64,lte=8192"`
}

// Load reads configuration from a .env file (when present) and environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	// A missing .env is normal; anything else is a broken file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	v := viper.New()

	// Set defaults matching the ALKIS export layout
	v.SetDefault("ENV", "development")
	v.SetDefault("WORK_DIR", cwd)
	v.SetDefault("SHP_DIR", "SHP")
	v.SetDefault("EXISTING_BUILDINGS_FILE", "buildings_existing_focus_area_01-03.shp")
	v.SetDefault("NEW_BUILDINGS_FILE", "buildings_4.shp")
	v.SetDefault("SOURCE_EPSG", 25832)
	v.SetDefault("UPPERFLOOR_FILE", "upperfloor.json")
	v.SetDefault("GROUNDFLOOR_FILE", "groundfloor.json")
	v.SetDefault("PIPELINE_WORKERS", 1)
	v.SetDefault("PREVIEW_ENABLED", false)
	v.SetDefault("PREVIEW_FILE", "landuse.png")
	v.SetDefault("PREVIEW_WIDTH", 1600)
	v.SetDefault("PREVIEW_HEIGHT", 1200)

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		App: AppConfig{
			Env:     v.GetString("ENV"),
			WorkDir: v.GetString("WORK_DIR"),
		},
		Sources: SourcesConfig{
			Dir:          v.GetString("SHP_DIR"),
			ExistingFile: v.GetString("EXISTING_BUILDINGS_FILE"),
			NewFile:      v.GetString("NEW_BUILDINGS_FILE"),
			SourceEPSG:   v.GetInt("SOURCE_EPSG"),
		},
		Output: OutputConfig{
			UpperfloorFile:  v.GetString("UPPERFLOOR_FILE"),
			GroundfloorFile: v.GetString("GROUNDFLOOR_FILE"),
		},
		Pipeline: PipelineConfig{
			Workers: v.GetInt("PIPELINE_WORKERS"),
		},
		Preview: PreviewConfig{
			Enabled: v.GetBool("PREVIEW_ENABLED"),
			File:    v.GetString("PREVIEW_FILE"),
			Width:   v.GetInt("PREVIEW_WIDTH"),
			Height:  v.GetInt("PREVIEW_HEIGHT"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

var validate = validator.New()

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ExistingPath returns the absolute path of the existing-buildings shapefile.
func (c *Config) ExistingPath() string {
	return c.resolve(filepath.Join(c.Sources.Dir, c.Sources.ExistingFile))
}

// NewPath returns the absolute path of the new-buildings shapefile.
func (c *Config) NewPath() string {
	return c.resolve(filepath.Join(c.Sources.Dir, c.Sources.NewFile))
}

// UpperfloorPath returns the output path of the upper-floor layer.
func (c *Config) UpperfloorPath() string {
	return c.resolve(c.Output.UpperfloorFile)
}

// GroundfloorPath returns the output path of the ground-floor layer.
func (c *Config) GroundfloorPath() string {
	return c.resolve(c.Output.GroundfloorFile)
}

// PreviewPath returns the output path of the land-use rendering.
func (c *Config) PreviewPath() string {
	return c.resolve(c.Preview.File)
}

// resolve anchors relative paths at the working directory.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.App.WorkDir, p)
}
