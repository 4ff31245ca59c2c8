package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	apperrors "github.com/stwalsh4118/citybuildings/internal/errors"
	"github.com/stwalsh4118/citybuildings/internal/models"
	"github.com/stwalsh4118/citybuildings/internal/projection"
	"github.com/twpayne/go-geom"
)

// ALKIS attribute columns read from the DBF tables.
const (
	ColumnID          = "id"
	ColumnDesignation = "BEZEICH"
	ColumnUseCode     = "GFK"
	ColumnUpperFloors = "AOG"
	ColumnUnderFloors = "AUG"
	ColumnFloorArea   = "GRF"
)

// requiredExistingColumns must be present in the existing-buildings table.
var requiredExistingColumns = []string{ColumnDesignation, ColumnUseCode, ColumnUpperFloors, ColumnFloorArea}

// contextCheckInterval is how many rows are read between cancellation checks.
const contextCheckInterval = 1024

// BuildingRepository defines the interface for reading the two building sources.
type BuildingRepository interface {
	// FindExisting reads the surveyed ALKIS buildings in their source projection.
	// Only the id, BEZEICH, GFK, AOG and GRF attributes are materialized.
	// Returns a SourceReadError if the file is missing, unreadable or lacks a
	// required column.
	FindExisting(ctx context.Context) ([]models.BuildingRecord, error)

	// FindNew reads the proposed buildings, assumed to be in EPSG:4326.
	// Cadastral attributes are read when the table happens to carry them.
	FindNew(ctx context.Context) ([]models.BuildingRecord, error)
}

// shapefileRepository is the concrete implementation of BuildingRepository.
type shapefileRepository struct {
	existingPath string
	newPath      string
	sourceEPSG   int
}

// NewShapefileRepository creates a BuildingRepository over two shapefiles.
// sourceEPSG is the projection of the existing-buildings file.
func NewShapefileRepository(existingPath, newPath string, sourceEPSG int) BuildingRepository {
	return &shapefileRepository{
		existingPath: existingPath,
		newPath:      newPath,
		sourceEPSG:   sourceEPSG,
	}
}

// FindExisting reads the existing-buildings shapefile.
func (r *shapefileRepository) FindExisting(ctx context.Context) ([]models.BuildingRecord, error) {
	return readShapefile(ctx, r.existingPath, r.sourceEPSG, requiredExistingColumns, func(row attributeRow, rec *models.BuildingRecord) error {
		rec.SourceCategory = models.ParseSourceCategory(row.str(ColumnDesignation))
		rec.IsExisting = true
		return row.cadastral(rec, false)
	})
}

// FindNew reads the new-buildings shapefile.
func (r *shapefileRepository) FindNew(ctx context.Context) ([]models.BuildingRecord, error) {
	return readShapefile(ctx, r.newPath, projection.WGS84, nil, func(row attributeRow, rec *models.BuildingRecord) error {
		rec.SourceCategory = models.Building
		rec.IsExisting = false
		return row.cadastral(rec, true)
	})
}

// rowMapper fills source-specific attributes of a record.
type rowMapper func(row attributeRow, rec *models.BuildingRecord) error

// readShapefile opens path, checks the required columns and maps every shape.
// The reader is closed on every return path.
func readShapefile(ctx context.Context, path string, epsg int, required []string, mapRow rowMapper) ([]models.BuildingRecord, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, apperrors.SourceRead(path, err)
	}
	defer reader.Close()

	columns := make(map[string]int)
	for i, f := range reader.Fields() {
		columns[f.String()] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, apperrors.MissingColumn(path, name)
		}
	}

	var records []models.BuildingRecord
	for reader.Next() {
		n, shape := reader.Shape()
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec := models.BuildingRecord{
			Geometry: models.Footprint{Geom: toGeom(shape), EPSG: epsg},
		}
		row := attributeRow{reader: reader, columns: columns, index: n}
		if id := row.str(ColumnID); id != "" {
			rec.SourceID = &id
		}
		if err := mapRow(row, &rec); err != nil {
			return nil, apperrors.SourceRead(path, fmt.Errorf("row %d: %w", n, err))
		}
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, apperrors.SourceRead(path, err)
	}

	return records, nil
}

// attributeRow reads DBF attributes of one shape by column name.
type attributeRow struct {
	reader  *shp.Reader
	columns map[string]int
	index   int
}

// str returns the trimmed attribute, or "" when the column is absent.
func (a attributeRow) str(column string) string {
	i, ok := a.columns[column]
	if !ok {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(a.reader.ReadAttribute(a.index, i)), "\x00")
}

// cadastral reads GFK, AOG and GRF, and AUG when includeUnder is set.
// Empty DBF numbers are read as absent values.
func (a attributeRow) cadastral(rec *models.BuildingRecord, includeUnder bool) error {
	var err error
	if rec.RawUseCode, err = a.intPtr(ColumnUseCode); err != nil {
		return err
	}
	if rec.UpperFloorRawCount, err = a.intPtr(ColumnUpperFloors); err != nil {
		return err
	}
	if includeUnder {
		if rec.UnderFloorRawCount, err = a.intPtr(ColumnUnderFloors); err != nil {
			return err
		}
	}
	if rec.GroundFloorAreaRaw, err = a.floatPtr(ColumnFloorArea); err != nil {
		return err
	}
	return nil
}

func (a attributeRow) intPtr(column string) (*int, error) {
	s := a.str(column)
	if s == "" || isDBFNull(s) {
		return nil, nil
	}
	// DBF numeric fields may carry decimals even for counts, e.g. "3.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: invalid number %q", column, s)
	}
	v := int(f)
	return &v, nil
}

func (a attributeRow) floatPtr(column string) (*float64, error) {
	s := a.str(column)
	if s == "" || isDBFNull(s) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: invalid number %q", column, s)
	}
	return &f, nil
}

// isDBFNull reports the asterisk fill some writers use for null numbers.
func isDBFNull(s string) bool {
	return strings.Trim(s, "*") == ""
}

// toGeom converts a shapefile shape to a go-geom geometry. Polygon parts are
// grouped into shells and holes by ring orientation; non-areal shapes are
// converted as-is so the merge can reject them.
func toGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Polygon:
		return polygonFromParts(s.Parts, s.Points)
	case *shp.PolygonZ:
		return polygonFromParts(s.Parts, s.Points)
	case *shp.PolygonM:
		return polygonFromParts(s.Parts, s.Points)
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y})
	case *shp.PolyLine:
		return lineFromParts(s.Parts, s.Points)
	case *shp.MultiPoint:
		flat := make([]float64, 0, 2*len(s.Points))
		for _, p := range s.Points {
			flat = append(flat, p.X, p.Y)
		}
		return geom.NewMultiPointFlat(geom.XY, flat)
	default:
		return nil
	}
}

// splitParts returns the point ranges of each shapefile part.
func splitParts(parts []int32, points []shp.Point) [][]shp.Point {
	rings := make([][]shp.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || int(end) > len(points) {
			continue
		}
		rings = append(rings, points[start:end])
	}
	return rings
}

// polygonFromParts groups rings into polygons. Shapefile shells run
// clockwise and holes counter-clockwise; a hole belongs to the preceding shell.
func polygonFromParts(parts []int32, points []shp.Point) geom.T {
	var polygons [][][][2]float64
	for _, ring := range splitParts(parts, points) {
		coords := make([][2]float64, len(ring))
		for i, p := range ring {
			coords[i] = [2]float64{p.X, p.Y}
		}
		if signedArea(coords) > 0 && len(polygons) > 0 {
			last := len(polygons) - 1
			polygons[last] = append(polygons[last], coords)
			continue
		}
		polygons = append(polygons, [][][2]float64{coords})
	}
	if len(polygons) == 0 {
		return nil
	}
	return models.NewMultiPolygonFootprint(polygons, 0).Geom
}

func lineFromParts(parts []int32, points []shp.Point) geom.T {
	var flat []float64
	var ends []int
	for _, ring := range splitParts(parts, points) {
		for _, p := range ring {
			flat = append(flat, p.X, p.Y)
		}
		ends = append(ends, len(flat))
	}
	return geom.NewMultiLineStringFlat(geom.XY, flat, ends)
}

// signedArea is positive for counter-clockwise rings.
func signedArea(ring [][2]float64) float64 {
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return sum / 2
}
