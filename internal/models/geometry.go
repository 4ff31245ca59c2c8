package models

import (
	"encoding/json"
	"fmt"

	"github.com/stwalsh4118/citybuildings/internal/projection"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Geometry kinds accepted as building footprints.
const (
	KindPolygon      = "Polygon"
	KindMultiPolygon = "MultiPolygon"
)

// Footprint is a building outline in a known coordinate reference system.
// Coordinates are stored as go-geom flat coordinates, [x, y] per vertex.
type Footprint struct {
	Geom geom.T
	EPSG int
}

// NewPolygonFootprint builds a footprint from GeoJSON-ordered rings.
// The first ring is the shell, any further rings are holes.
func NewPolygonFootprint(rings [][][2]float64, epsg int) Footprint {
	flat, ends := flattenRings(rings, 0)
	return Footprint{
		Geom: geom.NewPolygonFlat(geom.XY, flat, ends),
		EPSG: epsg,
	}
}

// NewMultiPolygonFootprint builds a footprint from several polygons.
// A single polygon is stored as a Polygon rather than a one-member MultiPolygon.
func NewMultiPolygonFootprint(polygons [][][][2]float64, epsg int) Footprint {
	if len(polygons) == 1 {
		return NewPolygonFootprint(polygons[0], epsg)
	}

	var flat []float64
	endss := make([][]int, 0, len(polygons))
	for _, rings := range polygons {
		f, ends := flattenRings(rings, len(flat))
		flat = append(flat, f...)
		endss = append(endss, ends)
	}
	return Footprint{
		Geom: geom.NewMultiPolygonFlat(geom.XY, flat, endss),
		EPSG: epsg,
	}
}

func flattenRings(rings [][][2]float64, offset int) ([]float64, []int) {
	var flat []float64
	ends := make([]int, 0, len(rings))
	for _, ring := range rings {
		for _, p := range ring {
			flat = append(flat, p[0], p[1])
		}
		ends = append(ends, offset+len(flat))
	}
	return flat, ends
}

// Kind returns the geometry type name, or "" for an empty footprint.
func (f Footprint) Kind() string {
	switch f.Geom.(type) {
	case *geom.Polygon:
		return KindPolygon
	case *geom.MultiPolygon:
		return KindMultiPolygon
	case *geom.Point:
		return "Point"
	case *geom.MultiPoint:
		return "MultiPoint"
	case *geom.LineString:
		return "LineString"
	case *geom.MultiLineString:
		return "MultiLineString"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%T", f.Geom)
	}
}

// IsPolygonal reports whether the footprint is a Polygon or MultiPolygon.
func (f Footprint) IsPolygonal() bool {
	k := f.Kind()
	return k == KindPolygon || k == KindMultiPolygon
}

// Reproject returns a copy of the footprint with every vertex passed
// through fn, tagged with the target EPSG code.
func (f Footprint) Reproject(fn projection.Func, epsg int) (Footprint, error) {
	if f.Geom == nil {
		return Footprint{EPSG: epsg}, nil
	}

	src := f.Geom.FlatCoords()
	stride := f.Geom.Stride()
	dst := make([]float64, len(src))
	copy(dst, src)
	for i := 0; i+1 < len(dst); i += stride {
		dst[i], dst[i+1] = fn(dst[i], dst[i+1])
	}

	switch g := f.Geom.(type) {
	case *geom.Polygon:
		return Footprint{Geom: geom.NewPolygonFlat(g.Layout(), dst, g.Ends()), EPSG: epsg}, nil
	case *geom.MultiPolygon:
		return Footprint{Geom: geom.NewMultiPolygonFlat(g.Layout(), dst, g.Endss()), EPSG: epsg}, nil
	default:
		return Footprint{}, fmt.Errorf("cannot reproject %s geometry", f.Kind())
	}
}

// Bounds returns the footprint's bounding box, or nil when empty.
func (f Footprint) Bounds() *geom.Bounds {
	if f.Geom == nil {
		return nil
	}
	return f.Geom.Bounds()
}

// MarshalJSON encodes the footprint as a GeoJSON geometry object.
func (f Footprint) MarshalJSON() ([]byte, error) {
	if f.Geom == nil {
		return []byte("null"), nil
	}
	data, err := geojson.Marshal(f.Geom)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal footprint to GeoJSON: %w", err)
	}
	return data, nil
}

// UnmarshalJSON parses a GeoJSON Polygon or MultiPolygon.
// The coordinates are assumed to be WGS84, as GeoJSON requires.
func (f *Footprint) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Footprint{}
		return nil
	}

	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("failed to unmarshal footprint: %w", err)
	}

	fp := Footprint{Geom: g, EPSG: projection.WGS84}
	if !fp.IsPolygonal() {
		return fmt.Errorf("expected Polygon or MultiPolygon, got %s", fp.Kind())
	}

	*f = fp
	return nil
}

var _ json.Marshaler = Footprint{}
