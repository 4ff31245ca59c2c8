// Package export writes the enriched building views as GeoJSON layers.
package export

import (
	"github.com/stwalsh4118/citybuildings/internal/models"
)

// crs84 is the named CRS member GDAL writes for EPSG:4326 layers.
var crs84 = namedCRS{
	Type: "name",
	Properties: map[string]string{
		"name": "urn:ogc:def:crs:OGC:1.3:CRS84",
	},
}

type namedCRS struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// featureCollection is a GeoJSON FeatureCollection with a layer name.
type featureCollection struct {
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	CRS      namedCRS  `json:"crs"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string           `json:"type"`
	Properties interface{}      `json:"properties"`
	Geometry   models.Footprint `json:"geometry"`
}

// upperfloorProperties are the attributes of an upper-floor feature.
type upperfloorProperties struct {
	ID                  int      `json:"id"`
	IsExisting          bool     `json:"is_existing"`
	UpperFloorCount     *int     `json:"upper_floor_count"`
	BuildingHeight      *float64 `json:"building_height"`
	AreaPlanningType    string   `json:"area_planning_type"`
	FloorArea           *float64 `json:"floor_area"`
	RowID               int      `json:"row_id"`
	CityScopeID         string   `json:"city_scope_id"`
	LandUseDetailedType string   `json:"land_use_detailed_type"`
}

// groundfloorProperties are the upper-floor attributes minus building height.
type groundfloorProperties struct {
	ID                  int      `json:"id"`
	IsExisting          bool     `json:"is_existing"`
	UpperFloorCount     *int     `json:"upper_floor_count"`
	AreaPlanningType    string   `json:"area_planning_type"`
	FloorArea           *float64 `json:"floor_area"`
	RowID               int      `json:"row_id"`
	CityScopeID         string   `json:"city_scope_id"`
	LandUseDetailedType string   `json:"land_use_detailed_type"`
}

// The published id is the row id, not the source id.
func newUpperfloorProperties(rec models.BuildingRecord) upperfloorProperties {
	return upperfloorProperties{
		ID:                  rec.RowID,
		IsExisting:          rec.IsExisting,
		UpperFloorCount:     rec.UpperFloorCount,
		BuildingHeight:      rec.BuildingHeight,
		AreaPlanningType:    rec.AreaPlanningType,
		FloorArea:           rec.FloorArea,
		RowID:               rec.RowID,
		CityScopeID:         rec.CityScopeID,
		LandUseDetailedType: rec.LandUseDetailedType,
	}
}

func newGroundfloorProperties(rec models.BuildingRecord) groundfloorProperties {
	return groundfloorProperties{
		ID:                  rec.RowID,
		IsExisting:          rec.IsExisting,
		UpperFloorCount:     rec.UpperFloorCount,
		AreaPlanningType:    rec.AreaPlanningType,
		FloorArea:           rec.FloorArea,
		RowID:               rec.RowID,
		CityScopeID:         rec.CityScopeID,
		LandUseDetailedType: rec.LandUseDetailedType,
	}
}

// Layer is one GeoJSON output file.
type Layer struct {
	Name    string
	Path    string
	Records []models.BuildingRecord
	schema  string
	props   func(models.BuildingRecord) interface{}
}

// UpperfloorLayer builds the upper-floor layer written to path.
func UpperfloorLayer(path string, records []models.BuildingRecord) Layer {
	return Layer{
		Name:    "upperfloor",
		Path:    path,
		Records: records,
		schema:  upperfloorSchema,
		props:   func(rec models.BuildingRecord) interface{} { return newUpperfloorProperties(rec) },
	}
}

// GroundfloorLayer builds the ground-floor layer written to path.
func GroundfloorLayer(path string, records []models.BuildingRecord) Layer {
	return Layer{
		Name:    "groundfloor",
		Path:    path,
		Records: records,
		schema:  groundfloorSchema,
		props:   func(rec models.BuildingRecord) interface{} { return newGroundfloorProperties(rec) },
	}
}

func (l Layer) collection() featureCollection {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Name:     l.Name,
		CRS:      crs84,
		Features: make([]feature, 0, len(l.Records)),
	}
	for _, rec := range l.Records {
		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			Properties: l.props(rec),
			Geometry:   rec.Geometry,
		})
	}
	return fc
}
