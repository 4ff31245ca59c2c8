package models

// SourceCategory distinguishes full buildings from structural parts in the
// ALKIS BEZEICH attribute.
type SourceCategory int

const (
	// OtherStructure covers AX_Bauteil and any unrecognized designation.
	OtherStructure SourceCategory = iota
	Building
)

// ALKIS designations for the BEZEICH attribute.
const (
	DesignationBuilding     = "AX_Gebaeude"
	DesignationBuildingPart = "AX_Bauteil"
)

// ParseSourceCategory maps a BEZEICH value to a SourceCategory.
func ParseSourceCategory(designation string) SourceCategory {
	if designation == DesignationBuilding {
		return Building
	}
	return OtherStructure
}

// String returns the category name.
func (c SourceCategory) String() string {
	if c == Building {
		return "Building"
	}
	return "OtherStructure"
}

// AreaPlanningTypeBuilding is the planning type given to every footprint.
const AreaPlanningTypeBuilding = "building"

// BuildingRecord is one footprint flowing through a single pipeline run.
// Cadastral fields are nil for records from the new-buildings source.
// Derived fields are zero until enrichment.
type BuildingRecord struct {
	Geometry       Footprint
	SourceCategory SourceCategory
	SourceID       *string

	// Raw ALKIS attributes: GFK, AOG, AUG and GRF.
	RawUseCode         *int
	UpperFloorRawCount *int
	UnderFloorRawCount *int
	GroundFloorAreaRaw *float64

	IsExisting bool

	UpperFloorCount     *int
	BuildingHeight      *float64
	AreaPlanningType    string
	FloorArea           *float64
	RowID               int
	CityScopeID         string
	LandUseDetailedType string
}

// HasCadastralAttributes reports whether the record carries ALKIS story and
// use information.
func (r *BuildingRecord) HasCadastralAttributes() bool {
	return r.RawUseCode != nil && r.UpperFloorRawCount != nil
}

// UseCode returns the raw use code, treating an absent code as 0.
func (r *BuildingRecord) UseCode() int {
	if r.RawUseCode == nil {
		return 0
	}
	return *r.RawUseCode
}
