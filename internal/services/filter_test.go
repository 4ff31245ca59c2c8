package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/citybuildings/internal/models"
)

func TestFilterExisting(t *testing.T) {
	under := existingRecord("U", models.Building, 1011, 2, 50)
	under.UnderFloorRawCount = intPtr(1)
	noCode := existingRecord("N", models.Building, 0, 2, 50)
	noCode.RawUseCode = nil

	records := []models.BuildingRecord{
		existingRecord("A", models.Building, 1011, 3, 120.5),
		existingRecord("B", models.Building, 0, 2, 80),
		existingRecord("P", models.OtherStructure, 2463, 1, 12),
		existingRecord("P0", models.OtherStructure, 0, 1, 12),
		noCode,
		under,
	}

	kept := FilterExisting(records)

	require.Len(t, kept, 2)
	assert.Equal(t, "A", *kept[0].SourceID)
	assert.Equal(t, "U", *kept[1].SourceID)
	assert.Nil(t, kept[1].UnderFloorRawCount, "AUG is not part of the projected columns")
	assert.NotNil(t, records[5].UnderFloorRawCount, "input must not be modified")
}

func TestFilterExisting_NeverKeepsOtherStructures(t *testing.T) {
	for _, code := range []int{1, 1011, 2100, 3000, 9999} {
		kept := FilterExisting([]models.BuildingRecord{
			existingRecord("P", models.OtherStructure, code, 2, 10),
		})
		assert.Empty(t, kept, "code %d", code)
	}
}

func TestDropRawColumns(t *testing.T) {
	rec := existingRecord("A", models.Building, 1011, 3, 120.5)
	rec.UnderFloorRawCount = intPtr(1)
	records := []models.BuildingRecord{rec}

	DropRawColumns(records)

	assert.Nil(t, records[0].RawUseCode)
	assert.Nil(t, records[0].GroundFloorAreaRaw)
	assert.Nil(t, records[0].UpperFloorRawCount)
	assert.Nil(t, records[0].UnderFloorRawCount)
	assert.Equal(t, "A", *records[0].SourceID)
}
