package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneForEPSG(t *testing.T) {
	tests := []struct {
		name    string
		epsg    int
		want    UTM
		wantErr bool
	}{
		{name: "ETRS89 UTM 32N", epsg: 25832, want: UTM{Zone: 32}},
		{name: "ETRS89 UTM 33N", epsg: 25833, want: UTM{Zone: 33}},
		{name: "WGS84 UTM 32N", epsg: 32632, want: UTM{Zone: 32}},
		{name: "WGS84 UTM 33S", epsg: 32733, want: UTM{Zone: 33, South: true}},
		{name: "Gauss-Krueger not supported", epsg: 31467, wantErr: true},
		{name: "geographic is not a zone", epsg: 4326, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ZoneForEPSG(tt.epsg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedCRS)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToWGS84_Identity(t *testing.T) {
	fn, err := ToWGS84(WGS84)
	require.NoError(t, err)

	lon, lat := fn(9.99, 53.55)
	assert.Equal(t, 9.99, lon)
	assert.Equal(t, 53.55, lat)
}

func TestInverse_CentralMeridian(t *testing.T) {
	zone := UTM{Zone: 32}

	lon, lat := zone.Inverse(500000, 0)
	assert.InDelta(t, 9.0, lon, 1e-12)
	assert.InDelta(t, 0.0, lat, 1e-12)

	// Northing of 45°N on the central meridian is k0 times the meridian arc.
	lon, lat = zone.Inverse(500000, 4982950.400)
	assert.InDelta(t, 9.0, lon, 1e-12)
	assert.InDelta(t, 45.0, lat, 1e-6)
}

func TestInverse_SouthernHemisphere(t *testing.T) {
	zone := UTM{Zone: 33, South: true}

	lon, lat := zone.Inverse(500000, 10000000)
	assert.InDelta(t, 15.0, lon, 1e-12)
	assert.InDelta(t, 0.0, lat, 1e-12)
}

func TestRoundTrip(t *testing.T) {
	zone := UTM{Zone: 32}
	points := [][2]float64{
		{9.9937, 53.5503},
		{10.02, 53.53},
		{6.5, 47.2},
		{11.9, 54.9},
	}

	for _, p := range points {
		e, n := zone.Forward(p[0], p[1])
		lon, lat := zone.Inverse(e, n)
		assert.InDelta(t, p[0], lon, 1e-8)
		assert.InDelta(t, p[1], lat, 1e-8)
	}
}

func TestForward_HamburgIsInsideZone32(t *testing.T) {
	e, n := UTM{Zone: 32}.Forward(9.9937, 53.5503)

	assert.Greater(t, e, 560000.0)
	assert.Less(t, e, 570000.0)
	assert.Greater(t, n, 5930000.0)
	assert.Less(t, n, 5940000.0)
}
