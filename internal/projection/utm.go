// Package projection converts planar source coordinates to WGS84
// longitude/latitude (EPSG:4326).
//
// Only the Universal Transverse Mercator family is supported: ETRS89/UTM
// (EPSG:25828-25838) and WGS84/UTM (EPSG:32601-32660, 32701-32760). The
// transverse Mercator series follows Krüger to third order in n, which is
// accurate to well below a millimetre inside a UTM zone.
package projection

import (
	"errors"
	"fmt"
	"math"
)

// WGS84 is the EPSG code of geographic longitude/latitude on WGS84.
const WGS84 = 4326

const (
	semiMajorAxis  = 6378137.0
	flattening     = 1 / 298.257222101 // GRS80, identical to WGS84 at this precision
	scaleFactor    = 0.9996
	falseEasting   = 500000.0
	falseNorthingS = 10000000.0
)

// ErrUnsupportedCRS is returned for EPSG codes without a known transform.
var ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")

// Func converts a planar coordinate pair to longitude and latitude in degrees.
type Func func(x, y float64) (lon, lat float64)

// UTM describes one transverse Mercator zone.
type UTM struct {
	Zone  int
	South bool
}

// ZoneForEPSG resolves the UTM zone behind an EPSG code.
func ZoneForEPSG(epsg int) (UTM, error) {
	switch {
	case epsg >= 25828 && epsg <= 25838:
		return UTM{Zone: epsg - 25800}, nil
	case epsg >= 32601 && epsg <= 32660:
		return UTM{Zone: epsg - 32600}, nil
	case epsg >= 32701 && epsg <= 32760:
		return UTM{Zone: epsg - 32700, South: true}, nil
	default:
		return UTM{}, fmt.Errorf("%w: EPSG:%d", ErrUnsupportedCRS, epsg)
	}
}

// ToWGS84 returns the transform from the given EPSG code to EPSG:4326.
// EPSG:4326 itself maps to the identity.
func ToWGS84(epsg int) (Func, error) {
	if epsg == WGS84 {
		return func(x, y float64) (float64, float64) { return x, y }, nil
	}
	zone, err := ZoneForEPSG(epsg)
	if err != nil {
		return nil, err
	}
	return zone.Inverse, nil
}

// series holds the Krüger coefficients derived from the third flattening.
type series struct {
	n     float64
	a     float64 // rectifying radius
	alpha [3]float64
	beta  [3]float64
	delta [3]float64
}

var krueger = newSeries(flattening)

func newSeries(f float64) series {
	n := f / (2 - f)
	n2, n3 := n*n, n*n*n
	return series{
		n: n,
		a: semiMajorAxis / (1 + n) * (1 + n2/4 + n2*n2/64),
		alpha: [3]float64{
			n/2 - 2*n2/3 + 5*n3/16,
			13*n2/48 - 3*n3/5,
			61 * n3 / 240,
		},
		beta: [3]float64{
			n/2 - 2*n2/3 + 37*n3/96,
			n2/48 + n3/15,
			17 * n3 / 480,
		},
		delta: [3]float64{
			2*n - 2*n2/3 - 2*n3,
			7*n2/3 - 8*n3/5,
			56 * n3 / 15,
		},
	}
}

// CentralMeridian returns the zone's central meridian in degrees.
func (u UTM) CentralMeridian() float64 {
	return float64(u.Zone*6 - 183)
}

func (u UTM) falseNorthing() float64 {
	if u.South {
		return falseNorthingS
	}
	return 0
}

// Inverse converts easting/northing in metres to longitude/latitude.
func (u UTM) Inverse(easting, northing float64) (lon, lat float64) {
	s := krueger
	xi := (northing - u.falseNorthing()) / (scaleFactor * s.a)
	eta := (easting - falseEasting) / (scaleFactor * s.a)

	xiP, etaP := xi, eta
	for j, b := range s.beta {
		k := float64(2 * (j + 1))
		xiP -= b * math.Sin(k*xi) * math.Cosh(k*eta)
		etaP -= b * math.Cos(k*xi) * math.Sinh(k*eta)
	}

	chi := math.Asin(math.Sin(xiP) / math.Cosh(etaP))
	phi := chi
	for j, d := range s.delta {
		phi += d * math.Sin(float64(2*(j+1))*chi)
	}
	lambda := math.Atan2(math.Sinh(etaP), math.Cos(xiP))

	return u.CentralMeridian() + degrees(lambda), degrees(phi)
}

// Forward converts longitude/latitude to easting/northing in metres.
func (u UTM) Forward(lon, lat float64) (easting, northing float64) {
	s := krueger
	phi := radians(lat)
	lambda := radians(lon - u.CentralMeridian())

	c := 2 * math.Sqrt(s.n) / (1 + s.n)
	t := math.Sinh(math.Atanh(math.Sin(phi)) - c*math.Atanh(c*math.Sin(phi)))
	xiP := math.Atan2(t, math.Cos(lambda))
	etaP := math.Atanh(math.Sin(lambda) / math.Sqrt(1+t*t))

	xi, eta := xiP, etaP
	for j, a := range s.alpha {
		k := float64(2 * (j + 1))
		xi += a * math.Sin(k*xiP) * math.Cosh(k*etaP)
		eta += a * math.Cos(k*xiP) * math.Sinh(k*etaP)
	}

	return falseEasting + scaleFactor*s.a*eta, u.falseNorthing() + scaleFactor*s.a*xi
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func radians(deg float64) float64 { return deg * math.Pi / 180 }
