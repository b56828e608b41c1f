package overlay

import (
	"math"

	"github.com/paulmach/orb"
)

// TransverseMercator is a forward ellipsoidal transverse-Mercator
// projection with fixed parameters. Construct once (the meridional arc at
// the origin latitude, m0, is derived in the constructor and reused for
// every point) and treat as immutable process-wide configuration.
//
// Only the forward direction is implemented; the overlay pipeline never
// needs to go back from meters to degrees.
type TransverseMercator struct {
	a             float64 // ellipsoid semi-major axis (meters)
	e2            float64 // first eccentricity squared
	ep2           float64 // second eccentricity squared
	k0            float64 // central meridian scale factor
	lat0          float64 // origin latitude (radians)
	lon0          float64 // central meridian (radians)
	falseEasting  float64
	falseNorthing float64
	m0            float64 // meridional arc at lat0, precomputed
}

// NewTransverseMercator builds a projection from ellipsoid semi-major
// axis, flattening, origin in degrees, scale factor, and false origin.
func NewTransverseMercator(a, flattening, lat0Deg, lon0Deg, k0, falseEasting, falseNorthing float64) TransverseMercator {
	e2 := 2*flattening - flattening*flattening
	tm := TransverseMercator{
		a:             a,
		e2:            e2,
		ep2:           e2 / (1.0 - e2),
		k0:            k0,
		lat0:          lat0Deg * math.Pi / 180.0,
		lon0:          lon0Deg * math.Pi / 180.0,
		falseEasting:  falseEasting,
		falseNorthing: falseNorthing,
	}
	tm.m0 = tm.meridionalArc(tm.lat0)
	return tm
}

// KoreaUnified returns the Korea 2000 Unified Coordinate System projection
// (GRS80 ellipsoid, origin 38°N 127.5°E, k0 0.9996, false origin
// 1,000,000 / 2,000,000 m) used by every overlay asset.
func KoreaUnified() TransverseMercator {
	return NewTransverseMercator(
		6378137.0,           // GRS80 semi-major axis
		1.0/298.257222101,   // GRS80 flattening
		38.0, 127.5,         // origin latitude, central meridian
		0.9996,              // scale factor
		1000000.0, 2000000.0, // false easting, false northing
	)
}

// Forward projects geographic degrees to planar easting/northing meters.
func (tm TransverseMercator) Forward(lonDeg, latDeg float64) (x, y float64) {
	phi := latDeg * math.Pi / 180.0
	lam := lonDeg * math.Pi / 180.0

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := tm.a / math.Sqrt(1.0-tm.e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := tm.ep2 * cosPhi * cosPhi
	aTerm := cosPhi * (lam - tm.lon0)
	m := tm.meridionalArc(phi)

	a2 := aTerm * aTerm
	a3 := a2 * aTerm
	a4 := a3 * aTerm
	a5 := a4 * aTerm
	a6 := a5 * aTerm

	x = tm.falseEasting + tm.k0*n*(
		aTerm+
			(1-t+c)*a3/6+
			(5-18*t+t*t+72*c-58*tm.ep2)*a5/120)
	y = tm.falseNorthing + tm.k0*(
		m-tm.m0+
			n*tanPhi*(
				a2/2+
					(5-t+9*c+4*c*c)*a4/24+
					(61-58*t+t*t+600*c-330*tm.ep2)*a6/720))
	return x, y
}

// ProjectLine projects every point of a geographic polyline.
func (tm TransverseMercator) ProjectLine(line orb.LineString) orb.LineString {
	out := make(orb.LineString, len(line))
	for i, p := range line {
		x, y := tm.Forward(p[0], p[1])
		out[i] = orb.Point{x, y}
	}
	return out
}

// meridionalArc evaluates the meridional arc length M(phi) with the
// standard four-term series in e².
func (tm TransverseMercator) meridionalArc(phi float64) float64 {
	e2 := tm.e2
	e4 := e2 * e2
	e6 := e4 * e2
	return tm.a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}
