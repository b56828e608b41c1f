package overlay

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestKoreaUnifiedOrigin(t *testing.T) {
	// The projection origin must land exactly on the false origin.
	tm := KoreaUnified()
	x, y := tm.Forward(127.5, 38.0)
	if math.Abs(x-1000000.0) > 1e-6 {
		t.Errorf("origin easting %.9f, want 1000000", x)
	}
	if math.Abs(y-2000000.0) > 1e-6 {
		t.Errorf("origin northing %.9f, want 2000000", y)
	}
}

func TestKoreaUnifiedMeridianSymmetry(t *testing.T) {
	// Points mirrored across the central meridian project to eastings
	// mirrored across the false easting, at identical northings.
	tm := KoreaUnified()
	for _, d := range []float64{0.1, 0.5, 1.5} {
		xe, ye := tm.Forward(127.5+d, 36.0)
		xw, yw := tm.Forward(127.5-d, 36.0)
		if math.Abs((xe-1000000.0)+(xw-1000000.0)) > 1e-6 {
			t.Errorf("delta %v: eastings %v / %v not symmetric", d, xe, xw)
		}
		if math.Abs(ye-yw) > 1e-6 {
			t.Errorf("delta %v: northings %v / %v differ", d, ye, yw)
		}
	}
}

func TestKoreaUnifiedMonotonic(t *testing.T) {
	tm := KoreaUnified()

	// Northing grows with latitude along the central meridian.
	_, y1 := tm.Forward(127.5, 33.0)
	_, y2 := tm.Forward(127.5, 38.5)
	if y2 <= y1 {
		t.Errorf("northing not increasing with latitude: %v <= %v", y2, y1)
	}

	// Easting grows with longitude at fixed latitude.
	x1, _ := tm.Forward(126.0, 36.0)
	x2, _ := tm.Forward(129.0, 36.0)
	if x2 <= x1 {
		t.Errorf("easting not increasing with longitude: %v <= %v", x2, x1)
	}
}

func TestKoreaUnifiedScale(t *testing.T) {
	// One degree of latitude along the central meridian is close to
	// 111 km of northing (k0-scaled meridional arc). Loose check that
	// the series has the right magnitude and sign.
	tm := KoreaUnified()
	_, y1 := tm.Forward(127.5, 36.0)
	_, y2 := tm.Forward(127.5, 37.0)
	d := y2 - y1
	if d < 108000 || d > 114000 {
		t.Errorf("1 degree of latitude spans %.0f m, expected ~111 km", d)
	}
}

func TestProjectLine(t *testing.T) {
	tm := KoreaUnified()
	line := orb.LineString{{126.5, 33.3}, {126.6, 33.4}}
	got := tm.ProjectLine(line)
	if len(got) != len(line) {
		t.Fatalf("got %d points, want %d", len(got), len(line))
	}
	for i, p := range line {
		x, y := tm.Forward(p[0], p[1])
		if got[i][0] != x || got[i][1] != y {
			t.Errorf("point %d: got %v, want (%v, %v)", i, got[i], x, y)
		}
	}
	// Jeju coordinates must land south-west of the false origin.
	if got[0][0] >= 1000000 || got[0][1] >= 2000000 {
		t.Errorf("Jeju point %v should be south-west of the false origin", got[0])
	}
}
