package overlay

import (
	"github.com/paulmach/orb"
)

// Bounds is an axis-aligned rectangle in the coordinate space of the data
// it was computed from (degrees for geographic input, meters after
// projection). Invariant: MinX <= MaxX and MinY <= MaxY.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// ErrEmptyBounds indicates a bounds computation over zero coordinates.
// A bounding box of nothing is undefined, not a silent zero rectangle.
type ErrEmptyBounds struct{}

func (e *ErrEmptyBounds) Error() string {
	return "no coordinates available for bounds"
}

// BoundsOf computes the coordinate-wise min/max over all points of all
// polylines. Fails with *ErrEmptyBounds when no point exists.
func BoundsOf(lines []orb.LineString) (Bounds, error) {
	first := true
	var b Bounds
	for _, line := range lines {
		for _, p := range line {
			if first {
				b = Bounds{MinX: p[0], MinY: p[1], MaxX: p[0], MaxY: p[1]}
				first = false
				continue
			}
			b = b.extend(p)
		}
	}
	if first {
		return Bounds{}, &ErrEmptyBounds{}
	}
	return b, nil
}

func (b Bounds) extend(p orb.Point) Bounds {
	if p[0] < b.MinX {
		b.MinX = p[0]
	}
	if p[0] > b.MaxX {
		b.MaxX = p[0]
	}
	if p[1] < b.MinY {
		b.MinY = p[1]
	}
	if p[1] > b.MaxY {
		b.MaxY = p[1]
	}
	return b
}

// Merge returns the smallest Bounds covering both operands. Commutative,
// associative, and idempotent.
func (b Bounds) Merge(o Bounds) Bounds {
	if o.MinX < b.MinX {
		b.MinX = o.MinX
	}
	if o.MinY < b.MinY {
		b.MinY = o.MinY
	}
	if o.MaxX > b.MaxX {
		b.MaxX = o.MaxX
	}
	if o.MaxY > b.MaxY {
		b.MaxY = o.MaxY
	}
	return b
}

// MergeBounds folds a list of Bounds into one. Fails with *ErrEmptyBounds
// on an empty list.
func MergeBounds(all []Bounds) (Bounds, error) {
	if len(all) == 0 {
		return Bounds{}, &ErrEmptyBounds{}
	}
	merged := all[0]
	for _, b := range all[1:] {
		merged = merged.Merge(b)
	}
	return merged, nil
}

// Pad expands the bounds symmetrically by margin on all four sides.
func (b Bounds) Pad(margin float64) Bounds {
	return Bounds{
		MinX: b.MinX - margin,
		MinY: b.MinY - margin,
		MaxX: b.MaxX + margin,
		MaxY: b.MaxY + margin,
	}
}

// Intersects reports whether two bounds share any area or edge.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}
