package overlay

import (
	"math"

	"github.com/paulmach/orb"
)

// Simplify reduces a polyline by maximum perpendicular deviation: interior
// points whose distance to the line between their kept neighbours stays
// within tolerance are dropped. Endpoints are always kept, output order
// matches input order, and the result is a subsequence of the input (no
// synthesized points). Inputs with two or fewer points return unchanged.
//
// The candidate ranges are processed through an explicit work list rather
// than recursion, so stack depth stays flat regardless of input density.
func Simplify(line orb.LineString, tolerance float64) orb.LineString {
	if len(line) <= 2 {
		return line
	}

	tolSq := tolerance * tolerance
	keep := make([]bool, len(line))
	keep[0] = true
	keep[len(line)-1] = true

	type span struct{ i, j int }
	work := []span{{0, len(line) - 1}}

	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]

		a, b := line[s.i], line[s.j]
		maxDistSq := -1.0
		maxIdx := -1
		for k := s.i + 1; k < s.j; k++ {
			distSq := distSqPointToSegment(line[k], a, b)
			if distSq > maxDistSq {
				maxDistSq = distSq
				maxIdx = k
			}
		}
		if maxDistSq > tolSq && maxIdx != -1 {
			keep[maxIdx] = true
			work = append(work, span{s.i, maxIdx}, span{maxIdx, s.j})
		}
	}

	out := make(orb.LineString, 0, len(line))
	for idx, p := range line {
		if keep[idx] {
			out = append(out, p)
		}
	}
	return out
}

// SimplifyFast reduces a polyline by minimum spacing with a hard point
// budget: interior points closer than minSpacing to the last kept point
// are dropped, and if the result still exceeds maxPoints the interior is
// uniformly stride-sampled. First and last points are always kept and the
// output is a subsequence of the input. Trades exactness for throughput on
// very dense inputs.
func SimplifyFast(line orb.LineString, minSpacing float64, maxPoints int) orb.LineString {
	if len(line) <= 2 {
		return line
	}
	if maxPoints < 3 {
		// A cap that cannot hold any interior point leaves the endpoints.
		return orb.LineString{line[0], line[len(line)-1]}
	}

	spacingSq := minSpacing * minSpacing

	kept := make(orb.LineString, 0, len(line))
	kept = append(kept, line[0])
	last := line[0]
	for _, p := range line[1 : len(line)-1] {
		dx := p[0] - last[0]
		dy := p[1] - last[1]
		if dx*dx+dy*dy >= spacingSq {
			kept = append(kept, p)
			last = p
		}
	}
	if kept[len(kept)-1] != line[len(line)-1] {
		kept = append(kept, line[len(line)-1])
	}

	if len(kept) <= maxPoints {
		return kept
	}

	// Over budget: uniform down-sampling of the interior keeps the overall
	// shape while enforcing the cap.
	step := int(math.Ceil(float64(len(kept)-2) / float64(maxPoints-2)))
	if step < 1 {
		step = 1
	}
	trimmed := make(orb.LineString, 0, maxPoints)
	trimmed = append(trimmed, kept[0])
	for i := 1; i < len(kept)-1; i += step {
		trimmed = append(trimmed, kept[i])
	}
	if trimmed[len(trimmed)-1] != kept[len(kept)-1] {
		trimmed = append(trimmed, kept[len(kept)-1])
	}
	return trimmed
}

// distSqPointToSegment returns the squared distance from p to segment ab,
// using the clamped projection parameter t. When a == b the segment
// degenerates and the distance is point-to-point.
func distSqPointToSegment(p, a, b orb.Point) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	if dx == 0 && dy == 0 {
		ex := p[0] - a[0]
		ey := p[1] - a[1]
		return ex*ex + ey*ey
	}

	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	qx := a[0] + t*dx
	qy := a[1] + t*dy
	ex := p[0] - qx
	ey := p[1] - qy
	return ex*ex + ey*ey
}
