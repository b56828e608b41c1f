package overlay

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// contourIndex is an R-tree over contour line bounding boxes, the
// in-memory counterpart of the SQLite rtree window query used when reading
// GeoPackage sources.
type contourIndex struct {
	rtree *rtreego.Rtree
}

// indexedContour wraps a contour for R-tree storage.
type indexedContour struct {
	contour Contour
	bounds  Bounds
}

// Bounds implements rtreego.Spatial.
func (c *indexedContour) Bounds() rtreego.Rect {
	// rtreego requires strictly positive extents; a flat contour (a
	// straight horizontal or vertical line) gets a 1 m floor.
	const epsilon = 1.0
	w := c.bounds.MaxX - c.bounds.MinX
	h := c.bounds.MaxY - c.bounds.MinY
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}
	rect, _ := rtreego.NewRect(
		rtreego.Point{c.bounds.MinX, c.bounds.MinY},
		[]float64{w, h},
	)
	return rect
}

// buildContourIndex indexes every contour by its bounding box. Returns nil
// for an empty contour set; callers fall back to linear scan.
func buildContourIndex(contours []Contour) *contourIndex {
	if len(contours) == 0 {
		return nil
	}

	rtree := rtreego.NewTree(2, 25, 50)
	for _, c := range contours {
		cb, err := BoundsOf([]orb.LineString{c.Line})
		if err != nil {
			continue
		}
		rtree.Insert(&indexedContour{contour: c, bounds: cb})
	}
	return &contourIndex{rtree: rtree}
}

// search returns the contours whose boxes intersect the query window.
func (ci *contourIndex) search(b Bounds) []Contour {
	w := b.MaxX - b.MinX
	h := b.MaxY - b.MinY
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.MinX, b.MinY}, []float64{w, h})
	if err != nil {
		return nil
	}

	spatials := ci.rtree.SearchIntersect(rect)
	result := make([]Contour, 0, len(spatials))
	for _, s := range spatials {
		result = append(result, s.(*indexedContour).contour)
	}
	return result
}
