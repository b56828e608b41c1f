package overlay

// CRS and unit labels stamped on every asset. All output coordinates are
// meters in the Korea 2000 Unified Coordinate System.
const (
	CRSKoreaUnified = "Korea_2000_Korea_Unified_Coordinate_System"
	UnitsMeter      = "meter"
)

// BuildOptions configures overlay assembly.
//
// Simplification parameters come in major/minor pairs: major contours (the
// coarser interval) are drawn more prominently and can afford a tighter
// tolerance; minor contours are thinned harder.
type BuildOptions struct {
	// ElevStep keeps only contours whose elevation is a multiple of this
	// interval (meters). 0 keeps everything.
	ElevStep int

	// MajorStep marks a contour as major when its elevation is a
	// multiple of this interval (meters). 0 marks nothing as major.
	MajorStep int

	// MajorTolerance and MinorTolerance are the max-deviation tolerances
	// (meters) for exact simplification.
	MajorTolerance float64
	MinorTolerance float64

	// MajorSpacing/MinorSpacing and MajorMaxPoints/MinorMaxPoints
	// parameterize fast simplification: minimum spacing between kept
	// points (meters) and the hard output-size cap.
	MajorSpacing   float64
	MinorSpacing   float64
	MajorMaxPoints int
	MinorMaxPoints int

	// QueryMargin pads the route bounds to form the contour query window
	// (GeoPackage builds). ViewMargin pads the route bounds to form the
	// published asset bounds.
	QueryMargin float64
	ViewMargin  float64

	// BoundsPadding pads the shapefile bounding box to form the
	// published asset bounds (shapefile builds).
	BoundsPadding float64
}

// DefaultBuildOptions returns the production parameter set: 20 m contour
// interval with 100 m majors, exact tolerances 8/12 m, fast spacing
// 22/32 m with caps 150/110 points, and the query/view/bounds margins
// used by the shipped assets.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		ElevStep:       20,
		MajorStep:      100,
		MajorTolerance: 8.0,
		MinorTolerance: 12.0,
		MajorSpacing:   22.0,
		MinorSpacing:   32.0,
		MajorMaxPoints: 150,
		MinorMaxPoints: 110,
		QueryMargin:    4000.0,
		ViewMargin:     2500.0,
		BoundsPadding:  2000.0,
	}
}

// isMajor reports whether an elevation sits on the major interval.
func (o BuildOptions) isMajor(elev int) bool {
	return o.MajorStep > 0 && elev%o.MajorStep == 0
}

// keepElevation reports whether an elevation passes the interval filter.
func (o BuildOptions) keepElevation(elev int) bool {
	return o.ElevStep <= 0 || elev%o.ElevStep == 0
}
