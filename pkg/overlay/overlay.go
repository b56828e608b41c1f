// Package overlay assembles simplified, projected map overlay assets from
// decoded survey geometry: hiking-route polylines and elevation contour
// lines, reduced under per-class simplification policies and expressed in
// the Korea 2000 Unified Coordinate System.
package overlay

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/kerryfrog/draw-mountain/internal/parser"
)

// Contour is one simplified contour polyline with its elevation attribute.
type Contour struct {
	Elev  int
	Major bool
	Line  orb.LineString
}

// Asset is a complete overlay: reference system labels, padded bounds, the
// projected route polylines, and the simplified contour lines. Assets are
// immutable once built; a contour spatial index is constructed at build
// time for bounds queries.
type Asset struct {
	CRS      string
	Units    string
	Bounds   Bounds
	Route    []orb.LineString
	Contours []Contour

	index *contourIndex
}

// BuildFromGeoPackage builds an overlay from a route GeoPackage and a
// contour GeoPackage.
//
// The route is decoded from WKB, projected from geographic degrees into
// the unified planar system, and defines the asset's view bounds. The
// contour GeoPackage stores planar coordinates already; its features are
// window-queried around the route, paired with their CONT elevation,
// filtered to the contour interval, and simplified exactly with the
// major/minor tolerance split.
func BuildFromGeoPackage(routePath, contourPath string, opts BuildOptions) (*Asset, error) {
	tm := KoreaUnified()

	routeLL, err := parser.ReadRouteLines(routePath)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", routePath, err)
	}

	route := make([]orb.LineString, 0, len(routeLL))
	for _, line := range routeLL {
		if len(line) < 2 {
			continue
		}
		route = append(route, tm.ProjectLine(line))
	}

	routeBounds, err := BoundsOf(route)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", routePath, err)
	}

	query := routeBounds.Pad(opts.QueryMargin)
	records, err := parser.ReadContours(contourPath,
		query.MinX, query.MinY, query.MaxX, query.MaxY, opts.ElevStep)
	if err != nil {
		return nil, fmt.Errorf("contours %s: %w", contourPath, err)
	}

	var contours []Contour
	for _, rec := range records {
		if !opts.keepElevation(rec.Elev) {
			continue
		}
		major := opts.isMajor(rec.Elev)
		tolerance := opts.MinorTolerance
		if major {
			tolerance = opts.MajorTolerance
		}
		for _, line := range rec.Lines {
			if len(line) < 2 {
				continue
			}
			simplified := Simplify(line, tolerance)
			if len(simplified) < 2 {
				continue
			}
			contours = append(contours, Contour{Elev: rec.Elev, Major: major, Line: simplified})
		}
	}

	asset := &Asset{
		CRS:      CRSKoreaUnified,
		Units:    UnitsMeter,
		Bounds:   routeBounds.Pad(opts.ViewMargin),
		Route:    route,
		Contours: contours,
	}
	asset.index = buildContourIndex(contours)
	return asset, nil
}

// BuildFromShapefiles builds an overlay from one or more shapefile+DBF
// pairs covering a region.
//
// Shapefile coordinates are already planar, so no projection applies.
// Contour elevations come from the DBF CONT column, aligned with the
// shapefile records by index; a DBF with fewer records than the shapefile
// pads the tail with zeros. Fast simplification is used: these regional
// datasets are far denser than a route-window extract.
func BuildFromShapefiles(pairs []SourcePair, opts BuildOptions) (*Asset, error) {
	var contours []Contour
	var allBounds []Bounds

	for _, pair := range pairs {
		shp, err := parser.ReadShapefile(pair.SHP)
		if err != nil {
			return nil, err
		}
		elevs, err := parser.ReadDBFContours(pair.DBF)
		if err != nil {
			return nil, err
		}
		for len(elevs) < len(shp.Records) {
			elevs = append(elevs, 0)
		}

		allBounds = append(allBounds, Bounds{
			MinX: shp.MinX, MinY: shp.MinY, MaxX: shp.MaxX, MaxY: shp.MaxY,
		})

		for idx, lines := range shp.Records {
			elev := elevs[idx]
			if !opts.keepElevation(elev) {
				continue
			}
			major := opts.isMajor(elev)
			spacing := opts.MinorSpacing
			maxPoints := opts.MinorMaxPoints
			if major {
				spacing = opts.MajorSpacing
				maxPoints = opts.MajorMaxPoints
			}
			for _, line := range lines {
				simplified := SimplifyFast(line, spacing, maxPoints)
				if len(simplified) < 2 {
					continue
				}
				contours = append(contours, Contour{Elev: elev, Major: major, Line: simplified})
			}
		}
	}

	merged, err := MergeBounds(allBounds)
	if err != nil {
		return nil, err
	}

	asset := &Asset{
		CRS:      CRSKoreaUnified,
		Units:    UnitsMeter,
		Bounds:   merged.Pad(opts.BoundsPadding),
		Route:    []orb.LineString{},
		Contours: contours,
	}
	asset.index = buildContourIndex(contours)
	return asset, nil
}

// SourcePair names a shapefile main file and its DBF attribute table.
type SourcePair struct {
	SHP string
	DBF string
}

// BuildFromShapefile builds an overlay from a single shapefile+DBF pair
// using exact simplification with the major/minor tolerance split. This is
// the single-sheet variant of BuildFromShapefiles, which trades exactness
// for throughput across whole regions.
func BuildFromShapefile(shpPath, dbfPath string, opts BuildOptions) (*Asset, error) {
	shp, err := parser.ReadShapefile(shpPath)
	if err != nil {
		return nil, err
	}
	elevs, err := parser.ReadDBFContours(dbfPath)
	if err != nil {
		return nil, err
	}
	for len(elevs) < len(shp.Records) {
		elevs = append(elevs, 0)
	}

	var contours []Contour
	for idx, lines := range shp.Records {
		elev := elevs[idx]
		if !opts.keepElevation(elev) {
			continue
		}
		major := opts.isMajor(elev)
		tolerance := opts.MinorTolerance
		if major {
			tolerance = opts.MajorTolerance
		}
		for _, line := range lines {
			simplified := Simplify(line, tolerance)
			if len(simplified) < 2 {
				continue
			}
			contours = append(contours, Contour{Elev: elev, Major: major, Line: simplified})
		}
	}

	bounds := Bounds{MinX: shp.MinX, MinY: shp.MinY, MaxX: shp.MaxX, MaxY: shp.MaxY}
	asset := &Asset{
		CRS:      CRSKoreaUnified,
		Units:    UnitsMeter,
		Bounds:   bounds.Pad(opts.BoundsPadding),
		Route:    []orb.LineString{},
		Contours: contours,
	}
	asset.index = buildContourIndex(contours)
	return asset, nil
}

// ContoursInBounds returns the contours whose bounding boxes intersect the
// query window. Served from the R-tree index when present, otherwise by
// linear scan.
func (a *Asset) ContoursInBounds(b Bounds) []Contour {
	if a.index != nil {
		return a.index.search(b)
	}
	result := make([]Contour, 0)
	for _, c := range a.Contours {
		cb, err := BoundsOf([]orb.LineString{c.Line})
		if err != nil {
			continue
		}
		if b.Intersects(cb) {
			result = append(result, c)
		}
	}
	return result
}

// PointCount returns the total number of points across route and contour
// polylines, the figure reported after a build.
func (a *Asset) PointCount() (route, contour int) {
	for _, line := range a.Route {
		route += len(line)
	}
	for _, c := range a.Contours {
		contour += len(c.Line)
	}
	return route, contour
}
