package overlay

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON exports the asset as a FeatureCollection for inspection in GIS
// tooling. Route lines carry a "kind":"route" property; contour lines
// carry their elevation and major flag. Coordinates stay full precision;
// this is a debugging surface, not the overlay wire format.
func (a *Asset) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, line := range a.Route {
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		fc.Append(f)
	}

	for _, c := range a.Contours {
		f := geojson.NewFeature(c.Line)
		f.Properties["kind"] = "contour"
		f.Properties["elev"] = c.Elev
		f.Properties["major"] = c.Major
		fc.Append(f)
	}

	fc.BBox = geojson.NewBBox(orb.Bound{
		Min: orb.Point{a.Bounds.MinX, a.Bounds.MinY},
		Max: orb.Point{a.Bounds.MaxX, a.Bounds.MaxY},
	})
	return fc
}
