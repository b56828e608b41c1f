package overlay

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
)

// The overlay wire format is the compact schema the rendering client
// consumes:
//
//	{"crs":..., "units":..., "bounds":[minX,minY,maxX,maxY],
//	 "route":[[[x,y],...],...],
//	 "contours":[{"elev":n,"major":b,"line":[[x,y],...]},...]}
//
// Coordinates are rounded to 2 decimals here and only here; geometric
// computation upstream always runs on full-precision values so rounding
// error cannot feed back into simplification or projection.

type assetJSON struct {
	CRS      string        `json:"crs"`
	Units    string        `json:"units"`
	Bounds   []float64     `json:"bounds"`
	Route    [][][]float64 `json:"route"`
	Contours []contourJSON `json:"contours"`
}

type contourJSON struct {
	Elev  int         `json:"elev"`
	Major bool        `json:"major"`
	Line  [][]float64 `json:"line"`
}

// MarshalJSON serializes the asset in the overlay wire format.
func (a *Asset) MarshalJSON() ([]byte, error) {
	out := assetJSON{
		CRS:   a.CRS,
		Units: a.Units,
		Bounds: []float64{
			round2(a.Bounds.MinX),
			round2(a.Bounds.MinY),
			round2(a.Bounds.MaxX),
			round2(a.Bounds.MaxY),
		},
		Route:    make([][][]float64, 0, len(a.Route)),
		Contours: make([]contourJSON, 0, len(a.Contours)),
	}
	for _, line := range a.Route {
		out.Route = append(out.Route, roundLine(line))
	}
	for _, c := range a.Contours {
		out.Contours = append(out.Contours, contourJSON{
			Elev:  c.Elev,
			Major: c.Major,
			Line:  roundLine(c.Line),
		})
	}
	return json.Marshal(out)
}

// WriteJSON writes the asset to path, creating parent directories.
func (a *Asset) WriteJSON(path string) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal overlay: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write overlay: %w", err)
	}
	return nil
}

func roundLine(line orb.LineString) [][]float64 {
	out := make([][]float64, len(line))
	for i, p := range line {
		out[i] = []float64{round2(p[0]), round2(p[1])}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
