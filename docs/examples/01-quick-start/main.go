package main

import (
	"fmt"
	"log"

	"github.com/kerryfrog/draw-mountain/pkg/overlay"
)

func main() {
	asset, err := overlay.BuildFromGeoPackage("route.gpkg", "contours.gpkg",
		overlay.DefaultBuildOptions())
	if err != nil {
		log.Fatal(err)
	}

	routePoints, contourPoints := asset.PointCount()
	fmt.Printf("Route lines: %d (%d points)\n", len(asset.Route), routePoints)
	fmt.Printf("Contours: %d (%d points)\n", len(asset.Contours), contourPoints)
	fmt.Printf("Bounds: %.0f %.0f %.0f %.0f\n",
		asset.Bounds.MinX, asset.Bounds.MinY, asset.Bounds.MaxX, asset.Bounds.MaxY)

	if err := asset.WriteJSON("overlay.json"); err != nil {
		log.Fatal(err)
	}
}
