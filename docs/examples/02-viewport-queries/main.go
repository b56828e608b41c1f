package main

import (
	"fmt"
	"log"

	"github.com/kerryfrog/draw-mountain/pkg/overlay"
)

func main() {
	asset, err := overlay.BuildFromShapefile(
		"N3L_F0010000_31.shp", "N3L_F0010000_31.dbf",
		overlay.DefaultBuildOptions())
	if err != nil {
		log.Fatal(err)
	}

	// A 5x5 km viewport somewhere inside the sheet.
	viewport := overlay.Bounds{
		MinX: 1040000, MinY: 1720000,
		MaxX: 1045000, MaxY: 1725000,
	}

	visible := asset.ContoursInBounds(viewport)
	fmt.Printf("Contours in viewport: %d of %d\n", len(visible), len(asset.Contours))

	majors := 0
	for _, c := range visible {
		if c.Major {
			majors++
		}
	}
	fmt.Printf("Major contours: %d\n", majors)
}
