// Command overlay-builder converts raw survey data (GeoPackage routes and
// contours, or regional shapefile+DBF sheets) into overlay JSON assets.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kerryfrog/draw-mountain/pkg/overlay"
)

func main() {
	root := &cobra.Command{
		Use:           "overlay-builder",
		Short:         "Build simplified map overlay assets from survey data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(gpkgCommand(), shpCommand(), regionsCommand())

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func gpkgCommand() *cobra.Command {
	var (
		routePath   string
		contourPath string
		outPath     string
	)
	opts := overlay.DefaultBuildOptions()

	cmd := &cobra.Command{
		Use:   "gpkg",
		Short: "Build an overlay from route and contour GeoPackages",
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := overlay.BuildFromGeoPackage(routePath, contourPath, opts)
			if err != nil {
				return err
			}
			if err := asset.WriteJSON(outPath); err != nil {
				return err
			}
			routePoints, contourPoints := asset.PointCount()
			log.WithFields(log.Fields{
				"asset":          outPath,
				"route_lines":    len(asset.Route),
				"route_points":   routePoints,
				"contours":       len(asset.Contours),
				"contour_points": contourPoints,
			}).Info("wrote overlay")
			return nil
		},
	}

	cmd.Flags().StringVar(&routePath, "route", "", "route GeoPackage path")
	cmd.Flags().StringVar(&contourPath, "contours", "", "contour GeoPackage path")
	cmd.Flags().StringVar(&outPath, "out", "", "output overlay JSON path")
	cmd.Flags().Float64Var(&opts.MajorTolerance, "major-tolerance", opts.MajorTolerance, "max deviation for major contours (m)")
	cmd.Flags().Float64Var(&opts.MinorTolerance, "minor-tolerance", opts.MinorTolerance, "max deviation for minor contours (m)")
	cmd.Flags().Float64Var(&opts.QueryMargin, "query-margin", opts.QueryMargin, "contour query window margin around the route (m)")
	cmd.Flags().Float64Var(&opts.ViewMargin, "view-margin", opts.ViewMargin, "published bounds margin around the route (m)")
	cmd.MarkFlagRequired("route")
	cmd.MarkFlagRequired("contours")
	cmd.MarkFlagRequired("out")
	return cmd
}

func shpCommand() *cobra.Command {
	var (
		shpPath string
		dbfPath string
		outPath string
	)
	opts := overlay.DefaultBuildOptions()

	cmd := &cobra.Command{
		Use:   "shp",
		Short: "Build an overlay from a shapefile + DBF pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := overlay.BuildFromShapefile(shpPath, dbfPath, opts)
			if err != nil {
				return err
			}
			if err := asset.WriteJSON(outPath); err != nil {
				return err
			}
			_, points := asset.PointCount()
			log.WithFields(log.Fields{
				"asset":    outPath,
				"contours": len(asset.Contours),
				"points":   points,
			}).Info("wrote overlay")
			return nil
		},
	}

	cmd.Flags().StringVar(&shpPath, "shp", "", "shapefile path")
	cmd.Flags().StringVar(&dbfPath, "dbf", "", "DBF attribute file path")
	cmd.Flags().StringVar(&outPath, "out", "", "output overlay JSON path")
	cmd.Flags().IntVar(&opts.ElevStep, "elev-step", opts.ElevStep, "keep contours on this elevation interval (m)")
	cmd.Flags().IntVar(&opts.MajorStep, "major-step", opts.MajorStep, "major contour interval (m)")
	cmd.Flags().Float64Var(&opts.MajorTolerance, "major-tolerance", opts.MajorTolerance, "max deviation for major contours (m)")
	cmd.Flags().Float64Var(&opts.MinorTolerance, "minor-tolerance", opts.MinorTolerance, "max deviation for minor contours (m)")
	cmd.Flags().Float64Var(&opts.BoundsPadding, "bounds-padding", opts.BoundsPadding, "published bounds padding (m)")
	cmd.MarkFlagRequired("shp")
	cmd.MarkFlagRequired("dbf")
	cmd.MarkFlagRequired("out")
	return cmd
}

func regionsCommand() *cobra.Command {
	var (
		contourRoot string
		assetRoot   string
	)
	opts := overlay.DefaultBuildOptions()

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Build all regional overlays from the contour sheet tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return overlay.BuildRegions(overlay.DefaultRegions(), contourRoot, assetRoot, opts)
		},
	}

	cmd.Flags().StringVar(&contourRoot, "contour-root", "contours", "directory tree holding the contour sheets")
	cmd.Flags().StringVar(&assetRoot, "asset-root", "assets/data", "output directory for overlay assets")
	return cmd
}
