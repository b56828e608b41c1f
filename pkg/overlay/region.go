package overlay

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Region names one published regional overlay asset and the contour sheet
// codes that cover it. Large provinces are split across several sheets
// (codes like "44_A", "44_B") that merge into a single asset.
type Region struct {
	ID    string
	Name  string
	Asset string
	Codes []string
}

// DefaultRegions is the production region table for the nationwide
// contour sheets (NGII 1:50000 series, N3L_F0010000_* naming).
func DefaultRegions() []Region {
	return []Region{
		{ID: "incheon_base", Name: "인천", Asset: "incheon_overlay.json", Codes: []string{"28"}},
		{ID: "sejong_base", Name: "세종", Asset: "sejong_overlay.json", Codes: []string{"36"}},
		{ID: "ulsan_base", Name: "울산", Asset: "ulsan_overlay.json", Codes: []string{"31"}},
		{ID: "chungbuk_base", Name: "충북", Asset: "chungbuk_overlay.json", Codes: []string{"43_A", "43_B"}},
		{ID: "chungnam_base", Name: "충남", Asset: "chungnam_overlay.json", Codes: []string{"44_A", "44_B"}},
		{ID: "jeonbuk_base", Name: "전북특별자치도", Asset: "jeonbuk_overlay.json", Codes: []string{"52_A", "52_B"}},
		{ID: "jeonnam_base", Name: "전남", Asset: "jeonnam_overlay.json", Codes: []string{"46_A", "46_B", "46_C"}},
	}
}

// BuildRegion assembles a region's overlay from shapefiles under
// contourRoot and writes it to assetRoot.
func BuildRegion(region Region, contourRoot, assetRoot string, opts BuildOptions) error {
	pairs := make([]SourcePair, 0, len(region.Codes))
	for _, code := range region.Codes {
		shp, err := FindSheet(contourRoot, code)
		if err != nil {
			return err
		}
		dbf := strings.TrimSuffix(shp, filepath.Ext(shp)) + ".dbf"
		pairs = append(pairs, SourcePair{SHP: shp, DBF: dbf})
	}

	asset, err := BuildFromShapefiles(pairs, opts)
	if err != nil {
		return fmt.Errorf("region %s: %w", region.Name, err)
	}

	outPath := filepath.Join(assetRoot, region.Asset)
	if err := asset.WriteJSON(outPath); err != nil {
		return fmt.Errorf("region %s: %w", region.Name, err)
	}

	_, points := asset.PointCount()
	log.WithFields(log.Fields{
		"region":   region.Name,
		"asset":    outPath,
		"contours": len(asset.Contours),
		"points":   points,
	}).Info("wrote region overlay")
	return nil
}

// BuildRegions builds every region in the table, stopping at the first
// failure.
func BuildRegions(regions []Region, contourRoot, assetRoot string, opts BuildOptions) error {
	for _, region := range regions {
		if err := BuildRegion(region, contourRoot, assetRoot, opts); err != nil {
			return err
		}
	}
	return nil
}

// FindSheet locates the contour shapefile for a sheet code anywhere under
// root. Exactly one match is required: a missing sheet and an ambiguous
// one are both configuration errors worth failing loudly on.
func FindSheet(root, code string) (string, error) {
	want := fmt.Sprintf("N3L_F0010000_%s.shp", code)

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == want {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan contour root: %w", err)
	}

	sort.Strings(matches)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("missing shapefile for code %s under %s", code, root)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous shapefile for code %s: %v", code, matches)
	}
}
