package parser

import (
	"database/sql"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver for GeoPackage access
	"github.com/paulmach/orb"
)

// ContourRecord is one decoded contour feature: the elevation attribute in
// meters and the feature's polylines (a MultiLineString flattens into
// several independent lines).
type ContourRecord struct {
	Elev  int
	Lines []orb.LineString
}

// ReadRouteLines reads the route geometry from a GeoPackage.
//
// The feature table is located through gpkg_contents, its geometry column
// through gpkg_geometry_columns, and the first row's geometry blob is
// decoded into polylines. Route GeoPackages store geographic coordinates
// (longitude/latitude degrees); projection is the caller's concern.
func ReadRouteLines(path string) ([]orb.LineString, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open geopackage: %w", err)
	}
	defer db.Close()

	table, err := featureTable(db)
	if err != nil {
		return nil, err
	}
	geomCol, err := geometryColumn(db, table)
	if err != nil {
		return nil, err
	}

	var blob []byte
	query := fmt.Sprintf(`SELECT "%s" FROM "%s" LIMIT 1`, geomCol, table)
	if err := db.QueryRow(query).Scan(&blob); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("route table %q has no rows", table)
		}
		return nil, fmt.Errorf("read route geometry: %w", err)
	}

	wkb, err := StripGeoPackageEnvelope(blob)
	if err != nil {
		return nil, err
	}
	return DecodeWKBLines(wkb)
}

// ReadContours reads contour features intersecting the query window,
// keeping only elevations divisible by elevStep (0 disables the filter).
//
// When the GeoPackage carries the standard rtree_<table>_<geom> virtual
// table the window predicate runs against it; otherwise every row is
// scanned and filtered by elevation alone, matching what a window query
// over an unindexed table can promise.
func ReadContours(path string, minX, minY, maxX, maxY float64, elevStep int) ([]ContourRecord, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open geopackage: %w", err)
	}
	defer db.Close()

	table, err := featureTable(db)
	if err != nil {
		return nil, err
	}
	geomCol, err := geometryColumn(db, table)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	rtree := fmt.Sprintf("rtree_%s_%s", table, geomCol)
	if tableExists(db, rtree) {
		pkCol, err := primaryKeyColumn(db, table)
		if err != nil {
			return nil, err
		}
		query := fmt.Sprintf(`
			SELECT d."%s", CAST(d.CONT AS REAL)
			FROM "%s" d
			JOIN "%s" r ON d."%s" = r.id
			WHERE r.maxx >= ? AND r.minx <= ? AND r.maxy >= ? AND r.miny <= ?
			  AND (? = 0 OR CAST(d.CONT AS INTEGER) %% ? = 0)
			ORDER BY d.CONT`, geomCol, table, rtree, pkCol)
		rows, err = db.Query(query, minX, maxX, minY, maxY, elevStep, elevStep)
		if err != nil {
			return nil, fmt.Errorf("query contours: %w", err)
		}
	} else {
		query := fmt.Sprintf(`
			SELECT d."%s", CAST(d.CONT AS REAL)
			FROM "%s" d
			WHERE (? = 0 OR CAST(d.CONT AS INTEGER) %% ? = 0)
			ORDER BY d.CONT`, geomCol, table)
		rows, err = db.Query(query, elevStep, elevStep)
		if err != nil {
			return nil, fmt.Errorf("query contours: %w", err)
		}
	}
	defer rows.Close()

	var contours []ContourRecord
	for rows.Next() {
		var blob []byte
		var elev float64
		if err := rows.Scan(&blob, &elev); err != nil {
			return nil, fmt.Errorf("scan contour row: %w", err)
		}

		wkb, err := StripGeoPackageEnvelope(blob)
		if err != nil {
			return nil, err
		}
		lines, err := DecodeWKBLines(wkb)
		if err != nil {
			return nil, err
		}

		contours = append(contours, ContourRecord{
			Elev:  int(math.Round(elev)),
			Lines: lines,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contours: %w", err)
	}
	return contours, nil
}

// featureTable returns the first feature table listed in gpkg_contents.
func featureTable(db *sql.DB) (string, error) {
	var table string
	err := db.QueryRow(
		`SELECT table_name FROM gpkg_contents WHERE data_type='features' LIMIT 1`,
	).Scan(&table)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no features table found in geopackage")
	}
	if err != nil {
		return "", fmt.Errorf("read gpkg_contents: %w", err)
	}
	return table, nil
}

// geometryColumn returns the geometry column registered for a table.
func geometryColumn(db *sql.DB, table string) (string, error) {
	var column string
	err := db.QueryRow(
		`SELECT column_name FROM gpkg_geometry_columns WHERE table_name=?`, table,
	).Scan(&column)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no geometry column found for table %q", table)
	}
	if err != nil {
		return "", fmt.Errorf("read gpkg_geometry_columns: %w", err)
	}
	return column, nil
}

// primaryKeyColumn finds the table's pk column via PRAGMA table_info.
func primaryKeyColumn(db *sql.DB, table string) (string, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info("%s")`, table))
	if err != nil {
		return "", fmt.Errorf("table_info %q: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return "", fmt.Errorf("table_info %q: %w", table, err)
		}
		if pk != 0 {
			return name, nil
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no primary key column found for table %q", table)
}

func tableExists(db *sql.DB, name string) bool {
	var found string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type IN ('table','view') AND name=?`, name,
	).Scan(&found)
	return err == nil
}
