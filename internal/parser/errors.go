package parser

import (
	"fmt"
)

// ErrFormat indicates a malformed container header or geometry blob.
//
// Raised for a bad GeoPackage magic marker, an envelope code outside the
// defined table, or a WKB byte-order byte that is neither 0 nor 1.
type ErrFormat struct {
	Offset   int
	Expected string
	Found    string
}

func (e *ErrFormat) Error() string {
	return fmt.Sprintf("invalid format at offset %d: expected %s, found %s",
		e.Offset, e.Expected, e.Found)
}

// ErrUnsupportedGeometry indicates a WKB base geometry type other than
// LineString (2) or MultiLineString (5).
type ErrUnsupportedGeometry struct {
	BaseType uint32
}

func (e *ErrUnsupportedGeometry) Error() string {
	return fmt.Sprintf("unsupported WKB base geometry type: %d (only LineString=2 and MultiLineString=5)",
		e.BaseType)
}

// ErrUnsupportedShapeType indicates a shapefile whose file-level shape type
// is not in the PolyLine family (3, 13, 23).
type ErrUnsupportedShapeType struct {
	Code int32
}

func (e *ErrUnsupportedShapeType) Error() string {
	return fmt.Sprintf("unsupported shapefile type: %d (only PolyLine=3, PolyLineZ=13, PolyLineM=23)",
		e.Code)
}

// ErrFieldNotFound indicates a required attribute column is missing from a
// DBF field descriptor table.
type ErrFieldNotFound struct {
	Field string
	Path  string
}

func (e *ErrFieldNotFound) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("DBF field %s not found: %s", e.Field, e.Path)
	}
	return fmt.Sprintf("DBF field %s not found", e.Field)
}

// ErrTruncatedRecord indicates fewer bytes were available than a declared
// structure requires. Header-level truncation is fatal for the whole file.
type ErrTruncatedRecord struct {
	Offset int
	Need   int
	Have   int
}

func (e *ErrTruncatedRecord) Error() string {
	return fmt.Sprintf("truncated record at offset %d: need %d bytes, have %d",
		e.Offset, e.Need, e.Have)
}
