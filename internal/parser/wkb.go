package parser

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// GeoPackage geometry blobs wrap standard WKB in a short binary header:
// magic "GP", version, flags, SRS id, and an optional envelope whose size
// is selected by flags bits 1-3.
//
// Reference: OGC GeoPackage §2.1.3 (GeoPackageBinaryHeader).
const gpkgHeaderSize = 8

// envelopeSizes maps the envelope contents indicator (flags bits 1-3) to
// the envelope byte length. Codes 5-7 are reserved and rejected.
var envelopeSizes = map[byte]int{
	0: 0,  // no envelope
	1: 32, // x, y
	2: 48, // x, y, z
	3: 48, // x, y, m
	4: 64, // x, y, z, m
}

// StripGeoPackageEnvelope removes the GeoPackage binary header from a
// geometry blob and returns the raw WKB payload.
func StripGeoPackageEnvelope(blob []byte) ([]byte, error) {
	if len(blob) < gpkgHeaderSize {
		return nil, &ErrTruncatedRecord{Offset: 0, Need: gpkgHeaderSize, Have: len(blob)}
	}
	if blob[0] != 'G' || blob[1] != 'P' {
		return nil, &ErrFormat{
			Offset:   0,
			Expected: `magic "GP"`,
			Found:    fmt.Sprintf("% x", blob[0:2]),
		}
	}

	flags := blob[3]
	code := (flags >> 1) & 0x07
	envelope, ok := envelopeSizes[code]
	if !ok {
		return nil, &ErrFormat{
			Offset:   3,
			Expected: "envelope code 0-4",
			Found:    fmt.Sprintf("%d", code),
		}
	}

	start := gpkgHeaderSize + envelope
	if len(blob) < start {
		return nil, &ErrTruncatedRecord{Offset: gpkgHeaderSize, Need: start, Have: len(blob)}
	}
	return blob[start:], nil
}

// WKB base geometry types (ISO 19125 / OGC SFA).
const (
	wkbLineString      = 2
	wkbMultiLineString = 5
)

// DecodeWKBLines decodes a WKB geometry into polylines.
//
// Only LineString and MultiLineString geometries are accepted; a
// MultiLineString is flattened into independent polylines. Z and M
// ordinates (type code offsets 1000/2000/3000) are parsed past and
// discarded, leaving 2-D points.
func DecodeWKBLines(data []byte) ([]orb.LineString, error) {
	lines, _, err := decodeWKBLines(data, 0)
	return lines, err
}

// decodeWKBLines decodes one WKB geometry starting at offset and returns
// the decoded polylines plus the offset just past the geometry. The
// function is pure: nested MultiLineString children are decoded by
// recursing with the advancing offset rather than sharing a cursor.
func decodeWKBLines(data []byte, offset int) ([]orb.LineString, int, error) {
	if offset >= len(data) {
		return nil, 0, &ErrTruncatedRecord{Offset: offset, Need: offset + 1, Have: len(data)}
	}

	var order binary.ByteOrder
	switch data[offset] {
	case 0:
		order = binary.BigEndian
	case 1:
		order = binary.LittleEndian
	default:
		return nil, 0, &ErrFormat{
			Offset:   offset,
			Expected: "WKB byte order 0 or 1",
			Found:    fmt.Sprintf("%d", data[offset]),
		}
	}
	offset++

	geomType, offset, err := readUint32(data, offset, order)
	if err != nil {
		return nil, 0, err
	}

	// The thousands digit encodes dimensionality: 1000=Z, 2000=M, 3000=ZM.
	hasZ := false
	hasM := false
	baseType := geomType
	switch {
	case geomType >= 3000:
		baseType = geomType - 3000
		hasZ = true
		hasM = true
	case geomType >= 2000:
		baseType = geomType - 2000
		hasM = true
	case geomType >= 1000:
		baseType = geomType - 1000
		hasZ = true
	}

	switch baseType {
	case wkbLineString:
		line, next, err := decodeLineString(data, offset, order, hasZ, hasM)
		if err != nil {
			return nil, 0, err
		}
		return []orb.LineString{line}, next, nil

	case wkbMultiLineString:
		return decodeMultiLineString(data, offset, order)

	default:
		return nil, 0, &ErrUnsupportedGeometry{BaseType: baseType}
	}
}

func decodeLineString(data []byte, offset int, order binary.ByteOrder, hasZ, hasM bool) (orb.LineString, int, error) {
	n, offset, err := readUint32(data, offset, order)
	if err != nil {
		return nil, 0, err
	}

	stride := 16
	if hasZ {
		stride += 8
	}
	if hasM {
		stride += 8
	}
	need := offset + int(n)*stride
	if need > len(data) {
		return nil, 0, &ErrTruncatedRecord{Offset: offset, Need: need, Have: len(data)}
	}

	line := make(orb.LineString, 0, n)
	for i := uint32(0); i < n; i++ {
		x := readFloat64(data, offset, order)
		y := readFloat64(data, offset+8, order)
		offset += stride // skip Z/M ordinates along with x/y
		line = append(line, orb.Point{x, y})
	}
	return line, offset, nil
}

func decodeMultiLineString(data []byte, offset int, order binary.ByteOrder) ([]orb.LineString, int, error) {
	n, offset, err := readUint32(data, offset, order)
	if err != nil {
		return nil, 0, err
	}

	// Each child carries at least its own byte-order, type, and count
	// bytes; a count claiming more children than could fit is corrupt.
	const minChildSize = 9
	if int(n) > (len(data)-offset)/minChildSize {
		return nil, 0, &ErrTruncatedRecord{
			Offset: offset,
			Need:   offset + int(n)*minChildSize,
			Have:   len(data),
		}
	}

	lines := make([]orb.LineString, 0, n)
	for i := uint32(0); i < n; i++ {
		// Each child is a full WKB geometry with its own byte-order byte.
		child, next, err := decodeWKBLines(data, offset)
		if err != nil {
			return nil, 0, err
		}
		lines = append(lines, child...)
		offset = next
	}
	return lines, offset, nil
}

func readUint32(data []byte, offset int, order binary.ByteOrder) (uint32, int, error) {
	if offset+4 > len(data) {
		return 0, 0, &ErrTruncatedRecord{Offset: offset, Need: offset + 4, Have: len(data)}
	}
	return order.Uint32(data[offset : offset+4]), offset + 4, nil
}

func readFloat64(data []byte, offset int, order binary.ByteOrder) float64 {
	return math.Float64frombits(order.Uint64(data[offset : offset+8]))
}
