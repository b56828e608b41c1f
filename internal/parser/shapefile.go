package parser

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/paulmach/orb"
)

// Shapefile shape type codes for the PolyLine family.
//
// Reference: ESRI Shapefile Technical Description, July 1998.
const (
	shapeNull      = 0
	shapePolyLine  = 3
	shapePolyLineZ = 13
	shapePolyLineM = 23
)

const shpHeaderSize = 100

// ShapefileData is the decoded content of a shapefile main file: the file
// bounding box from the header and one entry per record. A record holds
// zero or more polylines (null-shape and skipped records stay in the slice
// as empty entries so record indexes keep lining up with the DBF rows).
type ShapefileData struct {
	MinX, MinY, MaxX, MaxY float64
	Records                [][]orb.LineString
}

// ReadShapefile reads and decodes a shapefile main (.shp) file.
func ReadShapefile(path string) (*ShapefileData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}
	shp, err := DecodeShapefile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return shp, nil
}

// DecodeShapefile decodes shapefile main-file bytes.
//
// The file header must declare a PolyLine-family shape type (3, 13, 23).
// Records are read sequentially until the byte stream is exhausted; a
// record header or body cut short by EOF ends the file without error.
// Within a record, a null shape (type 0) or a shape type outside the
// PolyLine family produces an empty record rather than a failure, since
// otherwise valid files can carry mixed per-record encodings.
func DecodeShapefile(data []byte) (*ShapefileData, error) {
	if len(data) < shpHeaderSize {
		return nil, &ErrTruncatedRecord{Offset: 0, Need: shpHeaderSize, Have: len(data)}
	}

	// File header: shape type is little-endian at byte 32, the bounding
	// box follows as four little-endian doubles at byte 36. The rest of
	// the header (file code, length) is not needed.
	shapeType := int32(binary.LittleEndian.Uint32(data[32:36]))
	if shapeType != shapePolyLine && shapeType != shapePolyLineZ && shapeType != shapePolyLineM {
		return nil, &ErrUnsupportedShapeType{Code: shapeType}
	}

	shp := &ShapefileData{
		MinX: readFloat64(data, 36, binary.LittleEndian),
		MinY: readFloat64(data, 44, binary.LittleEndian),
		MaxX: readFloat64(data, 52, binary.LittleEndian),
		MaxY: readFloat64(data, 60, binary.LittleEndian),
	}

	offset := shpHeaderSize
	for {
		// Record header: record number and content length, both
		// big-endian, length counted in 16-bit words.
		if offset+8 > len(data) {
			break // end of file
		}
		contentWords := int32(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8

		contentLen := int(contentWords) * 2
		if contentLen < 0 || offset+contentLen > len(data) {
			break // truncated or corrupt final record, treat as EOF
		}
		content := data[offset : offset+contentLen]
		offset += contentLen

		shp.Records = append(shp.Records, decodePolyLineRecord(content))
	}

	return shp, nil
}

// decodePolyLineRecord decodes one record's content into part polylines.
// Parts with fewer than 2 points are dropped. Z and M ordinate blocks that
// PolyLineZ/PolyLineM append after the XY points are ignored.
func decodePolyLineRecord(content []byte) []orb.LineString {
	if len(content) < 4 {
		return nil
	}
	recType := int32(binary.LittleEndian.Uint32(content[0:4]))
	if recType == shapeNull {
		return nil
	}
	if recType != shapePolyLine && recType != shapePolyLineZ && recType != shapePolyLineM {
		// Tolerant skip: keep the record slot, drop the geometry.
		return nil
	}

	// Record layout: shape type (4), bbox (32), numParts at 36,
	// numPoints at 40, part start indexes at 44, then XY point pairs.
	if len(content) < 44 {
		return nil
	}
	numParts := int(int32(binary.LittleEndian.Uint32(content[36:40])))
	numPoints := int(int32(binary.LittleEndian.Uint32(content[40:44])))
	if numParts <= 0 || numPoints <= 0 {
		return nil
	}

	partsEnd := 44 + 4*numParts
	pointsEnd := partsEnd + 16*numPoints
	if partsEnd > len(content) || pointsEnd > len(content) {
		return nil
	}

	parts := make([]int, numParts)
	for i := 0; i < numParts; i++ {
		parts[i] = int(int32(binary.LittleEndian.Uint32(content[44+4*i : 48+4*i])))
	}

	points := make([]orb.Point, numPoints)
	for i := 0; i < numPoints; i++ {
		off := partsEnd + 16*i
		points[i] = orb.Point{
			readFloat64(content, off, binary.LittleEndian),
			readFloat64(content, off+8, binary.LittleEndian),
		}
	}

	var lines []orb.LineString
	for i, start := range parts {
		end := numPoints
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > numPoints || end-start < 2 {
			continue
		}
		lines = append(lines, orb.LineString(points[start:end]))
	}
	return lines
}
