package parser

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

// shpBuilder assembles shapefile main-file bytes for tests.
type shpBuilder struct {
	buf []byte
}

// newSHPBuilder writes a 100-byte header with the given file shape type
// and bounding box.
func newSHPBuilder(shapeType int32, minX, minY, maxX, maxY float64) *shpBuilder {
	header := make([]byte, shpHeaderSize)
	binary.BigEndian.PutUint32(header[0:4], 9994) // file code
	binary.LittleEndian.PutUint32(header[32:36], uint32(shapeType))
	binary.LittleEndian.PutUint64(header[36:44], math.Float64bits(minX))
	binary.LittleEndian.PutUint64(header[44:52], math.Float64bits(minY))
	binary.LittleEndian.PutUint64(header[52:60], math.Float64bits(maxX))
	binary.LittleEndian.PutUint64(header[60:68], math.Float64bits(maxY))
	return &shpBuilder{buf: header}
}

// record appends an 8-byte record header plus raw content.
func (s *shpBuilder) record(number int32, content []byte) *shpBuilder {
	s.buf = binary.BigEndian.AppendUint32(s.buf, uint32(number))
	s.buf = binary.BigEndian.AppendUint32(s.buf, uint32(len(content)/2))
	s.buf = append(s.buf, content...)
	return s
}

// polyLineContent builds PolyLine record content from part start indexes
// and a flat point list.
func polyLineContent(shapeType int32, parts []int32, points []orb.Point) []byte {
	content := make([]byte, 44+4*len(parts)+16*len(points))
	binary.LittleEndian.PutUint32(content[0:4], uint32(shapeType))
	// Record bbox (bytes 4-36) is not read by the decoder; leave zero.
	binary.LittleEndian.PutUint32(content[36:40], uint32(len(parts)))
	binary.LittleEndian.PutUint32(content[40:44], uint32(len(points)))
	for i, p := range parts {
		binary.LittleEndian.PutUint32(content[44+4*i:48+4*i], uint32(p))
	}
	off := 44 + 4*len(parts)
	for i, p := range points {
		binary.LittleEndian.PutUint64(content[off+16*i:off+16*i+8], math.Float64bits(p[0]))
		binary.LittleEndian.PutUint64(content[off+16*i+8:off+16*i+16], math.Float64bits(p[1]))
	}
	return content
}

func flatPoints(n int) []orb.Point {
	points := make([]orb.Point, n)
	for i := range points {
		points[i] = orb.Point{float64(i), float64(i * 2)}
	}
	return points
}

func TestDecodeShapefileHeader(t *testing.T) {
	shp, err := DecodeShapefile(newSHPBuilder(3, 100, 200, 300, 400).buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if shp.MinX != 100 || shp.MinY != 200 || shp.MaxX != 300 || shp.MaxY != 400 {
		t.Errorf("bbox = (%v %v %v %v), want (100 200 300 400)",
			shp.MinX, shp.MinY, shp.MaxX, shp.MaxY)
	}
	if len(shp.Records) != 0 {
		t.Errorf("got %d records, want 0", len(shp.Records))
	}
}

func TestDecodeShapefilePartSplitting(t *testing.T) {
	// Parts [0, 3, 7] with 10 points must yield segments of 3, 4, 3.
	b := newSHPBuilder(3, 0, 0, 10, 20)
	b.record(1, polyLineContent(3, []int32{0, 3, 7}, flatPoints(10)))

	shp, err := DecodeShapefile(b.buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(shp.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(shp.Records))
	}
	lines := shp.Records[0]
	wantLens := []int{3, 4, 3}
	if len(lines) != len(wantLens) {
		t.Fatalf("got %d parts, want %d", len(lines), len(wantLens))
	}
	for i, want := range wantLens {
		if len(lines[i]) != want {
			t.Errorf("part %d: %d points, want %d", i, len(lines[i]), want)
		}
	}
	// Points preserve original order across the split.
	if lines[1][0] != (orb.Point{3, 6}) {
		t.Errorf("part 1 starts at %v, want (3,6)", lines[1][0])
	}
}

func TestDecodeShapefileDegenerateParts(t *testing.T) {
	// Part [4,5) has a single point and must be dropped.
	b := newSHPBuilder(3, 0, 0, 10, 20)
	b.record(1, polyLineContent(3, []int32{0, 4, 5}, flatPoints(8)))

	shp, err := DecodeShapefile(b.buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	lines := shp.Records[0]
	if len(lines) != 2 {
		t.Fatalf("got %d parts, want 2 (single-point part dropped)", len(lines))
	}
	if len(lines[0]) != 4 || len(lines[1]) != 3 {
		t.Errorf("part lengths %d/%d, want 4/3", len(lines[0]), len(lines[1]))
	}
}

func TestDecodeShapefileTolerantRecords(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"null shape", func() []byte {
			content := make([]byte, 4)
			binary.LittleEndian.PutUint32(content, shapeNull)
			return content
		}()},
		{"point shape in polyline file", func() []byte {
			content := make([]byte, 20)
			binary.LittleEndian.PutUint32(content, 1) // Point
			return content
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newSHPBuilder(3, 0, 0, 1, 1)
			b.record(1, tt.content)
			b.record(2, polyLineContent(3, []int32{0}, flatPoints(2)))

			shp, err := DecodeShapefile(b.buf)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			// The odd record keeps its slot, empty, so the next record
			// stays aligned with its DBF row.
			if len(shp.Records) != 2 {
				t.Fatalf("got %d records, want 2", len(shp.Records))
			}
			if len(shp.Records[0]) != 0 {
				t.Errorf("record 0: got %d lines, want 0", len(shp.Records[0]))
			}
			if len(shp.Records[1]) != 1 {
				t.Errorf("record 1: got %d lines, want 1", len(shp.Records[1]))
			}
		})
	}
}

func TestDecodeShapefileTruncation(t *testing.T) {
	t.Run("short header is fatal", func(t *testing.T) {
		_, err := DecodeShapefile(make([]byte, 50))
		if err == nil {
			t.Fatal("expected error for short header")
		}
		if _, ok := err.(*ErrTruncatedRecord); !ok {
			t.Errorf("wrong error type: %v", err)
		}
	})

	t.Run("negative content length ends file", func(t *testing.T) {
		b := newSHPBuilder(3, 0, 0, 1, 1)
		b.record(1, polyLineContent(3, []int32{0}, flatPoints(2)))
		// Corrupt trailing record header claiming a negative word count.
		b.buf = binary.BigEndian.AppendUint32(b.buf, 2)
		b.buf = binary.BigEndian.AppendUint32(b.buf, 0xFFFFFFFF)
		b.buf = append(b.buf, make([]byte, 16)...)

		shp, err := DecodeShapefile(b.buf)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(shp.Records) != 1 {
			t.Errorf("got %d records, want 1 (corrupt record dropped)", len(shp.Records))
		}
	})

	t.Run("truncated final record ends file", func(t *testing.T) {
		b := newSHPBuilder(3, 0, 0, 1, 1)
		b.record(1, polyLineContent(3, []int32{0}, flatPoints(3)))
		full := len(b.buf)
		b.record(2, polyLineContent(3, []int32{0}, flatPoints(3)))
		data := b.buf[:full+10] // cut into the second record

		shp, err := DecodeShapefile(data)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(shp.Records) != 1 {
			t.Errorf("got %d records, want 1 (truncated record dropped)", len(shp.Records))
		}
	})
}

func TestDecodeShapefileUnsupportedType(t *testing.T) {
	for _, code := range []int32{1, 5, 8, 15} {
		b := newSHPBuilder(code, 0, 0, 1, 1)
		_, err := DecodeShapefile(b.buf)
		if err == nil {
			t.Fatalf("shape type %d: expected error", code)
		}
		ust, ok := err.(*ErrUnsupportedShapeType)
		if !ok {
			t.Fatalf("shape type %d: wrong error type: %v", code, err)
		}
		if ust.Code != code {
			t.Errorf("error code %d, want %d", ust.Code, code)
		}
	}
}

func TestDecodeShapefilePolyLineZM(t *testing.T) {
	// PolyLineZ and PolyLineM records append Z/M blocks after the XY
	// points; the decoder only reads XY and must not be confused by the
	// trailing ordinates.
	for _, code := range []int32{13, 23} {
		b := newSHPBuilder(code, 0, 0, 1, 1)
		content := polyLineContent(code, []int32{0}, flatPoints(3))
		content = append(content, make([]byte, 16+8*3)...) // range + ordinates
		b.record(1, content)

		shp, err := DecodeShapefile(b.buf)
		if err != nil {
			t.Fatalf("type %d: decode failed: %v", code, err)
		}
		if len(shp.Records[0]) != 1 || len(shp.Records[0][0]) != 3 {
			t.Errorf("type %d: unexpected geometry %v", code, shp.Records[0])
		}
	}
}
