package parser

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	dbfHeaderSize     = 32
	dbfDescriptorSize = 32
	dbfTerminator     = 0x0D
	dbfDeletedMarker  = 0x2A
)

// dbfField is one entry from the DBF field descriptor table. Only the
// name and declared width matter here: widths position each field's byte
// range inside the fixed-length records.
type dbfField struct {
	Name     string
	Type     byte
	Length   int
	Decimals int
}

// ReadDBFContours reads the integer CONT attribute column from a DBF file.
func ReadDBFContours(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dbf: %w", err)
	}
	values, err := DecodeDBFColumn(data, "CONT")
	if err != nil {
		if nf, ok := err.(*ErrFieldNotFound); ok {
			nf.Path = path
			return nil, nf
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// DecodeDBFColumn decodes one integer-valued attribute column from DBF
// bytes, matched by field name case-insensitively.
//
// Every record yields exactly one value so the result stays index-aligned
// with the shapefile records: deleted records (first byte 0x2A) and values
// that fail numeric parsing both contribute 0 instead of aborting the
// file. That per-record recovery is deliberate and asymmetric with the
// fatal handling of header-level problems.
func DecodeDBFColumn(data []byte, column string) ([]int, error) {
	if len(data) < dbfHeaderSize {
		return nil, &ErrTruncatedRecord{Offset: 0, Need: dbfHeaderSize, Have: len(data)}
	}

	// Header: record count u32 at 4, header length u16 at 8, record
	// length u16 at 10, all little-endian (dBASE III layout).
	numRecords := int(binary.LittleEndian.Uint32(data[4:8]))
	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	recordLen := int(binary.LittleEndian.Uint16(data[10:12]))
	if recordLen < 1 {
		// Records start with the 1-byte deletion flag; a shorter declared
		// length cannot hold any record at all.
		return nil, &ErrFormat{
			Offset:   10,
			Expected: "record length >= 1",
			Found:    fmt.Sprintf("%d", recordLen),
		}
	}

	fields, err := decodeFieldDescriptors(data)
	if err != nil {
		return nil, err
	}

	columnIdx := -1
	for i, fd := range fields {
		if strings.EqualFold(fd.Name, column) {
			columnIdx = i
			break
		}
	}
	if columnIdx == -1 {
		return nil, &ErrFieldNotFound{Field: column}
	}

	values := make([]int, 0, numRecords)
	offset := headerLen
	for r := 0; r < numRecords; r++ {
		if offset+recordLen > len(data) {
			break // short final record ends the table
		}
		rec := data[offset : offset+recordLen]
		offset += recordLen

		if rec[0] == dbfDeletedMarker {
			// Deleted records still occupy a slot; keep alignment.
			values = append(values, 0)
			continue
		}

		// Fields are packed after the 1-byte deletion flag in
		// descriptor order; walk widths to the target field.
		pos := 1
		raw := ""
		for i, fd := range fields {
			if pos+fd.Length > len(rec) {
				break
			}
			if i == columnIdx {
				raw = strings.TrimSpace(string(rec[pos : pos+fd.Length]))
				break
			}
			pos += fd.Length
		}

		values = append(values, parseContourValue(raw))
	}

	return values, nil
}

// decodeFieldDescriptors reads 32-byte field descriptors starting at
// offset 32 until the 0x0D terminator.
func decodeFieldDescriptors(data []byte) ([]dbfField, error) {
	var fields []dbfField
	offset := dbfHeaderSize
	for {
		if offset >= len(data) {
			return nil, &ErrTruncatedRecord{Offset: offset, Need: offset + 1, Have: len(data)}
		}
		if data[offset] == dbfTerminator {
			return fields, nil
		}
		if offset+dbfDescriptorSize > len(data) {
			return nil, &ErrTruncatedRecord{Offset: offset, Need: offset + dbfDescriptorSize, Have: len(data)}
		}
		desc := data[offset : offset+dbfDescriptorSize]
		offset += dbfDescriptorSize

		// Name is 11 bytes, null-terminated.
		name := desc[:11]
		if i := strings.IndexByte(string(name), 0); i >= 0 {
			name = name[:i]
		}

		fields = append(fields, dbfField{
			Name:     string(name),
			Type:     desc[11],
			Length:   int(desc[16]),
			Decimals: int(desc[17]),
		})
	}
}

// parseContourValue parses a possibly-fractional decimal string and rounds
// to the nearest integer. Unparseable values become 0 (one bad record must
// not discard the dataset).
func parseContourValue(raw string) int {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}
