// Package fbxtest writes minimal binary FBX files for tests.
package fbxtest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"math"
)

const magic = "Kaydara FBX Binary  \x00"

// Compressed is a float64 array property written zlib-compressed.
type Compressed []float64

// Inflated is a float64 array property declaring Count elements whose zlib stream
// inflates to Payload, whatever its length.
type Inflated struct {
	Count   uint32
	Payload []byte
}

// Record is one node record to encode. Props may hold string, int64, int32, float64,
// []float64, Compressed and Inflated values.
type Record struct {
	Name     string
	Props    []any
	Children []Record
}

// Encode returns a binary FBX file of the given version containing records at top level.
func Encode(version uint32, records ...Record) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.Write([]byte{0x1A, 0x00})
	_ = binary.Write(&buf, binary.LittleEndian, version)
	wide := version >= 7500
	for _, r := range records {
		buf.Write(encodeRecord(r, buf.Len(), wide))
	}
	buf.Write(make([]byte, headerLen(wide)))
	return buf.Bytes()
}

func headerLen(wide bool) int {
	if wide {
		return 25
	}
	return 13
}

func encodeRecord(r Record, start int, wide bool) []byte {
	var props bytes.Buffer
	for _, p := range r.Props {
		encodeProperty(&props, p)
	}
	childStart := start + headerLen(wide) + len(r.Name) + props.Len()
	var kids bytes.Buffer
	for _, c := range r.Children {
		kids.Write(encodeRecord(c, childStart+kids.Len(), wide))
	}
	if len(r.Children) > 0 {
		kids.Write(make([]byte, headerLen(wide)))
	}
	end := childStart + kids.Len()

	var out bytes.Buffer
	field := func(v int) {
		if wide {
			_ = binary.Write(&out, binary.LittleEndian, uint64(v))
		} else {
			_ = binary.Write(&out, binary.LittleEndian, uint32(v))
		}
	}
	field(end)
	field(len(r.Props))
	field(props.Len())
	out.WriteByte(byte(len(r.Name)))
	out.WriteString(r.Name)
	out.Write(props.Bytes())
	out.Write(kids.Bytes())
	return out.Bytes()
}

func encodeProperty(buf *bytes.Buffer, v any) {
	le := binary.LittleEndian
	switch x := v.(type) {
	case string:
		buf.WriteByte('S')
		_ = binary.Write(buf, le, uint32(len(x)))
		buf.WriteString(x)
	case int64:
		buf.WriteByte('L')
		_ = binary.Write(buf, le, x)
	case int32:
		buf.WriteByte('I')
		_ = binary.Write(buf, le, x)
	case float64:
		buf.WriteByte('D')
		_ = binary.Write(buf, le, math.Float64bits(x))
	case []float64:
		buf.WriteByte('d')
		_ = binary.Write(buf, le, uint32(len(x)))
		_ = binary.Write(buf, le, uint32(0))
		_ = binary.Write(buf, le, uint32(len(x)*8))
		_ = binary.Write(buf, le, x)
	case Compressed:
		var raw bytes.Buffer
		_ = binary.Write(&raw, le, []float64(x))
		var z bytes.Buffer
		zw := zlib.NewWriter(&z)
		_, _ = zw.Write(raw.Bytes())
		_ = zw.Close()
		buf.WriteByte('d')
		_ = binary.Write(buf, le, uint32(len(x)))
		_ = binary.Write(buf, le, uint32(1))
		_ = binary.Write(buf, le, uint32(z.Len()))
		buf.Write(z.Bytes())
	case Inflated:
		var z bytes.Buffer
		zw := zlib.NewWriter(&z)
		_, _ = zw.Write(x.Payload)
		_ = zw.Close()
		buf.WriteByte('d')
		_ = binary.Write(buf, le, x.Count)
		_ = binary.Write(buf, le, uint32(1))
		_ = binary.Write(buf, le, uint32(z.Len()))
		buf.Write(z.Bytes())
	default:
		panic("fbxtest: unsupported property type")
	}
}

// P builds a Properties70 "P" record with three double values, as used for
// "Lcl Translation", "Lcl Rotation" and "Lcl Scaling".
func P(name string, x, y, z float64) Record {
	return Record{Name: "P", Props: []any{name, name, "", "A", x, y, z}}
}
