// Package fbx reads the node-record tree of binary FBX files.
//
// Only the container format is decoded here; the importer interprets Objects and
// Connections. Record headers use 32-bit fields before version 7500 and 64-bit fields
// from 7500 on. Array properties may be zlib-compressed.
package fbx

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// maxInflateRatio bounds how far deflate can expand its input.
const maxInflateRatio = 1032

// Magic is the 21-byte signature at the start of every binary FBX file.
const Magic = "Kaydara FBX Binary  \x00"

const headerLen = 27 // magic + 0x1A 0x00 + uint32 version

// ErrASCII is returned for text FBX files, which are not supported.
var ErrASCII = errors.New("fbx: ascii fbx is not supported")

// Record is one node of the FBX tree: a name, typed properties and nested records.
type Record struct {
	Name       string
	Properties []any
	Children   []*Record
}

// Child returns the first direct child named name, or nil.
func (r *Record) Child(name string) *Record {
	for _, c := range r.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child named name.
func (r *Record) ChildrenNamed(name string) []*Record {
	var out []*Record
	for _, c := range r.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Document is a parsed binary FBX file.
type Document struct {
	Version uint32
	Root    *Record // synthetic root holding the top-level records
}

// Parse decodes a binary FBX file held in memory.
func Parse(data []byte) (*Document, error) {
	if len(data) < headerLen || string(data[:len(Magic)]) != Magic {
		if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(";")) || bytes.Contains(data[:min(len(data), 256)], []byte("FBXHeaderExtension")) {
			return nil, ErrASCII
		}
		return nil, errors.New("fbx: missing binary header")
	}
	p := &parser{data: data, pos: headerLen}
	p.version = binary.LittleEndian.Uint32(data[23:27])
	doc := &Document{Version: p.version, Root: &Record{}}
	for p.pos < len(data) {
		rec, end, err := p.record()
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		doc.Root.Children = append(doc.Root.Children, rec)
	}
	return doc, nil
}

type parser struct {
	data    []byte
	pos     int
	version uint32
}

func (p *parser) wide() bool {
	return p.version >= 7500
}

func (p *parser) need(n int) error {
	if n < 0 || p.pos+n > len(p.data) {
		return fmt.Errorf("fbx: truncated at offset %d", p.pos)
	}
	return nil
}

func (p *parser) u8() (uint8, error) {
	if err := p.need(1); err != nil {
		return 0, err
	}
	v := p.data[p.pos]
	p.pos++
	return v, nil
}

func (p *parser) u32() (uint32, error) {
	if err := p.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(p.data[p.pos:])
	p.pos += 4
	return v, nil
}

func (p *parser) u64() (uint64, error) {
	if err := p.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(p.data[p.pos:])
	p.pos += 8
	return v, nil
}

// headerField reads an offset or count, 32 or 64 bits wide depending on the version.
func (p *parser) headerField() (uint64, error) {
	if p.wide() {
		return p.u64()
	}
	v, err := p.u32()
	return uint64(v), err
}

func (p *parser) bytes(n int) ([]byte, error) {
	if err := p.need(n); err != nil {
		return nil, err
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

// record reads one node record. end is true for the all-zero sentinel that closes a
// nested list (or the top level).
func (p *parser) record() (rec *Record, end bool, err error) {
	endOffset, err := p.headerField()
	if err != nil {
		return nil, false, err
	}
	numProps, err := p.headerField()
	if err != nil {
		return nil, false, err
	}
	if _, err := p.headerField(); err != nil { // property list length
		return nil, false, err
	}
	nameLen, err := p.u8()
	if err != nil {
		return nil, false, err
	}
	if endOffset == 0 {
		return nil, true, nil
	}
	if endOffset > uint64(len(p.data)) || endOffset <= uint64(p.pos) {
		return nil, false, fmt.Errorf("fbx: bad record end offset %d at %d", endOffset, p.pos)
	}
	name, err := p.bytes(int(nameLen))
	if err != nil {
		return nil, false, err
	}
	rec = &Record{Name: string(name)}
	for i := uint64(0); i < numProps; i++ {
		v, err := p.property()
		if err != nil {
			return nil, false, fmt.Errorf("fbx: %s property %d: %w", rec.Name, i, err)
		}
		rec.Properties = append(rec.Properties, v)
	}
	for uint64(p.pos) < endOffset {
		child, end, err := p.record()
		if err != nil {
			return nil, false, err
		}
		if end {
			break
		}
		rec.Children = append(rec.Children, child)
	}
	p.pos = int(endOffset)
	return rec, false, nil
}

func (p *parser) property() (any, error) {
	code, err := p.u8()
	if err != nil {
		return nil, err
	}
	switch code {
	case 'Y':
		b, err := p.bytes(2)
		if err != nil {
			return nil, err
		}
		return int16(binary.LittleEndian.Uint16(b)), nil
	case 'C':
		b, err := p.u8()
		return b != 0, err
	case 'I':
		v, err := p.u32()
		return int32(v), err
	case 'F':
		v, err := p.u32()
		return math.Float32frombits(v), err
	case 'D':
		v, err := p.u64()
		return math.Float64frombits(v), err
	case 'L':
		v, err := p.u64()
		return int64(v), err
	case 'S':
		n, err := p.u32()
		if err != nil {
			return nil, err
		}
		b, err := p.bytes(int(n))
		return string(b), err
	case 'R':
		n, err := p.u32()
		if err != nil {
			return nil, err
		}
		b, err := p.bytes(int(n))
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	case 'f', 'd', 'l', 'i', 'b':
		return p.array(code)
	default:
		return nil, fmt.Errorf("unknown property type %q", code)
	}
}

func (p *parser) array(code byte) (any, error) {
	count, err := p.u32()
	if err != nil {
		return nil, err
	}
	encoding, err := p.u32()
	if err != nil {
		return nil, err
	}
	size, err := p.u32()
	if err != nil {
		return nil, err
	}
	raw, err := p.bytes(int(size))
	if err != nil {
		return nil, err
	}
	elem := map[byte]int{'f': 4, 'd': 8, 'l': 8, 'i': 4, 'b': 1}[code]
	want := int64(count) * int64(elem)
	if encoding == 1 {
		if want > int64(len(raw))*maxInflateRatio {
			return nil, fmt.Errorf("array of %d elements cannot inflate from %d bytes", count, len(raw))
		}
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		// Inflate no further than the declared element count needs.
		raw, err = io.ReadAll(io.LimitReader(zr, want+1))
		_ = zr.Close()
		if err != nil {
			return nil, err
		}
	}
	if int64(len(raw)) < want {
		return nil, fmt.Errorf("array of %d elements holds %d bytes", count, len(raw))
	}
	switch code {
	case 'f':
		out := make([]float32, count)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	case 'd':
		out := make([]float64, count)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return out, nil
	case 'l':
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return out, nil
	case 'i':
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	default:
		out := make([]bool, count)
		for i := range out {
			out[i] = raw[i] != 0
		}
		return out, nil
	}
}
