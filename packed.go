// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"sync"
)

// PackedState is the provenance every record the packed codec decodes
// carries about where it came from in the underlying image, kept
// separate from the record's own field layout so a caller can tell
// where in the ByteRange a record was read, and whether its trailing
// bytes were physically present or supplied by the virtual-read
// zero-fill. Types that want this tracked embed it by value as a
// field literally named `Base`.
//
// ByteRange carries no base offset, so deserializePacked sets
// AbsOffset, RelOffset and BufferPos all to the record's offset within
// the ByteRange it was given; they equal the file offset only when
// that range starts at file offset 0, as pe.buf does.
type PackedState struct {
	AbsOffset    uint64 // offset the record was read from, within the ByteRange supplied to deserializePacked
	RelOffset    uint64 // offset relative to the ByteRange supplied to deserializePacked
	BufferPos    uint64 // same value as RelOffset
	PhysicalSize uint64 // bytes of this record backed by real data
	VirtualSize  uint64 // bytes this record nominally occupies
}

var baseFieldOffsets sync.Map // map[reflect.Type]int, -1 when the type has no Base field

var packedStateType = reflect.TypeOf(PackedState{})

// baseFieldOffset returns the byte offset of a struct type's embedded
// `Base PackedState` field, -1 if it has none. Computed once per type
// and cached, since reflect.Type.FieldByName walks the struct tag
// table on every call.
func baseFieldOffset(t reflect.Type) int {
	if v, ok := baseFieldOffsets.Load(t); ok {
		return v.(int)
	}
	offset := -1
	if f, ok := t.FieldByName("Base"); ok && f.Type == packedStateType {
		offset = int(f.Offset)
	}
	baseFieldOffsets.Store(t, offset)
	return offset
}

// deserializePacked decodes a little-endian, fixed-layout record out
// of br starting at pos into out (a pointer to struct), and reports
// the number of bytes the record occupies. When allowVirtual is set,
// a record whose trailing bytes fall past the range's physical size
// but still within its virtual size decodes successfully with those
// trailing bytes read as zero — the behavior a fixed-layout record
// straddling a section's raw/virtual boundary needs. When clear, any
// byte of the record missing from the physical data is an overrun.
func deserializePacked(br *ByteRange, pos uint64, out interface{}, allowVirtual bool) (uint64, error) {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		panic("deserializePacked: out must be a pointer to struct")
	}
	elem := v.Elem()
	t := elem.Type()
	hasBase := baseFieldOffset(t) >= 0

	// Base carries no bytes on disk; the wire size is the struct size
	// minus it when present.
	size := uint64(binary.Size(out))
	if hasBase {
		size -= uint64(binary.Size(PackedState{}))
	}

	var raw []byte
	var err error
	if allowVirtual {
		raw, err = br.ReadVirtual(pos, size)
	} else {
		raw, err = br.Read(pos, size)
	}
	if err != nil {
		return 0, err
	}

	reader := bytes.NewReader(raw)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "Base" && f.Type == packedStateType {
			continue
		}
		if err := binary.Read(reader, binary.LittleEndian, elem.Field(i).Addr().Interface()); err != nil {
			return 0, err
		}
	}

	if hasBase {
		physical := uint64(0)
		if pos < br.PhysicalSize() {
			physical = size
			if avail := br.PhysicalSize() - pos; avail < physical {
				physical = avail
			}
		}
		base := PackedState{
			AbsOffset:    pos,
			RelOffset:    pos,
			BufferPos:    pos,
			PhysicalSize: physical,
			VirtualSize:  size,
		}
		elem.FieldByName("Base").Set(reflect.ValueOf(base))
	}

	return size, nil
}

// packedCString reads a NUL-terminated ASCII string starting at pos
// in br's physical bytes, stopping at the first zero byte or the end
// of the available data.
func packedCString(br *ByteRange, pos uint64) string {
	data := br.Bytes()
	if pos >= uint64(len(data)) {
		return ""
	}
	end := pos
	for end < uint64(len(data)) && data[end] != 0 {
		end++
	}
	return string(data[pos:end])
}

// packedUTF16String reads a NUL-terminated UTF-16LE string starting
// at pos in br's physical bytes.
func packedUTF16String(br *ByteRange, pos uint64) (string, error) {
	data := br.Bytes()
	if pos >= uint64(len(data)) {
		return "", nil
	}
	rest := data[pos:]
	n := bytes.Index(rest, []byte{0, 0})
	switch {
	case n < 0:
		n = len(rest) - (len(rest) % 2)
	case n%2 != 0:
		n++
	}
	end := n + 2
	if end > len(rest) {
		end = len(rest)
	}
	return DecodeUTF16String(rest[:end])
}
