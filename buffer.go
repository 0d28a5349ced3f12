// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "errors"

// CodeBufferOverrun and CodeBufferNotContiguous (errorlist.go) are this
// range's error-list vocabulary; ByteRange itself only returns plain
// errors since it has no *File to append to.
var (
	// ErrBufferOverrun is returned when a read's window falls outside
	// the ByteRange it targets: past the virtual size for Sub and
	// ReadVirtual, past the physical size for Read.
	ErrBufferOverrun = errors.New("buffer overrun: read extends past the end of the range")

	// ErrBufferNotContiguous is returned when an operation requires a
	// single contiguous physical slice but the range has none (a pure
	// virtual window with no backing bytes at all).
	ErrBufferNotContiguous = errors.New("buffer range does not back a contiguous byte slice")
)

// ByteRange is a bounded view over a span of a PE image's bytes. It is
// the substrate every struct/field decoder in this package reads
// through instead of indexing a flat []byte directly.
//
// A range distinguishes its PHYSICAL size, the bytes actually present
// (backed by a memory-mapped file or an owned slice), from its
// VIRTUAL size, the span it is supposed to cover once the image is
// loaded into memory. A section's raw data is commonly shorter than
// its virtual size (e.g. a .bss-like tail of zero-initialized data);
// reads that land past the physical size but within the virtual size
// are satisfied with zeroes rather than failing.
type ByteRange struct {
	data         []byte
	physicalSize uint64
	virtualSize  uint64
	owned        bool
}

// NewByteRange wraps data as a ByteRange. virtualSize may exceed
// len(data) to describe a range whose tail is implicitly zero-filled;
// it is clamped up to len(data) if given smaller.
func NewByteRange(data []byte, virtualSize uint64) *ByteRange {
	physical := uint64(len(data))
	if virtualSize < physical {
		virtualSize = physical
	}
	return &ByteRange{data: data, physicalSize: physical, virtualSize: virtualSize}
}

// NewPhysicalByteRange wraps a plain, fully physical byte slice (virtual size
// equal to its length) — the shape a freshly parsed sub-buffer
// (an imported section, a certificate blob copied out of the file)
// normally takes once it no longer needs the virtual-tail behavior.
func NewPhysicalByteRange(data []byte) *ByteRange {
	return NewByteRange(data, uint64(len(data)))
}

// PhysicalSize returns the number of bytes actually backing this range.
func (b *ByteRange) PhysicalSize() uint64 {
	if b == nil {
		return 0
	}
	return b.physicalSize
}

// VirtualSize returns the range's nominal size once loaded into memory.
func (b *ByteRange) VirtualSize() uint64 {
	if b == nil {
		return 0
	}
	return b.virtualSize
}

// IsContiguous reports whether this range has any physical bytes at all.
func (b *ByteRange) IsContiguous() bool {
	return b != nil && len(b.data) > 0
}

// Sub returns the window [offset, offset+length) of this range. The
// window may extend past the physical size as long as it stays within
// the virtual size.
func (b *ByteRange) Sub(offset, length uint64) (*ByteRange, error) {
	if b == nil {
		if length == 0 {
			return &ByteRange{}, nil
		}
		return nil, ErrBufferOverrun
	}
	if length == 0 {
		return &ByteRange{owned: b.owned}, nil
	}
	end := offset + length
	if end < offset || end > b.virtualSize {
		return nil, ErrBufferOverrun
	}

	var sub []byte
	switch {
	case offset >= b.physicalSize:
		sub = nil
	case end <= b.physicalSize:
		sub = b.data[offset:end]
	default:
		sub = b.data[offset:b.physicalSize]
	}

	return &ByteRange{
		data:         sub,
		physicalSize: uint64(len(sub)),
		virtualSize:  length,
		owned:        b.owned,
	}, nil
}

// Read returns exactly length physical bytes starting at offset. It
// fails with ErrBufferOverrun if any part of the window is not
// backed by physical data, even when that part lies within the
// virtual size — callers that tolerate the virtual tail must use
// ReadVirtual instead.
func (b *ByteRange) Read(offset, length uint64) ([]byte, error) {
	if b == nil {
		if length == 0 {
			return nil, nil
		}
		return nil, ErrBufferOverrun
	}
	end := offset + length
	if end < offset || end > b.physicalSize {
		return nil, ErrBufferOverrun
	}
	return b.data[offset:end], nil
}

// ReadVirtual returns length bytes starting at offset, zero-filling
// any portion that falls beyond the physical size but within the
// virtual size. It fails only when the window exceeds the virtual size.
func (b *ByteRange) ReadVirtual(offset, length uint64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	if b == nil {
		return nil, ErrBufferOverrun
	}
	end := offset + length
	if end < offset || end > b.virtualSize {
		return nil, ErrBufferOverrun
	}

	out := make([]byte, length)
	if offset >= b.physicalSize {
		return out, nil
	}
	physEnd := end
	if physEnd > b.physicalSize {
		physEnd = b.physicalSize
	}
	copy(out, b.data[offset:physEnd])
	return out, nil
}

// IntoOwned copies the physical backing of this range into freshly
// allocated memory, detaching it from whatever memory-mapped file it
// currently shares. Used whenever a piece of a *File (an extracted
// certificate blob, a copied-out section) needs to outlive the
// mapping the *File itself was opened against.
func (b *ByteRange) IntoOwned() *ByteRange {
	if b == nil || b.owned || len(b.data) == 0 {
		return b
	}
	owned := make([]byte, len(b.data))
	copy(owned, b.data)
	return &ByteRange{data: owned, physicalSize: b.physicalSize, virtualSize: b.virtualSize, owned: true}
}

// Bytes returns the physical bytes backing this range without copying.
func (b *ByteRange) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}
