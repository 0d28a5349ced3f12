// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// AddressTranslator converts between the three coordinate systems an
// image is addressed in: file offset (position on disk/in the byte
// range), RVA (relative to the image base once mapped into memory),
// and VA (the absolute in-memory address). It is built once per File
// from the section table and the optional header's ImageBase, and is
// the single place every directory loader goes through instead of
// re-deriving section geometry itself.
//
// Section lookups walk pe.Sections, which ParseSectionHeader sorts by
// VirtualAddress, and take the first match, so overlapping section
// headers resolve to the one with the lowest VirtualAddress. The order
// among headers with equal VirtualAddress is not defined (the sort is
// not stable).
type AddressTranslator struct {
	pe        *File
	imageBase uint64
}

// NewAddressTranslator builds a translator bound to pe's current
// section table and image base.
func NewAddressTranslator(pe *File) *AddressTranslator {
	var base uint64
	switch pe.Is64 {
	case true:
		base = pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).ImageBase
	default:
		base = uint64(pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).ImageBase)
	}
	return &AddressTranslator{pe: pe, imageBase: base}
}

func (t *AddressTranslator) sectionForRVA(rva uint32) *ImageSectionHeader {
	for i := range t.pe.Sections {
		s := &t.pe.Sections[i].Header
		size := s.VirtualSize
		if size == 0 {
			size = s.SizeOfRawData
		}
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+size {
			return s
		}
	}
	return nil
}

// sectionIndexForRVA returns the index into pe.Sections (and the
// parallel pe.SectionData byte ranges) of the section covering rva,
// or -1 if none does.
func (t *AddressTranslator) sectionIndexForRVA(rva uint32) int {
	for i := range t.pe.Sections {
		s := &t.pe.Sections[i].Header
		size := s.VirtualSize
		if size == 0 {
			size = s.SizeOfRawData
		}
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+size {
			return i
		}
	}
	return -1
}

// ReadAt reads length bytes at rva through the section's own
// ByteRange (pe.SectionData), honoring the virtual-read zero-fill for
// the portion of the section past its raw data. Falls back to the
// file's own ByteRange when rva falls outside every section, which
// covers data still reachable from the raw header region.
func (t *AddressTranslator) ReadAt(rva, length uint32) ([]byte, error) {
	idx := t.sectionIndexForRVA(rva)
	if idx < 0 || idx >= len(t.pe.SectionData) {
		b, err := t.pe.buf.ReadVirtual(uint64(rva), uint64(length))
		if err != nil {
			return nil, CodedError{Subsystem: SubsystemAddressConverter, Code: CodeBufferOverrun}
		}
		return b, nil
	}

	section := t.pe.SectionData[idx]
	if !section.IsContiguous() && length > 0 {
		return nil, CodedError{Subsystem: SubsystemAddressConverter, Code: CodeBufferNotContiguous}
	}
	rel := uint64(rva - t.pe.Sections[idx].Header.VirtualAddress)
	b, err := section.ReadVirtual(rel, uint64(length))
	if err != nil {
		return nil, CodedError{Subsystem: SubsystemAddressConverter, Code: CodeBufferOverrun}
	}
	return b, nil
}

// RVAToFileOffset converts an RVA to a file offset, or reports
// address_conversion_overflow when the RVA is not covered by any
// section (and doesn't fall within the header region either).
func (t *AddressTranslator) RVAToFileOffset(rva uint32) (uint32, error) {
	var sizeOfHeaders uint32
	if t.pe.Is64 {
		sizeOfHeaders = t.pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).SizeOfHeaders
	} else {
		sizeOfHeaders = t.pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).SizeOfHeaders
	}
	if rva < sizeOfHeaders {
		return rva, nil
	}
	s := t.sectionForRVA(rva)
	if s == nil {
		return 0, CodedError{Subsystem: SubsystemAddressConverter, Code: CodeAddressConversionOverflow}
	}
	delta := rva - s.VirtualAddress
	if s.PointerToRawData == 0 {
		return 0, CodedError{Subsystem: SubsystemAddressConverter, Code: CodeAddressConversionOverflow}
	}
	return s.PointerToRawData + delta, nil
}

// FileOffsetToRVA converts a file offset to an RVA. It walks pe.Sections
// in slice order and uses the first section whose raw data
// [PointerToRawData, PointerToRawData+SizeOfRawData) covers offset; an
// offset outside every section's raw data but inside the file is
// returned unchanged.
func (t *AddressTranslator) FileOffsetToRVA(offset uint32) (uint32, error) {
	for i := range t.pe.Sections {
		s := &t.pe.Sections[i].Header
		if offset >= s.PointerToRawData && offset < s.PointerToRawData+s.SizeOfRawData {
			return s.VirtualAddress + (offset - s.PointerToRawData), nil
		}
	}
	if offset < uint32(len(t.pe.data)) {
		return offset, nil
	}
	return 0, CodedError{Subsystem: SubsystemAddressConverter, Code: CodeAddressConversionOverflow}
}

// RVAToVA adds the image base to an RVA.
func (t *AddressTranslator) RVAToVA(rva uint32) uint64 {
	return t.imageBase + uint64(rva)
}

// VAToRVA subtracts the image base from a VA, reporting overflow if va
// is below the image base.
func (t *AddressTranslator) VAToRVA(va uint64) (uint32, error) {
	if va < t.imageBase {
		return 0, CodedError{Subsystem: SubsystemAddressConverter, Code: CodeAddressConversionOverflow}
	}
	delta := va - t.imageBase
	if delta > 0xffffffff {
		return 0, CodedError{Subsystem: SubsystemAddressConverter, Code: CodeAddressConversionOverflow}
	}
	return uint32(delta), nil
}
