// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// SectionDataFromRVA returns the raw bytes backing rva..rva+length,
// looked up through pe.Sections (sorted by VirtualAddress), first match
// wins. When includeHeaders is true, an rva that no section covers but
// that lies below the file size (such as one in the header region) is
// also satisfied, read directly at that file offset. When
// allowVirtualData is true, a read that
// runs past a section's SizeOfRawData but still inside its VirtualSize
// is zero-padded instead of failing, matching the zero-fill Windows'
// loader performs for the BSS-like tail of a section.
func (pe *File) SectionDataFromRVA(rva, length uint32, includeHeaders, allowVirtualData bool) ([]byte, error) {
	for i := range pe.Sections {
		s := &pe.Sections[i].Header
		virtualSize := s.VirtualSize
		if virtualSize == 0 {
			virtualSize = s.SizeOfRawData
		}
		if rva < s.VirtualAddress || rva >= s.VirtualAddress+virtualSize {
			continue
		}
		delta := rva - s.VirtualAddress
		available := s.SizeOfRawData
		if delta >= available {
			if !allowVirtualData {
				return nil, ErrOutsideBoundary
			}
			return make([]byte, length), nil
		}
		start := s.PointerToRawData + delta
		end := start + length
		if end <= s.PointerToRawData+s.SizeOfRawData {
			return pe.ReadBytesAtOffset(start, length)
		}
		if !allowVirtualData {
			return nil, ErrOutsideBoundary
		}
		raw, err := pe.ReadBytesAtOffset(start, s.SizeOfRawData-delta)
		if err != nil {
			return nil, err
		}
		out := make([]byte, length)
		copy(out, raw)
		return out, nil
	}
	if includeHeaders && rva < pe.size {
		return pe.ReadBytesAtOffset(rva, length)
	}
	return nil, ErrOutsideBoundary
}

// SectionDataLengthFromRVA returns how many bytes are available to
// read starting at rva before the owning section's virtual extent
// ends, or 0 if rva is not backed by any section.
func (pe *File) SectionDataLengthFromRVA(rva uint32) uint32 {
	for i := range pe.Sections {
		s := &pe.Sections[i].Header
		virtualSize := s.VirtualSize
		if virtualSize == 0 {
			virtualSize = s.SizeOfRawData
		}
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+virtualSize {
			return s.VirtualAddress + virtualSize - rva
		}
	}
	return 0
}

func (pe *File) securityDirectoryEntry() (DataDirectory, error) {
	switch pe.Is64 {
	case true:
		oh, ok := pe.NtHeader.OptionalHeader.(ImageOptionalHeader64)
		if !ok {
			return DataDirectory{}, ErrOutsideBoundary
		}
		return oh.DataDirectory[ImageDirectoryEntryCertificate], nil
	default:
		oh, ok := pe.NtHeader.OptionalHeader.(ImageOptionalHeader32)
		if !ok {
			return DataDirectory{}, ErrOutsideBoundary
		}
		return oh.DataDirectory[ImageDirectoryEntryCertificate], nil
	}
}

// StripCertificateTable zeroes the security directory entry and
// truncates the file to the start of the certificate table, the one
// write-direction mutation this package supports: removing an
// Authenticode signature without resigning the file.
func (pe *File) StripCertificateTable() ([]byte, error) {
	dirEntry, err := pe.securityDirectoryEntry()
	if err != nil {
		return nil, err
	}
	if dirEntry.VirtualAddress == 0 {
		return pe.data, nil
	}
	out := make([]byte, dirEntry.VirtualAddress)
	copy(out, pe.data[:dirEntry.VirtualAddress])
	if locations, err := pe.parseLocations(); err == nil {
		if entry, ok := locations["datadir_certtable"]; ok && entry.Start+entry.Length <= uint32(len(out)) {
			for i := entry.Start; i < entry.Start+entry.Length; i++ {
				out[i] = 0
			}
		}
	}
	return out, nil
}
