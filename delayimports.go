// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "encoding/binary"

const maxDelayImportDescriptors = 0x1000

// ImageDelayImportDescriptor represents the IMAGE_DELAYLOAD_DESCRIPTOR,
// the entry of the delay-import directory. Unlike regular imports, the
// thunks here are only resolved the first time one of the module's
// functions is actually called.
type ImageDelayImportDescriptor struct {
	// Non-zero (bit 0 set) for the new (VC7+) format, or zero for the old
	// (pre-VC7) one in which the RVAs below are actually plain VAs.
	Attributes uint32 `json:"attributes"`

	// RVA to the name of the target library (NUL-terminated ASCII string).
	Name uint32 `json:"name"`

	// RVA to the HMODULE caching location for the target library.
	ModuleHandleRVA uint32 `json:"module_handle_rva"`

	// RVA to the delay import address table.
	ImportAddressTableRVA uint32 `json:"import_address_table_rva"`

	// RVA to the delay import name table, the matching layout to the IAT.
	ImportNameTableRVA uint32 `json:"import_name_table_rva"`

	// RVA to the bound delay import table, or 0 if the image is not bound.
	BoundImportAddressTableRVA uint32 `json:"bound_import_address_table_rva"`

	// RVA to the unload delay import table, or 0 if unloading isn't supported.
	UnloadInformationTableRVA uint32 `json:"unload_information_table_rva"`

	// Timestamp the image was bound, 0 if not bound.
	TimeDateStamp uint32 `json:"time_date_stamp"`
}

// DelayImport wraps one delay-load descriptor together with the
// functions resolved out of its name/address tables.
type DelayImport struct {
	Offset     uint32                     `json:"offset"`
	Name       string                     `json:"name"`
	Functions  []ImportFunction           `json:"functions"`
	Descriptor ImageDelayImportDescriptor `json:"descriptor"`
}

// parseDelayImportDirectory follows the same recipe as the regular
// import directory loader: walk a NUL descriptor-terminated table,
// resolve each DLL's delay-loaded functions through its name/address
// thunk pair, and accumulate rather than abort on a bad entry.
func (pe *File) parseDelayImportDirectory(rva, size uint32) error {
	errorList := &ErrorList{}

	for i := 0; i < maxDelayImportDescriptors; i++ {
		desc := ImageDelayImportDescriptor{}
		fileOffset := pe.GetOffsetFromRva(rva)
		descSize := uint32(binary.Size(desc))
		if err := pe.structUnpack(&desc, fileOffset, descSize); err != nil {
			errorList.Add(SubsystemExportsDirectoryLoader, CodeInvalidDirectory)
			pe.logger.Warnf("delay import directory: unable to read descriptor at rva 0x%x", rva)
			break
		}

		if desc == (ImageDelayImportDescriptor{}) {
			break
		}
		rva += descSize

		maxLen := uint32(len(pe.data)) - fileOffset
		if rva > desc.ImportNameTableRVA || rva > desc.ImportAddressTableRVA {
			if rva < desc.ImportNameTableRVA {
				maxLen = rva - desc.ImportAddressTableRVA
			} else if rva < desc.ImportAddressTableRVA {
				maxLen = rva - desc.ImportNameTableRVA
			} else {
				maxLen = Max(rva-desc.ImportNameTableRVA, rva-desc.ImportAddressTableRVA)
			}
		}

		var fns []ImportFunction
		var err error
		if pe.Is64 {
			fns, err = pe.parseImports64(&desc, maxLen)
		} else {
			fns, err = pe.parseImports32(&desc, maxLen)
		}
		if err != nil {
			errorList.Addf(SubsystemExportsDirectoryLoader, CodeUnableToLoadEntries,
				"delay import at rva 0x%x: %v", fileOffset, err)
			pe.logger.Warnf("delay import directory: %v", err)
			continue
		}

		dllName := pe.getStringAtRVA(desc.Name, maxDllLength)
		if !IsValidDosFilename(dllName) {
			errorList.Add(SubsystemExportsDirectoryLoader, CodeInvalidEntry)
			continue
		}

		pe.DelayImports = append(pe.DelayImports, DelayImport{
			Offset:     fileOffset,
			Name:       dllName,
			Functions:  fns,
			Descriptor: desc,
		})
	}

	if !errorList.Empty() {
		pe.Errors = append(pe.Errors, errorList.Errors()...)
	}
	return nil
}
