// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "encoding/binary"

const maxExportNameLength = 0x200

// ImageExportDirectory represents the IMAGE_EXPORT_DIRECTORY structure,
// the header of the export directory table. Unlike imports, there is
// only ever one of these per image.
type ImageExportDirectory struct {
	Characteristics       uint32 `json:"characteristics"`
	TimeDateStamp         uint32 `json:"time_date_stamp"`
	MajorVersion          uint16 `json:"major_version"`
	MinorVersion          uint16 `json:"minor_version"`
	Name                  uint32 `json:"name"`
	Base                  uint32 `json:"base"`
	NumberOfFunctions     uint32 `json:"number_of_functions"`
	NumberOfNames         uint32 `json:"number_of_names"`
	AddressOfFunctions    uint32 `json:"address_of_functions"`
	AddressOfNames        uint32 `json:"address_of_names"`
	AddressOfNameOrdinals uint32 `json:"address_of_name_ordinals"`
}

// ExportFunction is one resolved entry of the export table: either a
// regular export (Address inside the image, outside the export
// directory) or a forwarder (Address inside the export directory,
// Forwarder holds the "OtherDll.Func" string it redirects to).
type ExportFunction struct {
	Name      string `json:"name"`
	Address   uint32 `json:"address"`
	Ordinal   uint32 `json:"ordinal"`
	Forwarder string `json:"forwarder,omitempty"`
}

// Export wraps the directory header together with its resolved
// function table.
type Export struct {
	Struct    ImageExportDirectory `json:"struct"`
	Name      string                `json:"name"`
	Functions []ExportFunction      `json:"functions"`
}

// parseExportDirectory follows the shared directory-loader recipe:
// read the fixed header, then walk the three parallel tables
// (addresses, names, name ordinals) to resolve every exported symbol,
// recognizing forwarders by address locality instead of failing on
// them.
func (pe *File) parseExportDirectory(rva, size uint32) error {
	errorList := &ErrorList{}

	exportDir := ImageExportDirectory{}
	exportDirSize := uint32(binary.Size(exportDir))
	offset := pe.GetOffsetFromRva(rva)
	if err := pe.structUnpack(&exportDir, offset, exportDirSize); err != nil {
		errorList.Add(SubsystemExportsDirectoryLoader, CodeInvalidDirectory)
		pe.logger.Warnf("export directory: unable to read header at rva 0x%x", rva)
		pe.Errors = append(pe.Errors, errorList.Errors()...)
		return nil
	}

	dllName := pe.getStringAtRVA(exportDir.Name, maxExportNameLength)
	if !IsValidDosFilename(dllName) {
		dllName = "*invalid*"
	}

	if exportDir.NumberOfFunctions == 0 || exportDir.NumberOfFunctions > 0x10000 {
		errorList.Add(SubsystemExportsDirectoryLoader, CodeInvalidEntry)
		pe.Export = Export{Struct: exportDir, Name: dllName}
		pe.Errors = append(pe.Errors, errorList.Errors()...)
		return nil
	}

	addressesOffset := pe.GetOffsetFromRva(exportDir.AddressOfFunctions)
	addresses := make([]uint32, exportDir.NumberOfFunctions)
	for i := uint32(0); i < exportDir.NumberOfFunctions; i++ {
		v, err := pe.ReadUint32(addressesOffset + i*4)
		if err != nil {
			errorList.Add(SubsystemExportsDirectoryLoader, CodeUnableToLoadEntries)
			break
		}
		addresses[i] = v
	}

	names := make(map[uint16]string)
	if exportDir.NumberOfNames > 0 && exportDir.NumberOfNames <= exportDir.NumberOfFunctions {
		namesOffset := pe.GetOffsetFromRva(exportDir.AddressOfNames)
		ordinalsOffset := pe.GetOffsetFromRva(exportDir.AddressOfNameOrdinals)
		for i := uint32(0); i < exportDir.NumberOfNames; i++ {
			nameRVA, err := pe.ReadUint32(namesOffset + i*4)
			if err != nil {
				errorList.Add(SubsystemExportsDirectoryLoader, CodeUnableToLoadEntries)
				continue
			}
			ordinal, err := pe.ReadUint16(ordinalsOffset + i*2)
			if err != nil {
				errorList.Add(SubsystemExportsDirectoryLoader, CodeUnableToLoadEntries)
				continue
			}
			name := pe.getStringAtRVA(nameRVA, maxExportNameLength)
			names[ordinal] = name
		}
	}

	exportDirStart := rva
	exportDirEnd := rva + size

	functions := make([]ExportFunction, 0, len(addresses))
	for i, addr := range addresses {
		if addr == 0 {
			continue
		}
		fn := ExportFunction{
			Ordinal: exportDir.Base + uint32(i),
			Address: addr,
		}
		if n, ok := names[uint16(i)]; ok {
			fn.Name = n
		}
		if addr >= exportDirStart && addr < exportDirEnd {
			fn.Forwarder = pe.getStringAtRVA(addr, maxExportNameLength)
		}
		functions = append(functions, fn)
	}

	pe.Export = Export{Struct: exportDir, Name: dllName, Functions: functions}
	if !errorList.Empty() {
		pe.logger.Warnf("export directory: %d issues while resolving %s's export table",
			len(errorList.Errors()), dllName)
		pe.Errors = append(pe.Errors, errorList.Errors()...)
	}
	return nil
}
