// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestAddressTranslatorRoundTrip(t *testing.T) {
	in := getAbsoluteFilePath("test/kernel32.dll")
	file, err := New(in, &Options{})
	if err != nil {
		t.Fatalf("New(%s) failed, reason: %v", in, err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse(%s) failed, reason: %v", in, err)
	}
	if len(file.Sections) == 0 {
		t.Fatalf("%s has no sections to test with", in)
	}

	tr := NewAddressTranslator(file)
	sect := file.Sections[0].Header

	offset, err := tr.RVAToFileOffset(sect.VirtualAddress)
	if err != nil {
		t.Fatalf("RVAToFileOffset(section start) failed: %v", err)
	}
	if offset != sect.PointerToRawData {
		t.Fatalf("RVAToFileOffset(section start) = %#x, want %#x", offset, sect.PointerToRawData)
	}

	rva, err := tr.FileOffsetToRVA(offset)
	if err != nil {
		t.Fatalf("FileOffsetToRVA(%#x) failed: %v", offset, err)
	}
	if rva != sect.VirtualAddress {
		t.Fatalf("FileOffsetToRVA(%#x) = %#x, want %#x", offset, rva, sect.VirtualAddress)
	}

	va := tr.RVAToVA(sect.VirtualAddress)
	back, err := tr.VAToRVA(va)
	if err != nil {
		t.Fatalf("VAToRVA(%#x) failed: %v", va, err)
	}
	if back != sect.VirtualAddress {
		t.Fatalf("VAToRVA(RVAToVA(rva)) = %#x, want %#x", back, sect.VirtualAddress)
	}
}

func TestAddressTranslatorOutOfRange(t *testing.T) {
	in := getAbsoluteFilePath("test/kernel32.dll")
	file, err := New(in, &Options{})
	if err != nil {
		t.Fatalf("New(%s) failed, reason: %v", in, err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse(%s) failed, reason: %v", in, err)
	}

	tr := NewAddressTranslator(file)
	if _, err := tr.RVAToFileOffset(0xffffffff); err == nil {
		t.Fatalf("RVAToFileOffset(0xffffffff) succeeded, want address_conversion_overflow")
	}
	if _, err := tr.VAToRVA(0); err == nil {
		t.Fatalf("VAToRVA(0) succeeded, want address_conversion_overflow")
	}
}
