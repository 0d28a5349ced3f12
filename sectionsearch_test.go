// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestSectionDataFromRVA(t *testing.T) {
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
	sect := file.Sections[0].Header

	data, err := file.SectionDataFromRVA(sect.VirtualAddress, 16, false, false)
	if err != nil {
		t.Fatalf("SectionDataFromRVA(section start) failed: %v", err)
	}
	if len(data) != 16 {
		t.Fatalf("SectionDataFromRVA returned %d bytes, want 16", len(data))
	}

	if got := file.SectionDataLengthFromRVA(sect.VirtualAddress); got == 0 {
		t.Fatalf("SectionDataLengthFromRVA(section start) = 0, want > 0")
	}

	if _, err := file.SectionDataFromRVA(0xffffffff, 16, false, false); err == nil {
		t.Fatalf("SectionDataFromRVA(out of range rva) succeeded, want ErrOutsideBoundary")
	}
}

func TestStripCertificateTable(t *testing.T) {
	in := getAbsoluteFilePath("test/putty.exe")
	file, err := New(in, &Options{})
	if err != nil {
		t.Fatalf("New(%s) failed, reason: %v", in, err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse(%s) failed, reason: %v", in, err)
	}

	out, err := file.StripCertificateTable()
	if err != nil {
		t.Fatalf("StripCertificateTable failed: %v", err)
	}
	if len(out) >= len(file.data) {
		t.Fatalf("StripCertificateTable did not shrink the image: got %d bytes, original %d", len(out), len(file.data))
	}
}
