// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/asn1"
	"testing"
)

// buildPageHashMoniker constructs the SpcLink moniker form carrying a v2
// (SHA-256) page-hash table with the given (offset, digest) records, the
// same shape a signing tool embeds in SpcPeImageData.File.
func buildPageHashMoniker(t *testing.T, records [][]byte) asn1.RawValue {
	t.Helper()

	var blob []byte
	for _, r := range records {
		blob = append(blob, r...)
	}

	entries := []spcAttributeTypeAndHashes{
		{Type: oidSpcPageHashV2, Hashes: [][]byte{blob}},
	}
	serialized, err := asn1.Marshal(entries)
	if err != nil {
		t.Fatalf("asn1.Marshal(entries) failed: %v", err)
	}

	obj := spcSerializedObject{
		ClassID:        pageHashesClassID[:],
		SerializedData: serialized,
	}
	objBytes, err := asn1.MarshalWithParams(obj, "tag:1")
	if err != nil {
		t.Fatalf("asn1.MarshalWithParams(obj) failed: %v", err)
	}

	var file asn1.RawValue
	if _, err := asn1.Unmarshal(objBytes, &file); err != nil {
		t.Fatalf("asn1.Unmarshal(objBytes) failed: %v", err)
	}
	return file
}

func pageHashRecord(offset uint32, digest byte) []byte {
	rec := make([]byte, 36)
	rec[0] = byte(offset)
	rec[1] = byte(offset >> 8)
	rec[2] = byte(offset >> 16)
	rec[3] = byte(offset >> 24)
	for i := 4; i < 36; i++ {
		rec[i] = digest
	}
	return rec
}

func TestParsePageHashesV2(t *testing.T) {
	rec0 := pageHashRecord(0, 0xaa)
	rec1 := pageHashRecord(0x1000, 0xbb)
	file := buildPageHashMoniker(t, [][]byte{rec0, rec1})

	errorList := &ErrorList{}
	alg, hashes := ParsePageHashes(file, errorList)
	if !errorList.Empty() {
		t.Fatalf("ParsePageHashes reported errors on well-formed input: %v", errorList.Errors())
	}
	if alg != DigestSHA256 {
		t.Fatalf("ParsePageHashes algorithm = %v, want DigestSHA256", alg)
	}
	if len(hashes) != 2 {
		t.Fatalf("ParsePageHashes returned %d entries, want 2", len(hashes))
	}
	if hashes[0].Offset != 0 || hashes[1].Offset != 0x1000 {
		t.Fatalf("ParsePageHashes offsets = %#x, %#x, want 0x0, 0x1000", hashes[0].Offset, hashes[1].Offset)
	}
	if !bytes.Equal(hashes[0].Digest, rec0[4:]) {
		t.Fatalf("ParsePageHashes digest[0] = %x, want %x", hashes[0].Digest, rec0[4:])
	}
}

func TestParsePageHashesNonMoniker(t *testing.T) {
	// A plain file-name SpcLink (tag 2) carries no page hashes and must
	// not be treated as an error.
	file := asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 2, Bytes: []byte("setup.exe")}
	errorList := &ErrorList{}
	alg, hashes := ParsePageHashes(file, errorList)
	if alg != DigestUnknown || hashes != nil {
		t.Fatalf("ParsePageHashes on a non-moniker link returned (%v, %v), want (DigestUnknown, nil)", alg, hashes)
	}
	if !errorList.Empty() {
		t.Fatalf("ParsePageHashes on a non-moniker link should not report errors, got %v", errorList.Errors())
	}
}
