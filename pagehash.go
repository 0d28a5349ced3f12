// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/asn1"
)

// maxPageHashesSize bounds how much of the indirect-data's moniker
// payload we will decode, guarding against a crafted serialized_data
// blob claiming an unreasonable page count.
const maxPageHashesSize = 4 << 20

// pageHashesClassID is the moniker class id Microsoft's signing tools
// use to mark the SpcSerializedObject carried inside SpcPeImageData
// as a page-hash table rather than a plain file link.
var pageHashesClassID = [16]byte{
	0xa6, 0xb5, 0x86, 0xd5, 0xb4, 0xa1, 0x24, 0x66,
	0xae, 0x05, 0xa2, 0x17, 0xda, 0x8e, 0x1d, 0x30,
}

var (
	oidSpcPageHashV1 = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 3, 1}
	oidSpcPageHashV2 = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 3, 2}
)

// PageHash is one (file offset, digest) record out of a page-hash
// table: the per-page digest Authenticode stores so a verifier can
// validate that individual pages weren't tampered with after the
// image was partially loaded, without rehashing the whole file.
type PageHash struct {
	Offset uint32 `json:"offset"`
	Digest []byte `json:"digest"`
}

type spcSerializedObject struct {
	ClassID        []byte `asn1:"tag:0"`
	SerializedData []byte `asn1:"tag:1"`
}

type spcAttributeTypeAndHashes struct {
	Type   asn1.ObjectIdentifier
	Hashes [][]byte `asn1:"set"`
}

// ParsePageHashes extracts the page-hash table embedded in an
// SpcPeImageData's File field, if any. A plain file-name/file-link
// moniker (the common case for signatures without page hashes)
// reports no error and no hashes.
func ParsePageHashes(file asn1.RawValue, errorList *ErrorList) (DigestAlgorithm, []PageHash) {
	// SpcLink ::= CHOICE { url [0] IA5String, moniker [1] SpcSerializedObject,
	// file [2] SpcString }. Only the moniker form can carry page hashes.
	if file.Class != asn1.ClassContextSpecific || file.Tag != 1 {
		return DigestUnknown, nil
	}

	var obj spcSerializedObject
	if _, err := asn1.UnmarshalWithParams(file.FullBytes, &obj, "tag:1"); err != nil {
		return DigestUnknown, nil
	}
	if len(obj.ClassID) != 16 {
		return DigestUnknown, nil
	}
	for i := range pageHashesClassID {
		if obj.ClassID[i] != pageHashesClassID[i] {
			return DigestUnknown, nil
		}
	}
	if len(obj.SerializedData) > maxPageHashesSize {
		errorList.Add(SubsystemAuthenticodeLoader, CodeExcessivePageHashesSize)
		return DigestUnknown, nil
	}

	var entries []spcAttributeTypeAndHashes
	if _, err := asn1.Unmarshal(obj.SerializedData, &entries); err != nil {
		errorList.Add(SubsystemAuthenticodeLoader, CodeParseError)
		return DigestUnknown, nil
	}
	if len(entries) != 1 || len(entries[0].Hashes) != 1 {
		errorList.Add(SubsystemAuthenticodeLoader, CodeParseError)
		return DigestUnknown, nil
	}

	var alg DigestAlgorithm
	var digestSize int
	switch {
	case entries[0].Type.Equal(oidSpcPageHashV1):
		alg, digestSize = DigestSHA1, 20
	case entries[0].Type.Equal(oidSpcPageHashV2):
		alg, digestSize = DigestSHA256, 32
	default:
		return DigestUnknown, nil
	}

	raw := entries[0].Hashes[0]
	recordSize := digestSize + 4
	if recordSize == 0 || len(raw)%recordSize != 0 {
		errorList.Add(SubsystemAuthenticodeLoader, CodeParseError)
		return alg, nil
	}

	var out []PageHash
	for i := 0; i+recordSize <= len(raw); i += recordSize {
		// Page-hash offsets are little-endian in the wire format.
		offset := uint32(raw[i]) | uint32(raw[i+1])<<8 | uint32(raw[i+2])<<16 | uint32(raw[i+3])<<24
		digest := make([]byte, digestSize)
		copy(digest, raw[i+4:i+recordSize])
		out = append(out, PageHash{Offset: offset, Digest: digest})
	}
	return alg, out
}
