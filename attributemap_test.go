// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/asn1"
	"testing"

	"go.mozilla.org/pkcs7"
)

func TestAttributeMapGetSingle(t *testing.T) {
	digest := []byte{0xde, 0xad, 0xbe, 0xef}
	attrs := []pkcs7.Attribute{
		{Type: oidAttributeContentType, Value: asn1.RawValue{Bytes: []byte{0x01, 0x02, 0x03}}},
		{Type: oidAttributeMessageDigest, Value: asn1.RawValue{Bytes: digest}},
	}
	m := NewAttributeMap(attrs)

	if !m.Has(oidAttributeMessageDigest) {
		t.Fatalf("Has(messageDigest) = false, want true")
	}
	if m.Has(oidAttributeSigningTime) {
		t.Fatalf("Has(signingTime) = true, want false")
	}

	val, err := m.GetSingle(oidAttributeMessageDigest)
	if err != nil {
		t.Fatalf("GetSingle(messageDigest) returned error: %v", err)
	}
	if string(val.Bytes) != string(digest) {
		t.Fatalf("GetSingle(messageDigest) bytes = %x, want %x", val.Bytes, digest)
	}

	if _, err := m.GetSingle(oidSpcStatementType); err == nil {
		t.Fatalf("GetSingle on an absent attribute should error")
	} else if ce, ok := err.(CodedError); !ok || ce.Code != CodeMissingAttribute {
		t.Fatalf("GetSingle on absent attribute returned %v, want CodeMissingAttribute", err)
	}
}

func TestAttributeMapMultipleValues(t *testing.T) {
	attrs := []pkcs7.Attribute{
		{Type: oidAttributeSigningTime, Value: asn1.RawValue{Bytes: []byte("one")}},
		{Type: oidAttributeSigningTime, Value: asn1.RawValue{Bytes: []byte("two")}},
	}
	m := NewAttributeMap(attrs)

	_, err := m.GetSingle(oidAttributeSigningTime)
	ce, ok := err.(CodedError)
	if !ok || ce.Code != CodeMultipleAttributeValues {
		t.Fatalf("GetSingle with two values returned %v, want CodeMultipleAttributeValues", err)
	}
}

func TestEncodeAttributeSetForDigest(t *testing.T) {
	oidBytes, err := asn1.Marshal(oidSpcSpOpusInfo)
	if err != nil {
		t.Fatalf("asn1.Marshal(oidSpcSpOpusInfo) failed: %v", err)
	}
	var raw asn1.RawValue
	if _, err := asn1.Unmarshal(oidBytes, &raw); err != nil {
		t.Fatalf("asn1.Unmarshal into RawValue failed: %v", err)
	}

	attrs := []pkcs7.Attribute{
		{Type: oidAttributeContentType, Value: raw},
	}
	out, err := EncodeAttributeSetForDigest(attrs)
	if err != nil {
		t.Fatalf("EncodeAttributeSetForDigest returned error: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("EncodeAttributeSetForDigest returned no bytes")
	}
	// A re-tagged SET OF must carry the universal SET tag (0x31), not the
	// implicit [0] context tag the attributes carry inside a SignerInfo.
	if out[0] != 0x31 {
		t.Fatalf("EncodeAttributeSetForDigest leading tag = 0x%x, want 0x31", out[0])
	}

	if out, err := EncodeAttributeSetForDigest(nil); err != nil || out != nil {
		t.Fatalf("EncodeAttributeSetForDigest(nil) = (%v, %v), want (nil, nil)", out, err)
	}
}
