// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/asn1"
	"testing"

	"go.mozilla.org/pkcs7"
)

func TestVerifyTimestampsNone(t *testing.T) {
	attrs := NewAttributeMap(nil)
	statuses := VerifyTimestamps(attrs, []byte("encrypted-digest"))
	if len(statuses) != 0 {
		t.Fatalf("VerifyTimestamps() returned %d statuses, want 0 for a signature with no counter-signatures", len(statuses))
	}
}

func TestVerifyTimestampsInvalidRFC3161Token(t *testing.T) {
	attrs := NewAttributeMap([]pkcs7.Attribute{
		{Type: oidSpcRFC3161Timestamp, Value: asn1.RawValue{FullBytes: []byte{0xde, 0xad, 0xbe, 0xef}}},
	})

	statuses := VerifyTimestamps(attrs, []byte("encrypted-digest"))
	if len(statuses) != 1 {
		t.Fatalf("VerifyTimestamps() returned %d statuses, want 1", len(statuses))
	}
	got := statuses[0]
	if got.Kind != SignatureKindRFC3161 {
		t.Fatalf("status.Kind = %v, want %v", got.Kind, SignatureKindRFC3161)
	}
	if got.StructureValid {
		t.Fatalf("status.StructureValid = true, want false for an unparsable token")
	}
	if len(got.Errors) == 0 {
		t.Fatalf("expected at least one recorded error for an unparsable token")
	}
}

func TestVerifyTimestampsInvalidLegacyCounterSignature(t *testing.T) {
	attrs := NewAttributeMap([]pkcs7.Attribute{
		{Type: oidAttributeCounterSign, Value: asn1.RawValue{FullBytes: []byte{0xde, 0xad, 0xbe, 0xef}}},
	})

	statuses := VerifyTimestamps(attrs, []byte("encrypted-digest"))
	if len(statuses) != 1 {
		t.Fatalf("VerifyTimestamps() returned %d statuses, want 1", len(statuses))
	}
	got := statuses[0]
	if got.Kind != SignatureKindLegacyPKCS9CounterSign {
		t.Fatalf("status.Kind = %v, want %v", got.Kind, SignatureKindLegacyPKCS9CounterSign)
	}
	if got.StructureValid {
		t.Fatalf("status.StructureValid = true, want false for an unparsable counter-signature")
	}
}
