// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"testing"

	"go.mozilla.org/pkcs7"
)

func buildIndirectDataContent(t *testing.T, digestOID asn1.ObjectIdentifier, digest []byte) []byte {
	t.Helper()

	data, err := asn1.Marshal(SpcAttributeTypeAndOptionalValue{
		Type: asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 15},
	})
	if err != nil {
		t.Fatalf("marshal SpcAttributeTypeAndOptionalValue failed: %v", err)
	}

	messageDigest, err := asn1.Marshal(DigestInfo{
		DigestAlgorithm: pkix.AlgorithmIdentifier{Algorithm: digestOID},
		Digest:          digest,
	})
	if err != nil {
		t.Fatalf("marshal DigestInfo failed: %v", err)
	}

	return append(data, messageDigest...)
}

func TestValidatePKCS7StructureNoSigners(t *testing.T) {
	p7 := &pkcs7.PKCS7{
		Content: buildIndirectDataContent(t, pkcs7.OIDDigestAlgorithmSHA256, make([]byte, 32)),
	}

	errorList := &ErrorList{}
	if ValidatePKCS7Structure(p7, errorList) {
		t.Fatalf("ValidatePKCS7Structure() = true, want false for a signature with no signers")
	}
	if errorList.Empty() {
		t.Fatalf("expected at least one recorded error for a signature with no signers")
	}
}

func TestValidatePKCS7StructureBadContent(t *testing.T) {
	p7 := &pkcs7.PKCS7{
		Content: []byte{0xde, 0xad, 0xbe, 0xef},
	}

	errorList := &ErrorList{}
	if ValidatePKCS7Structure(p7, errorList) {
		t.Fatalf("ValidatePKCS7Structure() = true, want false for unparsable content")
	}

	found := false
	for _, e := range errorList.Errors() {
		if e.Code == CodeUnsupportedContentType {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s among recorded errors, got %v", CodeUnsupportedContentType, errorList.Errors())
	}
}
