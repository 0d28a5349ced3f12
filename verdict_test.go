// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestCheckStatusBaseValid(t *testing.T) {
	ok := CheckStatusBase{StructureValid: true, ImageHashValid: true, SignatureValid: true, CertificateFound: true}
	if !ok.Valid() {
		t.Fatalf("CheckStatusBase.Valid() = false, want true for a fully-passing base")
	}

	missingCert := ok
	missingCert.CertificateFound = false
	if missingCert.Valid() {
		t.Fatalf("CheckStatusBase.Valid() = true, want false when CertificateFound is false")
	}

	withErr := ok
	withErr.Errors = []CodedError{{Subsystem: SubsystemSignerInfo, Code: CodeCertificateNotFound}}
	if withErr.Valid() {
		t.Fatalf("CheckStatusBase.Valid() = true, want false when Errors is non-empty")
	}
}

func TestCheckStatusValidPropagatesNested(t *testing.T) {
	base := CheckStatusBase{StructureValid: true, ImageHashValid: true, SignatureValid: true, CertificateFound: true}
	root := CheckStatus{CheckStatusBase: base}
	if !root.Valid() {
		t.Fatalf("CheckStatus.Valid() = false, want true with no nested signature")
	}

	badNested := base
	badNested.SignatureValid = false
	root.Nested = &CheckStatus{CheckStatusBase: badNested}
	if root.Valid() {
		t.Fatalf("CheckStatus.Valid() = true, want false when Nested is invalid")
	}
}
