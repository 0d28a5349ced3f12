// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"go.mozilla.org/pkcs7"
)

// ValidatePKCS7Structure runs the structural checks a well-formed
// Authenticode SignedData must pass before any cryptography is
// attempted: exactly one signer, a recognized digest algorithm on
// that signer, and an spc-indirect-data content whose own digest
// algorithm is itself recognized. Every failure is recorded in
// errorList rather than aborting, so a caller can still inspect
// whatever the signature does carry.
func ValidatePKCS7Structure(p7 *pkcs7.PKCS7, errorList *ErrorList) bool {
	ok := true

	if len(p7.Signers) != 1 {
		errorList.Addf(SubsystemPKCS7FormatValidator, CodeUnsupportedVersion, "expected exactly one signer, found %d", len(p7.Signers))
		ok = false
	}

	for _, signer := range p7.Signers {
		if _, err := parseHashAlgorithm(signer.DigestAlgorithm); err != nil {
			errorList.Add(SubsystemPKCS7FormatValidator, CodeUnsupportedDigestAlgorithm)
			ok = false
		}
	}

	content, err := parseAuthenticodeContent(p7.Content)
	if err != nil {
		errorList.Add(SubsystemPKCS7FormatValidator, CodeUnsupportedContentType)
		return false
	}
	if content.HashFunction == 0 {
		errorList.Add(SubsystemPKCS7FormatValidator, CodeUnsupportedDigestAlgorithm)
		ok = false
	}

	return ok
}
