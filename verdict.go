// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// CheckStatusBase is the common shape shared by the root signature's
// verdict and every nested/timestamp verdict it carries: did the
// structural checks pass, did the image hash match, did the
// cryptographic signature verify, plus whatever recoverable issues
// were collected along the way.
type CheckStatusBase struct {
	StructureValid   bool       `json:"structure_valid"`
	ImageHashValid   bool       `json:"image_hash_valid"`
	SignatureValid   bool       `json:"signature_valid"`
	CertificateFound bool       `json:"certificate_found"`
	Errors           []CodedError `json:"errors,omitempty"`
}

// Valid reports whether every check this base tracks passed and no
// recoverable error was recorded.
func (b CheckStatusBase) Valid() bool {
	return b.StructureValid && b.ImageHashValid && b.SignatureValid &&
		b.CertificateFound && len(b.Errors) == 0
}

// TimestampStatus is the verdict for one timestamp counter-signature:
// its own CheckStatusBase plus the encoding it used. The signing time
// the timestamp asserts is not recorded.
type TimestampStatus struct {
	CheckStatusBase
	Kind SignatureKind `json:"kind"`
}

// SignatureKind distinguishes the three timestamp counter-signature
// encodings Authenticode has used over time.
type SignatureKind int

const (
	SignatureKindUnknown SignatureKind = iota
	SignatureKindRFC3161
	SignatureKindMSSpcTimestamp
	SignatureKindLegacyPKCS9CounterSign
)

// CheckStatus is the top-level Authenticode verification verdict: the
// root signature's status, its nested (dual-signed) signature if any,
// and every timestamp attached to either.
type CheckStatus struct {
	CheckStatusBase
	Nested     *CheckStatus      `json:"nested,omitempty"`
	Timestamps []TimestampStatus `json:"timestamps,omitempty"`
	PageHashes []PageHash        `json:"page_hashes,omitempty"`
}

// Valid reports whether the root signature and, when present, the
// nested signature both passed every check.
func (c CheckStatus) Valid() bool {
	if !c.CheckStatusBase.Valid() {
		return false
	}
	if c.Nested != nil && !c.Nested.Valid() {
		return false
	}
	return true
}
