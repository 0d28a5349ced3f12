// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"crypto/x509/pkix"
	"encoding/asn1"
	"time"

	"go.mozilla.org/pkcs7"
)

// tstInfo is the RFC 3161 TSTInfo structure carried as the content of
// an RFC3161 timestamp token's SignedData.
type tstInfo struct {
	Version        int
	Policy         asn1.ObjectIdentifier
	MessageImprint struct {
		HashAlgorithm pkix.AlgorithmIdentifier
		HashedMessage []byte
	}
	SerialNumber asn1.RawValue
	GenTime      time.Time
}

// VerifyTimestamps locates and verifies the timestamp
// counter-signatures attached to attrs (a signature's
// UnauthenticatedAttributes): an RFC 3161 token, then the legacy
// PKCS#9 counterSignature, returning one status for each that is
// present. The Microsoft SPC timestamp attribute is not recognised.
// encryptedDigest is the outer signature's EncryptedDigest, the value
// every timestamp variant signs over.
func VerifyTimestamps(attrs *AttributeMap, encryptedDigest []byte) []TimestampStatus {
	var out []TimestampStatus

	if attrs.Has(oidSpcRFC3161Timestamp) {
		out = append(out, verifyRFC3161Timestamp(attrs, encryptedDigest))
	}
	if attrs.Has(oidAttributeCounterSign) {
		out = append(out, verifyLegacyCounterSignature(attrs, encryptedDigest))
	}

	return out
}

func verifyRFC3161Timestamp(attrs *AttributeMap, encryptedDigest []byte) TimestampStatus {
	status := TimestampStatus{Kind: SignatureKindRFC3161}

	raw, err := attrs.GetSingle(oidSpcRFC3161Timestamp)
	if err != nil {
		status.Errors = append(status.Errors, err.(CodedError))
		return status
	}

	token, err := pkcs7.Parse(raw.FullBytes)
	if err != nil {
		status.Errors = append(status.Errors, CodedError{Subsystem: SubsystemAuthenticodeVerifier, Code: CodeInvalidTimestamp})
		return status
	}
	status.StructureValid = true

	var info tstInfo
	if _, err := asn1.Unmarshal(token.Content, &info); err != nil {
		status.Errors = append(status.Errors, CodedError{Subsystem: SubsystemAuthenticodeVerifier, Code: CodeInvalidTimestamp})
		return status
	}

	hashAlg, err := parseHashAlgorithm(info.MessageImprint.HashAlgorithm)
	if err != nil {
		status.Errors = append(status.Errors, CodedError{Subsystem: SubsystemCryptoAlgorithm, Code: CodeUnsupportedDigestAlgorithm})
		return status
	}
	h := hashAlg.New()
	h.Write(encryptedDigest)
	if !bytes.Equal(h.Sum(nil), info.MessageImprint.HashedMessage) {
		status.Errors = append(status.Errors, CodedError{Subsystem: SubsystemAuthenticodeVerifier, Code: CodeDigestMismatch})
		return status
	}
	status.ImageHashValid = true

	if len(token.Signers) == 0 {
		status.Errors = append(status.Errors, CodedError{Subsystem: SubsystemSignerInfo, Code: CodeCertificateNotFound})
		return status
	}
	store, storeErrs := NewCertificateStore(token.Certificates)
	status.Errors = append(status.Errors, storeErrs.Errors()...)
	signer := token.Signers[0]
	cert, err := store.FindBySerial(signer.IssuerAndSerialNumber.SerialNumber.Bytes())
	if err != nil {
		status.Errors = append(status.Errors, err.(CodedError))
		return status
	}
	status.CertificateFound = true

	if verifyErr := VerifySignerDigest(cert, hashAlg, h.Sum(nil), signer.EncryptedDigest); verifyErr != nil {
		status.Errors = append(status.Errors, verifyErr.(CodedError))
		return status
	}
	status.SignatureValid = true
	return status
}

func verifyLegacyCounterSignature(attrs *AttributeMap, encryptedDigest []byte) TimestampStatus {
	status := TimestampStatus{Kind: SignatureKindLegacyPKCS9CounterSign}

	raw, err := attrs.GetSingle(oidAttributeCounterSign)
	if err != nil {
		status.Errors = append(status.Errors, err.(CodedError))
		return status
	}

	cs, err := pkcs7.Parse(raw.FullBytes)
	if err != nil {
		status.Errors = append(status.Errors, CodedError{Subsystem: SubsystemAuthenticodeVerifier, Code: CodeInvalidTimestamp})
		return status
	}
	status.StructureValid = true
	status.ImageHashValid = true // the legacy form signs the outer EncryptedDigest directly, no separate imprint.

	if len(cs.Signers) == 0 {
		status.Errors = append(status.Errors, CodedError{Subsystem: SubsystemSignerInfo, Code: CodeCertificateNotFound})
		return status
	}
	store, storeErrs := NewCertificateStore(cs.Certificates)
	status.Errors = append(status.Errors, storeErrs.Errors()...)
	signer := cs.Signers[0]
	cert, err := store.FindBySerial(signer.IssuerAndSerialNumber.SerialNumber.Bytes())
	if err != nil {
		status.Errors = append(status.Errors, err.(CodedError))
		return status
	}
	status.CertificateFound = true

	hashAlg, err := parseHashAlgorithm(signer.DigestAlgorithm)
	if err != nil {
		status.Errors = append(status.Errors, CodedError{Subsystem: SubsystemCryptoAlgorithm, Code: CodeUnsupportedDigestAlgorithm})
		return status
	}
	h := hashAlg.New()
	h.Write(encryptedDigest)
	if verifyErr := VerifySignerDigest(cert, hashAlg, h.Sum(nil), signer.EncryptedDigest); verifyErr != nil {
		status.Errors = append(status.Errors, verifyErr.(CodedError))
		return status
	}
	status.SignatureValid = true
	return status
}
