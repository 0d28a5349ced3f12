// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto/x509"
	"encoding/asn1"
)

// VerifyAuthenticode runs the Authenticode verification pipeline over
// the signature ParseDataDirectories loaded into pe.Certificates:
// structural validation, image-hash comparison, in-store signature
// verification of the first signer, page-hash extraction when present,
// and the RFC 3161 and legacy PKCS#9 timestamp counter-signatures
// (checked only when the signer's certificate was found). Page hashes
// are stored in the verdict but not compared against the image, and
// Nested is left nil. It never touches a system trust store: only the
// certificates embedded in the signature itself are consulted, per
// this package's scope.
func (pe *File) VerifyAuthenticode() (*CheckStatus, error) {
	if !pe.HasCertificate {
		return nil, CodedError{Subsystem: SubsystemAuthenticodeLoader, Code: CodeNoSignature}
	}

	cert := pe.Certificates
	p7 := &cert.Content

	status := &CheckStatus{}
	errorList := &ErrorList{}

	status.StructureValid = ValidatePKCS7Structure(p7, errorList)

	if len(p7.Signers) == 0 {
		status.Errors = errorList.Errors()
		return status, nil
	}
	signer := p7.Signers[0]

	var signerCert *x509.Certificate
	if !pe.opts.DisableCertValidation {
		store, storeErrs := NewCertificateStore(p7.Certificates)
		errorList.Merge(storeErrs)
		var err error
		signerCert, err = store.FindBySerial(signer.IssuerAndSerialNumber.SerialNumber.Bytes())
		if err != nil {
			errorList.Add(SubsystemSignerInfo, CodeCertificateNotFound)
		} else {
			status.CertificateFound = true
		}
	}

	status.ImageHashValid = cert.SignatureValid

	if status.CertificateFound {
		authAttrs := NewAttributeMap(signer.AuthenticatedAttributes)
		_, digestErr := authAttrs.GetSingle(oidAttributeMessageDigest)

		hashAlg, hashErr := parseHashAlgorithm(signer.DigestAlgorithm)
		switch {
		case digestErr != nil:
			errorList.Add(SubsystemAuthenticodeVerifier, CodeMissingAttribute)
		case hashErr != nil:
			errorList.Add(SubsystemCryptoAlgorithm, CodeUnsupportedDigestAlgorithm)
		default:
			signedBytes, encErr := EncodeAttributeSetForDigest(signer.AuthenticatedAttributes)
			if encErr != nil {
				errorList.Add(SubsystemAttributeMap, CodeParseError)
			} else {
				digest := hashAlg.New()
				digest.Write(signedBytes)
				if verifyErr := VerifySignerDigest(signerCert, hashAlg, digest.Sum(nil), signer.EncryptedDigest); verifyErr != nil {
					errorList.Add(SubsystemSignatureVerifier, CodeSignatureVerificationFailed)
				} else {
					status.SignatureValid = true
				}
			}
		}

		unauthAttrs := NewAttributeMap(signer.UnauthenticatedAttributes)
		status.Timestamps = VerifyTimestamps(unauthAttrs, signer.EncryptedDigest)
	}

	var indirectData SpcIndirectDataContent
	if _, err := asn1.Unmarshal(p7.Content, &indirectData); err == nil {
		_, pageHashes := ParsePageHashes(indirectData.Data.Value.File, errorList)
		status.PageHashes = pageHashes
	}

	status.Errors = errorList.Errors()
	return status, nil
}
