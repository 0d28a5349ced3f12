// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
)

// VerifySignerDigest verifies that signature is a valid signature,
// produced by cert's private key, over the given digest computed with
// hashAlg. Only RSA PKCS#1 v1.5 and ECDSA are dispatched; anything
// else reports unsupported_public_key_algorithm. This never consults
// a trust store: it only answers "did this specific certificate's key
// produce this signature", which is all Authenticode verification
// needs once the signer is resolved via the in-signature certificate
// store.
func VerifySignerDigest(cert *x509.Certificate, hashAlg crypto.Hash, digest, signature []byte) error {
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		if err := rsa.VerifyPKCS1v15(pub, hashAlg, digest, signature); err != nil {
			return CodedError{Subsystem: SubsystemSignatureVerifier, Code: CodeSignatureVerificationFailed}
		}
		return nil
	case *ecdsa.PublicKey:
		if !ecdsa.VerifyASN1(pub, digest, signature) {
			return CodedError{Subsystem: SubsystemSignatureVerifier, Code: CodeSignatureVerificationFailed}
		}
		return nil
	default:
		algo := digestEncryptionAlgorithmFromX509(cert.PublicKeyAlgorithm)
		return CodedError{Subsystem: SubsystemSignatureVerifier, Code: CodeUnsupportedPublicKeyAlgo, Context: algo.String()}
	}
}
