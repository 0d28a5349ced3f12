// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto"
	"crypto/x509"
	"testing"
)

func TestDigestAlgorithmHash(t *testing.T) {
	tests := []struct {
		alg  DigestAlgorithm
		want crypto.Hash
	}{
		{DigestMD5, crypto.MD5},
		{DigestSHA1, crypto.SHA1},
		{DigestSHA256, crypto.SHA256},
		{DigestSHA384, crypto.SHA384},
		{DigestSHA512, crypto.SHA512},
		{DigestUnknown, crypto.Hash(0)},
	}
	for _, tt := range tests {
		if got := tt.alg.Hash(); got != tt.want {
			t.Errorf("%v.Hash() = %v, want %v", tt.alg, got, tt.want)
		}
	}
}

func TestDigestAlgorithmString(t *testing.T) {
	if got := DigestSHA256.String(); got != "SHA256" {
		t.Errorf("DigestSHA256.String() = %q, want SHA256", got)
	}
	if got := DigestAlgorithm(99).String(); got != "unknown" {
		t.Errorf("out-of-range DigestAlgorithm.String() = %q, want unknown", got)
	}
}

func TestDigestEncryptionAlgorithmFromX509(t *testing.T) {
	tests := []struct {
		in   x509.PublicKeyAlgorithm
		want DigestEncryptionAlgorithm
	}{
		{x509.RSA, EncryptionRSA},
		{x509.ECDSA, EncryptionECDSA},
		{x509.DSA, EncryptionDSA},
		{x509.Ed25519, EncryptionUnknown},
	}
	for _, tt := range tests {
		if got := digestEncryptionAlgorithmFromX509(tt.in); got != tt.want {
			t.Errorf("digestEncryptionAlgorithmFromX509(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
