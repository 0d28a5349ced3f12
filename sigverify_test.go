// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
)

func certFromKey(t *testing.T, pub, priv interface{}, serial int64) *x509.Certificate {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: "signer"},
		Issuer:       pkix.Name{CommonName: "signer"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, pub, priv)
	if err != nil {
		t.Fatalf("x509.CreateCertificate failed: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("x509.ParseCertificate failed: %v", err)
	}
	return cert
}

func TestVerifySignerDigestRSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	cert := certFromKey(t, &key.PublicKey, key, 1)

	digest := sha256.Sum256([]byte("authenticode message digest"))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		t.Fatalf("rsa.SignPKCS1v15 failed: %v", err)
	}

	if err := VerifySignerDigest(cert, crypto.SHA256, digest[:], sig); err != nil {
		t.Fatalf("VerifySignerDigest(RSA) failed: %v", err)
	}

	tampered := append([]byte(nil), sig...)
	tampered[0] ^= 0xff
	if err := VerifySignerDigest(cert, crypto.SHA256, digest[:], tampered); err == nil {
		t.Fatalf("VerifySignerDigest accepted a tampered RSA signature")
	}
}

func TestVerifySignerDigestECDSA(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("ecdsa.GenerateKey failed: %v", err)
	}
	cert := certFromKey(t, &key.PublicKey, key, 2)

	digest := sha256.Sum256([]byte("authenticode message digest"))
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		t.Fatalf("ecdsa.SignASN1 failed: %v", err)
	}

	if err := VerifySignerDigest(cert, crypto.SHA256, digest[:], sig); err != nil {
		t.Fatalf("VerifySignerDigest(ECDSA) failed: %v", err)
	}
}

func TestVerifySignerDigestUnsupportedKey(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey failed: %v", err)
	}
	cert := certFromKey(t, pub, priv, 3)

	digest := sha256.Sum256([]byte("x"))
	err = VerifySignerDigest(cert, crypto.SHA256, digest[:], []byte("not a real signature"))
	if err == nil {
		t.Fatalf("VerifySignerDigest on an Ed25519 key should be unsupported")
	}
	ce, ok := err.(CodedError)
	if !ok || ce.Code != CodeUnsupportedPublicKeyAlgo {
		t.Fatalf("VerifySignerDigest(Ed25519) = %v, want CodeUnsupportedPublicKeyAlgo", err)
	}
}
