// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
)

func selfSignedCert(t *testing.T, serial int64, cn string) *x509.Certificate {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: cn},
		Issuer:       pkix.Name{CommonName: cn},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("x509.CreateCertificate failed: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("x509.ParseCertificate failed: %v", err)
	}
	return cert
}

func TestCertificateStoreFind(t *testing.T) {
	a := selfSignedCert(t, 1, "alpha")
	b := selfSignedCert(t, 2, "bravo")

	store, errs := NewCertificateStore([]*x509.Certificate{a, b})
	if !errs.Empty() {
		t.Fatalf("NewCertificateStore reported errors on a duplicate-free set: %v", errs.Errors())
	}

	got, err := store.FindBySerial(a.SerialNumber.Bytes())
	if err != nil {
		t.Fatalf("FindBySerial(a) failed: %v", err)
	}
	if got.SerialNumber.Cmp(a.SerialNumber) != 0 {
		t.Fatalf("FindBySerial(a) returned serial %v, want %v", got.SerialNumber, a.SerialNumber)
	}

	if _, err := store.FindBySerial(big.NewInt(99).Bytes()); err == nil {
		t.Fatalf("FindBySerial on an absent serial should error")
	}

	if len(store.All()) != 2 {
		t.Fatalf("All() returned %d certs, want 2", len(store.All()))
	}
}

func TestCertificateStoreDuplicate(t *testing.T) {
	a := selfSignedCert(t, 42, "alpha")
	dup := selfSignedCert(t, 42, "alpha")

	_, errs := NewCertificateStore([]*x509.Certificate{a, dup})
	if errs.Empty() {
		t.Fatalf("NewCertificateStore did not flag a duplicate (issuer, serial) pair")
	}
	if !errs.HasCode(SubsystemSignerInfo, CodeDuplicateCertificate) {
		t.Fatalf("NewCertificateStore duplicate error missing CodeDuplicateCertificate")
	}
}
