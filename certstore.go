// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto/x509"
	"encoding/hex"
)

// certKey identifies a certificate the way Authenticode signatures
// reference one: by (issuer, serial number), not by content hash.
type certKey struct {
	issuer string
	serial string
}

// CertificateStore indexes the certificate set embedded in a
// signature's SignedData by (issuer, serial), the same coordinates a
// SignerInfo's IssuerAndSerialNumber uses to point at its signer. It
// is built once per signature and reused by signature verification,
// timestamp verification, and reporting.
type CertificateStore struct {
	byKey      map[certKey][]*x509.Certificate
	duplicates []certKey
}

// NewCertificateStore indexes certs, recording duplicate
// (issuer, serial) pairs in the returned ErrorList instead of
// discarding them: a duplicate is suspicious but not fatal, since
// Authenticode allows more certificates than the chain strictly
// requires.
func NewCertificateStore(certs []*x509.Certificate) (*CertificateStore, *ErrorList) {
	store := &CertificateStore{byKey: make(map[certKey][]*x509.Certificate)}
	errorList := &ErrorList{}
	for _, c := range certs {
		k := certKey{issuer: c.Issuer.String(), serial: hex.EncodeToString(c.SerialNumber.Bytes())}
		if existing, ok := store.byKey[k]; ok {
			store.duplicates = append(store.duplicates, k)
			errorList.Addf(SubsystemSignerInfo, CodeDuplicateCertificate, "issuer=%s serial=%s", k.issuer, k.serial)
			store.byKey[k] = append(existing, c)
			continue
		}
		store.byKey[k] = []*x509.Certificate{c}
	}
	return store, errorList
}

// Find looks a certificate up by issuer name and serial number bytes.
// It returns certificate_not_found if no certificate with that key
// was present in the signature's store.
func (s *CertificateStore) Find(issuer string, serial []byte) (*x509.Certificate, error) {
	k := certKey{issuer: issuer, serial: hex.EncodeToString(serial)}
	certs, ok := s.byKey[k]
	if !ok || len(certs) == 0 {
		return nil, CodedError{Subsystem: SubsystemSignerInfo, Code: CodeCertificateNotFound, Context: issuer}
	}
	return certs[0], nil
}

// FindBySerial looks up a certificate by serial number alone, used
// when the caller only has a raw IssuerAndSerialNumber value whose
// issuer name isn't in a directly comparable form.
func (s *CertificateStore) FindBySerial(serial []byte) (*x509.Certificate, error) {
	want := hex.EncodeToString(serial)
	for k, certs := range s.byKey {
		if k.serial == want {
			return certs[0], nil
		}
	}
	return nil, CodedError{Subsystem: SubsystemSignerInfo, Code: CodeCertificateNotFound}
}

// All returns every certificate in the store, in no particular order.
func (s *CertificateStore) All() []*x509.Certificate {
	var out []*x509.Certificate
	for _, certs := range s.byKey {
		out = append(out, certs...)
	}
	return out
}
