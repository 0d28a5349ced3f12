// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/asn1"

	"go.mozilla.org/pkcs7"
)

// Well-known authenticated/unauthenticated attribute OIDs used by
// Authenticode signatures and their timestamp counter-signatures.
var (
	oidAttributeContentType   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 3}
	oidAttributeMessageDigest = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 4}
	oidAttributeSigningTime   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 5}
	oidAttributeCounterSign   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 6}
	oidSpcRFC3161Timestamp    = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 3, 3, 1}
	oidSpcSpOpusInfo          = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 12}
	oidSpcStatementType       = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 11}
)

// AttributeMap indexes a signerInfo's attribute set by OID so callers
// don't need to linear-scan the attribute list themselves. It keeps
// every value seen per OID: the "absent" and "more than one value"
// failure modes (§4.9.5) are reported by GetSingle rather than hidden
// by last-value-wins semantics.
type AttributeMap struct {
	values map[string][]asn1.RawValue
	raw    []pkcs7.Attribute
}

// NewAttributeMap indexes a raw PKCS#7 attribute slice (either a
// signer's AuthenticatedAttributes or its UnauthenticatedAttributes).
func NewAttributeMap(attrs []pkcs7.Attribute) *AttributeMap {
	m := &AttributeMap{values: make(map[string][]asn1.RawValue), raw: attrs}
	for _, a := range attrs {
		key := a.Type.String()
		m.values[key] = append(m.values[key], a.Value)
	}
	return m
}

// GetSingle returns the lone value recorded for oid, and reports
// attribute_absent or multiple_attribute_values when the attribute
// wasn't present exactly once.
func (m *AttributeMap) GetSingle(oid asn1.ObjectIdentifier) (asn1.RawValue, error) {
	vals := m.values[oid.String()]
	switch len(vals) {
	case 0:
		return asn1.RawValue{}, CodedError{Subsystem: SubsystemAttributeMap, Code: CodeMissingAttribute, Context: oid.String()}
	case 1:
		return vals[0], nil
	default:
		return asn1.RawValue{}, CodedError{Subsystem: SubsystemAttributeMap, Code: CodeMultipleAttributeValues, Context: oid.String()}
	}
}

// Has reports whether at least one value was recorded for oid.
func (m *AttributeMap) Has(oid asn1.ObjectIdentifier) bool {
	return len(m.values[oid.String()]) > 0
}

// EncodeAttributeSetForDigest re-serializes a signer's authenticated
// attributes the way the message digest must be computed over them:
// PKCS#7/CMS signs the SET OF Attribute re-tagged as a universal SET
// (tag 0x31), not as the implicit [0] context tag the attributes
// carry when embedded in the SignerInfo. A verifier that hashes the
// raw [0]-tagged bytes instead of this re-tagged form will reject
// every signature that carries authenticated attributes.
func EncodeAttributeSetForDigest(attrs []pkcs7.Attribute) ([]byte, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	return asn1.MarshalWithParams(attrs, "set")
}
