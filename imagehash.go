// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// ImageHash computes the Authenticode image hash with the given
// digest algorithm. It is a thin, named entry point over
// AuthentihashExt so every algorithm Authenticode signatures use in
// practice (not just SHA-256) can be requested directly.
//
// AuthentihashExt hashes every byte of the file in file order except
// the checksum field, the certificate-table data-directory entry and
// the certificate table itself. Section raw data is therefore covered
// in PointerToRawData order, but bytes outside the headers and every
// section (padding between sections, data after the certificate
// table) are hashed as well, so for a file that has such bytes the
// result differs from a hash of the headers, the sections and the
// overlay alone.
func (pe *File) ImageHash(alg DigestAlgorithm) ([]byte, error) {
	h := alg.Hash()
	if h == 0 {
		return nil, CodedError{Subsystem: SubsystemHashCalculator, Code: CodeUnsupportedDigestAlgorithm}
	}
	sums := pe.AuthentihashExt(h.New())
	if len(sums) == 0 {
		return nil, CodedError{Subsystem: SubsystemHashCalculator, Code: CodeParseError}
	}
	return sums[0], nil
}
