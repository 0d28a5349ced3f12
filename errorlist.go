// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "fmt"

// Subsystem identifies which part of the parser raised a CodedError.
// It mirrors the closed set of error categories the file format and
// Authenticode verifier are built from: every recoverable condition
// belongs to exactly one of these, never to an ad-hoc free-form string.
type Subsystem string

// The closed set of subsystems that can append to an ErrorList.
const (
	SubsystemImage                     Subsystem = "image"
	SubsystemOptionalHeader            Subsystem = "optional_header"
	SubsystemDOSStub                   Subsystem = "dos_stub"
	SubsystemAddressConverter          Subsystem = "address_converter"
	SubsystemDebugDirectoryLoader      Subsystem = "debug_directory_loader"
	SubsystemDotNetDirectoryLoader     Subsystem = "dotnet_directory_loader"
	SubsystemExportsDirectoryLoader    Subsystem = "exports_directory_loader"
	SubsystemRelocationDirectoryLoader Subsystem = "relocation_directory_loader"
	SubsystemTLSDirectoryLoader        Subsystem = "tls_directory_loader"
	SubsystemSecurityDirectoryLoader   Subsystem = "security_directory_loader"
	SubsystemAuthenticodeLoader        Subsystem = "authenticode_loader"
	SubsystemAuthenticodeVerifier      Subsystem = "authenticode_verifier"
	SubsystemPKCS7FormatValidator      Subsystem = "pkcs7_format_validator"
	SubsystemSignerInfo                Subsystem = "signer_info"
	SubsystemAttributeMap              Subsystem = "attribute_map"
	SubsystemSignatureValidator        Subsystem = "signature_validator"
	SubsystemSignatureVerifier         Subsystem = "signature_verifier"
	SubsystemCryptoAlgorithm           Subsystem = "crypto_algorithm"
	SubsystemBufferHash                Subsystem = "buffer_hash"
	SubsystemHashCalculator            Subsystem = "hash_calculator"
	SubsystemX500DistinguishedName     Subsystem = "x500_distinguished_name"
)

// CodedError is one entry in an ErrorList: a closed-enum code scoped to
// a Subsystem, plus optional free-form context (an RVA, a directory
// index, an attribute OID...). CodedErrors are never thrown: they are
// collected, and the caller decides how much of the file it still
// trusts.
type CodedError struct {
	Subsystem Subsystem
	Code      string
	Context   string
}

func (e CodedError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s: %s", e.Subsystem, e.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Subsystem, e.Code, e.Context)
}

// ErrorList is an append-only list of recoverable errors accumulated
// while parsing a single aggregate (a directory, a signature, a
// certificate store). It never panics and it is always safe to keep
// consuming whatever the aggregate managed to build regardless of its
// contents.
type ErrorList struct {
	errs []CodedError
}

// Add appends a coded error with no extra context.
func (l *ErrorList) Add(sub Subsystem, code string) {
	l.errs = append(l.errs, CodedError{Subsystem: sub, Code: code})
}

// Addf appends a coded error with formatted context.
func (l *ErrorList) Addf(sub Subsystem, code, format string, args ...interface{}) {
	l.errs = append(l.errs, CodedError{Subsystem: sub, Code: code, Context: fmt.Sprintf(format, args...)})
}

// Errors returns the accumulated list, in append order.
func (l *ErrorList) Errors() []CodedError {
	return l.errs
}

// Empty reports whether nothing has been recorded.
func (l *ErrorList) Empty() bool {
	return len(l.errs) == 0
}

// HasCode reports whether code was recorded for sub at least once.
func (l *ErrorList) HasCode(sub Subsystem, code string) bool {
	for _, e := range l.errs {
		if e.Subsystem == sub && e.Code == code {
			return true
		}
	}
	return false
}

// Merge appends every entry of other to l, in order.
func (l *ErrorList) Merge(other *ErrorList) {
	if other == nil {
		return
	}
	l.errs = append(l.errs, other.errs...)
}

// addError appends a coded error to the file's top-level error list. It
// is the sink every directory loader reports recoverable conditions to,
// so a caller can inspect everything that went wrong across the whole
// parse without any single loader aborting the rest.
func (pe *File) addError(sub Subsystem, code, context string) {
	pe.Errors = append(pe.Errors, CodedError{Subsystem: sub, Code: code, Context: context})
}

// Debug directory loader error codes.
const (
	CodeInvalidDebugDirectorySize = "invalid_debug_directory_size"
	CodeTooManyDebugDirectories   = "too_many_debug_directories"
	CodeTooBigRawDataSize         = "too_big_raw_data_size"
	CodeRVAAndFileOffsetMismatch  = "rva_and_file_offset_do_not_match"
	CodeNoRVAAndFileOffset        = "no_rva_and_file_offset"
)

// Shared directory-loader error codes (imports, exports, relocations,
// TLS, load-config, .NET, resources, bound/delay-imports, IAT,
// global-ptr, exceptions — the "thin clients of the debug substrate").
const (
	CodeInvalidDirectory         = "invalid_directory"
	CodeInvalidEntry             = "invalid_entry"
	CodeUnableToLoadEntries      = "unable_to_load_entries"
	CodeExcessiveDataInDirEntry  = "excessive_data_in_directory"
)

// Address converter error codes.
const (
	CodeAddressConversionOverflow = "address_conversion_overflow"
	CodeBufferOverrun             = "buffer_overrun"
	CodeBufferNotContiguous       = "buffer_is_not_contiguous"
)

// Authenticode / PKCS#7 / signature verification error codes.
const (
	CodeParseError                  = "parse_error"
	CodeNoSignature                 = "no_signature"
	CodeUnsupportedVersion          = "unsupported_version"
	CodeUnsupportedDigestAlgorithm  = "unsupported_digest_algorithm"
	CodeUnsupportedContentType      = "unsupported_content_type"
	CodeMissingAttribute            = "attribute_absent"
	CodeMultipleAttributeValues     = "multiple_attribute_values"
	CodeDigestMismatch              = "digest_mismatch"
	CodeSignatureVerificationFailed = "signature_verification_failed"
	CodeCertificateNotFound         = "certificate_not_found"
	CodeDuplicateCertificate        = "duplicate_certificate"
	CodeUnsupportedPublicKeyAlgo    = "unsupported_public_key_algorithm"
	CodeInvalidTimestamp            = "invalid_timestamp"
	CodePageHashMismatch            = "page_hash_mismatch"
	CodeExcessivePageHashesSize     = "excessive_page_hashes_size"
)
