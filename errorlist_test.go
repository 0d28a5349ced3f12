// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestErrorListAddAndEmpty(t *testing.T) {
	var l ErrorList
	if !l.Empty() {
		t.Fatalf("Empty() on a fresh ErrorList got false, want true")
	}

	l.Add(SubsystemDebugDirectoryLoader, CodeTooManyDebugDirectories)
	if l.Empty() {
		t.Fatalf("Empty() after Add got true, want false")
	}
	if !l.HasCode(SubsystemDebugDirectoryLoader, CodeTooManyDebugDirectories) {
		t.Fatalf("HasCode did not find the code just added")
	}
	if l.HasCode(SubsystemDebugDirectoryLoader, CodeTooBigRawDataSize) {
		t.Fatalf("HasCode found a code that was never added")
	}
}

func TestErrorListAddfContext(t *testing.T) {
	var l ErrorList
	l.Addf(SubsystemAttributeMap, CodeMissingAttribute, "oid=%s", "1.2.3")

	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("Errors() got %d entries, want 1", len(errs))
	}
	if errs[0].Context != "oid=1.2.3" {
		t.Fatalf("Addf context got %q, want %q", errs[0].Context, "oid=1.2.3")
	}

	want := "attribute_map: attribute_absent (oid=1.2.3)"
	if errs[0].Error() != want {
		t.Fatalf("CodedError.Error() got %q, want %q", errs[0].Error(), want)
	}
}

func TestErrorListMerge(t *testing.T) {
	var a, b ErrorList
	a.Add(SubsystemImage, CodeParseError)
	b.Add(SubsystemSignerInfo, CodeCertificateNotFound)
	b.Add(SubsystemSignatureVerifier, CodeSignatureVerificationFailed)

	a.Merge(&b)
	if len(a.Errors()) != 3 {
		t.Fatalf("Merge() got %d entries, want 3", len(a.Errors()))
	}

	// Merging a nil list must be a no-op, not a panic.
	a.Merge(nil)
	if len(a.Errors()) != 3 {
		t.Fatalf("Merge(nil) changed the entry count to %d", len(a.Errors()))
	}
}
