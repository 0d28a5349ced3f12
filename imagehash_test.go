// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"fmt"
	"testing"
)

func TestImageHashSHA256(t *testing.T) {
	in := getAbsoluteFilePath("test/putty.exe")
	file, err := New(in, &Options{})
	if err != nil {
		t.Fatalf("New(%s) failed, reason: %v", in, err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse(%s) failed, reason: %v", in, err)
	}

	want := file.Authentihash()
	got, err := file.ImageHash(DigestSHA256)
	if err != nil {
		t.Fatalf("ImageHash(SHA256) failed, reason: %v", err)
	}
	if fmt.Sprintf("%x", got) != fmt.Sprintf("%x", want) {
		t.Fatalf("ImageHash(SHA256) = %x, want %x (Authentihash())", got, want)
	}
}

func TestImageHashUnsupportedAlgorithm(t *testing.T) {
	in := getAbsoluteFilePath("test/putty.exe")
	file, err := New(in, &Options{})
	if err != nil {
		t.Fatalf("New(%s) failed, reason: %v", in, err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse(%s) failed, reason: %v", in, err)
	}

	if _, err := file.ImageHash(DigestUnknown); err == nil {
		t.Fatalf("ImageHash(DigestUnknown) succeeded, want CodeUnsupportedDigestAlgorithm")
	}
}
