// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestVerifyAuthenticode(t *testing.T) {
	tests := []string{
		getAbsoluteFilePath("test/putty.exe"),
		getAbsoluteFilePath("test/putty_modified.exe"),
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			file, err := New(in, &Options{})
			if err != nil {
				t.Fatalf("New(%s) failed, reason: %v", in, err)
			}
			if err := file.Parse(); err != nil {
				t.Fatalf("Parse(%s) failed, reason: %v", in, err)
			}

			status, err := file.VerifyAuthenticode()
			if err != nil {
				t.Fatalf("VerifyAuthenticode(%s) failed, reason: %v", in, err)
			}
			if !status.StructureValid {
				t.Errorf("VerifyAuthenticode(%s) StructureValid = false, want true", in)
			}
			if !status.CertificateFound {
				t.Errorf("VerifyAuthenticode(%s) CertificateFound = false, want true", in)
			}
		})
	}
}

func TestVerifyAuthenticodeNoSignature(t *testing.T) {
	in := getAbsoluteFilePath("test/kernel32.dll")
	file, err := New(in, &Options{})
	if err != nil {
		t.Fatalf("New(%s) failed, reason: %v", in, err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse(%s) failed, reason: %v", in, err)
	}

	if _, err := file.VerifyAuthenticode(); err == nil {
		t.Fatalf("VerifyAuthenticode(%s) succeeded on an unsigned file", in)
	} else if ce, ok := err.(CodedError); !ok || ce.Code != CodeNoSignature {
		t.Fatalf("VerifyAuthenticode(%s) = %v, want CodeNoSignature", in, err)
	}
}
