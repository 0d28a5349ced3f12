// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestDelayImportDirectory(t *testing.T) {
	in := getAbsoluteFilePath("test/mfc40u.dll")
	file, err := New(in, &Options{})
	if err != nil {
		t.Fatalf("New(%s) failed, reason: %v", in, err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse(%s) failed, reason: %v", in, err)
	}

	for _, di := range file.DelayImports {
		if di.Name == "" {
			t.Fatalf("%s: delay import descriptor with no DLL name", in)
		}
		for _, fn := range di.Functions {
			if fn.Name == "" && fn.Ordinal == 0 {
				t.Fatalf("%s: delay-imported function %s has neither name nor ordinal", in, di.Name)
			}
		}
	}
}
