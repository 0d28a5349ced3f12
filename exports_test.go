// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestExportDirectory(t *testing.T) {
	tests := []struct {
		in            string
		wantHasExport bool
	}{
		{getAbsoluteFilePath("test/kernel32.dll"), true},
		{getAbsoluteFilePath("test/putty.exe"), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			file, err := New(tt.in, &Options{})
			if err != nil {
				t.Fatalf("New(%s) failed, reason: %v", tt.in, err)
			}
			if err := file.Parse(); err != nil {
				t.Fatalf("Parse(%s) failed, reason: %v", tt.in, err)
			}

			if !tt.wantHasExport {
				if len(file.Export.Functions) != 0 {
					t.Fatalf("%s: got %d export functions, want 0", tt.in, len(file.Export.Functions))
				}
				return
			}

			if file.Export.Name == "" {
				t.Fatalf("%s: export directory name is empty", tt.in)
			}
			if len(file.Export.Functions) == 0 {
				t.Fatalf("%s: expected at least one exported function", tt.in)
			}
			for _, fn := range file.Export.Functions {
				if fn.Name == "" && fn.Ordinal == 0 {
					t.Fatalf("%s: export function with neither name nor ordinal", tt.in)
				}
			}
		})
	}
}
