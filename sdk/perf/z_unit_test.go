// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package perf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunPProfTo(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []string{"cpu", "heap", "allocs", "mutex", "block"} {
		ran := false
		if err := RunPProfTo(dir, func() { ran = true }, mode); err != nil {
			t.Fatalf("mode %s failed: %v", mode, err)
		}
		if !ran {
			t.Fatalf("mode %s must run exe", mode)
		}
		if _, err := os.Stat(filepath.Join(dir, mode+".pprof")); err != nil {
			t.Fatalf("mode %s profile missing: %v", mode, err)
		}
	}
}

func TestUnknownModeOnlyRuns(t *testing.T) {
	dir := t.TempDir()
	ran := false
	if err := RunPProfTo(dir, func() { ran = true }, "trace"); err != nil || !ran {
		t.Fatalf("unknown mode must just run: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("unknown mode must not write profiles")
	}
}
