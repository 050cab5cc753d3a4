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
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/reelspin/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Modes 支援的 profiling 模式
var Modes = []string{"", "cpu", "heap", "allocs", "mutex", "block"}

// RunPProf 依 mode 執行 exe 並寫出對應的 profile 到 DefaultDir。
// 未知的 mode 僅執行 exe。
//
// Usage like:
//
//	go run ./cmd/run -p cpu
//	go tool pprof build/profiling/cpu.pprof
func RunPProf(exe func(), mode string) {
	if err := RunPProfTo(DefaultDir, exe, mode); err != nil {
		panic(err.Error())
	}
}

// RunPProfTo 與 RunPProf 相同，可指定輸出目錄並回傳錯誤
func RunPProfTo(dir string, exe func(), mode string) error {
	switch mode {
	case "cpu":
		return profileCPU(dir, exe)
	case "heap":
		// 盡量讓快照貼近最新狀態
		exe()
		runtime.GC()
		return writeProfile(dir, "heap")
	case "allocs":
		// 累積配置，搭配 -alloc_space / -alloc_objects 查看
		exe()
		return writeProfile(dir, "allocs")
	case "mutex":
		// 多 worker 模擬時觀察鎖競爭
		prev := runtime.SetMutexProfileFraction(1)
		defer runtime.SetMutexProfileFraction(prev)
		exe()
		return writeProfile(dir, "mutex")
	case "block":
		runtime.SetBlockProfileRate(1)
		defer runtime.SetBlockProfileRate(0)
		exe()
		return writeProfile(dir, "block")
	default:
		exe()
		return nil
	}
}

// profileCPU 可作性能分析，也可以拿來做構建時給 pgo 的優化 blueprint
func profileCPU(dir string, exe func()) error {
	f, err := create(dir, "cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start cpu profile")
	}
	defer pprof.StopCPUProfile()
	exe()
	return nil
}

func writeProfile(dir, name string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.NewFatal("unknown profile: " + name)
	}
	f, err := create(dir, name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "failed to write "+name+" profile")
	}
	return nil
}

func create(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "failed to create profiling dir")
	}
	f, err := os.Create(filepath.Join(dir, name+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create "+name+".pprof")
	}
	return f, nil
}
