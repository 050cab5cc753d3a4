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

package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

func printColor(color, msg string) {
	fmt.Printf("%s%s%s\n", color, msg, colorReset)
}

// 開發用任務：go run ./scripts [task]
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts [test|test-race|test-detail|sim|svr]")
		os.Exit(1)
	}
	if err := selectTask(os.Args[1], os.Args[2:]); err != nil {
		printColor(colorRed, err.Error())
		os.Exit(1)
	}
}

func selectTask(task string, extra []string) error {
	switch task {
	case "test":
		cleanTestCache()
		return filtered("go", "test", "./...", "-cover", "-count=1")
	case "test-race":
		cleanTestCache()
		// session / hub 的計時器 callback 都在其他 goroutine 上跑
		return filtered("go", "test", "./...", "-race", "-count=1")
	case "test-detail":
		cleanTestCache()
		return passthrough("go", "test", "./...", "-v", "-count=1")
	case "sim":
		return passthrough("go", append([]string{"run", "./cmd/run"}, extra...)...)
	case "svr":
		return passthrough("go", append([]string{"run", "./cmd/svr"}, extra...)...)
	default:
		printColor(colorYellow, "Unknown task: "+task)
		os.Exit(1)
	}
	return nil
}

func cleanTestCache() {
	// clean 失敗不中斷
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		printColor(colorRed, err.Error())
	}
}

// filtered 只印出 ok / FAIL 與嚴重錯誤行
func filtered(name string, args ...string) error {
	printColor(colorGreen, "running "+name+" "+strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 編譯錯誤在 stderr，一併讀進來
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "ok"):
			printColor(colorGreen, line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "DATA RACE"),
			strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
			printColor(colorRed, line)
		}
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("finished with errors: %w", err)
	}
	return nil
}

func passthrough(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
	return cmd.Run()
}
