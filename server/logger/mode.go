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

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zintix-labs/reelspin/errs"
)

// LogMode 決定 handler 的格式、輸出目標與最低等級
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

var logModeNames = [...]string{
	ModeDev:     "dev",
	ModeProd:    "prod",
	ModeSilence: "silence",
}

func (m LogMode) String() string {
	if int(m) < len(logModeNames) {
		return logModeNames[m]
	}
	return "unknown"
}

// ParseLogMode 解析環境變數 / flag 的 log 模式字串：dev / prod / silence
func ParseLogMode(s string) (LogMode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range logModeNames {
		if name == key {
			return LogMode(m), nil
		}
	}
	return ModeDev, errs.Warnf("unknown log mode: %q", s)
}

// NewDefaultLogger 同步寫出的 logger，session 與 server 直接注入即可
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(handlerFor(mode, nil))
}

// NewAsync 以 mode 的預設 handler 為底，外包一層 AsyncHandler。
// 呼叫端負責在結束前 Close 以 drain 掉隊列。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(handlerFor(mode, nil), buf)
	return slog.New(ah), ah
}

// handlerFor w 為 nil 時 dev 寫 stderr，prod 寫 stdout（JSON，給 Loki / Promtail）
func handlerFor(mode LogMode, w io.Writer) slog.Handler {
	switch mode {
	case ModeSilence:
		return slog.DiscardHandler
	case ModeProd:
		if w == nil {
			w = os.Stdout
		}
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		if w == nil {
			w = os.Stderr
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
