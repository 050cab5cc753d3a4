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

package netsvr

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// DefaultAddr 預設監聽位址
const DefaultAddr string = ":5808"

// Option 調整底層 http.Server
type Option func(*http.Server)

// WithTimeouts read / write 為 0 時保留預設值。
// websocket 連線 hijack 後自行管理 deadline，不受這裡影響。
func WithTimeouts(read, write time.Duration) Option {
	return func(s *http.Server) {
		if read > 0 {
			s.ReadTimeout = read
		}
		if write > 0 {
			s.WriteTimeout = write
		}
	}
}

// ChiAdapter 以 chi 實作 NetSvr，handler 與 middleware 皆為標準 net/http 形態。
type ChiAdapter struct {
	mux chi.Router
	srv *http.Server // Group 產生的子 adapter 為 nil
}

// NewChiServer addr 為空時使用 DefaultAddr
func NewChiServer(addr string, opts ...Option) *ChiAdapter {
	if addr == "" {
		addr = DefaultAddr
	}
	mux := chi.NewRouter()
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return &ChiAdapter{mux: mux, srv: srv}
}

// Run 阻塞到 server 關閉，Shutdown 造成的 ErrServerClosed 不算錯誤
func (c *ChiAdapter) Run() error {
	if c.srv == nil {
		return errors.New("netsvr: run called on a route group")
	}
	err := c.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	if c.srv == nil {
		return nil
	}
	return c.srv.Shutdown(ctx)
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) { c.mux.Use(mw) }

func (c *ChiAdapter) Handle(path string, h http.HandlerFunc, methods ...string) {
	for _, m := range methods {
		c.mux.MethodFunc(m, path, h)
	}
}

func (c *ChiAdapter) Get(path string, h http.HandlerFunc) { c.mux.Get(path, h) }
func (c *ChiAdapter) Post(path string, h http.HandlerFunc) { c.mux.Post(path, h) }
func (c *ChiAdapter) Delete(path string, h http.HandlerFunc) { c.mux.Delete(path, h) }

func (c *ChiAdapter) Group(prefix string, fn func(NetRouter)) {
	c.mux.Route(prefix, func(r chi.Router) {
		fn(&ChiAdapter{mux: r})
	})
}

// Handler 回傳根路由
func (c *ChiAdapter) Handler() http.Handler { return c.mux }

// Addr 監聽位址，子路由為空字串
func (c *ChiAdapter) Addr() string {
	if c.srv == nil {
		return ""
	}
	return c.srv.Addr
}
