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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHandleMultipleMethods(t *testing.T) {
	c := NewChiServer("")
	if c.Addr() != DefaultAddr {
		t.Fatalf("empty addr must fall back to %s, got %s", DefaultAddr, c.Addr())
	}
	c.Group("/v1", func(r NetRouter) {
		r.Handle("/bet", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(req.Method))
		}, http.MethodGet, http.MethodPost)
	})

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest(m, "/v1/bet", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != m {
			t.Fatalf("%s: code=%d body=%q", m, rec.Code, rec.Body.String())
		}
	}
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/bet", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unregistered method want 405 got %d", rec.Code)
	}
}

func TestWithTimeouts(t *testing.T) {
	c := NewChiServer(":0", WithTimeouts(time.Second, 0))
	if c.srv.ReadTimeout != time.Second || c.srv.WriteTimeout != 30*time.Second {
		t.Fatalf("unexpected timeouts: read=%v write=%v", c.srv.ReadTimeout, c.srv.WriteTimeout)
	}
}

func TestShutdownEndsRun(t *testing.T) {
	c := NewChiServer("127.0.0.1:0")
	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	time.Sleep(50 * time.Millisecond)
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run must end cleanly after shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return")
	}
}
