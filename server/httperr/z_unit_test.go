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

package httperr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/reelspin/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.ErrInvalidBet, http.StatusBadRequest},
		{errs.ErrInsufficientBalance.WithExtra("bet=10"), http.StatusBadRequest},
		{errs.ErrSpinInProgress, http.StatusConflict},
		{errs.Wrap(errs.ErrModeSwitchDuringSpin, "set mode"), http.StatusConflict},
		{errs.ErrSpinCanceled, http.StatusConflict},
		{errs.ErrSessionClosed, http.StatusGone},
		{errs.ErrNotFound.WithExtra("id=abc"), http.StatusNotFound},
		{errs.NewFatal("boom"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errs.Wrap(context.Canceled, "wait"), http.StatusRequestTimeout},
	}
	for _, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("%v want %d got %d", c.err, c.want, got)
		}
	}
}

func TestErrsWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, errs.ErrSpinInProgress)
	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409 got %d", rec.Code)
	}
	var b Body
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b.Code != "spin_in_progress" || b.Error == "" {
		t.Fatalf("unexpected body %+v", b)
	}
}
