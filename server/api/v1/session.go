package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/server/httperr"
	"github.com/zintix-labs/reelspin/spec"
)

// spin?wait=true 的等待上限
const maxSpinWait = 5 * time.Second

// SessionHandler 把 Hub 裡的 session 操作暴露成 HTTP API
type SessionHandler struct {
	Hub *reelspin.Hub
	Log *slog.Logger
}

func NewSessionHandler(h *reelspin.Hub, log *slog.Logger) (*SessionHandler, error) {
	if h == nil {
		return nil, errs.NewFatal("hub is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &SessionHandler{Hub: h, Log: log}, nil
}

// SessionResponse 建立 session 的回應
type SessionResponse struct {
	ID    string            `json:"id"`
	State reelspin.Snapshot `json:"state"`
}

// ActionResponse 所有操作的回應：操作被拒絕時 Error 帶錯誤種類，State 仍是最新狀態
type ActionResponse struct {
	State reelspin.Snapshot `json:"state"`
	Error *httperr.Body     `json:"error,omitempty"`
}

// Create POST /v1/sessions
func (sh *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := buf.DecodeSessionRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	mode := spec.Standard
	if req.Mode != "" {
		if mode, err = spec.ParseMode(req.Mode); err != nil {
			httperr.Errs(w, err)
			return
		}
	}
	id, snap, err := sh.Hub.Create(req.Seed, mode)
	if err != nil {
		httperr.Log(sh.Log, "create session failed", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id, State: snap})
}

// State GET /v1/sessions/{id}
func (sh *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	s, ok := sh.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{State: s.Snapshot()})
}

// Spin POST /v1/sessions/{id}/spin，?wait=true 時等到結算才回應
func (sh *SessionHandler) Spin(w http.ResponseWriter, r *http.Request) {
	s, ok := sh.session(w, r)
	if !ok {
		return
	}
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		sh.act(w, s, s.Spin())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), maxSpinWait)
	defer cancel()
	snap, err := s.SpinAndWait(ctx)
	sh.reply(w, snap, err)
}

// Bet GET|POST /v1/sessions/{id}/bet
func (sh *SessionHandler) Bet(w http.ResponseWriter, r *http.Request) {
	s, ok := sh.session(w, r)
	if !ok {
		return
	}
	req, err := buf.DecodeBetRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sh.act(w, s, s.SetBet(req.Bet))
}

// IncBet POST /v1/sessions/{id}/bet/inc
func (sh *SessionHandler) IncBet(w http.ResponseWriter, r *http.Request) {
	if s, ok := sh.session(w, r); ok {
		sh.act(w, s, s.IncBet())
	}
}

// DecBet POST /v1/sessions/{id}/bet/dec
func (sh *SessionHandler) DecBet(w http.ResponseWriter, r *http.Request) {
	if s, ok := sh.session(w, r); ok {
		sh.act(w, s, s.DecBet())
	}
}

// Mode GET|POST /v1/sessions/{id}/mode
func (sh *SessionHandler) Mode(w http.ResponseWriter, r *http.Request) {
	s, ok := sh.session(w, r)
	if !ok {
		return
	}
	req, err := buf.DecodeModeRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	m, err := spec.ParseMode(req.Mode)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sh.act(w, s, s.SetMode(m))
}

// Reset POST /v1/sessions/{id}/reset
func (sh *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if s, ok := sh.session(w, r); ok {
		sh.act(w, s, s.Reset())
	}
}

// Delete DELETE /v1/sessions/{id}
func (sh *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := sh.Hub.Delete(chi.URLParam(r, "id")); err != nil {
		httperr.Errs(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (sh *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*reelspin.Session, bool) {
	s, err := sh.Hub.Get(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Errs(w, err)
		return nil, false
	}
	return s, true
}

func (sh *SessionHandler) act(w http.ResponseWriter, s *reelspin.Session, err error) {
	sh.reply(w, s.Snapshot(), err)
}

// reply 操作失敗時仍回傳狀態，讓呈現層可以直接顯示 Message
func (sh *SessionHandler) reply(w http.ResponseWriter, snap reelspin.Snapshot, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, ActionResponse{State: snap})
		return
	}
	httperr.Log(sh.Log, "session action failed", err)
	writeJSON(w, httperr.StatusCode(err), ActionResponse{
		State: snap,
		Error: &httperr.Body{Error: err.Error(), Code: errs.CodeOf(err).String()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
