package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/httperr"
	"github.com/zintix-labs/reelspin/spec"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsMaxMessage = 4 << 10
	wsEventBuf   = 128
)

// WSFrame 是 server 推給呈現層的訊框。
//   - type=hello：連線建立時的完整快照
//   - type=event：session 狀態變化
//   - type=reply：指令結果，失敗時帶 error
type WSFrame struct {
	Type  string             `json:"type"`
	Event *reelspin.Event    `json:"event,omitempty"`
	State *reelspin.Snapshot `json:"state,omitempty"`
	Error *httperr.Body      `json:"error,omitempty"`
}

// WSCommand 呈現層送上來的指令：spin / bet / inc / dec / mode / reset
type WSCommand struct {
	Op   string `json:"op"`
	Bet  int    `json:"bet,omitempty"`
	Mode string `json:"mode,omitempty"`
}

// WSHandler 以 websocket 推送 session 事件並接收操作指令
type WSHandler struct {
	Hub      *reelspin.Hub
	Log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(h *reelspin.Hub, origins []string, log *slog.Logger) (*WSHandler, error) {
	if h == nil {
		return nil, errs.NewFatal("hub is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")
	return &WSHandler{
		Hub: h,
		Log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// 非瀏覽器 client 不帶 Origin
				return allowAll || origin == "" || slices.Contains(origins, origin)
			},
		},
	}, nil
}

// Serve GET /v1/sessions/{id}/ws
func (wh *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := wh.Hub.Get(id)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	conn, err := wh.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已寫回錯誤
		wh.Log.Warn("ws upgrade failed", slog.String("session", id), slog.Any("err", err))
		return
	}
	defer conn.Close()

	events := make(chan reelspin.Event, wsEventBuf)
	cancel := s.Subscribe(reelspin.ObserverFunc(func(e reelspin.Event) {
		select {
		case events <- e:
		default:
			// 慢 client 丟事件，不影響 session
		}
	}))
	defer cancel()

	replies := make(chan WSFrame, 8)
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go wh.readLoop(conn, s, replies, done, stop)

	snap := s.Snapshot()
	if err := writeFrame(conn, WSFrame{Type: "hello", State: &snap}); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case e := <-events:
			if err := writeFrame(conn, WSFrame{Type: "event", Event: &e}); err != nil {
				return
			}
			if e.Kind == reelspin.EventClosed {
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
				_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(wsWriteWait))
				return
			}
		case f := <-replies:
			if err := writeFrame(conn, f); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readLoop 讀取指令直到連線中斷；所有寫入都交給 Serve 的迴圈
func (wh *WSHandler) readLoop(conn *websocket.Conn, s *reelspin.Session, replies chan<- WSFrame, done chan<- struct{}, stop <-chan struct{}) {
	defer close(done)
	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		var cmd WSCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				wh.Log.Debug("ws read stopped", slog.Any("err", err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		f := WSFrame{Type: "reply"}
		if err := applyCommand(s, cmd); err != nil {
			f.Error = &httperr.Body{Error: err.Error(), Code: errs.CodeOf(err).String()}
		}
		snap := s.Snapshot()
		f.State = &snap
		select {
		case replies <- f:
		case <-stop:
			return
		}
	}
}

func applyCommand(s *reelspin.Session, cmd WSCommand) error {
	switch cmd.Op {
	case "spin":
		return s.Spin()
	case "bet":
		return s.SetBet(cmd.Bet)
	case "inc":
		return s.IncBet()
	case "dec":
		return s.DecBet()
	case "mode":
		m, err := spec.ParseMode(cmd.Mode)
		if err != nil {
			return err
		}
		return s.SetMode(m)
	case "reset":
		return s.Reset()
	default:
		return errs.Warnf("unknown op: %q", cmd.Op)
	}
}

func writeFrame(conn *websocket.Conn, f WSFrame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
