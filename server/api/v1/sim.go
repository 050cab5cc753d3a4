package v1

import (
	"crypto/rand"
	"math"
	"math/big"
	"net/http"
	"time"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/server/httperr"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
)

// 模擬的資源上限
const (
	maxRounds  = 1_000_000
	maxPlayers = 100_000
	maxWorkers = 16
	// 玩家模擬每位玩家的局數上限
	maxPlayerRounds = 15_000
)

type SimHandler struct {
	Setting *spec.GameSetting
}

func NewSimHandler(gs *spec.GameSetting) (*SimHandler, error) {
	if gs == nil {
		return nil, errs.NewFatal("game setting is required")
	}
	return &SimHandler{Setting: gs}, nil
}

// SimResponse 模擬結果。玩家模擬時 Est 才有值。
type SimResponse struct {
	Stats    *stats.StatReport       `json:"stats"`
	Est      *stats.EstimatorPlayers `json:"est,omitempty"`
	Seed     int64                   `json:"seed"`
	UsedTime int64                   `json:"used_ms"`
}

// Sim GET|POST /v1/sim：以伺服器載入的設定模擬
func (sh *SimHandler) Sim(w http.ResponseWriter, r *http.Request) {
	req, err := buf.DecodeSimRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sh.run(w, sh.Setting, req)
}

// SimByCfg POST /v1/simbycfg：傳入 JSON 設定與希望模擬的局數
func (sh *SimHandler) SimByCfg(w http.ResponseWriter, r *http.Request) {
	req, err := buf.DecodeSimByCfgRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	gs, err := spec.GetGameSettingByJSON(req.GameSetting)
	if err != nil {
		// 呼叫端的設定錯誤屬於請求問題
		httperr.Errs(w, errs.NewWarn("invalid cfg: "+err.Error()))
		return
	}
	sh.run(w, gs, &req.SimRequest)
}

func (sh *SimHandler) run(w http.ResponseWriter, gs *spec.GameSetting, req *buf.SimRequest) {
	mode, err := spec.ParseMode(req.Mode)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.Bet < 1 {
		httperr.Errs(w, errs.ErrInvalidBet)
		return
	}
	if req.Players > 0 {
		if req.Players > maxPlayers {
			httperr.Errs(w, errs.NewWarn("players must be between 1 and 100,000"))
			return
		}
		if req.Rounds < 1 || req.Rounds > maxPlayerRounds {
			httperr.Errs(w, errs.NewWarn("rounds must be between 1 and 15,000 when simulating players"))
			return
		}
	} else if req.Rounds < 1 || req.Rounds > maxRounds {
		httperr.Errs(w, errs.NewWarn("rounds must be between 1 to 1,000,000"))
		return
	}
	workers := min(max(1, req.Workers), maxWorkers)

	if req.Seed == nil {
		rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed generate failed"))
			return
		}
		v := rnd.Int64()
		req.Seed = &v
	}
	sim, err := reelspin.NewSimulatorWithSeed(gs, *req.Seed)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "build simulator err"))
		return
	}

	resp := SimResponse{Seed: *req.Seed}
	if req.Players > 0 {
		initBalance := req.InitBalance
		if initBalance == 0 {
			initBalance = gs.InitialBalance
		}
		st, est, used, err := sim.SimPlayers(workers, req.Players, initBalance, mode, req.Bet, req.Rounds, false)
		if err != nil {
			// 錯誤來自 simulator，尊重錯誤分級
			httperr.Errs(w, errs.Wrap(err, "simulate players err"))
			return
		}
		resp.Stats, resp.Est, resp.UsedTime = st, est, used.Milliseconds()
	} else {
		st, used, err := sh.simRounds(sim, mode, req.Bet, req.Rounds, workers)
		if err != nil {
			httperr.Errs(w, errs.Wrap(err, "simulate err"))
			return
		}
		resp.Stats, resp.UsedTime = st, used.Milliseconds()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (sh *SimHandler) simRounds(sim *reelspin.Simulator, mode spec.Mode, bet, rounds, workers int) (*stats.StatReport, time.Duration, error) {
	if workers > 1 {
		return sim.SimMP(mode, bet, rounds, workers, false)
	}
	return sim.Sim(mode, bet, rounds, false)
}
