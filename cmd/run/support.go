package main

import (
	"crypto/rand"
	"flag"
	"log"
	"math"
	"math/big"
	"os"
	"time"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	config    string
	mode      string
	worker    int
	player    int
	balance   int
	bet       int
	spins     int
	seed      int64
	out       string
	pprofmode string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.config, "config", "", "yaml game setting path (default: built-in 5x3)")
	flag.StringVar(&cfg.mode, "mode", "standard", "mode: standard|winning")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.player, "player", 1, "number of players")
	flag.IntVar(&cfg.balance, "balance", 0, "initial balance per player (default: setting initial_balance)")
	flag.IntVar(&cfg.bet, "bet", 1, "bet per spin")
	flag.IntVar(&cfg.spins, "spins", 1000000, "spins per player")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.out, "out", "text", "report format: text|json|yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs, mutex, block")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

func loadSetting() *spec.GameSetting {
	var (
		gs  *spec.GameSetting
		err error
	)
	if cfg.config == "" {
		gs, err = spec.Default()
	} else {
		gs, err = spec.GetGameSettingByFS(os.DirFS("."), cfg.config)
	}
	if err != nil {
		log.Fatal(err)
	}
	return gs
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() {
	cfg.valid() // 基本檢查

	gs := loadSetting()
	mode, err := spec.ParseMode(cfg.mode)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.balance == 0 {
		cfg.balance = gs.InitialBalance
	}
	s, err := reelspin.NewSimulatorWithSeed(gs, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	text := cfg.out == "text"
	if text {
		p.Printf("%s[SEED:%d]%s\n", green, cfg.seed, reset)
	}

	if cfg.player == 1 { // 純機台模擬
		if cfg.worker == 1 { // 單線程
			if text {
				p.Printf("%s[GAME:%s] [MODE:%s] [BET:%d] [SPINS:%d]%s\n", green, gs.GameName, mode, cfg.bet, cfg.spins, reset)
			}
			st, used, err := s.Sim(mode, cfg.bet, cfg.spins, text)
			if err != nil {
				log.Fatal(err)
			}
			output(st, used)
			return
		}
		if text {
			p.Printf("%s[WORKERS:%d] [GAME:%s] [MODE:%s] [BET:%d] [SPINS:%d]%s\n", green, cfg.worker, gs.GameName, mode, cfg.bet, cfg.worker*cfg.spins, reset)
		}
		st, used, err := s.SimMP(mode, cfg.bet, cfg.spins, cfg.worker, text) // 併發
		if err != nil {
			log.Fatal(err)
		}
		output(st, used)
		return
	}

	// 模擬多玩家體驗
	if text {
		p.Printf("%s[WORKERS:%d] [GAME:%s] [PLAYERS:%d BALANCE:%d MODE:%s BET:%d SPINS:%d]%s\n", green, cfg.worker, gs.GameName, cfg.player, cfg.balance, mode, cfg.bet, cfg.spins, reset)
	}
	st, est, used, err := s.SimPlayers(cfg.worker, cfg.player, cfg.balance, mode, cfg.bet, cfg.spins, text)
	if err != nil {
		log.Fatal(err)
	}
	output(st, used)
	outputEst(est)
}

// output 依 -out 輸出報表
func output(st *stats.StatReport, used time.Duration) {
	if cfg.out == "text" {
		st.StdOut(used)
		return
	}
	rep, err := stats.RenderByName[stats.StatReport](cfg.out)
	if err != nil {
		log.Fatal(err)
	}
	if err := st.WriteWith(os.Stdout, rep); err != nil {
		log.Fatal(err)
	}
}

func outputEst(est *stats.EstimatorPlayers) {
	if cfg.out == "text" {
		est.Out()
		return
	}
	rep, err := stats.RenderByName[stats.EstimatorPlayers](cfg.out)
	if err != nil {
		log.Fatal(err)
	}
	if err := est.WriteWith(os.Stdout, rep); err != nil {
		log.Fatal(err)
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}

	// 押注檢查
	if cfg.bet < 1 {
		log.Fatal("value err : bet must > 0")
	}

	// 玩家數量 > 0
	if cfg.player < 1 {
		log.Fatal("value err : player must > 0")
	}
	// 玩家數量太多 resize
	if cfg.player > 100000 {
		p.Printf("too much players: %d resized to 100k players\n", cfg.player)
		cfg.player = 100000
	}

	// 玩家帶入資金不能為負
	if cfg.balance < 0 {
		log.Fatal("value err : balance must >= 0")
	}

	// 轉數檢查
	if cfg.spins < 1 {
		log.Fatal("value err : spins must > 0")
	}

	// 模擬玩家的時候，每個玩家最高不超過15000轉
	if cfg.player > 1 && cfg.spins > 15000 {
		p.Printf("too much spins for each players : %d resized to 15k spins for each player\n", cfg.spins)
		cfg.spins = 15000
	}

	switch cfg.out {
	case "text", "json", "yaml":
	default:
		log.Fatal("value err : out must be text|json|yaml")
	}
}
