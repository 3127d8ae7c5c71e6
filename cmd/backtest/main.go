package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aday913/alpaca-trading-bot/internal/backtest"
	"github.com/aday913/alpaca-trading-bot/internal/config"
	"github.com/aday913/alpaca-trading-bot/internal/marketdata"
	"github.com/aday913/alpaca-trading-bot/internal/store"
	"github.com/aday913/alpaca-trading-bot/internal/strategy"
	"github.com/aday913/alpaca-trading-bot/internal/util"
)

func main() {
	var (
		symbolsFlag  = flag.String("symbols", "", "comma-separated symbols (overrides config)")
		startFlag    = flag.String("start", "", "start date YYYY-MM-DD (overrides config)")
		endFlag      = flag.String("end", "", "end date YYYY-MM-DD (overrides config)")
		cashFlag     = flag.Float64("cash", 0, "starting cash (overrides config)")
		strategyFlag = flag.String("strategy", "", "strategy name (overrides config)")
		benchFlag    = flag.String("benchmark", "", "benchmark symbol (overrides config)")
		carryFlag    = flag.Bool("carry-forward", false, "value missing bars at the last known close")
		noSaveFlag   = flag.Bool("no-save", false, "do not archive the run")
	)
	flag.Parse()

	cfg := loadConfig()
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	if *symbolsFlag != "" {
		cfg.Backtest.Symbols = splitSymbols(*symbolsFlag)
	}
	if *startFlag != "" {
		cfg.Backtest.StartDate = *startFlag
	}
	if *endFlag != "" {
		cfg.Backtest.EndDate = *endFlag
	}
	if *cashFlag > 0 {
		cfg.Backtest.StartingCash = *cashFlag
	}
	if *strategyFlag != "" {
		cfg.Backtest.Strategy = *strategyFlag
	}
	if *benchFlag != "" {
		cfg.Backtest.Benchmark = strings.ToUpper(*benchFlag)
	}
	if *carryFlag {
		cfg.Backtest.CarryForward = true
	}

	if len(cfg.Backtest.Symbols) == 0 {
		log.Fatal("no symbols configured: pass -symbols or set backtest.symbols")
	}

	start, err := time.Parse("2006-01-02", cfg.Backtest.StartDate)
	if err != nil {
		log.Fatalf("invalid start date %q: %v", cfg.Backtest.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", cfg.Backtest.EndDate)
	if err != nil {
		log.Fatalf("invalid end date %q: %v", cfg.Backtest.EndDate, err)
	}

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewSMACross(cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow))
	registry.Register(strategy.NewRandom(time.Now().UnixNano()))

	strat, ok := registry.Get(cfg.Backtest.Strategy)
	if !ok {
		log.Fatalf("unknown strategy %q (available: %s)",
			cfg.Backtest.Strategy, strings.Join(registry.List(), ", "))
	}

	cacheDir := cfg.Backtest.HistoryCacheDir
	if cacheDir == "" {
		cacheDir = cfg.Storage.DataDir
	}
	remote := marketdata.NewAlpacaProvider(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL)
	provider := marketdata.NewCachedProvider(remote, cacheDir)

	engine := backtest.NewEngine(provider, backtest.Options{
		CarryForwardValuation: cfg.Backtest.CarryForward,
		Observer: func(s backtest.Step) {
			slog.Debug("step",
				"day", s.Day.Format("2006-01-02"),
				"symbol", s.Symbol,
				"decision", s.Decision,
				"strategy_value", s.StrategyValue,
				"benchmark_value", s.BenchmarkValue,
			)
		},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting backtest",
		"symbols", cfg.Backtest.Symbols,
		"start", cfg.Backtest.StartDate,
		"end", cfg.Backtest.EndDate,
		"strategy", strat.Name(),
		"benchmark", cfg.Backtest.Benchmark,
	)

	results, err := engine.Run(ctx, backtest.Params{
		StartingCash: cfg.Backtest.StartingCash,
		Start:        start,
		End:          end,
		Symbols:      cfg.Backtest.Symbols,
		Benchmark:    cfg.Backtest.Benchmark,
		Strategy:     strat,
	})
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	summary, err := backtest.Report(results, cfg.Backtest.StartingCash)
	if err != nil {
		log.Fatalf("reporting failed: %v", err)
	}
	fmt.Println(summary)

	if !*noSaveFlag {
		archiveRun(ctx, cfg, summary)
	}
}

// archiveRun persists the run summary. Archive failures are logged, not
// fatal: the report already printed.
func archiveRun(ctx context.Context, cfg *config.Config, summary *backtest.Summary) {
	st, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		slog.Warn("could not open run archive", "path", cfg.Storage.SQLitePath, "err", err)
		return
	}
	defer st.Close()

	run := &store.Run{
		StartDate:          cfg.Backtest.StartDate,
		EndDate:            cfg.Backtest.EndDate,
		Symbols:            cfg.Backtest.Symbols,
		Benchmark:          cfg.Backtest.Benchmark,
		Strategy:           cfg.Backtest.Strategy,
		StartingCash:       cfg.Backtest.StartingCash,
		FinalValue:         summary.FinalValue,
		ChangePct:          summary.ChangePct,
		BenchmarkFinal:     summary.BenchmarkFinal,
		BenchmarkChangePct: summary.BenchmarkChangePct,
		Steps:              summary.Steps,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		slog.Warn("could not archive run", "err", err)
		return
	}
	slog.Info("run archived", "id", run.ID)
}

func loadConfig() *config.Config {
	cfgPath := "config/bot.yaml"
	if p := os.Getenv("BOT_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default()
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
