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

	"github.com/aday913/alpaca-trading-bot/internal/broker"
	"github.com/aday913/alpaca-trading-bot/internal/config"
	"github.com/aday913/alpaca-trading-bot/internal/domain"
	"github.com/aday913/alpaca-trading-bot/internal/marketdata"
	"github.com/aday913/alpaca-trading-bot/internal/notify"
	"github.com/aday913/alpaca-trading-bot/internal/strategy"
	"github.com/aday913/alpaca-trading-bot/internal/util"
)

// historyDays is how far back the trader pulls daily bars before asking the
// strategy for a decision. Generous enough to cover the long SMA window plus
// market holidays.
const historyDays = 120

func main() {
	var (
		symbolsFlag = flag.String("symbols", "", "comma-separated symbols (overrides config)")
		liveFlag    = flag.Bool("live", false, "actually submit orders (default is dry-run)")
	)
	flag.Parse()

	cfg := loadConfig()
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	if *symbolsFlag != "" {
		cfg.Backtest.Symbols = splitSymbols(*symbolsFlag)
	}
	if len(cfg.Backtest.Symbols) == 0 {
		log.Fatal("no symbols configured: pass -symbols or set backtest.symbols")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Orders are dry-run unless -live is passed; trading.dry_run in the
	// config acts as a hard lock that -live cannot override.
	dryRun := !*liveFlag || cfg.Trading.DryRun
	if !dryRun {
		slog.Warn("live order submission enabled", "base_url", cfg.Alpaca.BaseURL)
	}

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewSMACross(cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow))
	registry.Register(strategy.NewRandom(time.Now().UnixNano()))

	strat, ok := registry.Get(cfg.Backtest.Strategy)
	if !ok {
		log.Fatalf("unknown strategy %q (available: %s)",
			cfg.Backtest.Strategy, strings.Join(registry.List(), ", "))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	provider := marketdata.NewAlpacaProvider(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL)
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -historyDays)

	table, err := provider.Fetch(ctx, cfg.Backtest.Symbols, start, end)
	if err != nil {
		log.Fatalf("fetching daily bars: %v", err)
	}

	b := broker.NewAlpaca(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL, dryRun)
	tif := domain.TimeInForce(cfg.Trading.TimeInForce)

	var notifier notify.Notifier
	if cfg.Notifications.DiscordWebhookURL != "" {
		d, err := notify.NewDiscord(cfg.Notifications.DiscordWebhookURL)
		if err != nil {
			slog.Warn("discord disabled", "err", err)
		} else {
			notifier = d
		}
	}

	for _, symbol := range cfg.Backtest.Symbols {
		history := table.HistoryThrough(symbol, end)
		if len(history) == 0 {
			slog.Warn("no price history, skipping", "symbol", symbol)
			continue
		}

		decision := strat.Predict(history)
		slog.Info("decision",
			"symbol", symbol,
			"decision", decision,
			"strategy", strat.Name(),
			"bars", len(history),
			"dry_run", dryRun,
		)

		var tradeErr error
		switch decision {
		case domain.Buy:
			tradeErr = b.Trade(ctx, symbol, 1, domain.OrderSideBuy, tif)
		case domain.Sell:
			tradeErr = b.Trade(ctx, symbol, 1, domain.OrderSideSell, tif)
		default:
			continue
		}
		if tradeErr != nil {
			slog.Error("order failed", "symbol", symbol, "err", tradeErr)
			continue
		}

		if notifier != nil {
			msg := fmt.Sprintf("%s %s x1 (%s, dry_run=%v)", decision, symbol, strat.Name(), dryRun)
			if err := notifier.Notify(ctx, msg); err != nil {
				slog.Warn("notification failed", "channel", notifier.Name(), "err", err)
			}
		}
	}
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
