package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aday913/alpaca-trading-bot/internal/config"
	"github.com/aday913/alpaca-trading-bot/internal/httpapi"
	"github.com/aday913/alpaca-trading-bot/internal/store"
	"github.com/aday913/alpaca-trading-bot/internal/util"
)

func main() {
	cfgPath := "config/bot.yaml"
	if p := os.Getenv("BOT_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	st, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening run archive %s: %v", cfg.Storage.SQLitePath, err)
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := httpapi.NewServer(st)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	slog.Info("server stopped")
}
