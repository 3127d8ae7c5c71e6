// Package marketdata supplies historical daily closing prices. The remote
// source is the Alpaca market-data API, fetched with one bulk call per
// request; a Parquet read-through cache can sit in front of it.
package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	alpacamd "github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/aday913/alpaca-trading-bot/internal/backtest"
	"github.com/aday913/alpaca-trading-bot/internal/domain"
	"github.com/aday913/alpaca-trading-bot/internal/util"
)

// BarFetcher fetches daily bars for many symbols in one call.
type BarFetcher interface {
	FetchBars(ctx context.Context, symbols []string, start, end time.Time) ([]domain.Bar, error)
}

// Compile-time interface checks.
var _ backtest.PriceProvider = (*AlpacaProvider)(nil)
var _ BarFetcher = (*AlpacaProvider)(nil)

// AlpacaProvider reads daily bars from the Alpaca market-data API.
type AlpacaProvider struct {
	client *alpacamd.Client
	log    *slog.Logger
}

// NewAlpacaProvider creates an AlpacaProvider with the given credentials.
// An empty dataURL uses the SDK's default endpoint.
func NewAlpacaProvider(apiKey, apiSecret, dataURL string) *AlpacaProvider {
	opts := alpacamd.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	return &AlpacaProvider{
		client: alpacamd.NewClient(opts),
		log:    slog.Default().With("component", "marketdata"),
	}
}

// Fetch retrieves the full multi-symbol history for [start, end] and
// returns it as a sparse price table. Symbols with no bars in the range
// simply have no entries.
func (p *AlpacaProvider) Fetch(ctx context.Context, symbols []string, start, end time.Time) (*backtest.PriceTable, error) {
	bars, err := p.FetchBars(ctx, symbols, start, end)
	if err != nil {
		return nil, err
	}
	return backtest.FromBars(bars), nil
}

// FetchBars fetches daily bars for all symbols in a single API call.
func (p *AlpacaProvider) FetchBars(ctx context.Context, symbols []string, start, end time.Time) ([]domain.Bar, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	p.log.Info("fetching daily bars",
		"symbols", len(symbols),
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
	)

	var multiBars map[string][]alpacamd.Bar
	err := util.Retry(ctx, 3, time.Second, func() error {
		var ferr error
		multiBars, ferr = p.client.GetMultiBars(symbols, alpacamd.GetBarsRequest{
			TimeFrame: alpacamd.OneDay,
			Start:     start,
			End:       end,
		})
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("GetMultiBars: %w", err)
	}

	var bars []domain.Bar
	for symbol, alpacaBars := range multiBars {
		for _, ab := range alpacaBars {
			bars = append(bars, domain.Bar{
				Symbol:    strings.ToUpper(symbol),
				Timestamp: ab.Timestamp,
				Open:      ab.Open,
				High:      ab.High,
				Low:       ab.Low,
				Close:     ab.Close,
				Volume:    int64(ab.Volume),
			})
		}
	}
	return bars, nil
}
