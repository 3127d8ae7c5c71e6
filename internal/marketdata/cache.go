package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/aday913/alpaca-trading-bot/internal/backtest"
	"github.com/aday913/alpaca-trading-bot/internal/domain"
)

// Compile-time interface check.
var _ backtest.PriceProvider = (*CachedProvider)(nil)

// BarRecord is the Parquet schema for cached daily bar data.
type BarRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    int64   `parquet:"volume"`
}

// CachedProvider is a read-through Parquet cache in front of a remote
// BarFetcher. Bars are cached per symbol and year at:
//
//	<dataDir>/us/daily/<SYMBOL>/<YYYY>.parquet
//
// A symbol with any cached bars inside the requested range is served
// locally; symbols with none are fetched remotely in one bulk call and the
// results merged into the cache. The cache does not detect partially stale
// ranges — delete a symbol's directory to force a refetch.
type CachedProvider struct {
	remote  BarFetcher
	dataDir string
	log     *slog.Logger
}

// NewCachedProvider creates a CachedProvider writing under dataDir.
func NewCachedProvider(remote BarFetcher, dataDir string) *CachedProvider {
	return &CachedProvider{
		remote:  remote,
		dataDir: dataDir,
		log:     slog.Default().With("component", "marketdata-cache"),
	}
}

// Fetch returns the price table for the requested symbols and range,
// reading from the cache where possible and falling back to the remote
// fetcher for symbols with no cached data.
func (c *CachedProvider) Fetch(ctx context.Context, symbols []string, start, end time.Time) (*backtest.PriceTable, error) {
	var (
		cached  []domain.Bar
		missing []string
	)
	for _, sym := range symbols {
		bars, err := c.readCached(sym, start, end)
		if err != nil {
			return nil, fmt.Errorf("reading cache for %s: %w", sym, err)
		}
		if len(bars) == 0 {
			missing = append(missing, sym)
			continue
		}
		cached = append(cached, bars...)
	}

	if len(missing) == 0 {
		c.log.Debug("cache hit", "symbols", len(symbols))
		return backtest.FromBars(cached), nil
	}

	c.log.Info("cache miss, fetching remote", "symbols", missing)
	fetched, err := c.remote.FetchBars(ctx, missing, start, end)
	if err != nil {
		return nil, err
	}
	if err := c.writeCached(fetched); err != nil {
		return nil, fmt.Errorf("writing cache: %w", err)
	}

	return backtest.FromBars(append(cached, fetched...)), nil
}

// readCached loads the symbol's cached bars overlapping [start, end].
func (c *CachedProvider) readCached(symbol string, start, end time.Time) ([]domain.Bar, error) {
	var bars []domain.Bar
	for year := start.Year(); year <= end.Year(); year++ {
		path := c.barPath(symbol, year)

		records, err := parquet.ReadFile[BarRecord](path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			// Unreadable cache files are treated as absent rather than
			// failing the run; the remote fetch rewrites them.
			c.log.Warn("unreadable cache file, ignoring", "path", path, "err", err)
			continue
		}

		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if ts.Before(start) || ts.After(end) {
				continue
			}
			bars = append(bars, domain.Bar{
				Symbol:    r.Symbol,
				Timestamp: ts,
				Open:      r.Open,
				High:      r.High,
				Low:       r.Low,
				Close:     r.Close,
				Volume:    r.Volume,
			})
		}
	}
	return bars, nil
}

// writeCached merges the fetched bars into the per-symbol year files.
func (c *CachedProvider) writeCached(bars []domain.Bar) error {
	type key struct {
		symbol string
		year   int
	}
	groups := make(map[key][]BarRecord)
	for _, b := range bars {
		k := key{symbol: strings.ToUpper(b.Symbol), year: b.Timestamp.UTC().Year()}
		groups[k] = append(groups[k], BarRecord{
			Symbol:    strings.ToUpper(b.Symbol),
			Timestamp: b.Timestamp.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}

	for k, records := range groups {
		path := c.barPath(k.symbol, k.year)

		existing, err := parquet.ReadFile[BarRecord](path)
		if err != nil {
			existing = nil
		}
		merged := mergeBarRecords(existing, records)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := parquet.WriteFile(path, merged); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// barPath returns the cache file path for a symbol and year.
func (c *CachedProvider) barPath(symbol string, year int) string {
	return filepath.Join(c.dataDir, "us", "daily", strings.ToUpper(symbol), fmt.Sprintf("%d.parquet", year))
}

// mergeBarRecords deduplicates records by (symbol, timestamp), preferring
// incoming over existing, sorted by timestamp.
func mergeBarRecords(existing, incoming []BarRecord) []BarRecord {
	type key struct {
		symbol string
		ts     int64
	}
	seen := make(map[key]BarRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Symbol, r.Timestamp}] = r
	}
	for _, r := range incoming {
		seen[key{r.Symbol, r.Timestamp}] = r
	}

	merged := make([]BarRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
