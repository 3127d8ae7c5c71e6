// Package backtest simulates a trading strategy over historical daily
// closes and tracks it against a buy-and-hold benchmark portfolio.
package backtest

import (
	"context"
	"sort"
	"time"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
	"github.com/aday913/alpaca-trading-bot/internal/util"
)

// PriceProvider supplies daily closing prices for a symbol set over a date
// range in a single bulk call. Implementations must tolerate symbols with
// gaps and must not reorder the requested symbols.
type PriceProvider interface {
	Fetch(ctx context.Context, symbols []string, start, end time.Time) (*PriceTable, error)
}

// PriceTable is a sparse mapping from (symbol, day) to closing price. An
// absent key means the symbol did not trade that day; lookups report the
// miss rather than erroring, and callers skip.
//
// Days are keyed at midnight UTC (util.Normalize).
type PriceTable struct {
	closes map[string]map[time.Time]float64
	days   map[string][]time.Time
	sorted bool
}

// NewPriceTable creates an empty PriceTable.
func NewPriceTable() *PriceTable {
	return &PriceTable{
		closes: make(map[string]map[time.Time]float64),
		days:   make(map[string][]time.Time),
		sorted: true,
	}
}

// FromBars builds a PriceTable from a slice of daily bars.
func FromBars(bars []domain.Bar) *PriceTable {
	t := NewPriceTable()
	for _, b := range bars {
		t.Add(b.Symbol, b.Timestamp, b.Close)
	}
	return t
}

// Add records the closing price for (symbol, day). The day is normalized to
// midnight UTC. Adding the same key twice keeps the latest value.
func (t *PriceTable) Add(symbol string, day time.Time, close float64) {
	day = util.Normalize(day)
	m, ok := t.closes[symbol]
	if !ok {
		m = make(map[time.Time]float64)
		t.closes[symbol] = m
	}
	if _, exists := m[day]; !exists {
		t.days[symbol] = append(t.days[symbol], day)
		t.sorted = false
	}
	m[day] = close
}

// Close returns the closing price for (symbol, day) and whether a bar
// exists for that key.
func (t *PriceTable) Close(symbol string, day time.Time) (float64, bool) {
	c, ok := t.closes[symbol][util.Normalize(day)]
	return c, ok
}

// HistoryThrough returns the chronologically ordered closes for symbol on
// days at or before the given day. The slice is freshly allocated; callers
// (strategies) may not see any data past the requested day.
func (t *PriceTable) HistoryThrough(symbol string, day time.Time) []float64 {
	t.ensureSorted()
	day = util.Normalize(day)

	days := t.days[symbol]
	n := sort.Search(len(days), func(i int) bool { return days[i].After(day) })
	if n == 0 {
		return nil
	}

	history := make([]float64, n)
	for i := 0; i < n; i++ {
		history[i] = t.closes[symbol][days[i]]
	}
	return history
}

// LatestCloseAt returns the most recent close for symbol on or before day,
// and whether any such close exists.
func (t *PriceTable) LatestCloseAt(symbol string, day time.Time) (float64, bool) {
	t.ensureSorted()
	day = util.Normalize(day)

	days := t.days[symbol]
	n := sort.Search(len(days), func(i int) bool { return days[i].After(day) })
	if n == 0 {
		return 0, false
	}
	return t.closes[symbol][days[n-1]], true
}

// Len returns the total number of (symbol, day) entries.
func (t *PriceTable) Len() int {
	n := 0
	for _, m := range t.closes {
		n += len(m)
	}
	return n
}

func (t *PriceTable) ensureSorted() {
	if t.sorted {
		return
	}
	for sym := range t.days {
		days := t.days[sym]
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	}
	t.sorted = true
}
