package backtest

import (
	"reflect"
	"testing"
	"time"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
)

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestPriceTableAbsentKeyIsSkip(t *testing.T) {
	table := NewPriceTable()
	table.Add("AAPL", day(2024, 1, 2), 185.5)

	if _, ok := table.Close("AAPL", day(2024, 1, 3)); ok {
		t.Error("Close reported a bar for a day with none")
	}
	if _, ok := table.Close("MSFT", day(2024, 1, 2)); ok {
		t.Error("Close reported a bar for an unknown symbol")
	}
	if c, ok := table.Close("AAPL", day(2024, 1, 2)); !ok || c != 185.5 {
		t.Errorf("Close = %v, %v; want 185.5, true", c, ok)
	}
}

func TestPriceTableNormalizesTimestamps(t *testing.T) {
	// Bars stamped mid-day (e.g. Alpaca's 05:00 UTC convention) land on the
	// same key as midnight calendar days.
	table := NewPriceTable()
	table.Add("AAPL", time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC), 185.5)

	if c, ok := table.Close("AAPL", day(2024, 1, 2)); !ok || c != 185.5 {
		t.Errorf("Close after normalization = %v, %v; want 185.5, true", c, ok)
	}
}

func TestHistoryThroughNoLookahead(t *testing.T) {
	table := FromBars([]domain.Bar{
		{Symbol: "AAPL", Timestamp: day(2024, 1, 2), Close: 100},
		{Symbol: "AAPL", Timestamp: day(2024, 1, 3), Close: 110},
		{Symbol: "AAPL", Timestamp: day(2024, 1, 4), Close: 90},
	})

	got := table.HistoryThrough("AAPL", day(2024, 1, 3))
	want := []float64{100, 110}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HistoryThrough = %v, want %v", got, want)
	}

	// A day before any data yields nothing.
	if h := table.HistoryThrough("AAPL", day(2024, 1, 1)); len(h) != 0 {
		t.Errorf("HistoryThrough before first bar = %v, want empty", h)
	}

	// History spans gaps: a missing middle day just isn't in the sequence.
	full := table.HistoryThrough("AAPL", day(2024, 12, 31))
	if !reflect.DeepEqual(full, []float64{100, 110, 90}) {
		t.Errorf("full history = %v", full)
	}
}

func TestHistoryThroughOutOfOrderInsertion(t *testing.T) {
	table := NewPriceTable()
	table.Add("AAPL", day(2024, 1, 4), 90)
	table.Add("AAPL", day(2024, 1, 2), 100)
	table.Add("AAPL", day(2024, 1, 3), 110)

	got := table.HistoryThrough("AAPL", day(2024, 1, 4))
	want := []float64{100, 110, 90}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HistoryThrough = %v, want %v", got, want)
	}
}

func TestLatestCloseAt(t *testing.T) {
	table := FromBars([]domain.Bar{
		{Symbol: "SPY", Timestamp: day(2024, 1, 2), Close: 470},
		{Symbol: "SPY", Timestamp: day(2024, 1, 5), Close: 475},
	})

	if c, ok := table.LatestCloseAt("SPY", day(2024, 1, 4)); !ok || c != 470 {
		t.Errorf("LatestCloseAt(gap day) = %v, %v; want 470, true", c, ok)
	}
	if c, ok := table.LatestCloseAt("SPY", day(2024, 1, 5)); !ok || c != 475 {
		t.Errorf("LatestCloseAt(exact day) = %v, %v; want 475, true", c, ok)
	}
	if _, ok := table.LatestCloseAt("SPY", day(2024, 1, 1)); ok {
		t.Error("LatestCloseAt before first bar should report no close")
	}
}

func TestPriceTableLen(t *testing.T) {
	table := NewPriceTable()
	if table.Len() != 0 {
		t.Errorf("empty table Len = %d", table.Len())
	}
	table.Add("AAPL", day(2024, 1, 2), 1)
	table.Add("AAPL", day(2024, 1, 3), 2)
	table.Add("MSFT", day(2024, 1, 2), 3)
	if table.Len() != 3 {
		t.Errorf("Len = %d, want 3", table.Len())
	}

	// Re-adding a key overwrites instead of growing.
	table.Add("AAPL", day(2024, 1, 2), 9)
	if table.Len() != 3 {
		t.Errorf("Len after overwrite = %d, want 3", table.Len())
	}
	if c, _ := table.Close("AAPL", day(2024, 1, 2)); c != 9 {
		t.Errorf("overwritten close = %v, want 9", c)
	}
}
