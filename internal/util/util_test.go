package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	attempts := 0
	targetAttempts := 3

	err := Retry(context.Background(), 5, 0, func() error {
		attempts++
		if attempts < targetAttempts {
			return errors.New("transient error")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry returned unexpected error: %v", err)
	}
	if attempts != targetAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, targetAttempts)
	}
}

func TestRetryAllFail(t *testing.T) {
	attempts := 0
	maxAttempts := 3
	persistent := errors.New("persistent error")

	err := Retry(context.Background(), maxAttempts, 0, func() error {
		attempts++
		return persistent
	})

	if !errors.Is(err, persistent) {
		t.Fatalf("Retry error = %v, want wrapped %v", err, persistent)
	}
	if attempts != maxAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, maxAttempts)
	}
}

func TestRetryCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := Retry(ctx, 5, time.Minute, func() error {
		attempts++
		cancel()
		return errors.New("transient error")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("Retry called fn %d times after cancellation, want 1", attempts)
	}
}

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("ET", -5*3600)
	// 23:30 ET on Jan 2 is 04:30 UTC on Jan 3.
	in := time.Date(2024, 1, 2, 23, 30, 0, 0, loc)
	got := Normalize(in)
	want := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Normalize(%v) = %v, want %v", in, got, want)
	}
}

func TestBusinessDays(t *testing.T) {
	// 2024-01-05 is a Friday, 2024-01-09 a Tuesday; the weekend in between
	// must be excluded.
	start := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	days := BusinessDays(start, end)
	want := []time.Time{
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
	}
	if len(days) != len(want) {
		t.Fatalf("BusinessDays returned %d days, want %d: %v", len(days), len(want), days)
	}
	for i := range want {
		if !days[i].Equal(want[i]) {
			t.Errorf("day %d = %v, want %v", i, days[i], want[i])
		}
	}
}

func TestBusinessDaysWeekendOnly(t *testing.T) {
	// Saturday through Sunday yields no business days.
	start := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	if days := BusinessDays(start, end); len(days) != 0 {
		t.Errorf("BusinessDays over a weekend returned %v, want none", days)
	}
}

func TestBusinessDaysEmptyRange(t *testing.T) {
	start := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if days := BusinessDays(start, end); len(days) != 0 {
		t.Errorf("BusinessDays with end before start returned %v, want none", days)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		if logger := NewLogger(level, "json"); logger == nil {
			t.Fatalf("NewLogger(%q) returned nil", level)
		}
	}
	if logger := NewLogger("info", "text"); logger == nil {
		t.Fatal("NewLogger text format returned nil")
	}
}
