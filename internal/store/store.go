// Package store archives completed backtest runs so results can be listed
// and compared after the fact.
package store

import (
	"context"
	"time"
)

// Run is the archived summary of one backtest.
type Run struct {
	ID                 int64
	CreatedAt          time.Time
	StartDate          string // YYYY-MM-DD
	EndDate            string // YYYY-MM-DD
	Symbols            []string
	Benchmark          string
	Strategy           string
	StartingCash       float64
	FinalValue         float64
	ChangePct          float64
	BenchmarkFinal     float64
	BenchmarkChangePct float64
	Steps              int
}

// RunStore persists and retrieves backtest run summaries.
type RunStore interface {
	// SaveRun inserts a run and fills in its ID and CreatedAt.
	SaveRun(ctx context.Context, run *Run) error

	// GetRun retrieves a single run by ID.
	GetRun(ctx context.Context, id int64) (*Run, error)

	// ListRuns returns the most recent runs, newest first, up to limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
