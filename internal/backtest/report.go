package backtest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResult is returned when reporting is attempted on a run that
// produced no valuation points.
var ErrEmptyResult = errors.New("result series is empty")

// Summary compares the final strategy and benchmark values against the
// starting cash.
type Summary struct {
	InitialValue       float64
	FinalValue         float64
	ChangePct          float64
	BenchmarkInitial   float64
	BenchmarkFinal     float64
	BenchmarkChangePct float64
	Steps              int
}

// Report summarises a completed run. Both portfolios start from the same
// cash amount, so the benchmark initial value equals startingCash too.
func Report(series *ResultSeries, startingCash float64) (*Summary, error) {
	if series == nil || series.Len() == 0 {
		return nil, ErrEmptyResult
	}

	final := series.StrategyValue[series.Len()-1]
	benchFinal := series.BenchmarkValue[series.Len()-1]

	return &Summary{
		InitialValue:       startingCash,
		FinalValue:         final,
		ChangePct:          percentChange(startingCash, final),
		BenchmarkInitial:   startingCash,
		BenchmarkFinal:     benchFinal,
		BenchmarkChangePct: percentChange(startingCash, benchFinal),
		Steps:              series.Len(),
	}, nil
}

// String renders the summary as a fixed-width report block.
func (s *Summary) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("-", 50) + "\n")
	fmt.Fprintf(&b, "Initial Portfolio Value:   $%.2f\n", s.InitialValue)
	fmt.Fprintf(&b, "Final Portfolio Value:     $%.2f\n", s.FinalValue)
	fmt.Fprintf(&b, "Change:                    %.2f%%\n", s.ChangePct)
	fmt.Fprintf(&b, "Benchmark Initial Value:   $%.2f\n", s.BenchmarkInitial)
	fmt.Fprintf(&b, "Benchmark Final Value:     $%.2f\n", s.BenchmarkFinal)
	fmt.Fprintf(&b, "Benchmark Change:          %.2f%%\n", s.BenchmarkChangePct)
	b.WriteString(strings.Repeat("-", 50))
	return b.String()
}

func percentChange(initial, final float64) float64 {
	if initial == 0 {
		return 0
	}
	return (final - initial) / initial * 100
}
