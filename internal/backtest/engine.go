package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
	"github.com/aday913/alpaca-trading-bot/internal/strategy"
	"github.com/aday913/alpaca-trading-bot/internal/util"
)

var (
	// ErrDataUnavailable is returned when the price provider has no rows at
	// all for the requested symbols and range.
	ErrDataUnavailable = errors.New("no price data for requested range")

	// ErrBenchmarkUnavailable is returned when no benchmark close exists
	// anywhere inside the simulated range.
	ErrBenchmarkUnavailable = errors.New("no benchmark price found in range")
)

// Step describes one completed simulation step: the decision taken for one
// symbol on one day and the resulting portfolio valuations.
type Step struct {
	Day            time.Time
	Symbol         string
	Decision       domain.Decision
	StrategyValue  float64
	BenchmarkValue float64
}

// Observer is invoked after every simulation step. It replaces logging side
// effects inside the loop: telemetry is whatever the caller hangs off the
// callback, and tests can assert on it directly.
type Observer func(Step)

// Params are the inputs of a single backtest run.
type Params struct {
	StartingCash float64
	Start        time.Time
	End          time.Time
	Symbols      []string
	Benchmark    string
	Strategy     strategy.Strategy
}

// Options adjust engine behaviour without changing the run inputs.
type Options struct {
	// CarryForwardValuation values a symbol with no bar on the current day
	// at its most recent known close instead of contributing zero. Off by
	// default: the default matches the historical skip rule, which
	// under-values the portfolio on sparse-data days.
	CarryForwardValuation bool

	// Observer, when non-nil, is called once per simulation step.
	Observer Observer
}

// Engine drives the simulated calendar: it pulls the full price history
// once, funds the portfolios, applies one strategy decision per symbol per
// trading day, and accumulates the strategy and benchmark equity curves.
type Engine struct {
	provider PriceProvider
	opts     Options
	log      *slog.Logger
}

// NewEngine creates an Engine reading prices from the given provider.
func NewEngine(provider PriceProvider, opts Options) *Engine {
	return &Engine{
		provider: provider,
		opts:     opts,
		log:      slog.Default().With("component", "backtest"),
	}
}

// Run executes the backtest and returns the accumulated result series.
//
// Cancellation is checked once per calendar day; a cancelled run returns
// the consistent ResultSeries prefix accumulated so far along with the
// context error.
func (e *Engine) Run(ctx context.Context, p Params) (*ResultSeries, error) {
	if len(p.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols given")
	}
	if p.Benchmark == "" {
		return nil, fmt.Errorf("no benchmark symbol given")
	}
	if p.Strategy == nil {
		return nil, fmt.Errorf("no strategy given")
	}

	// Fund one ledger per symbol with an even cash split. No rebalancing
	// happens later.
	cashPerSymbol := p.StartingCash / float64(len(p.Symbols))
	ledgers := make(map[string]*Ledger, len(p.Symbols))
	for _, sym := range p.Symbols {
		ledgers[sym] = &Ledger{Cash: cashPerSymbol}
	}

	// One bulk fetch for strategy symbols and benchmark together.
	fetchSymbols := p.Symbols
	if _, dup := ledgers[p.Benchmark]; !dup {
		fetchSymbols = append(append([]string{}, p.Symbols...), p.Benchmark)
	}
	table, err := e.provider.Fetch(ctx, fetchSymbols, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("fetching price history: %w", err)
	}
	// The fetch includes the benchmark, so benchmark rows alone do not
	// count: at least one strategy symbol must have a bar.
	symbolRows := 0
	for _, sym := range p.Symbols {
		symbolRows += len(table.closes[sym])
	}
	if symbolRows == 0 {
		return nil, ErrDataUnavailable
	}

	calendar := util.BusinessDays(p.Start, p.End)

	benchmark, initialBenchClose, err := buyBenchmark(table, p.Benchmark, p.StartingCash, calendar)
	if err != nil {
		return nil, err
	}
	e.log.Debug("benchmark funded",
		"symbol", p.Benchmark,
		"shares", benchmark.Shares,
		"close", initialBenchClose,
		"residual_cash", benchmark.Cash,
	)

	results := NewResultSeries()
	for _, day := range calendar {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		for _, sym := range p.Symbols {
			close, ok := table.Close(sym, day)
			if !ok {
				// No bar for this (symbol, day): no decision, no valuation
				// point.
				continue
			}

			history := table.HistoryThrough(sym, day)
			decision := p.Strategy.Predict(history)

			ledger := ledgers[sym]
			switch decision {
			case domain.Buy:
				ledger.Buy(close)
			case domain.Sell:
				ledger.SellAll(close)
			default:
				// Hold, and anything unrecognised, is a no-op.
			}

			strategyValue := e.valuePortfolio(table, p.Symbols, ledgers, day)
			benchValue := valueBenchmark(table, p.Benchmark, benchmark, day, initialBenchClose)
			results.Append(strategyValue, benchValue)

			if e.opts.Observer != nil {
				e.opts.Observer(Step{
					Day:            day,
					Symbol:         sym,
					Decision:       decision,
					StrategyValue:  strategyValue,
					BenchmarkValue: benchValue,
				})
			}
		}
	}

	return results, nil
}

// buyBenchmark funds the benchmark ledger with the full starting cash and
// buys whole shares at the first close available in the calendar, scanning
// forward day by day.
func buyBenchmark(table *PriceTable, symbol string, startingCash float64, calendar []time.Time) (*Ledger, float64, error) {
	ledger := &Ledger{Cash: startingCash}
	for _, day := range calendar {
		close, ok := table.Close(symbol, day)
		if !ok {
			continue
		}
		ledger.Buy(close)
		return ledger, close, nil
	}
	return nil, 0, ErrBenchmarkUnavailable
}

// valuePortfolio marks every symbol ledger to market on the given day. A
// symbol with no bar that day contributes zero share value unless
// carry-forward valuation is enabled, in which case its last known close is
// used. Cash always counts in full.
func (e *Engine) valuePortfolio(table *PriceTable, symbols []string, ledgers map[string]*Ledger, day time.Time) float64 {
	total := 0.0
	for _, sym := range symbols {
		ledger := ledgers[sym]
		total += ledger.Cash

		close, ok := table.Close(sym, day)
		if !ok && e.opts.CarryForwardValuation {
			close, ok = table.LatestCloseAt(sym, day)
		}
		if ok {
			total += float64(ledger.Shares) * close
		}
	}
	return total
}

// valueBenchmark marks the benchmark ledger at its most recent close on or
// before the given day. Steps that land before the first benchmark bar use
// the purchase price.
func valueBenchmark(table *PriceTable, symbol string, ledger *Ledger, day time.Time, initialClose float64) float64 {
	close, ok := table.LatestCloseAt(symbol, day)
	if !ok {
		close = initialClose
	}
	return ledger.Value(close)
}
