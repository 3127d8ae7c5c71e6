package backtest

// ResultSeries holds the two parallel equity curves accumulated during a
// run: one valuation pair per simulation step, in step order. The two
// slices are always the same length.
type ResultSeries struct {
	StrategyValue  []float64
	BenchmarkValue []float64
}

// NewResultSeries creates an empty ResultSeries.
func NewResultSeries() *ResultSeries {
	return &ResultSeries{}
}

// Append records one step's strategy and benchmark valuations.
func (r *ResultSeries) Append(strategyValue, benchmarkValue float64) {
	r.StrategyValue = append(r.StrategyValue, strategyValue)
	r.BenchmarkValue = append(r.BenchmarkValue, benchmarkValue)
}

// Len returns the number of recorded steps.
func (r *ResultSeries) Len() int {
	return len(r.StrategyValue)
}
