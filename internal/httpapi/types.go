package httpapi

import "github.com/aday913/alpaca-trading-bot/internal/store"

// RunResponse is the JSON shape of one archived backtest run.
type RunResponse struct {
	ID                 int64    `json:"id"`
	CreatedAt          string   `json:"created_at"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	Symbols            []string `json:"symbols"`
	Benchmark          string   `json:"benchmark"`
	Strategy           string   `json:"strategy"`
	StartingCash       float64  `json:"starting_cash"`
	FinalValue         float64  `json:"final_value"`
	ChangePct          float64  `json:"change_pct"`
	BenchmarkFinal     float64  `json:"benchmark_final"`
	BenchmarkChangePct float64  `json:"benchmark_change_pct"`
	Steps              int      `json:"steps"`
}

// ErrorResponse is the JSON shape of an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toRunResponse(run *store.Run) RunResponse {
	symbols := run.Symbols
	if symbols == nil {
		symbols = []string{}
	}
	return RunResponse{
		ID:                 run.ID,
		CreatedAt:          run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		StartDate:          run.StartDate,
		EndDate:            run.EndDate,
		Symbols:            symbols,
		Benchmark:          run.Benchmark,
		Strategy:           run.Strategy,
		StartingCash:       run.StartingCash,
		FinalValue:         run.FinalValue,
		ChangePct:          run.ChangePct,
		BenchmarkFinal:     run.BenchmarkFinal,
		BenchmarkChangePct: run.BenchmarkChangePct,
		Steps:              run.Steps,
	}
}
