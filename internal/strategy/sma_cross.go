package strategy

import "github.com/aday913/alpaca-trading-bot/internal/domain"

// Compile-time interface check.
var _ Strategy = (*SMACross)(nil)

// SMACross is a simple moving average crossover strategy: buy while the
// short-window average sits above the long-window average, sell otherwise.
// It never holds, and it is deterministic for identical histories.
//
// Both averages use a progressively growing window: with fewer observations
// than the window size, the average covers all available observations. On
// the very first bar the two averages coincide, so the strategy opens with
// a sell (a no-op against an empty position).
type SMACross struct {
	shortWindow int
	longWindow  int
}

// NewSMACross creates an SMACross with the given short and long windows.
func NewSMACross(short, long int) *SMACross {
	return &SMACross{
		shortWindow: short,
		longWindow:  long,
	}
}

// Name returns "sma-cross".
func (s *SMACross) Name() string {
	return "sma-cross"
}

// Predict compares the trailing short and long averages of the history.
func (s *SMACross) Predict(history []float64) domain.Decision {
	if len(history) == 0 {
		return domain.Sell
	}
	if trailingMean(history, s.shortWindow) > trailingMean(history, s.longWindow) {
		return domain.Buy
	}
	return domain.Sell
}

// trailingMean averages the last window elements, or all of them when the
// history is shorter than the window.
func trailingMean(history []float64, window int) float64 {
	if window < 1 {
		window = 1
	}
	if window > len(history) {
		window = len(history)
	}
	sum := 0.0
	for _, v := range history[len(history)-window:] {
		sum += v
	}
	return sum / float64(window)
}
