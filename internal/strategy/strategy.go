// Package strategy defines the decision contract for trading strategies and
// provides a Registry for managing multiple strategy implementations.
package strategy

import (
	"sort"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
)

// Strategy is the interface that all trading strategies must implement.
//
// Predict receives the chronologically ordered closing prices for one
// symbol, up to and including the current day only, and returns a trading
// decision. Implementations must be side-effect-free with respect to the
// caller: they only read the history passed in.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Predict returns the decision for the given price history.
	Predict(history []float64) domain.Decision
}

// Registry holds a named collection of strategies for lookup and
// enumeration.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry, keyed by its Name().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name. The second return value indicates
// whether the strategy was found.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
