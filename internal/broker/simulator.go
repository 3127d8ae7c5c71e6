package broker

import (
	"context"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
)

// Compile-time interface check.
var _ Broker = (*Simulator)(nil)

// SimulatedOrder is one order recorded by the Simulator.
type SimulatedOrder struct {
	Symbol      string
	Qty         int64
	Side        domain.OrderSide
	TimeInForce domain.TimeInForce
}

// Simulator records orders in memory without any external calls. It backs
// paper experiments and tests.
type Simulator struct {
	Orders []SimulatedOrder
}

// NewSimulator creates an empty Simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Name returns "simulator".
func (s *Simulator) Name() string { return "simulator" }

// Trade validates the order and records it.
func (s *Simulator) Trade(_ context.Context, symbol string, qty int64, side domain.OrderSide, tif domain.TimeInForce) error {
	if err := validateOrder(symbol, qty, side); err != nil {
		return err
	}
	s.Orders = append(s.Orders, SimulatedOrder{
		Symbol:      symbol,
		Qty:         qty,
		Side:        side,
		TimeInForce: tif,
	})
	return nil
}
