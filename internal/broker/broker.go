// Package broker submits live orders to a brokerage. The backtest engine
// never touches it; only the live trading path does.
package broker

import (
	"context"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
)

// Broker abstracts order submission.
type Broker interface {
	// Name returns the broker identifier (e.g. "alpaca", "simulator").
	Name() string

	// Trade submits a market order for qty shares of symbol.
	Trade(ctx context.Context, symbol string, qty int64, side domain.OrderSide, tif domain.TimeInForce) error
}
