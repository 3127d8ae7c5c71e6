// Package domain holds the core types shared across the trading bot:
// market data bars, strategy decisions, and order attributes.
package domain

import "time"

// Bar is a single daily OHLCV observation for one symbol.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Decision is a strategy's verdict for one symbol on one day. It carries no
// quantity; position sizing is derived by the consumer from available cash
// and shares.
type Decision int

const (
	Hold Decision = iota
	Buy
	Sell
)

// String returns the lower-case name of the decision.
func (d Decision) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Hold:
		return "hold"
	default:
		return "hold"
	}
}

// OrderSide is the direction of a live order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// TimeInForce controls how long a live order remains active.
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
)
