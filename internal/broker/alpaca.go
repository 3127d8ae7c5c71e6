package broker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
)

// Compile-time interface check.
var _ Broker = (*Alpaca)(nil)

// Alpaca submits market orders through the Alpaca trading API. With DryRun
// set, Trade validates and logs the order without transmitting it.
type Alpaca struct {
	client *alpaca.Client
	dryRun bool
	log    *slog.Logger
}

// NewAlpaca creates an Alpaca broker. baseURL selects the paper or live
// trading endpoint.
func NewAlpaca(apiKey, apiSecret, baseURL string, dryRun bool) *Alpaca {
	return &Alpaca{
		client: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		dryRun: dryRun,
		log:    slog.Default().With("component", "broker", "broker", "alpaca"),
	}
}

// Name returns "alpaca".
func (b *Alpaca) Name() string { return "alpaca" }

// Trade submits a market order, or logs it without transmitting when dry
// run is enabled.
func (b *Alpaca) Trade(ctx context.Context, symbol string, qty int64, side domain.OrderSide, tif domain.TimeInForce) error {
	if err := validateOrder(symbol, qty, side); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.log.Info("placing order",
		"symbol", symbol,
		"qty", qty,
		"side", side,
		"time_in_force", tif,
		"dry_run", b.dryRun,
	)

	if b.dryRun {
		return nil
	}

	quantity := decimal.NewFromInt(qty)
	order, err := b.client.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &quantity,
		Side:        alpacaSide(side),
		Type:        alpaca.Market,
		TimeInForce: alpacaTIF(tif),
	})
	if err != nil {
		return fmt.Errorf("placing %s order for %s: %w", side, symbol, err)
	}

	b.log.Info("order accepted", "symbol", symbol, "order_id", order.ID, "status", order.Status)
	return nil
}

func validateOrder(symbol string, qty int64, side domain.OrderSide) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}
	if side != domain.OrderSideBuy && side != domain.OrderSideSell {
		return fmt.Errorf("unknown order side %q", side)
	}
	return nil
}

func alpacaSide(side domain.OrderSide) alpaca.Side {
	if side == domain.OrderSideSell {
		return alpaca.Sell
	}
	return alpaca.Buy
}

func alpacaTIF(tif domain.TimeInForce) alpaca.TimeInForce {
	if tif == domain.TimeInForceGTC {
		return alpaca.GTC
	}
	return alpaca.Day
}
