// Package notify sends outbound messages about trading activity. Delivery
// is fire-and-forget from the caller's perspective: failures are reported
// as errors for logging but never abort the trading path.
package notify

import "context"

// Notifier delivers a plain-text message to one channel.
type Notifier interface {
	// Name returns the channel identifier (e.g. "discord").
	Name() string

	// Notify sends the message.
	Notify(ctx context.Context, message string) error
}
