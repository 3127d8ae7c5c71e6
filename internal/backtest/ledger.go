package backtest

// Ledger is the cash and share balance for a single symbol (or for the
// benchmark). Cash and Shares never go negative: a buy spends at most the
// cash on hand and a sell liquidates at most the shares on hand.
type Ledger struct {
	Shares int64
	Cash   float64
}

// Buy converts as much cash as possible into whole shares at the given
// price and returns the number of shares bought. Fractional cash left over
// after the purchase stays in the ledger. A buy that cannot afford a single
// share, or a non-positive price, is a no-op.
func (l *Ledger) Buy(price float64) int64 {
	if price <= 0 || l.Cash <= 0 {
		return 0
	}
	shares := int64(l.Cash / price)
	if shares <= 0 {
		return 0
	}
	l.Shares += shares
	l.Cash -= float64(shares) * price
	return shares
}

// SellAll liquidates the entire share position at the given price and
// returns the number of shares sold. Partial sells are not supported.
func (l *Ledger) SellAll(price float64) int64 {
	if l.Shares <= 0 {
		return 0
	}
	sold := l.Shares
	l.Cash += float64(sold) * price
	l.Shares = 0
	return sold
}

// Value returns the mark-to-market value of the ledger at the given price.
func (l *Ledger) Value(price float64) float64 {
	return float64(l.Shares)*price + l.Cash
}
