package invest

import (
	"maps"
	"slices"
)

// Holding is the position of an account in a single ticker.
type Holding struct {
	Ticker string
	Shares Quantity // Shares is ignored for CashTicker.
	Book   Money    // Book is the cumulated cash effect of the ticker's transactions.
}

// IsCash reports whether h is the cash sub-ledger.
func (h Holding) IsCash() bool { return h.Ticker == CashTicker }

// IsOpen reports whether h is a security position that still holds shares.
func (h Holding) IsOpen() bool { return !h.IsCash() && !h.Shares.IsZero() }

// Holdings is a snapshot of an account positions, indexed by ticker.
//
// It always contains the CashTicker holding once built by a Journal.
type Holdings map[string]*Holding

// Get returns the holding for ticker, or nil if the ticker never appeared.
func (h Holdings) Get(ticker string) *Holding { return h[ticker] }

// Cash returns the cash sub-ledger holding.
func (h Holdings) Cash() Holding {
	if c, ok := h[CashTicker]; ok {
		return *c
	}
	return Holding{Ticker: CashTicker}
}

// Tickers returns all tickers of the snapshot, CashTicker included, sorted.
func (h Holdings) Tickers() []string {
	return slices.Sorted(maps.Keys(h))
}

// Open returns the sorted tickers of open positions, the ones that need a
// quote to be reconciled.
func (h Holdings) Open() []string {
	var open []string
	for _, t := range h.Tickers() {
		if h[t].IsOpen() {
			open = append(open, t)
		}
	}
	return open
}

// Total returns the sum of all book values, cash included.
func (h Holdings) Total() Money {
	var total Money
	for _, hh := range h {
		total = total.Add(hh.Book)
	}
	return total
}

// holding returns the holding for ticker, creating it if needed.
func (h Holdings) holding(ticker, currency string) *Holding {
	hh, ok := h[ticker]
	if !ok {
		hh = &Holding{Ticker: ticker, Book: M(0, currency)}
		h[ticker] = hh
	}
	return hh
}

// OpenTickers returns the sorted, deduplicated union of the open tickers of
// all snapshots.
func OpenTickers(snapshots ...Holdings) []string {
	set := make(map[string]struct{})
	for _, h := range snapshots {
		for _, t := range h.Open() {
			set[t] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}
