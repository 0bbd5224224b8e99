package invest

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Quotes maps a ticker to its latest price, in the ledger currency.
// A missing ticker has no resolvable quote.
type Quotes map[string]decimal.Decimal

// Price returns the quote of ticker. CashTicker is always priced 1.
func (q Quotes) Price(ticker string) (decimal.Decimal, bool) {
	if ticker == CashTicker {
		return decimal.NewFromInt(1), true
	}
	p, ok := q[ticker]
	return p, ok
}

// Delta is a mark-to-market correction of Amount milliunits for Ticker.
type Delta struct {
	Ticker string
	Amount int64
}

// Revaluation returns d as a value update fragment.
func (d Delta) Revaluation() Revaluation { return Revaluation{Ticker: d.Ticker, Delta: d.Amount} }

func (d Delta) String() string { return d.Ticker + ":" + strconv.FormatInt(d.Amount, 10) }

// Reconcile computes, for each holding of h, the difference between its
// market value and its book value, in milliunits.
//
// The market value price × shares is rounded half away from zero to the
// milliunit before the book value is subtracted, so that posting the deltas
// brings the book value exactly on the rounded market value.
//
// Zero deltas are dropped. Closed positions need no quote. An open position
// without a quote is skipped with a WarnMissingQuote warning. Deltas are
// sorted by ticker.
func Reconcile(h Holdings, q Quotes) ([]Delta, []Warning) {
	var (
		deltas   []Delta
		warnings []Warning
	)
	for _, ticker := range h.Tickers() {
		hh := h[ticker]
		shares := hh.Shares
		if hh.IsCash() {
			// cash is its own market value.
			shares = Quantity{value: hh.Book.Decimal()}
		} else if shares.IsZero() {
			continue
		}
		price, ok := q.Price(ticker)
		if !ok || !price.IsPositive() {
			warnings = append(warnings, warnf(WarnMissingQuote, ticker, "%w for %s", ErrMissingQuote, ticker))
			continue
		}
		market := M(price, hh.Book.Currency()).Mul(shares)
		if d := market.Milliunits() - hh.Book.Milliunits(); d != 0 {
			deltas = append(deltas, Delta{Ticker: ticker, Amount: d})
		}
	}
	return deltas, warnings
}
