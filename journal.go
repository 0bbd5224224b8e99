package invest

import (
	"github.com/etnz/invest/date"
)

// event represents a single, atomic operation on an account's holdings.
// It is the lowest-level, immutable fact from which holdings are derived.
type event interface {
	date() date.Date
}

// Journal holds the chronologically sorted list of atomic events of a ledger.
type Journal struct {
	account  string
	cur      string  // the ledger currency.
	events   []event // sorted by date
	warnings []Warning
}

// --- Cash Events ---

// moveCash changes the cash balance: deposits, withdrawals, fees, transfers
// and the cash side of trades.
type moveCash struct {
	on     date.Date
	amount Money
}

func (e moveCash) date() date.Date { return e.on }

// --- Security Events ---

// acquireShares adds shares of a ticker at a cost.
type acquireShares struct {
	on     date.Date
	ticker string
	shares Quantity
	cost   Money
}

func (e acquireShares) date() date.Date { return e.on }

// disposeShares removes shares of a ticker for some proceeds.
type disposeShares struct {
	on       date.Date
	ticker   string
	shares   Quantity
	proceeds Money
}

func (e disposeShares) date() date.Date { return e.on }

// liquidate closes a position whatever its share count.
type liquidate struct {
	on       date.Date
	ticker   string
	proceeds Money
}

func (e liquidate) date() date.Date { return e.on }

// revalue corrects the book value of a ticker, shares are unchanged.
type revalue struct {
	on     date.Date
	ticker string
	delta  Money
}

func (e revalue) date() date.Date { return e.on }

// NewJournal converts a Ledger of budget transactions into a Journal of
// atomic events.
//
// Malformed memos do not stop the conversion: the transaction (or the faulty
// fragment of a value update) is skipped and a warning is recorded.
func NewJournal(l *Ledger) *Journal {
	j := &Journal{
		account: l.account,
		cur:     l.currency,
		events:  make([]event, 0, l.Len()*2), // Pre-allocate with a guess
	}

	for tx := range l.Transactions() {
		amount := Milli(tx.Amount, j.cur)
		action, err := ParseAction(tx)
		if err != nil {
			j.warn(Warning{Kind: WarnMalformedMemo, Err: err})
		}
		switch v := action.(type) {
		case ValueUpdate:
			for _, r := range v.Revaluations {
				j.events = append(j.events,
					revalue{on: tx.Date, ticker: r.Ticker, delta: Milli(r.Delta, j.cur)},
				)
			}
		case Cash:
			j.events = append(j.events, moveCash{on: tx.Date, amount: amount})
		case Buy:
			if tx.IsOutboundTransfer() {
				j.events = append(j.events, moveCash{on: tx.Date, amount: amount})
				continue
			}
			j.events = append(j.events,
				acquireShares{on: tx.Date, ticker: v.Ticker, shares: v.Shares, cost: amount},
			)
			// A transfer funded purchase is paid by the other account.
			if !tx.IsTransfer() {
				j.events = append(j.events, moveCash{on: tx.Date, amount: amount})
			}
		case Sell:
			if tx.IsOutboundTransfer() {
				j.events = append(j.events, moveCash{on: tx.Date, amount: amount})
				continue
			}
			j.events = append(j.events,
				disposeShares{on: tx.Date, ticker: v.Ticker, shares: v.Shares, proceeds: amount},
				moveCash{on: tx.Date, amount: amount},
			)
		case SellAll:
			if tx.IsOutboundTransfer() {
				j.events = append(j.events, moveCash{on: tx.Date, amount: amount})
				continue
			}
			j.events = append(j.events,
				liquidate{on: tx.Date, ticker: v.Ticker, proceeds: amount},
				moveCash{on: tx.Date, amount: amount},
			)
		}
	}
	return j
}

func (j *Journal) warn(w Warning) {
	w.Account = j.account
	j.warnings = append(j.warnings, w)
}

// Warnings returns the data quality warnings met while building the journal.
func (j *Journal) Warnings() []Warning { return j.warnings }

// Holdings replays all events into a fresh holdings snapshot.
func (j *Journal) Holdings() Holdings {
	h := make(Holdings)
	cash := h.holding(CashTicker, j.cur)
	for _, e := range j.events {
		switch v := e.(type) {
		case moveCash:
			cash.Book = cash.Book.Add(v.amount)
		case acquireShares:
			hh := h.holding(v.ticker, j.cur)
			hh.Shares = hh.Shares.Add(v.shares)
			hh.Book = hh.Book.Add(v.cost)
		case disposeShares:
			hh := h.holding(v.ticker, j.cur)
			hh.Shares = hh.Shares.Sub(v.shares)
			hh.Book = hh.Book.Add(v.proceeds)
		case liquidate:
			hh := h.holding(v.ticker, j.cur)
			hh.Shares = Quantity{}
			hh.Book = hh.Book.Add(v.proceeds)
		case revalue:
			hh := h.holding(v.ticker, j.cur)
			hh.Book = hh.Book.Add(v.delta)
		}
	}
	return h
}
