package invest

import (
	"iter"
	"slices"
	"sort"
)

// Ledger is the transaction history of one budget account.
//
// In a Ledger transactions are always in chronological order, same day
// transactions keep their original order. Deleted transactions are dropped.
type Ledger struct {
	account      string
	currency     string
	transactions []Transaction
}

// NewLedger creates the ledger of the named account, whose amounts are in
// currency. txs is not modified.
func NewLedger(account, currency string, txs []Transaction) *Ledger {
	l := &Ledger{
		account:      account,
		currency:     currency,
		transactions: make([]Transaction, 0, len(txs)),
	}
	for _, tx := range txs {
		if tx.Deleted {
			continue
		}
		l.transactions = append(l.transactions, tx)
	}
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
	return l
}

// Account returns the account name.
func (l *Ledger) Account() string { return l.account }

// Currency returns the currency of the ledger amounts.
func (l *Ledger) Currency() string { return l.currency }

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator over the ledger transactions, in
// chronological order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return slices.Values(l.transactions)
}

// Holdings replays the ledger into a holdings snapshot.
func (l *Ledger) Holdings() (Holdings, []Warning) {
	j := NewJournal(l)
	return j.Holdings(), j.Warnings()
}

// Reconstruct replays the transactions of an account into a holdings
// snapshot. Transactions are replayed in date order whatever their order in
// txs. Malformed memos are skipped and reported as warnings.
func Reconstruct(account, currency string, txs []Transaction) (Holdings, []Warning) {
	return NewLedger(account, currency, txs).Holdings()
}
