package invest

import (
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/etnz/invest/date"
)

// MaxMemoLength is the maximum memo length, in characters, of an entry.
const MaxMemoLength = 500

// DefaultFlagColor is the flag color of adjustment entries.
const DefaultFlagColor = "blue"

// Adjustment is an entry to post to the budget ledger to bring book values
// on market values.
type Adjustment struct {
	AccountID string
	Date      date.Date
	Amount    int64 // Amount in milliunits, the sum of the memo deltas.
	PayeeName string
	Memo      string
	Cleared   bool
	Approved  bool
	FlagColor string
}

// Transaction returns the transaction the budget ledger records for a.
func (a Adjustment) Transaction() Transaction {
	return Transaction{Date: a.Date, Amount: a.Amount, Memo: a.Memo, PayeeName: a.PayeeName}
}

// MarshalJSON implements the json.Marshaler interface for Adjustment, with
// the field names the budget ledger expects for new transactions.
func (a Adjustment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account_id", a.AccountID)
	w.Append("date", a.Date)
	w.Append("amount", a.Amount)
	w.Optional("payee_name", a.PayeeName)
	w.Optional("memo", a.Memo)
	if a.Cleared {
		w.Append("cleared", "cleared")
	} else {
		w.Append("cleared", "uncleared")
	}
	w.Append("approved", a.Approved)
	w.Optional("flag_color", a.FlagColor)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Adjustment.
func (a *Adjustment) UnmarshalJSON(data []byte) error {
	var temp struct {
		AccountID string    `json:"account_id"`
		Date      date.Date `json:"date"`
		Amount    int64     `json:"amount"`
		PayeeName string    `json:"payee_name"`
		Memo      string    `json:"memo"`
		Cleared   string    `json:"cleared"`
		Approved  bool      `json:"approved"`
		FlagColor string    `json:"flag_color"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*a = Adjustment{
		AccountID: temp.AccountID,
		Date:      temp.Date,
		Amount:    temp.Amount,
		PayeeName: temp.PayeeName,
		Memo:      temp.Memo,
		Cleared:   temp.Cleared == "cleared" || temp.Cleared == "reconciled",
		Approved:  temp.Approved,
		FlagColor: temp.FlagColor,
	}
	return nil
}

// Batch packs deltas into as few adjustment entries as possible.
//
// Fragments are appended greedily, in deltas order, to the current entry as
// long as its memo stays within MaxMemoLength, otherwise a new entry is
// started. A fragment too long on its own gets an entry of its own and a
// WarnOversizedFragment warning. Zero deltas are ignored, so that no delta
// gives no entry.
func Batch(accountID string, on date.Date, deltas []Delta) ([]Adjustment, []Warning) {
	var (
		entries  []Adjustment
		warnings []Warning
		open     *Adjustment
		size     int // memo length of the open entry, in characters.
	)
	newEntry := func() *Adjustment {
		entries = append(entries, Adjustment{
			AccountID: accountID,
			Date:      on,
			PayeeName: UpdatePayee,
			Cleared:   true,
			Approved:  true,
			FlagColor: DefaultFlagColor,
		})
		size = 0
		return &entries[len(entries)-1]
	}

	for _, d := range deltas {
		if d.Amount == 0 {
			continue
		}
		fragment := d.Revaluation().String()
		n := utf8.RuneCountInString(fragment)
		switch {
		case n > MaxMemoLength:
			warnings = append(warnings, warnf(WarnOversizedFragment, d.Ticker,
				"%w: %d characters for %s", ErrOversizedFragment, n, d.Ticker))
			e := newEntry()
			e.Memo, e.Amount = fragment, d.Amount
			open = nil
			continue
		case open == nil:
			open = newEntry()
		case size+1+n > MaxMemoLength:
			open = newEntry()
		default:
			open.Memo += ","
			size++
		}
		open.Memo += fragment
		open.Amount += d.Amount
		size += n
	}
	return entries, warnings
}

// EncodeAdjustments writes adjustments to w as a stream of JSON objects, one
// per line.
func EncodeAdjustments(w io.Writer, adjustments []Adjustment) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, a := range adjustments {
		if err := enc.Encode(a); err != nil {
			return err
		}
	}
	return nil
}
