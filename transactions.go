package invest

import (
	"encoding/json"

	"github.com/etnz/invest/date"
)

// Transaction is one entry of a budget account, as recorded by the budgeting
// system. It is never modified: holdings are derived from it.
type Transaction struct {
	ID                string
	Date              date.Date
	Amount            int64  // Amount in milliunits, signed as the ledger records it.
	Memo              string // Memo optionally encodes an action, see ParseAction.
	PayeeName         string
	TransferAccountID string // TransferAccountID links a transfer to its other account.
	Deleted           bool
}

// IsTransfer reports whether the transaction is one side of a transfer
// between two budget accounts.
func (t Transaction) IsTransfer() bool { return t.TransferAccountID != "" }

// IsOutboundTransfer reports whether the transaction moves money out of the
// account into another budget account.
func (t Transaction) IsOutboundTransfer() bool { return t.IsTransfer() && t.Amount < 0 }

// MarshalJSON implements the json.Marshaler interface for Transaction.
//
// Field names follow the budgeting system's export so that an export can be
// replayed as is.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.ID)
	w.Append("date", t.Date)
	w.Append("amount", t.Amount)
	w.Optional("memo", t.Memo)
	w.Optional("payee_name", t.PayeeName)
	w.Optional("transfer_account_id", t.TransferAccountID)
	w.Optional("deleted", t.Deleted)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
//
// Nullable fields of the export (memo, payee and transfer) decode to "".
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID                string    `json:"id"`
		Date              date.Date `json:"date"`
		Amount            int64     `json:"amount"`
		Memo              *string   `json:"memo"`
		PayeeName         *string   `json:"payee_name"`
		TransferAccountID *string   `json:"transfer_account_id"`
		Deleted           bool      `json:"deleted"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		ID:                temp.ID,
		Date:              temp.Date,
		Amount:            temp.Amount,
		Memo:              deref(temp.Memo),
		PayeeName:         deref(temp.PayeeName),
		TransferAccountID: deref(temp.TransferAccountID),
		Deleted:           temp.Deleted,
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
