package invest

import (
	"time"

	"github.com/etnz/invest/date"
	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from milliunits.
func USD(milliunits int64) Money { return Milli(milliunits, "USD") }

// on is a helper for test to create a date in 2025 from a month and day.
func on(month, day int) date.Date { return date.New(2025, time.Month(month), day) }

// tx is a helper for test to create a transaction with a memo.
func tx(day date.Date, amount int64, memo string) Transaction {
	return Transaction{Date: day, Amount: amount, Memo: memo}
}

// update is a helper for test to create a bulk value-update transaction.
func update(day date.Date, amount int64, memo string) Transaction {
	return Transaction{Date: day, Amount: amount, Memo: memo, PayeeName: UpdatePayee}
}

// price is a helper for test to create a quote from a string.
func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }
