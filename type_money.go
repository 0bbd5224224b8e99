package invest

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// milliDigits is the number of decimal digits of a ledger milliunit.
const milliDigits = 3

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// Milli returns the Money worth the given number of ledger milliunits
// (thousandths of a major unit).
func Milli(milliunits int64, currency string) Money {
	return Money{value: decimal.New(milliunits, -milliDigits), cur: currency}
}

// Milliunits returns m in ledger milliunits, rounded half away from zero.
func (m Money) Milliunits() int64 {
	return m.value.Shift(milliDigits).Round(0).IntPart()
}

// Decimal returns the major unit value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
//
// Money without a currency is printed as a plain decimal number.
func (m Money) String() string {
	if m.cur == "" {
		return m.value.StringFixed(milliDigits)
	}
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// WithCurrency returns a copy of m in the given currency, without conversion.
func (m Money) WithCurrency(currency string) Money { return Money{value: m.value, cur: currency} }

func (m Money) Currency() string           { return m.cur }
func (m Money) Equal(n Money) bool         { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool               { return m.value.IsZero() }
func (m Money) IsPositive() bool           { return m.value.IsPositive() }
func (m Money) IsNegative() bool           { return m.value.IsNegative() }
func (m Money) Mul(n Quantity) Money       { return Money{value: m.value.Mul(n.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
