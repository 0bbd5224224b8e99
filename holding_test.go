package invest

import (
	"slices"
	"testing"
)

func TestHoldings(t *testing.T) {
	h, _ := Reconstruct("Brokerage", "USD", []Transaction{
		tx(on(1, 1), 10000, "deposit"),
		tx(on(1, 2), -3000, "$VTI|BUY 3"),
		tx(on(1, 2), -2000, "$ACME|BUY 2"),
		tx(on(1, 3), 2500, "$ACME|SELL ALL"),
	})

	if got, want := h.Tickers(), []string{"ACME", CashTicker, "VTI"}; !slices.Equal(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
	if got, want := h.Open(), []string{"VTI"}; !slices.Equal(got, want) {
		t.Errorf("Open() = %v, want %v", got, want)
	}
	if got := h.Total(); !got.Equal(USD(5000)) {
		t.Errorf("Total() = %v, want %v", got, USD(5000))
	}
	if h.Get("BND") != nil {
		t.Errorf("Get(BND) = %v, want nil", h.Get("BND"))
	}
}

func TestHoldings_CashWhenEmpty(t *testing.T) {
	var h Holdings
	c := h.Cash()
	if !c.IsCash() || !c.Book.IsZero() {
		t.Errorf("Cash() = %+v, want an empty cash holding", c)
	}
	if c.IsOpen() {
		t.Errorf("cash holding must never be open")
	}
}

func TestOpenTickers(t *testing.T) {
	a, _ := Reconstruct("A", "USD", []Transaction{
		tx(on(1, 1), -1, "$VTI|BUY 1"),
		tx(on(1, 1), -1, "$ACME|BUY 1"),
	})
	b, _ := Reconstruct("B", "USD", []Transaction{
		tx(on(1, 1), -1, "$VTI|BUY 1"),
		tx(on(1, 1), -1, "$BND|BUY 1"),
		tx(on(1, 2), 1, "$BND|SELL 1"),
		tx(on(1, 1), -1, "$AAPL|BUY 1"),
	})

	got := OpenTickers(a, b)
	if want := []string{"AAPL", "ACME", "VTI"}; !slices.Equal(got, want) {
		t.Errorf("OpenTickers() = %v, want %v", got, want)
	}
	if got := OpenTickers(); len(got) != 0 {
		t.Errorf("OpenTickers() = %v, want none", got)
	}
}
