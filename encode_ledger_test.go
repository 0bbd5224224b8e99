package invest

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeTransactions(t *testing.T) {
	// A YNAB export, with null fields, a deleted transaction and an adjustment
	// from a dry run.
	jsonlStream := `
{"id":"t1","date":"2025-08-01","amount":100000,"memo":null,"payee_name":"Transfer : Checking","transfer_account_id":"chk","deleted":false}
{"id":"t2","date":"2025-08-02","amount":-50000,"memo":"$VTI|BUY 2","payee_name":null,"transfer_account_id":null,"deleted":false}
{"id":"t3","date":"2025-08-03","amount":-1,"memo":"typo","deleted":true}

{"account_id":"acc-1","date":"2025-08-04","amount":2000,"payee_name":"` + UpdatePayee + `","memo":"$VTI|2000","cleared":"cleared","approved":true,"flag_color":"blue"}
`
	txs, err := DecodeTransactions(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeTransactions() returned an unexpected error: %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("DecodeTransactions() decoded %d transactions, want 4", len(txs))
	}

	want := []Transaction{
		{ID: "t1", Date: on(8, 1), Amount: 100000, PayeeName: "Transfer : Checking", TransferAccountID: "chk"},
		{ID: "t2", Date: on(8, 2), Amount: -50000, Memo: "$VTI|BUY 2"},
		{ID: "t3", Date: on(8, 3), Amount: -1, Memo: "typo", Deleted: true},
		{Date: on(8, 4), Amount: 2000, Memo: "$VTI|2000", PayeeName: UpdatePayee},
	}
	for i := range want {
		if txs[i] != want[i] {
			t.Errorf("transaction %d = %+v, want %+v", i, txs[i], want[i])
		}
	}

	h, _ := Reconstruct("Brokerage", "USD", txs)
	assertHolding(t, h, "VTI", Q(2), -48000)
	if got := h.Cash().Book.Milliunits(); got != 50000 {
		t.Errorf("CASH book = %d, want 50000", got)
	}
}

func TestDecodeTransactions_InvalidLine(t *testing.T) {
	_, err := DecodeTransactions(strings.NewReader("{\"amount\":1}\n{not json}\n"))
	if err == nil {
		t.Fatal("DecodeTransactions() expected an error for an invalid line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("DecodeTransactions() error = %v, want it to name line 2", err)
	}
}

func TestEncodeLedger(t *testing.T) {
	// Deliberately unsorted: tx2 and tx3 have the same date, their relative
	// order must be preserved.
	tx1 := tx(on(8, 3), -1000, "$AAPL|BUY 1")
	tx2 := tx(on(8, 1), 1000, "deposit")
	tx3 := tx(on(8, 1), 500, "$GOOG|SELL 1")

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, NewLedger("Brokerage", "USD", []Transaction{tx1, tx2, tx3})); err != nil {
		t.Fatalf("EncodeLedger() returned an unexpected error: %v", err)
	}

	want := `{"date":"2025-08-01","amount":1000,"memo":"deposit"}
{"date":"2025-08-01","amount":500,"memo":"$GOOG|SELL 1"}
{"date":"2025-08-03","amount":-1000,"memo":"$AAPL|BUY 1"}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeLedger() produced incorrect output.\nGot:\n%s\nWant:\n%s", got, want)
	}

	// and back.
	txs, err := DecodeTransactions(&buf)
	if err != nil {
		t.Fatalf("DecodeTransactions() returned an unexpected error: %v", err)
	}
	for i, want := range []Transaction{tx2, tx3, tx1} {
		if txs[i] != want {
			t.Errorf("transaction %d = %+v, want %+v", i, txs[i], want)
		}
	}
}
