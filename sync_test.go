package invest

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeLedger is an in memory LedgerAPI.
type fakeLedger struct {
	budget       Budget
	accounts     []Account
	transactions map[string][]Transaction // by account ID
	failOn       string                   // account ID whose transactions fail.
	submitErr    error

	mu        sync.Mutex
	submitted [][]Adjustment
}

func (f *fakeLedger) Budget(ctx context.Context, budgetID string) (Budget, error) {
	return f.budget, nil
}

func (f *fakeLedger) Accounts(ctx context.Context, budgetID string) ([]Account, error) {
	return f.accounts, nil
}

func (f *fakeLedger) Transactions(ctx context.Context, budgetID, accountID string) ([]Transaction, error) {
	if accountID == f.failOn {
		return nil, errors.New("boom")
	}
	return f.transactions[accountID], nil
}

func (f *fakeLedger) Submit(ctx context.Context, budgetID string, adjustments []Adjustment) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, adjustments)
	// posted adjustments are part of the history of the next run.
	for _, a := range adjustments {
		f.transactions[a.AccountID] = append(f.transactions[a.AccountID], a.Transaction())
	}
	return nil
}

// fakeQuotes is an in memory QuoteResolver.
type fakeQuotes struct {
	quotes Quotes
	err    error
	calls  [][]string
}

func (f *fakeQuotes) ResolveQuotes(ctx context.Context, tickers []string) (Quotes, error) {
	f.calls = append(f.calls, tickers)
	if f.err != nil {
		return nil, f.err
	}
	q := Quotes{}
	for _, t := range tickers {
		if p, ok := f.quotes[t]; ok {
			q[t] = p
		}
	}
	return q, nil
}

func newFakes() (*fakeLedger, *fakeQuotes) {
	ledger := &fakeLedger{
		budget: Budget{ID: "b1", Name: "Home", Currency: "USD"},
		accounts: []Account{
			{ID: "a1", Name: "Brokerage", Note: "INVESTMENT_TO_TRACK"},
			{ID: "a2", Name: "Checking"},
			{ID: "a3", Name: "Retirement", Note: "401k INVESTMENT_TO_TRACK"},
			{ID: "a4", Name: "Old", Note: "INVESTMENT_TO_TRACK", Closed: true},
		},
		transactions: map[string][]Transaction{
			"a1": {
				tx(on(1, 10), -1000000, "$ACME|BUY 10"),
				tx(on(2, 10), 450000, "$ACME|SELL 4"),
			},
			"a2": {tx(on(1, 1), 5000, "$NOPE|BUY 1")},
			"a3": {
				tx(on(1, 1), -200000, "$VTI|BUY 1"),
				tx(on(1, 1), -1, "$BND|BUY lots"),
				tx(on(1, 2), -50000, "$MISSING|BUY 1"),
			},
			"a4": {tx(on(1, 1), 5000, "$OLD|BUY 1")},
		},
	}
	quotes := &fakeQuotes{quotes: Quotes{"ACME": price("100"), "VTI": price("210.5")}}
	return ledger, quotes
}

func newSyncer(ledger LedgerAPI, quotes QuoteResolver) *Syncer {
	return &Syncer{
		Ledger:   ledger,
		Quotes:   quotes,
		BudgetID: "b1",
		Location: time.FixedZone("EST", -5*60*60),
		Now:      func() time.Time { return time.Date(2025, time.May, 18, 2, 0, 0, 0, time.UTC) },
		Logger:   zerolog.Nop(),
	}
}

func TestSyncer_Run(t *testing.T) {
	ledger, quotes := newFakes()
	s := newSyncer(ledger, quotes)

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if len(quotes.calls) != 1 {
		t.Fatalf("ResolveQuotes() called %d times, want once", len(quotes.calls))
	}
	if got, want := quotes.calls[0], []string{"ACME", "MISSING", "VTI"}; !slices.Equal(got, want) {
		t.Errorf("ResolveQuotes() tickers = %v, want %v", got, want)
	}

	// 02:00 UTC is still the 17th at UTC-5.
	if want := on(5, 17); report.Date != want {
		t.Errorf("report date = %v, want %v", report.Date, want)
	}
	if report.RunID == "" {
		t.Errorf("report has no run id")
	}

	want := []Adjustment{
		{AccountID: "a1", Date: on(5, 17), Amount: 1150000, PayeeName: UpdatePayee, Memo: "$ACME|1150000",
			Cleared: true, Approved: true, FlagColor: DefaultFlagColor},
		{AccountID: "a3", Date: on(5, 17), Amount: 410500, PayeeName: UpdatePayee, Memo: "$VTI|410500",
			Cleared: true, Approved: true, FlagColor: DefaultFlagColor},
	}
	if len(ledger.submitted) != 1 {
		t.Fatalf("Submit() called %d times, want once", len(ledger.submitted))
	}
	if !reflect.DeepEqual(ledger.submitted[0], want) {
		t.Errorf("Submit() adjustments = %+v, want %+v", ledger.submitted[0], want)
	}
	if !report.Submitted {
		t.Errorf("report.Submitted = false, want true")
	}

	var kinds []WarningKind
	for _, w := range report.Warnings {
		if w.Account != "Retirement" {
			t.Errorf("warning %v in account %q, want Retirement", w, w.Account)
		}
		kinds = append(kinds, w.Kind)
	}
	if want := []WarningKind{WarnMalformedMemo, WarnMissingQuote}; !slices.Equal(kinds, want) {
		t.Errorf("warnings = %v, want kinds %v", report.Warnings, want)
	}

	// A second run has nothing left to do.
	report, err = s.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() unexpected error: %v", err)
	}
	if len(ledger.submitted) != 1 || report.Submitted || len(report.Adjustments()) != 0 {
		t.Errorf("second Run() submitted %v, want nothing", report.Adjustments())
	}
}

func TestSyncer_DryRun(t *testing.T) {
	ledger, quotes := newFakes()
	s := newSyncer(ledger, quotes)
	s.DryRun = true

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if len(ledger.submitted) != 0 || report.Submitted {
		t.Errorf("dry run submitted %v", ledger.submitted)
	}
	if got := len(report.Adjustments()); got != 2 {
		t.Errorf("dry run computed %d adjustments, want 2", got)
	}
}

func TestSyncer_CollaboratorFailure(t *testing.T) {
	t.Run("transactions", func(t *testing.T) {
		ledger, quotes := newFakes()
		ledger.failOn = "a3"

		_, err := newSyncer(ledger, quotes).Run(context.Background())
		if err == nil {
			t.Fatal("Run() expected an error")
		}
		if len(quotes.calls) != 0 || len(ledger.submitted) != 0 {
			t.Errorf("Run() kept going after a failure: quotes %v, submitted %v", quotes.calls, ledger.submitted)
		}
	})
	t.Run("quotes", func(t *testing.T) {
		ledger, quotes := newFakes()
		quotes.err = errors.New("service unavailable")

		_, err := newSyncer(ledger, quotes).Run(context.Background())
		if !errors.Is(err, quotes.err) {
			t.Errorf("Run() error = %v, want it to wrap %v", err, quotes.err)
		}
		if len(ledger.submitted) != 0 {
			t.Errorf("Run() submitted %v after a quote failure", ledger.submitted)
		}
	})
	t.Run("submit", func(t *testing.T) {
		ledger, quotes := newFakes()
		ledger.submitErr = errors.New("unauthorized")

		_, err := newSyncer(ledger, quotes).Run(context.Background())
		if !errors.Is(err, ledger.submitErr) {
			t.Errorf("Run() error = %v, want it to wrap %v", err, ledger.submitErr)
		}
	})
}

func TestSyncer_NothingToTrack(t *testing.T) {
	ledger, quotes := newFakes()
	ledger.accounts = ledger.accounts[1:2]

	report, err := newSyncer(ledger, quotes).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if len(quotes.calls) != 0 {
		t.Errorf("ResolveQuotes() called with %v, want no call", quotes.calls)
	}
	if len(report.Accounts) != 0 || report.Submitted {
		t.Errorf("Run() = %+v, want an empty report", report)
	}
}

func TestTracked(t *testing.T) {
	accounts := []Account{
		{ID: "1", Note: "INVESTMENT_TO_TRACK"},
		{ID: "2", Note: "something else"},
		{ID: "3", Note: "xx TRACK_ME xx"},
		{ID: "4", Note: "INVESTMENT_TO_TRACK", Deleted: true},
		{ID: "5", Note: "TRACK_ME"},
	}
	ids := func(as []Account) (ids []string) {
		for _, a := range as {
			ids = append(ids, a.ID)
		}
		return ids
	}
	if got := ids(Tracked(accounts, "")); !slices.Equal(got, []string{"1"}) {
		t.Errorf("Tracked(default) = %v, want [1]", got)
	}
	if got := ids(Tracked(accounts, "TRACK_ME")); !slices.Equal(got, []string{"3", "5"}) {
		t.Errorf("Tracked(TRACK_ME) = %v, want [3 5]", got)
	}
}
