package invest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/invest/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMarker is the account note marker of tracked accounts.
const DefaultMarker = "INVESTMENT_TO_TRACK"

// Budget is the budget the accounts belong to.
type Budget struct {
	ID       string
	Name     string
	Currency string // Currency is the ISO code of the budget currency.
}

// Account is a budget account.
type Account struct {
	ID      string
	Name    string
	Note    string
	Closed  bool
	Deleted bool
}

// LedgerAPI is the budgeting system, where transactions are read and
// adjustments posted.
type LedgerAPI interface {
	Budget(ctx context.Context, budgetID string) (Budget, error)
	Accounts(ctx context.Context, budgetID string) ([]Account, error)
	Transactions(ctx context.Context, budgetID, accountID string) ([]Transaction, error)
	Submit(ctx context.Context, budgetID string, adjustments []Adjustment) error
}

// QuoteResolver resolves the latest price of tickers. Tickers with no
// resolvable quote are absent from the result, this is not an error.
type QuoteResolver interface {
	ResolveQuotes(ctx context.Context, tickers []string) (Quotes, error)
}

// Tracked returns the open accounts whose note contains marker.
func Tracked(accounts []Account, marker string) []Account {
	if marker == "" {
		marker = DefaultMarker
	}
	var tracked []Account
	for _, a := range accounts {
		if a.Closed || a.Deleted || !strings.Contains(a.Note, marker) {
			continue
		}
		tracked = append(tracked, a)
	}
	return tracked
}

// AccountReport is the outcome of a run for one account.
type AccountReport struct {
	Account      Account
	Transactions int
	Holdings     Holdings
	Deltas       []Delta
	Adjustments  []Adjustment
}

// Report is the outcome of a run.
type Report struct {
	RunID     string
	Budget    Budget
	Date      date.Date // Date of the adjustments.
	Accounts  []AccountReport
	Quotes    Quotes
	Warnings  []Warning
	Submitted bool // Submitted is true when adjustments were posted.
}

// Adjustments returns the adjustments of all accounts, in account order.
func (r *Report) Adjustments() []Adjustment {
	var all []Adjustment
	for _, a := range r.Accounts {
		all = append(all, a.Adjustments...)
	}
	return all
}

// Syncer brings the book value of tracked accounts on market value.
type Syncer struct {
	Ledger   LedgerAPI
	Quotes   QuoteResolver
	BudgetID string
	Marker   string         // Marker selects tracked accounts, DefaultMarker if empty.
	Location *time.Location // Location defines the calendar day of adjustments, local time if nil.
	Now      func() time.Time
	DryRun   bool // DryRun computes adjustments but never submits them.
	Logger   zerolog.Logger
}

func (s *Syncer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Run fetches tracked accounts, reconstructs their holdings, resolves quotes
// for all open positions at once and posts the adjustments.
//
// Accounts are processed concurrently. Any collaborator error aborts the run
// and is returned as is: nothing is submitted then. Data quality problems
// are logged and listed in the report.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	now := s.now()
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	report := &Report{
		RunID: uuid.NewString(),
		Date:  date.InZone(now, date.Offset(now, loc)),
	}
	log := s.Logger.With().Str("run_id", report.RunID).Logger()

	log.Info().Msg("Fetching budget...")
	budget, err := s.Ledger.Budget(ctx, s.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("fetching budget %q: %w", s.BudgetID, err)
	}
	report.Budget = budget
	log.Info().Str("budget", budget.Name).Str("currency", budget.Currency).Msg("Fetched budget")

	log.Info().Msg("Fetching accounts...")
	accounts, err := s.Ledger.Accounts(ctx, s.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	tracked := Tracked(accounts, s.Marker)
	log.Info().Int("accounts", len(accounts)).Int("tracked", len(tracked)).Msg("Fetched accounts")

	// Fan-out: one ledger per account. Each task only writes its own slot.
	report.Accounts = make([]AccountReport, len(tracked))
	warnings := make([][]Warning, len(tracked))
	g, gctx := errgroup.WithContext(ctx)
	for i, account := range tracked {
		g.Go(func() error {
			alog := log.With().Str("account", account.Name).Logger()
			alog.Info().Msg("Fetching transactions...")
			txs, err := s.Ledger.Transactions(gctx, s.BudgetID, account.ID)
			if err != nil {
				return fmt.Errorf("fetching transactions of %q: %w", account.Name, err)
			}
			h, ws := Reconstruct(account.Name, budget.Currency, txs)
			alog.Info().Int("transactions", len(txs)).Msg("Fetched transactions")
			logHoldings(alog, h)
			report.Accounts[i] = AccountReport{Account: account, Transactions: len(txs), Holdings: h}
			warnings[i] = ws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshots := make([]Holdings, len(report.Accounts))
	for i, a := range report.Accounts {
		snapshots[i] = a.Holdings
	}
	tickers := OpenTickers(snapshots...)
	report.Quotes = Quotes{}
	if len(tickers) > 0 {
		log.Info().Strs("tickers", tickers).Msg("Fetching quotes...")
		report.Quotes, err = s.Quotes.ResolveQuotes(ctx, tickers)
		if err != nil {
			return nil, fmt.Errorf("fetching quotes: %w", err)
		}
		log.Info().Int("quotes", len(report.Quotes)).Msg("Fetched quotes")
	}

	// Fan-out again: reconcile and batch per account.
	g = new(errgroup.Group)
	for i := range report.Accounts {
		g.Go(func() error {
			a := &report.Accounts[i]
			deltas, ws := Reconcile(a.Holdings, report.Quotes)
			adjustments, bws := Batch(a.Account.ID, report.Date, deltas)
			a.Deltas, a.Adjustments = deltas, adjustments
			warnings[i] = append(warnings[i], inAccount(append(ws, bws...), a.Account.Name)...)
			return nil
		})
	}
	_ = g.Wait() // reconciliation never fails.

	for i, a := range report.Accounts {
		alog := log.With().Str("account", a.Account.Name).Logger()
		for _, w := range warnings[i] {
			alog.Warn().Err(w.Err).Str("kind", w.Kind.String()).Str("ticker", w.Ticker).Msg("Skipped")
		}
		report.Warnings = append(report.Warnings, warnings[i]...)
		logAdjustments(alog, a.Adjustments, budget.Currency)
	}

	adjustments := report.Adjustments()
	switch {
	case len(adjustments) == 0:
		log.Info().Msg("No updates needed.")
	case s.DryRun:
		log.Info().Int("adjustments", len(adjustments)).Msg("Dry run, nothing posted.")
	default:
		log.Info().Int("adjustments", len(adjustments)).Msg("Posting transactions...")
		if err := s.Ledger.Submit(ctx, s.BudgetID, adjustments); err != nil {
			return nil, fmt.Errorf("posting adjustments: %w", err)
		}
		report.Submitted = true
		log.Info().Msg("Posted transactions.")
	}
	return report, nil
}

func logHoldings(log zerolog.Logger, h Holdings) {
	for _, t := range h.Tickers() {
		hh := h[t]
		log.Info().
			Str("ticker", t).
			Stringer("shares", hh.Shares).
			Stringer("value", hh.Book).
			Msg("Holding")
	}
}

func logAdjustments(log zerolog.Logger, adjustments []Adjustment, currency string) {
	for _, a := range adjustments {
		log.Info().
			Stringer("amount", Milli(a.Amount, currency)).
			Str("memo", a.Memo).
			Msg("Update")
	}
}
