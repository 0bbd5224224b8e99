package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/invest"
	"github.com/etnz/invest/date"
	"github.com/etnz/invest/renderer"
	"github.com/google/subcommands"
)

type holdingsCmd struct {
	file     string
	account  string
	currency string
	quotes   bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the holdings reconstructed from transactions" }
func (*holdingsCmd) Usage() string {
	return `invsync holdings [-file <ledger.jsonl> [-account <name>] [-currency <code>]] [-quotes]

  Displays the holdings of tracked accounts, reconstructed from their
  transactions. Nothing is posted.

  With -file, transactions are read from a JSONL file (see 'invsync export')
  instead of the budget.

  With -quotes, latest quotes are fetched to display market values and the
  adjustments a sync would post.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "read transactions from this JSONL file")
	f.StringVar(&c.account, "account", "Investments", "account name, with -file")
	f.StringVar(&c.currency, "currency", "USD", "ledger currency, with -file")
	f.BoolVar(&c.quotes, "quotes", false, "fetch the latest quotes")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := loadApp(c.file == "")
	if a == nil {
		return status
	}
	defer a.Close()

	var ledgers []*invest.Ledger
	if c.file != "" {
		l, err := decodeLedgerFile(c.file, c.account, c.currency)
		if err != nil {
			return failure("loading ledger", err)
		}
		ledgers = append(ledgers, l)
	} else {
		var err error
		ledgers, err = fetchTrackedLedgers(ctx, a)
		if err != nil {
			return failure("fetching ledgers", err)
		}
	}

	snapshots := make([]invest.Holdings, len(ledgers))
	for i, l := range ledgers {
		h, warnings := l.Holdings()
		for _, w := range warnings {
			a.log.Warn().Err(w.Err).Str("account", l.Account()).Str("kind", w.Kind.String()).Msg("Skipped")
		}
		snapshots[i] = h
	}

	var quotes invest.Quotes
	if tickers := invest.OpenTickers(snapshots...); c.quotes && len(tickers) > 0 {
		var err error
		quotes, err = a.quotes().ResolveQuotes(ctx, tickers)
		if err != nil {
			return failure("fetching quotes", err)
		}
	}

	loc, err := a.cfg.Location()
	if err != nil {
		return failure("loading time zone", err)
	}
	now := time.Now()
	today := date.InZone(now, date.Offset(now, loc))
	for i, l := range ledgers {
		printMarkdown(renderer.RenderHoldings(renderer.NewHoldings(l.Account(), today, snapshots[i], quotes)))
	}
	return subcommands.ExitSuccess
}

// decodeLedgerFile reads a JSONL transactions file.
func decodeLedgerFile(filename, account, currency string) (*invest.Ledger, error) {
	in, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	txs, err := invest.DecodeTransactions(in)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", filename, err)
	}
	return invest.NewLedger(account, currency, txs), nil
}

// fetchTrackedLedgers fetches the transactions of all tracked accounts of the
// configured budget.
func fetchTrackedLedgers(ctx context.Context, a *app) ([]*invest.Ledger, error) {
	client := a.ledger()
	budget, err := client.Budget(ctx, a.cfg.BudgetID)
	if err != nil {
		return nil, err
	}
	accounts, err := client.Accounts(ctx, a.cfg.BudgetID)
	if err != nil {
		return nil, err
	}
	var ledgers []*invest.Ledger
	for _, account := range invest.Tracked(accounts, a.cfg.AccountMarker) {
		txs, err := client.Transactions(ctx, a.cfg.BudgetID, account.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching transactions of %q: %w", account.Name, err)
		}
		ledgers = append(ledgers, invest.NewLedger(account.Name, budget.Currency, txs))
	}
	return ledgers, nil
}
