package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/invest"
	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list budget accounts and whether they are tracked" }
func (*accountsCmd) Usage() string {
	return `invsync accounts

  Lists the open accounts of the budget. Tracked accounts have the marker
  in their note.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := loadApp(true)
	if a == nil {
		return status
	}
	defer a.Close()

	client := a.ledger()
	budget, err := client.Budget(ctx, a.cfg.BudgetID)
	if err != nil {
		return failure("fetching budget", err)
	}
	accounts, err := client.Accounts(ctx, a.cfg.BudgetID)
	if err != nil {
		return failure("fetching accounts", err)
	}
	tracked := make(map[string]bool)
	for _, t := range invest.Tracked(accounts, a.cfg.AccountMarker) {
		tracked[t.ID] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Accounts of %s\n\n", budget.Name)
	fmt.Fprintln(&b, "| Account | Tracked | ID |")
	fmt.Fprintln(&b, "|:---|:---:|:---|")
	for _, acc := range accounts {
		if acc.Closed || acc.Deleted {
			continue
		}
		mark := " "
		if tracked[acc.ID] {
			mark = "X"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", acc.Name, mark, acc.ID)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
