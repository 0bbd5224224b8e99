package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/invest"
	"github.com/google/subcommands"
)

type exportCmd struct {
	account string
	output  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the transactions of tracked accounts as JSONL" }
func (*exportCmd) Usage() string {
	return `invsync export [-account <name>] [-o <file>]

  Writes the transactions of tracked accounts, in date order, one JSON object
  per line. The output can be read back with 'invsync holdings -file'.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "export only this account")
	f.StringVar(&c.output, "o", "", "output file, stdout if empty")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := loadApp(true)
	if a == nil {
		return status
	}
	defer a.Close()

	ledgers, err := fetchTrackedLedgers(ctx, a)
	if err != nil {
		return failure("fetching ledgers", err)
	}

	var w io.Writer = stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			return failure("creating output", err)
		}
		defer out.Close()
		w = out
	}

	found := false
	for _, l := range ledgers {
		if c.account != "" && l.Account() != c.account {
			continue
		}
		found = true
		if err := invest.EncodeLedger(w, l); err != nil {
			return failure("writing ledger", err)
		}
	}
	if c.account != "" && !found {
		fmt.Fprintf(os.Stderr, "Error: no tracked account named %q\n", c.account)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
