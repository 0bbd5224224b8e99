package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type quotesCmd struct{}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "display the latest quote of tickers" }
func (*quotesCmd) Usage() string {
	return `invsync quotes <ticker>...

  Fetches the latest quotes from the configured provider.
`
}

func (c *quotesCmd) SetFlags(f *flag.FlagSet) {}

func (c *quotesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tickers := f.Args()
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ticker must be specified.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, status := loadApp(false)
	if a == nil {
		return status
	}
	defer a.Close()

	quotes, err := a.quotes().ResolveQuotes(ctx, tickers)
	if err != nil {
		return failure("fetching quotes", err)
	}

	var b strings.Builder
	fmt.Fprintln(&b, "| Ticker | Price |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, t := range tickers {
		price := "n/a"
		if p, ok := quotes[t]; ok {
			price = p.String()
		}
		fmt.Fprintf(&b, "| %s | %s |\n", t, price)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
