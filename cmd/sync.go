package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/invest"
	"github.com/etnz/invest/renderer"
	"github.com/google/subcommands"
)

type syncCmd struct {
	dryRun bool
	export string
	quiet  bool
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "bring tracked investment accounts on market value" }
func (*syncCmd) Usage() string {
	return `invsync sync [-n] [-export <file>] [-q]

  Reconstructs the holdings of every tracked account from its transactions,
  fetches the latest quotes of all open positions and posts one
  "Investment Value Update" transaction per account whose book value
  differs from the market value.

  A second run with unchanged quotes posts nothing.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "dry run: compute adjustments but do not post them")
	f.StringVar(&c.export, "export", "", "write the adjustments to this file (JSONL)")
	f.BoolVar(&c.quiet, "q", false, "do not print the report")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := loadApp(true)
	if a == nil {
		return status
	}
	defer a.Close()

	s, err := a.syncer(c.dryRun)
	if err != nil {
		return failure("creating syncer", err)
	}
	report, err := s.Run(ctx)
	if err != nil {
		return failure("syncing", err)
	}

	if c.export != "" {
		if err := writeAdjustments(c.export, report.Adjustments()); err != nil {
			return failure("exporting adjustments", err)
		}
	}
	if !c.quiet {
		printMarkdown(renderer.RenderReport(renderer.NewReport(report)))
	}
	return subcommands.ExitSuccess
}

func writeAdjustments(filename string, adjustments []invest.Adjustment) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := invest.EncodeAdjustments(out, adjustments); err != nil {
		out.Close()
		return fmt.Errorf("writing %q: %w", filename, err)
	}
	return out.Close()
}
