// Package cmd implements the invsync command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/invest"
	"github.com/etnz/invest/config"
	"github.com/etnz/invest/eodhd"
	"github.com/etnz/invest/logging"
	"github.com/etnz/invest/yahoo"
	"github.com/etnz/invest/ynab"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands is the list of invsync subcommands.
var Commands = []subcommands.Command{
	&syncCmd{},
	&scheduleCmd{},
	&holdingsCmd{},
	&exportCmd{},
	&accountsCmd{},
	&quotesCmd{},
	&topicCmd{},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to an optional YAML configuration file")
var verbose = flag.Bool("v", false, "Log debug messages")

// stdout receives reports.
var stdout io.Writer = os.Stdout

// app holds what subcommands share: the configuration and the logger.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
}

// loadApp loads the configuration and creates the logger. It prints errors
// and returns the exit status to use when it fails.
func loadApp(validate bool) (*app, subcommands.ExitStatus) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, subcommands.ExitUsageError
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
			return nil, subcommands.ExitUsageError
		}
	}
	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log, closer, err := logging.New(logging.Config{Level: level, File: cfg.LogFile, JSON: cfg.LogJSON})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return nil, subcommands.ExitUsageError
	}
	return &app{cfg: cfg, log: log, closer: closer}, subcommands.ExitSuccess
}

func (a *app) Close() error { return a.closer.Close() }

// ledger returns the YNAB client.
func (a *app) ledger() *ynab.Client {
	return ynab.NewClient(a.cfg.Token, a.cfg.YNABBaseURL, a.log)
}

// quotes returns the configured quote provider.
func (a *app) quotes() invest.QuoteResolver {
	if a.cfg.QuoteProvider == config.ProviderEODHD {
		opts := []eodhd.Option{eodhd.WithExchange(a.cfg.EODHDExchange), eodhd.WithCache(a.cfg.CacheWindow)}
		if a.cfg.EODHDBaseURL != "" {
			opts = append(opts, eodhd.WithBaseURL(a.cfg.EODHDBaseURL))
		}
		return eodhd.NewClient(a.cfg.EODHDKey, a.log, opts...)
	}
	return yahoo.NewClient(a.cfg.YahooBaseURL, a.log)
}

// syncer returns the Syncer configured for the budget.
func (a *app) syncer(dryRun bool) (*invest.Syncer, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	return &invest.Syncer{
		Ledger:   a.ledger(),
		Quotes:   a.quotes(),
		BudgetID: a.cfg.BudgetID,
		Marker:   a.cfg.AccountMarker,
		Location: loc,
		DryRun:   dryRun || a.cfg.DryRun,
		Logger:   a.log,
	}, nil
}

// failure prints err and returns the exit status matching it: configuration
// and authentication problems are usage errors.
func failure(what string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	var cerr *config.Error
	if errors.As(err, &cerr) || errors.Is(err, ynab.ErrUnauthorized) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// printMarkdown prints md to stdout, rendered for the terminal when stdout
// is one.
func printMarkdown(md string) {
	if !isTerminal(stdout) {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
