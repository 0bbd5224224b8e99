// Command invsync keeps the investment accounts of a YNAB budget on market
// value.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/invest/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 invsync.
func completion() *complete.Command {
	jsonl := predict.Files("*.jsonl")
	sub := map[string]*complete.Command{
		"help":     {},
		"flags":    {},
		"commands": {},
		"accounts": {},
		"quotes":   {Args: predict.Something},
		"topic":    {Args: predict.Set{"memo", "sync", "config", "*"}},
		"sync": {Flags: map[string]complete.Predictor{
			"n":      predict.Nothing,
			"q":      predict.Nothing,
			"export": jsonl,
		}},
		"schedule": {Flags: map[string]complete.Predictor{
			"cron": predict.Something,
			"n":    predict.Nothing,
			"now":  predict.Nothing,
		}},
		"holdings": {Flags: map[string]complete.Predictor{
			"file":     jsonl,
			"account":  predict.Something,
			"currency": predict.Set{"USD", "EUR", "GBP", "CHF", "CAD"},
			"quotes":   predict.Nothing,
		}},
		"export": {Flags: map[string]complete.Predictor{
			"account": predict.Something,
			"o":       jsonl,
		}},
	}
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"v":      predict.Nothing,
		},
	}
}
