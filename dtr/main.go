// Command dtr tracks a budget, expenses, loans and company records.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/tracker/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// handles COMP_LINE when invoked by the shell, and returns otherwise.
	completion().Complete("dtr")

	flag.Parse()
	cmd.SetupLogging()

	if flag.NArg() > 0 && !known(commander, flag.Arg(0)) {
		if found, code := cmd.RunExtension(flag.Arg(0), flag.Args()[1:]); found {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "dtr: unknown command %q\n", flag.Arg(0))
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// known reports whether a subcommand is registered.
func known(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		if sub.Name() == name {
			found = true
		}
	})
	return found
}

func completion() *complete.Command {
	kinds := predict.Set{"expenses", "loans", "company"}
	periods := predict.Set{"day", "week", "month", "year"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"store":      predict.Something,
			"currency":   predict.Something,
			"policy":     predict.Set{"skip-defaults", "write-all"},
			"log-format": predict.Set{"human", "json"},
			"v":          predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"budget": {},
			"expense": {Flags: map[string]complete.Predictor{
				"title": predict.Something,
				"q":     predict.Something,
				"unit":  predict.Something,
				"price": predict.Something,
				"edit":  predict.Something,
				"at":    predict.Something,
			}},
			"loan": {Flags: map[string]complete.Predictor{
				"person": predict.Something,
				"amount": predict.Something,
				"type":   predict.Set{"borrowed", "lent"},
			}},
			"company": {Flags: map[string]complete.Predictor{
				"amount": predict.Something,
				"desc":   predict.Something,
			}},
			"rm": {Flags: map[string]complete.Predictor{
				"k":   kinds,
				"all": predict.Nothing,
				"y":   predict.Nothing,
				"at":  predict.Something,
			}},
			"ls":      {Flags: map[string]complete.Predictor{"k": kinds}},
			"summary": {},
			"report": {Flags: map[string]complete.Predictor{
				"f":         predict.Set{"md", "html", "xlsx"},
				"o":         predict.Files("*"),
				"p":         periods,
				"d":         predict.Something,
				"rows":      predict.Something,
				"signature": predict.Files("*"),
				"title":     predict.Something,
				"mail-to":   predict.Something,
			}},
			"query": {},
			"serve": {Flags: map[string]complete.Predictor{
				"addr":      predict.Something,
				"signature": predict.Files("*"),
			}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
