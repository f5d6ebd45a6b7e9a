package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type budgetCmd struct{}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "display or set the budget" }
func (*budgetCmd) Usage() string {
	return `dtr budget [<amount>]

  Without argument, displays the budget and what remains of it.
  With an amount, replaces the budget. Negative amounts are accepted.
`
}

func (c *budgetCmd) SetFlags(f *flag.FlagSet) {}

func (c *budgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: budget takes at most one amount")
		return subcommands.ExitUsageError
	}
	var value *decimal.Decimal
	if f.NArg() == 1 {
		v, err := decimal.NewFromString(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing budget %q: %v\n", f.Arg(0), err)
			return subcommands.ExitUsageError
		}
		value = &v
	}

	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		if value != nil {
			if err := s.SetBudget(ctx, *value); err != nil {
				fmt.Fprintf(os.Stderr, "Error saving budget: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		t := s.Totals()
		fmt.Printf("Budget: %s, remaining: %s\n", amount(s, t.Budget), amount(s, t.RemainingBudget))
		return subcommands.ExitSuccess
	})
}
