package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression on the tracker" }
func (*queryCmd) Usage() string {
	return `dtr query <expression>

  Evaluates a JSONPath expression against the tracker and prints the JSON
  result. The document has the budget, currency, expenses, loans,
  companyRecords and totals fields, for instance:

    dtr query '$.totals.remainingBudget'
    dtr query '$.loans[?(@.type=="lent")].personName'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: query takes exactly one expression")
		return subcommands.ExitUsageError
	}
	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		v, err := s.Query(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(out))
		return subcommands.ExitSuccess
	})
}
