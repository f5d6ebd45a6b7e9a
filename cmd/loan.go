package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type loanCmd struct {
	person string
	amount string
	typ    string
}

func (*loanCmd) Name() string     { return "loan" }
func (*loanCmd) Synopsis() string { return "record money borrowed from or lent to someone" }
func (*loanCmd) Usage() string {
	return `dtr loan -person <name> -amount <amount> [-type borrowed|lent]

  Records a loan dated today. A borrowed loan is money you owe, a lent loan
  is money owed to you.
`
}

func (c *loanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.person, "person", "", "Name of the other person")
	f.StringVar(&c.amount, "amount", "", "Amount of the loan")
	f.StringVar(&c.typ, "type", string(tracker.Borrowed), "borrowed or lent")
}

func (c *loanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		for _, field := range []struct{ name, value string }{
			{"personName", c.person},
			{"amount", c.amount},
			{"type", c.typ},
		} {
			if err := s.StageLoanField(field.name, field.value); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		}

		l, err := s.CommitLoan(ctx)
		if errors.Is(err, tracker.ErrValidation) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving loan: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Added loan %v: %s %s %s\n", l.ID, l.Type, amount(s, l.Amount), l.PersonName)
		return subcommands.ExitSuccess
	})
}
