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

type companyCmd struct {
	amount      string
	description string
}

func (*companyCmd) Name() string     { return "company" }
func (*companyCmd) Synopsis() string { return "record company money" }
func (*companyCmd) Usage() string {
	return `dtr company -amount <amount> -desc <description>

  Records a company cash movement dated today. Use a negative amount for
  money going out.
`
}

func (c *companyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Amount of the record")
	f.StringVar(&c.description, "desc", "", "What the money is for")
}

func (c *companyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		if err := errors.Join(
			s.StageCompanyField("amount", c.amount),
			s.StageCompanyField("description", c.description),
		); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}

		r, err := s.CommitCompanyRecord(ctx)
		if errors.Is(err, tracker.ErrValidation) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving company record: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Added company record %v: %s %s\n", r.ID, amount(s, r.Amount), r.Description)
		return subcommands.ExitSuccess
	})
}
