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

type expenseCmd struct {
	title    string
	quantity string
	unit     string
	price    string
	edit     string
	at       int
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "add or edit an itemized expense" }
func (*expenseCmd) Usage() string {
	return `dtr expense -title <name> -q <quantity> -unit <unit> -price <unit price>
dtr expense (-edit <id> | -at <position>) [-title <name>] [-q <quantity>] [-unit <unit>] [-price <unit price>]

  Adds an expense dated today. Its amount is quantity times unit price.

  With -edit or -at, replaces an existing expense, keeping its position. The
  flags that are not given keep their current value. The expense is dated
  today again.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "Item name")
	f.StringVar(&c.quantity, "q", "", "Quantity bought")
	f.StringVar(&c.unit, "unit", "", "Unit of the quantity, like kg or pcs")
	f.StringVar(&c.price, "price", "", "Price per unit")
	f.StringVar(&c.edit, "edit", "", "Id of the expense to edit")
	f.IntVar(&c.at, "at", 0, "Position of the expense to edit, starting at 1, as listed by 'dtr ls'")
}

func (c *expenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.edit != "" && c.at != 0 {
		fmt.Fprintln(os.Stderr, "Error: -edit and -at are exclusive")
		return subcommands.ExitUsageError
	}

	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		switch {
		case c.edit != "":
			id, err := tracker.ParseID(c.edit)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing id %q: %v\n", c.edit, err)
				return subcommands.ExitUsageError
			}
			if err := s.BeginEditExpense(id); err != nil {
				fmt.Fprintf(os.Stderr, "Error editing expense: %v\n", err)
				return subcommands.ExitFailure
			}
		case c.at != 0:
			if err := s.BeginEditExpenseAt(c.at - 1); err != nil {
				fmt.Fprintf(os.Stderr, "Error editing expense: %v\n", err)
				return subcommands.ExitFailure
			}
		}

		for _, field := range []struct{ name, value string }{
			{"title", c.title},
			{"quantity", c.quantity},
			{"unit", c.unit},
			{"unitPrice", c.price},
		} {
			if field.value == "" {
				continue
			}
			if err := s.StageExpenseField(field.name, field.value); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		}

		_, editing := s.Editing()
		e, err := s.CommitExpense(ctx)
		if errors.Is(err, tracker.ErrValidation) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving expense: %v\n", err)
			return subcommands.ExitFailure
		}

		verb := "Added"
		if editing {
			verb = "Updated"
		}
		fmt.Printf("%s expense %v: %s = %s\n", verb, e.ID, e.Label(), amount(s, e.Amount))
		return subcommands.ExitSuccess
	})
}
