package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type rmCmd struct {
	kind string
	all  bool
	yes  bool
	at   int

	in io.Reader // answers to the confirmation prompt, os.Stdin when nil
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete records" }
func (*rmCmd) Usage() string {
	return `dtr rm [-k <kind>] [-y] (-all | <id>...)
dtr rm -at <position>

  Deletes the records of one kind (expenses, loans or company) with the
  given ids, or all of them with -all. The deletion must be confirmed
  unless -y is given.

  With -at, deletes the expense at a position, as listed by 'dtr ls'.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", string(tracker.KindExpenses), "Kind of records: expenses, loans or company")
	f.BoolVar(&c.all, "all", false, "Select every record of the kind")
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
	f.IntVar(&c.at, "at", 0, "Position of the expense to delete, starting at 1")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := tracker.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var ids []tracker.ID
	for _, arg := range f.Args() {
		id, err := tracker.ParseID(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing id %q: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		ids = append(ids, id)
	}

	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		if c.at != 0 {
			if err := s.DeleteExpenseAt(ctx, c.at-1); err != nil {
				fmt.Fprintf(os.Stderr, "Error deleting expense: %v\n", err)
				return subcommands.ExitFailure
			}
			fmt.Printf("Deleted expense #%d\n", c.at)
			return subcommands.ExitSuccess
		}

		sel := s.NewSelection()
		if c.all {
			if err := sel.ToggleAll(kind); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		for _, id := range ids {
			if !sel.IsSelected(kind, id) {
				sel.Toggle(kind, id)
			}
		}
		n := len(sel.Selected(kind))
		if n == 0 {
			fmt.Fprintln(os.Stderr, "Error: nothing to delete, give ids or -all")
			return subcommands.ExitUsageError
		}

		if err := sel.RequestDelete(kind); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if !c.yes && !c.confirm(fmt.Sprintf("Delete %d %s?", n, kind)) {
			sel.CancelDelete()
			fmt.Println("Cancelled")
			return subcommands.ExitSuccess
		}

		deleted, err := sel.ConfirmDelete(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %s: %v\n", kind, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Deleted %d %s\n", deleted, kind)
		return subcommands.ExitSuccess
	})
}

// confirm asks a yes/no question, no being the default.
func (c *rmCmd) confirm(question string) bool {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	fmt.Printf("%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
