package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

type lsCmd struct {
	kind string
}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "list the records" }
func (*lsCmd) Usage() string {
	return `dtr ls [-k <kind>]

  Lists the records with their id and position, every kind by default.
`
}

func (c *lsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "", "Only list one kind: expenses, loans or company")
}

func (c *lsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kinds := tracker.Kinds
	if c.kind != "" {
		k, err := tracker.ParseKind(c.kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		kinds = []tracker.Kind{k}
	}

	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		printMarkdown(listMarkdown(s, kinds))
		return subcommands.ExitSuccess
	})
}

func listMarkdown(s *tracker.Store, kinds []tracker.Kind) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	for _, kind := range kinds {
		table := md.TableSet{}
		switch kind {
		case tracker.KindExpenses:
			doc.H2("Expenses")
			table.Header = []string{"#", "Id", "Date", "Expense", "Amount"}
			table.Alignment = []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight}
			for i, e := range s.Expenses() {
				table.Rows = append(table.Rows, []string{strconv.Itoa(i + 1), e.ID.String(), e.Date.String(), renderer.Cell(e.Label()), amount(s, e.Amount)})
			}
		case tracker.KindLoans:
			doc.H2("Loans")
			table.Header = []string{"#", "Id", "Date", "Person", "Type", "Amount"}
			table.Alignment = []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight}
			for i, l := range s.Loans() {
				table.Rows = append(table.Rows, []string{strconv.Itoa(i + 1), l.ID.String(), l.Date.String(), renderer.Cell(l.PersonName), string(l.Type), amount(s, l.Amount)})
			}
		case tracker.KindCompanyRecords:
			doc.H2("Company records")
			table.Header = []string{"#", "Id", "Date", "Description", "Amount"}
			table.Alignment = []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight}
			for i, r := range s.CompanyRecords() {
				table.Rows = append(table.Rows, []string{strconv.Itoa(i + 1), r.ID.String(), r.Date.String(), renderer.Cell(r.Description), amount(s, r.Amount)})
			}
		}
		if len(table.Rows) == 0 {
			doc.PlainText(md.Italic("none"))
			continue
		}
		doc.Table(table)
	}
	return doc.String()
}
