package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/etnz/tracker"
	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the budget and the totals" }
func (*summaryCmd) Usage() string {
	return `dtr summary

  Displays the budget, what remains of it, the loan balances and the
  company money.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		printMarkdown(summaryMarkdown(s))
		return subcommands.ExitSuccess
	})
}

func summaryMarkdown(s *tracker.Store) string {
	t := s.Totals()
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Summary")
	doc.PlainText(fmt.Sprintf("%s expenses, %s loans, %s company records",
		humanize.Comma(int64(t.Expenses)), humanize.Comma(int64(t.Loans)), humanize.Comma(int64(t.CompanyRecords))))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"", "Amount"},
		Rows: [][]string{
			{"Budget", amount(s, t.Budget)},
			{"Total expenses", amount(s, t.TotalExpenses)},
			{md.Bold("Remaining budget"), md.Bold(amount(s, t.RemainingBudget))},
			{"Borrowed (you owe)", amount(s, t.TotalBorrowed)},
			{"Lent (owed to you)", amount(s, t.TotalLent)},
			{"Net loans", tracker.M(t.NetLoans, s.Currency()).SignedString()},
			{"Company money", amount(s, t.TotalCompanyMoney)},
		},
	})
	return doc.String()
}
