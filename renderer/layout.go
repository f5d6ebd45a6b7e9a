package renderer

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/etnz/tracker"
	md "github.com/nao1215/markdown"
	"github.com/rs/zerolog/log"
)

// DefaultRowsPerPage is used when Options.RowsPerPage is not set.
const DefaultRowsPerPage = 25

// summaryRows is the room taken by the budget summary on the first page.
const summaryRows = 8

// Options holds configuration for rendering a report.
type Options struct {
	RowsPerPage   int    // table rows per printed page.
	SignaturePath string // optional PNG or JPEG image printed at the end.
	// Warn receives the problems that do not stop the export, like an
	// unreadable signature. They are logged when nil.
	Warn func(error)
}

func (o Options) rowsPerPage() int {
	if o.RowsPerPage <= 0 {
		return DefaultRowsPerPage
	}
	return o.RowsPerPage
}

func (o Options) warn(err error) {
	if o.Warn != nil {
		o.Warn(err)
		return
	}
	log.Warn().Err(err).Msg("report export")
}

// table is a collection ready to be printed. It always has at least one
// row: a placeholder when the collection is empty.
type table struct {
	title  string
	header []string
	align  []md.TableAlignment
	rows   [][]string
	count  int // records, placeholder and total rows excluded
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// Cell escapes user text for a markdown table cell: a pipe would split the
// cell and a line break would end the row.
func Cell(text string) string { return cellEscaper.Replace(text) }

// placeholder is a row saying the collection is empty.
func placeholder(text string, columns int) []string {
	row := make([]string, columns)
	row[0] = text
	for i := 1; i < columns; i++ {
		row[i] = "-"
	}
	return row
}

func tables(r *tracker.Report) []table {
	expenses := table{
		title:  "Expenses",
		header: []string{"Date", "Item", "Quantity", "Unit price", "Amount"},
		align:  []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		count:  len(r.Expenses),
	}
	for _, e := range r.Expenses {
		quantity, price := "-", "-"
		if e.Quantity != "" {
			quantity = e.Quantity + " " + Cell(e.Unit)
			price = e.UnitPrice.String()
		}
		expenses.rows = append(expenses.rows, []string{e.Date.String(), Cell(e.Title), quantity, price, e.Amount.String()})
	}
	if len(expenses.rows) == 0 {
		expenses.rows = append(expenses.rows, placeholder("No expenses recorded", len(expenses.header)))
	}
	expenses.rows = append(expenses.rows, []string{md.Bold("Total"), "", "", "", md.Bold(r.TotalExpenses.String())})

	loans := table{
		title:  "Loans",
		header: []string{"Date", "Person", "Type", "Amount"},
		align:  []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
		count:  len(r.Loans),
	}
	for _, l := range r.Loans {
		loans.rows = append(loans.rows, []string{l.Date.String(), Cell(l.PersonName), string(l.Type), l.Amount.String()})
	}
	if len(loans.rows) == 0 {
		loans.rows = append(loans.rows, placeholder("No loans recorded", len(loans.header)))
	}

	company := table{
		title:  "Company records",
		header: []string{"Date", "Description", "Amount"},
		align:  []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		count:  len(r.CompanyRecords),
	}
	for _, c := range r.CompanyRecords {
		company.rows = append(company.rows, []string{c.Date.String(), Cell(c.Description), c.Amount.String()})
	}
	if len(company.rows) == 0 {
		company.rows = append(company.rows, placeholder("No company records", len(company.header)))
	}
	company.rows = append(company.rows, []string{md.Bold("Total"), "", md.Bold(r.TotalCompanyMoney.String())})

	return []table{expenses, loans, company}
}

// summary is the budget summary block.
func summary(r *tracker.Report) [][]string {
	return [][]string{
		{"Budget", r.Budget.String()},
		{"Total expenses", r.TotalExpenses.String()},
		{md.Bold("Remaining budget"), md.Bold(r.RemainingBudget.String())},
		{"Borrowed (you owe)", r.TotalBorrowed.String()},
		{"Lent (owed to you)", r.TotalLent.String()},
		{"Company money", r.TotalCompanyMoney.String()},
	}
}

// part is the slice of a table printed on one page.
type part struct {
	table     *table
	rows      [][]string
	continued bool
}

type page struct {
	parts []part
}

// paginate lays tables out on pages of at most rowsPerPage rows. The first
// page also holds the title band and the budget summary.
func paginate(ts []table, rowsPerPage int) []page {
	pages := []page{{}}
	free := rowsPerPage - summaryRows
	for i := range ts {
		rows := ts[i].rows
		for continued := false; len(rows) > 0; continued = true {
			if free <= 0 {
				pages = append(pages, page{})
				free = rowsPerPage
			}
			n := min(free, len(rows))
			last := &pages[len(pages)-1]
			last.parts = append(last.parts, part{table: &ts[i], rows: rows[:n], continued: continued})
			rows = rows[n:]
			free -= n
		}
	}
	return pages
}

// footer is printed at the bottom of every page.
func footer(r *tracker.Report, number, of int) string {
	return fmt.Sprintf("Page %d of %d · Generated on %s", number, of, r.GeneratedAt.Format("2006-01-02 15:04"))
}

// counts describes the report content, like "3 expenses, 1 loan, no company records".
func counts(r *tracker.Report) string {
	plural := func(n int, one, many string) string {
		switch n {
		case 0:
			return "no " + many
		case 1:
			return "1 " + one
		default:
			return humanize.Comma(int64(n)) + " " + many
		}
	}
	return fmt.Sprintf("%s, %s, %s",
		plural(len(r.Expenses), "expense", "expenses"),
		plural(len(r.Loans), "loan", "loans"),
		plural(len(r.CompanyRecords), "company record", "company records"))
}
