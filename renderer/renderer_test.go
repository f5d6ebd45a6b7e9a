package renderer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func inr(v float64) tracker.Money { return tracker.M(v, "INR") }

func emptyReport() *tracker.Report {
	return &tracker.Report{
		Title:             tracker.DefaultReportTitle,
		GeneratedAt:       generatedAt,
		Currency:          "INR",
		Budget:            inr(0),
		TotalExpenses:     inr(0),
		RemainingBudget:   inr(0),
		TotalBorrowed:     inr(0),
		TotalLent:         inr(0),
		NetLoans:          inr(0),
		TotalCompanyMoney: inr(0),
	}
}

func sampleReport(expenses int) *tracker.Report {
	r := emptyReport()
	r.Budget = inr(1000)
	total := 0.0
	for i := range expenses {
		r.Expenses = append(r.Expenses, tracker.ExpenseLine{
			Date:      date.New(2024, 3, 15),
			Title:     fmt.Sprintf("Item %d", i+1),
			Quantity:  "2",
			Unit:      "kg",
			UnitPrice: inr(5),
			Amount:    inr(10),
		})
		total += 10
	}
	r.TotalExpenses = inr(total)
	r.RemainingBudget = inr(1000 - total)
	r.Loans = []tracker.LoanLine{{Date: date.New(2024, 3, 1), PersonName: "Asha", Type: tracker.Lent, Amount: inr(100)}}
	r.TotalLent = inr(100)
	return r
}

// writeSignature writes a tiny PNG image.
func writeSignature(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signature.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 2))))
	return path
}

func TestMarkdownPlaceholders(t *testing.T) {
	got := Markdown(emptyReport(), Options{})

	for _, want := range []string{
		"# Expense Report",
		"## Budget summary",
		"No expenses recorded",
		"No loans recorded",
		"No company records",
		"Page 1 of 1",
		"Generated on 2024-03-15 10:30",
		"no expenses, no loans, no company records",
	} {
		assert.Contains(t, got, want)
	}
}

func TestMarkdownContent(t *testing.T) {
	got := Markdown(sampleReport(2), Options{})

	assert.Contains(t, got, "Item 1")
	assert.Contains(t, got, "2 kg")
	assert.Contains(t, got, "₹20.00")
	assert.Contains(t, got, "₹980.00")
	assert.Contains(t, got, "Asha")
	assert.Contains(t, got, "2 expenses, 1 loan, no company records")
	assert.NotContains(t, got, "No expenses recorded")
}

func TestMarkdownPagination(t *testing.T) {
	got := Markdown(sampleReport(30), Options{RowsPerPage: 10})

	// 31 expense rows with the total, one loan, the company placeholder and
	// total: 2 rows fit next to the summary, then 10 per page.
	assert.Contains(t, got, "Page 1 of 5")
	assert.Contains(t, got, "Page 5 of 5")
	assert.NotContains(t, got, "Page 6")
	assert.Contains(t, got, "## Expenses (continued)")
	for i := 1; i <= 30; i++ {
		assert.Contains(t, got, fmt.Sprintf("Item %d ", i))
	}
}

func TestPaginate(t *testing.T) {
	ts := tables(sampleReport(3))
	pages := paginate(ts, DefaultRowsPerPage)
	require.Len(t, pages, 1)
	assert.Len(t, pages[0].parts, 3)

	pages = paginate(ts, summaryRows)
	require.Len(t, pages, 2, "the summary fills the first page")
	assert.Empty(t, pages[0].parts)
}

func TestSignature(t *testing.T) {
	path := writeSignature(t)

	got := Markdown(sampleReport(1), Options{SignaturePath: path})
	assert.Contains(t, got, "## Signature")
	assert.Contains(t, got, path)

	html, err := HTML(sampleReport(1), Options{SignaturePath: path})
	require.NoError(t, err)
	assert.Contains(t, html, "data:image/png;base64,")
}

func TestSignatureFailureIsAWarning(t *testing.T) {
	var warnings []error
	opts := Options{
		SignaturePath: filepath.Join(t.TempDir(), "missing.png"),
		Warn:          func(err error) { warnings = append(warnings, err) },
	}

	got := Markdown(sampleReport(1), opts)
	assert.NotContains(t, got, "Signature")

	_, err := HTML(sampleReport(1), opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleReport(1), opts))

	assert.Len(t, warnings, 3)
}

func TestHTML(t *testing.T) {
	got, err := HTML(sampleReport(30), Options{RowsPerPage: 10})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>"))
	assert.Equal(t, 5, strings.Count(got, `<section class="page">`))
	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<title>Expense Report</title>")
	assert.Contains(t, got, "Page 5 of 5")
}

func TestHTMLPlaceholders(t *testing.T) {
	got, err := HTML(emptyReport(), Options{})
	require.NoError(t, err)
	assert.Contains(t, got, "No expenses recorded")
	assert.Contains(t, got, "No loans recorded")
	assert.Contains(t, got, "No company records")
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleReport(2), Options{SignaturePath: writeSignature(t)}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summary", "Expenses", "Loans", "Company records"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Expense Report", title)

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header, two expenses and the total")
	assert.Equal(t, []string{"Date", "Item", "Quantity", "Unit", "Unit price", "Amount"}, rows[0])
	assert.Equal(t, "Item 1", rows[1][1])
	assert.Equal(t, "Total", rows[3][0])

	rows, err = f.GetRows("Company records")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "No company records", rows[1][0])
}

func TestXLSXPlaceholders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, emptyReport(), Options{}))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	for sheet, want := range map[string]string{
		"Expenses":        "No expenses recorded",
		"Loans":           "No loans recorded",
		"Company records": "No company records",
	} {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(rows), 2, sheet)
		assert.Equal(t, want, rows[1][0], sheet)
	}
}

func TestXLSXQuantityIsANumber(t *testing.T) {
	r := sampleReport(1)
	r.Expenses = append(r.Expenses, tracker.ExpenseLine{Date: date.New(2024, 3, 15), Title: "Bus ticket", Amount: inr(20)})

	expenses := sheets(r)[0]
	assert.Equal(t, 2.0, expenses.rows[0][2])
	assert.Equal(t, 5.0, expenses.rows[0][4])
	assert.Equal(t, "-", expenses.rows[1][2], "not itemized")
	assert.Equal(t, "-", expenses.rows[1][4])
}

func TestPipesDoNotSplitCells(t *testing.T) {
	r := emptyReport()
	r.CompanyRecords = []tracker.CompanyLine{{Date: date.New(2024, 3, 15), Description: "Ink | toner", Amount: inr(120)}}
	r.Loans = []tracker.LoanLine{{Date: date.New(2024, 3, 1), PersonName: "Asha|Ravi", Type: tracker.Lent, Amount: inr(100)}}
	r.TotalCompanyMoney = inr(120)
	r.TotalLent = inr(100)

	got := Markdown(r, Options{})
	assert.Contains(t, got, `| Ink \| toner | ₹120.00 |`)
	assert.Contains(t, got, `| Asha\|Ravi | lent | ₹100.00 |`)

	html, err := HTML(r, Options{})
	require.NoError(t, err)
	assert.Contains(t, html, ">Ink | toner</td>")
	assert.Contains(t, html, ">Asha|Ravi</td>")
	assert.NotContains(t, html, ">toner</td>")
}
