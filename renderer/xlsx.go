package renderer

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/etnz/tracker"
	"github.com/shopspring/decimal"
)

var (
	headerStyle = `{
		"border": [
			{"type": "left", "color": "#000000", "style": 1},
			{"type": "top", "color": "#000000", "style": 1},
			{"type": "right", "color": "#000000", "style": 1},
			{"type": "bottom", "color": "#000000", "style": 1}
		],
		"fill": {"type": "pattern", "pattern": 1, "color": ["#96b753"]},
		"font": {"bold": true},
		"alignment": {"horizontal": "center"}
	}`
	textStyle = `{
		"border": [
			{"type": "left", "color": "#000000", "style": 1},
			{"type": "top", "color": "#000000", "style": 1},
			{"type": "right", "color": "#000000", "style": 1},
			{"type": "bottom", "color": "#000000", "style": 1}
		]
	}`
	amountStyle = `{
		"border": [
			{"type": "left", "color": "#000000", "style": 1},
			{"type": "top", "color": "#000000", "style": 1},
			{"type": "right", "color": "#000000", "style": 1},
			{"type": "bottom", "color": "#000000", "style": 1}
		],
		"custom_number_format": "#,##0.00"
	}`
	titleStyle = `{"font": {"bold": true, "size": 16}}`
)

// styles are the style ids of a workbook.
type styles struct {
	header, text, amount, title int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	for _, st := range []struct {
		id   *int
		json string
	}{
		{&s.header, headerStyle},
		{&s.text, textStyle},
		{&s.amount, amountStyle},
		{&s.title, titleStyle},
	} {
		id, err := f.NewStyle(st.json)
		if err != nil {
			return s, err
		}
		*st.id = id
	}
	return s, nil
}

// XLSX writes the report as a workbook: a summary sheet, then one sheet per
// collection. Printed pages are numbered in the footer.
func XLSX(w io.Writer, r *tracker.Report, opts Options) error {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("cannot create styles: %w", err)
	}
	footer := &excelize.FormatHeaderFooter{
		OddFooter: fmt.Sprintf("&LGenerated on %s&RPage &P of &N", r.GeneratedAt.Format("2006-01-02 15:04")),
	}

	summarySheet := "Summary"
	f.NewSheet(summarySheet)
	// delete default sheet
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(f.GetSheetIndex(summarySheet))
	if err := writeSummary(f, summarySheet, r, st, opts); err != nil {
		return err
	}
	if err := f.SetHeaderFooter(summarySheet, footer); err != nil {
		return fmt.Errorf("cannot set footer: %w", err)
	}

	for _, sheet := range sheets(r) {
		f.NewSheet(sheet.name)
		if err := f.SetHeaderFooter(sheet.name, footer); err != nil {
			return fmt.Errorf("cannot set footer: %w", err)
		}
		if err := writeSheet(f, sheet, st); err != nil {
			return fmt.Errorf("cannot write %s: %w", sheet.name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, sheet string, r *tracker.Report, st styles, opts Options) error {
	rows := [][]interface{}{
		{"Budget", r.Budget},
		{"Total expenses", r.TotalExpenses},
		{"Remaining budget", r.RemainingBudget},
		{"Borrowed (you owe)", r.TotalBorrowed},
		{"Lent (owed to you)", r.TotalLent},
		{"Company money", r.TotalCompanyMoney},
	}
	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return err
	}
	set := func(cell string, value interface{}, style int) error {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, style)
	}
	if err := set("A1", r.Title, st.title); err != nil {
		return err
	}
	if !r.Range.IsZero() {
		if err := f.SetCellValue(sheet, "A2", "Period: "+r.Range.String()); err != nil {
			return err
		}
	}
	if err := set("A4", "", st.header); err != nil {
		return err
	}
	if err := set("B4", fmt.Sprintf("Amount (%s)", r.Currency), st.header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := set(fmt.Sprintf("A%d", i+5), row[0], st.text); err != nil {
			return err
		}
		if err := set(fmt.Sprintf("B%d", i+5), row[1].(tracker.Money).Decimal().InexactFloat64(), st.amount); err != nil {
			return err
		}
	}

	if opts.SignaturePath != "" {
		cell := fmt.Sprintf("A%d", len(rows)+7)
		if err := f.AddPicture(sheet, cell, opts.SignaturePath, ""); err != nil {
			opts.warn(fmt.Errorf("signature skipped: %w", err))
		}
	}
	return nil
}

// sheet is one collection as spreadsheet rows. Amount columns hold numbers.
type sheet struct {
	name    string
	header  []string
	widths  []float64
	amounts map[int]bool // column indexes of amounts
	rows    [][]interface{}
}

func sheets(r *tracker.Report) []sheet {
	value := func(m tracker.Money) float64 { return m.Decimal().InexactFloat64() }
	empty := func(text string, columns int) []interface{} {
		var row []interface{}
		for _, v := range placeholder(text, columns) {
			row = append(row, v)
		}
		return row
	}

	expenses := sheet{
		name:    "Expenses",
		header:  []string{"Date", "Item", "Quantity", "Unit", "Unit price", "Amount"},
		widths:  []float64{12, 32, 10, 10, 14, 14},
		amounts: map[int]bool{4: true, 5: true},
	}
	for _, e := range r.Expenses {
		row := []interface{}{e.Date.String(), e.Title, "-", e.Unit, "-", value(e.Amount)}
		if e.Quantity != "" {
			row[2] = e.Quantity
			if q, err := decimal.NewFromString(e.Quantity); err == nil {
				row[2] = q.InexactFloat64()
			}
			row[4] = value(e.UnitPrice)
		}
		expenses.rows = append(expenses.rows, row)
	}
	if len(r.Expenses) == 0 {
		expenses.rows = append(expenses.rows, empty("No expenses recorded", len(expenses.header)))
	}
	expenses.rows = append(expenses.rows, []interface{}{"Total", "", "", "", "", value(r.TotalExpenses)})

	loans := sheet{
		name:    "Loans",
		header:  []string{"Date", "Person", "Type", "Amount"},
		widths:  []float64{12, 24, 10, 14},
		amounts: map[int]bool{3: true},
	}
	for _, l := range r.Loans {
		loans.rows = append(loans.rows, []interface{}{l.Date.String(), l.PersonName, string(l.Type), value(l.Amount)})
	}
	if len(r.Loans) == 0 {
		loans.rows = append(loans.rows, empty("No loans recorded", len(loans.header)))
	}

	company := sheet{
		name:    "Company records",
		header:  []string{"Date", "Description", "Amount"},
		widths:  []float64{12, 40, 14},
		amounts: map[int]bool{2: true},
	}
	for _, c := range r.CompanyRecords {
		company.rows = append(company.rows, []interface{}{c.Date.String(), c.Description, value(c.Amount)})
	}
	if len(r.CompanyRecords) == 0 {
		company.rows = append(company.rows, empty("No company records", len(company.header)))
	}
	company.rows = append(company.rows, []interface{}{"Total", "", value(r.TotalCompanyMoney)})

	return []sheet{expenses, loans, company}
}

func writeSheet(f *excelize.File, s sheet, st styles) error {
	for i, width := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(s.name)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(s.header))
	for i, h := range s.header {
		header[i] = excelize.Cell{StyleID: st.header, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for n, values := range s.rows {
		row := make([]interface{}, len(values))
		for i, v := range values {
			style := st.text
			if _, isNumber := v.(float64); isNumber && s.amounts[i] {
				style = st.amount
			}
			row[i] = excelize.Cell{StyleID: style, Value: v}
		}
		cell, _ := excelize.CoordinatesToCellName(1, n+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}
