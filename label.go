package tracker

import (
	"fmt"
	"strings"
)

// ComposeExpenseLabel builds the display title of an itemized expense.
func ComposeExpenseLabel(name, quantity, unit, unitPrice string) string {
	return fmt.Sprintf("%s (%s %s @ Rs%s per unit)", name, quantity, unit, unitPrice)
}

// ParseExpenseLabel decomposes a title built by ComposeExpenseLabel back into
// draft fields. Titles of any other shape return a *ParseError.
func ParseExpenseLabel(label string) (ExpenseDraft, error) {
	fail := func(reason string) (ExpenseDraft, error) {
		return ExpenseDraft{}, &ParseError{Title: label, Reason: reason}
	}

	open := strings.LastIndex(label, " (")
	if open < 0 || !strings.HasSuffix(label, ")") {
		return fail(`no "(...)" details`)
	}
	name := strings.TrimSpace(label[:open])
	details := label[open+2 : len(label)-1]
	if name == "" {
		return fail("empty name")
	}

	at := strings.LastIndex(details, " @ Rs")
	if at < 0 {
		return fail(`no " @ Rs" unit price`)
	}
	quantityAndUnit, price := details[:at], details[at+len(" @ Rs"):]

	price, ok := strings.CutSuffix(price, " per unit")
	if !ok {
		return fail(`no " per unit" suffix`)
	}

	quantity, unit, ok := strings.Cut(strings.TrimSpace(quantityAndUnit), " ")
	unit = strings.TrimSpace(unit)
	if !ok || unit == "" {
		return fail("quantity and unit must be separated by a space")
	}

	if _, err := parseDecimal("quantity", quantity); err != nil {
		return fail(err.Error())
	}
	if _, err := parseDecimal("unit price", price); err != nil {
		return fail(err.Error())
	}
	return ExpenseDraft{Title: name, Quantity: quantity, Unit: unit, UnitPrice: strings.TrimSpace(price)}, nil
}
