package tracker

import "fmt"

// Kind names a collection of the Store.
type Kind string

const (
	KindExpenses       Kind = "expenses"
	KindLoans          Kind = "loans"
	KindCompanyRecords Kind = "companyRecords"
)

// Kinds lists every collection kind in display order.
var Kinds = []Kind{KindExpenses, KindLoans, KindCompanyRecords}

// ParseKind accepts the storage key and a few command line spellings.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "expenses", "expense":
		return KindExpenses, nil
	case "loans", "loan":
		return KindLoans, nil
	case "companyRecords", "company-records", "company":
		return KindCompanyRecords, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
	}
}

// Singular returns a human name for one record of the kind.
func (k Kind) Singular() string {
	switch k {
	case KindExpenses:
		return "expense"
	case KindLoans:
		return "loan"
	case KindCompanyRecords:
		return "company record"
	default:
		return string(k)
	}
}

func (k Kind) String() string { return string(k) }
