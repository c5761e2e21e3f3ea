// Package format renders invoice numbers for display and persistence.
package format

import (
	"fmt"

	"github.com/smallbiznis/factura/internal/invoice/domain"
)

// Prefix maps a document kind to its fixed number prefix.
func Prefix(kind domain.DocumentKind) string {
	switch kind {
	case domain.DocumentKindAvoir:
		return "A-"
	case domain.DocumentKindProforma:
		return "P-"
	default:
		return ""
	}
}

// Number formats a persisted invoice number.
//
// The format is consumed bit-exact by external reporting and search:
// <prefix><YYYY>-<NNNNN>, running number zero-padded to 5 digits.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func Number(year int, number int64, kind domain.DocumentKind) (string, error) {
	if year < 1000 || year > 9999 {
		return "", fmt.Errorf("invalid invoice year: %d", year)
	}
	if number <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", number)
	}
	if !kind.Valid() {
		return "", domain.ErrInvalidKind
	}
	return fmt.Sprintf("%s%04d-%05d", Prefix(kind), year, number), nil
}
