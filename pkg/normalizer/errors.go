package normalizer

import (
	"fmt"

	"github.com/bcaldwell/venmosync/pkg/venmo"
)

// CurrencyMismatchError is returned when a transaction was printed with a different marker
// than the account currency uses.
type CurrencyMismatchError struct {
	ExpectedMarker string
	ExpectedCode   string
	ActualMarker   string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("expected currency marker %s for %s, got %s from Venmo", e.ExpectedMarker, e.ExpectedCode, e.ActualMarker)
}

// InvalidTransactionError is returned when the field a payee rule reads from is absent.
type InvalidTransactionError struct {
	Field       string
	Rule        string
	Transaction venmo.Transaction
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("expected field %s to be defined due to %s on transaction %v", e.Field, e.Rule, e.Transaction)
}
