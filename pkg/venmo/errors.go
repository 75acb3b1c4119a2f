package venmo

import "fmt"

// AmountParseError is returned when an amount column does not look like [sign][marker][number].
type AmountParseError struct {
	Value string
}

func (e *AmountParseError) Error() string {
	return fmt.Sprintf("failed to parse Venmo amount: %q", e.Value)
}

// HistoryUnavailableError is returned when Venmo answered with its error banner instead of a
// statement export.
type HistoryUnavailableError struct {
	Body string
}

func (e *HistoryUnavailableError) Error() string {
	return fmt.Sprintf("Venmo transaction history request failed: %q", e.Body)
}

// RowError wraps a failure to decode a single statement row. Row is 1-based and counts data
// rows after the header.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("failed to decode statement row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// MissingBoundaryError is returned when the first or last record of a statement does not carry
// the balance it should.
type MissingBoundaryError struct {
	Boundary string
	Record   *RawRecord
}

func (e *MissingBoundaryError) Error() string {
	if e.Record == nil {
		return fmt.Sprintf("expected %s record, found none", e.Boundary)
	}
	return fmt.Sprintf("expected %s to be set on record %+v", e.Boundary, *e.Record)
}

// InvalidRecordError is returned when a transaction row lacks one of the fields every
// transaction must have.
type InvalidRecordError struct {
	Field  string
	Record RawRecord
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("expected field %s to be defined on record %+v", e.Field, e.Record)
}
