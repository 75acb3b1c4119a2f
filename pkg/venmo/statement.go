package venmo

import (
	"errors"
	"io"
)

const (
	BoundaryBeginningBalance = "beginning balance"
	BoundaryEndingBalance    = "ending balance"
)

// RecordSource yields raw records in export order and io.EOF once exhausted.
type RecordSource interface {
	Next() (RawRecord, error)
}

// peekableSource buffers at most one record so the assembler can tell whether the record in
// hand is the last one.
type peekableSource struct {
	source  RecordSource
	peeked  *RawRecord
	peekErr error
}

func (p *peekableSource) next() (RawRecord, error) {
	if p.peeked != nil || p.peekErr != nil {
		record, err := p.peeked, p.peekErr
		p.peeked, p.peekErr = nil, nil
		if err != nil {
			return RawRecord{}, err
		}
		return *record, nil
	}

	return p.source.Next()
}

// hasNext reports whether another record follows. A decode error on the following row counts
// as a following record; the error is returned by the next call to next.
func (p *peekableSource) hasNext() bool {
	if p.peeked != nil || p.peekErr != nil {
		return !errors.Is(p.peekErr, io.EOF)
	}

	record, err := p.source.Next()
	if err != nil {
		p.peekErr = err
		return !errors.Is(err, io.EOF)
	}

	p.peeked = &record
	return true
}

// AssembleStatement walks the records once. The first record must carry the beginning
// balance, the last the ending balance, and everything between must be a valid transaction.
func AssembleStatement(source RecordSource) (Statement, error) {
	records := &peekableSource{source: source}

	beginning, err := records.next()
	if errors.Is(err, io.EOF) {
		return Statement{}, &MissingBoundaryError{Boundary: BoundaryBeginningBalance}
	} else if err != nil {
		return Statement{}, err
	}

	if beginning.BeginningBalance == nil {
		return Statement{}, &MissingBoundaryError{Boundary: BoundaryBeginningBalance, Record: &beginning}
	}

	statement := Statement{
		BeginningBalance: *beginning.BeginningBalance,
		Transactions:     []Transaction{},
	}

	for {
		record, err := records.next()
		if errors.Is(err, io.EOF) {
			return Statement{}, &MissingBoundaryError{Boundary: BoundaryEndingBalance}
		} else if err != nil {
			return Statement{}, err
		}

		// no record follows, so this one closes the statement
		if !records.hasNext() {
			if record.EndingBalance == nil {
				return Statement{}, &MissingBoundaryError{Boundary: BoundaryEndingBalance, Record: &record}
			}

			statement.EndingBalance = *record.EndingBalance
			return statement, nil
		}

		transaction, err := NewTransaction(record)
		if err != nil {
			return Statement{}, err
		}

		statement.Transactions = append(statement.Transactions, transaction)
	}
}

// ParseStatement tokenizes a raw export and assembles it into a Statement.
func ParseStatement(data []byte) (Statement, error) {
	reader, err := NewRecordReader(data)
	if err != nil {
		return Statement{}, err
	}

	return AssembleStatement(reader)
}
