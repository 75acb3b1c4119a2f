package venmo

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// HistoryUnavailableBanner is what Venmo sends back in place of a CSV when it could not build
// the export.
const HistoryUnavailableBanner = "Unable to fetch transaction history"

// preambleLines precede the CSV header in every export.
const preambleLines = 2

const datetimeLayout = "2006-01-02T15:04:05"

// Column names as they appear in the export header.
const (
	columnID               = "ID"
	columnDatetime         = "Datetime"
	columnType             = "Type"
	columnStatus           = "Status"
	columnNote             = "Note"
	columnFrom             = "From"
	columnTo               = "To"
	columnAmountTotal      = "Amount (total)"
	columnAmountTip        = "Amount (tip)"
	columnAmountFee        = "Amount (fee)"
	columnFundingSource    = "Funding Source"
	columnDestination      = "Destination"
	columnBeginningBalance = "Beginning Balance"
	columnEndingBalance    = "Ending Balance"
	columnStatementFees    = "Statement Period Venmo Fees"
	columnTerminalLocation = "Terminal Location"
	columnYearToDateFees   = "Year to Date Venmo Fees"
	columnDisclaimer       = "Disclaimer"
)

// RawRecord is one row of the export. Boundary rows and transaction rows share the layout so
// every field is optional; an empty cell decodes to nil.
type RawRecord struct {
	ID               *uint64
	Datetime         *time.Time
	Type             *TransactionType
	Status           *TransactionStatus
	Note             *string
	From             *string
	To               *string
	AmountTotal      *Amount
	FundingSource    *string
	Destination      *string
	BeginningBalance *Amount
	EndingBalance    *Amount

	// Statement metadata, kept verbatim and never interpreted.
	AmountTip        *string
	AmountFee        *string
	StatementFees    *string
	TerminalLocation *string
	YearToDateFees   *string
	Disclaimer       *string
}

// RecordReader pulls RawRecords out of an export one row at a time.
type RecordReader struct {
	reader *csv.Reader
	// map of header name to column index
	headerMap map[string]int
	row       int
}

// NewRecordReader checks for the error banner, drops the preamble and reads the header row.
// A body that ends before the header yields a reader with no records.
func NewRecordReader(data []byte) (*RecordReader, error) {
	if bytes.HasPrefix(data, []byte(HistoryUnavailableBanner)) {
		return nil, &HistoryUnavailableError{Body: string(data)}
	}

	buf := bufio.NewReader(bytes.NewReader(data))
	for i := 0; i < preambleLines; i++ {
		if _, err := buf.ReadString('\n'); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to skip line %d of Venmo statement: %w", i+1, err)
		}
	}

	reader := csv.NewReader(buf)
	// notes are free text and Venmo does not escape quotes in them
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return &RecordReader{reader: reader}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read Venmo statement header: %w", err)
	}

	return &RecordReader{reader: reader, headerMap: generateHeaderMap(header)}, nil
}

// Next returns the next record, or io.EOF once the table is exhausted. Any other error is
// fatal for the statement.
func (r *RecordReader) Next() (RawRecord, error) {
	if r.headerMap == nil {
		return RawRecord{}, io.EOF
	}

	line, err := r.reader.Read()
	if err == io.EOF {
		return RawRecord{}, io.EOF
	}
	r.row++
	if err != nil {
		return RawRecord{}, &RowError{Row: r.row, Err: err}
	}

	record, err := r.decode(line)
	if err != nil {
		return RawRecord{}, &RowError{Row: r.row, Err: err}
	}

	return record, nil
}

// ReadAll drains the reader.
func (r *RecordReader) ReadAll() ([]RawRecord, error) {
	var records []RawRecord
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		} else if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func (r *RecordReader) decode(line []string) (RawRecord, error) {
	var record RawRecord
	var err error

	if s := r.getKey(line, columnID); s != nil {
		id, parseErr := strconv.ParseUint(*s, 10, 64)
		if parseErr != nil {
			return record, fmt.Errorf("invalid %s %q: %w", columnID, *s, parseErr)
		}
		record.ID = &id
	}

	if s := r.getKey(line, columnDatetime); s != nil {
		t, parseErr := time.ParseInLocation(datetimeLayout, *s, time.UTC)
		if parseErr != nil {
			return record, fmt.Errorf("invalid %s %q: %w", columnDatetime, *s, parseErr)
		}
		record.Datetime = &t
	}

	if s := r.getKey(line, columnType); s != nil {
		t, parseErr := ParseTransactionType(*s)
		if parseErr != nil {
			return record, parseErr
		}
		record.Type = &t
	}

	if s := r.getKey(line, columnStatus); s != nil {
		status, parseErr := ParseTransactionStatus(*s)
		if parseErr != nil {
			return record, parseErr
		}
		record.Status = &status
	}

	if record.AmountTotal, err = r.getAmount(line, columnAmountTotal); err != nil {
		return record, err
	}
	if record.BeginningBalance, err = r.getAmount(line, columnBeginningBalance); err != nil {
		return record, err
	}
	if record.EndingBalance, err = r.getAmount(line, columnEndingBalance); err != nil {
		return record, err
	}

	record.Note = r.getKey(line, columnNote)
	record.From = r.getKey(line, columnFrom)
	record.To = r.getKey(line, columnTo)
	record.FundingSource = r.getKey(line, columnFundingSource)
	record.Destination = r.getKey(line, columnDestination)
	record.AmountTip = r.getKey(line, columnAmountTip)
	record.AmountFee = r.getKey(line, columnAmountFee)
	record.StatementFees = r.getKey(line, columnStatementFees)
	record.TerminalLocation = r.getKey(line, columnTerminalLocation)
	record.YearToDateFees = r.getKey(line, columnYearToDateFees)
	record.Disclaimer = r.getKey(line, columnDisclaimer)

	return record, nil
}

func (r *RecordReader) getAmount(line []string, column string) (*Amount, error) {
	s := r.getKey(line, column)
	if s == nil {
		return nil, nil
	}

	amount, err := ParseAmount(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", column, err)
	}

	return &amount, nil
}

// getKey returns the cell under column, or nil when the column is unknown or the cell empty.
func (r *RecordReader) getKey(line []string, column string) *string {
	i, ok := r.headerMap[column]
	if !ok || i >= len(line) || line[i] == "" {
		return nil
	}

	s := line[i]
	return &s
}

func generateHeaderMap(header []string) map[string]int {
	m := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := m[h]; !ok {
			m[h] = i
		}
	}
	return m
}

// String renders the populated fields, for error messages.
func (r RawRecord) String() string {
	parts := []string{}
	add := func(name string, value any) {
		parts = append(parts, fmt.Sprintf("%s: %v", name, value))
	}

	if r.ID != nil {
		add(columnID, *r.ID)
	}
	if r.Datetime != nil {
		add(columnDatetime, r.Datetime.Format(datetimeLayout))
	}
	if r.Type != nil {
		add(columnType, *r.Type)
	}
	if r.Status != nil {
		add(columnStatus, *r.Status)
	}
	if r.Note != nil {
		add(columnNote, strconv.Quote(*r.Note))
	}
	if r.From != nil {
		add(columnFrom, *r.From)
	}
	if r.To != nil {
		add(columnTo, *r.To)
	}
	if r.AmountTotal != nil {
		add(columnAmountTotal, *r.AmountTotal)
	}
	if r.FundingSource != nil {
		add(columnFundingSource, *r.FundingSource)
	}
	if r.Destination != nil {
		add(columnDestination, *r.Destination)
	}
	if r.BeginningBalance != nil {
		add(columnBeginningBalance, *r.BeginningBalance)
	}
	if r.EndingBalance != nil {
		add(columnEndingBalance, *r.EndingBalance)
	}

	return "RawRecord{" + strings.Join(parts, ", ") + "}"
}
