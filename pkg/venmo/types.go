package venmo

import (
	"fmt"
	"strconv"
	"time"
)

type TransactionType int

const (
	Charge TransactionType = iota
	Payment
	StandardTransfer
	MerchantTransaction
)

var transactionTypes = map[string]TransactionType{
	"Charge":               Charge,
	"Payment":              Payment,
	"Standard Transfer":    StandardTransfer,
	"Merchant Transaction": MerchantTransaction,
}

func ParseTransactionType(s string) (TransactionType, error) {
	if t, ok := transactionTypes[s]; ok {
		return t, nil
	}

	return 0, fmt.Errorf("unexpected Venmo transaction type: %q", s)
}

func (t TransactionType) String() string {
	for name, v := range transactionTypes {
		if v == t {
			return name
		}
	}

	return fmt.Sprintf("TransactionType(%d)", int(t))
}

type TransactionStatus int

const (
	Complete TransactionStatus = iota
	Issued
)

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch s {
	case "Complete":
		return Complete, nil
	case "Issued":
		return Issued, nil
	}

	return 0, fmt.Errorf("unexpected Venmo transaction status: %q", s)
}

func (s TransactionStatus) String() string {
	switch s {
	case Complete:
		return "Complete"
	case Issued:
		return "Issued"
	}

	return fmt.Sprintf("TransactionStatus(%d)", int(s))
}

// Transaction is a statement row that carried every field a transaction needs. Optional
// columns stay nil when the export left them empty.
type Transaction struct {
	ID            uint64
	Datetime      time.Time
	Type          TransactionType
	Status        TransactionStatus
	Note          *string
	From          *string
	To            *string
	AmountTotal   Amount
	FundingSource *string
	Destination   *string
}

// Statement holds the balances bracketing the export and the transactions between them, in
// the order Venmo listed them.
type Statement struct {
	BeginningBalance Amount
	EndingBalance    Amount
	Transactions     []Transaction
}

// NewTransaction lifts a raw record into a Transaction. The returned error names the first
// required field that is missing and carries a copy of the record.
func NewTransaction(record RawRecord) (Transaction, error) {
	switch {
	case record.ID == nil:
		return Transaction{}, &InvalidRecordError{Field: "id", Record: record}
	case record.Datetime == nil:
		return Transaction{}, &InvalidRecordError{Field: "datetime", Record: record}
	case record.Type == nil:
		return Transaction{}, &InvalidRecordError{Field: "type", Record: record}
	case record.Status == nil:
		return Transaction{}, &InvalidRecordError{Field: "status", Record: record}
	case record.AmountTotal == nil:
		return Transaction{}, &InvalidRecordError{Field: "amount_total", Record: record}
	}

	return Transaction{
		ID:            *record.ID,
		Datetime:      record.Datetime.UTC(),
		Type:          *record.Type,
		Status:        *record.Status,
		Note:          record.Note,
		From:          record.From,
		To:            record.To,
		AmountTotal:   *record.AmountTotal,
		FundingSource: record.FundingSource,
		Destination:   record.Destination,
	}, nil
}

func (t Transaction) String() string {
	deref := func(s *string) string {
		if s == nil {
			return "<none>"
		}
		return strconv.Quote(*s)
	}

	return fmt.Sprintf(
		"Transaction{ID: %d, Datetime: %s, Type: %s, Status: %s, Note: %s, From: %s, To: %s, AmountTotal: %s, FundingSource: %s, Destination: %s}",
		t.ID, t.Datetime.Format(time.RFC3339), t.Type, t.Status, deref(t.Note), deref(t.From), deref(t.To),
		t.AmountTotal, deref(t.FundingSource), deref(t.Destination),
	)
}
