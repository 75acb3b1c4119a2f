package lunchmoney

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type TransactionStatus string

const (
	StatusCleared            TransactionStatus = "cleared"
	StatusUncleared          TransactionStatus = "uncleared"
	StatusRecurring          TransactionStatus = "recurring"
	StatusRecurringSuggested TransactionStatus = "recurring_suggested"
)

// Amount is sent to Lunch Money with exactly four fractional digits.
type Amount float64

func (a Amount) String() string {
	return decimal.NewFromFloat(float64(a)).StringFixed(4)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid amount %s: %w", string(b), err)
	}

	f, _ := d.Float64()
	*a = Amount(f)
	return nil
}

// Tag object as described in https://lunchmoney.dev/#tags-object.
type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Transaction object as defined in https://lunchmoney.dev/#transaction-object. Only the fields
// this tool writes are modelled.
type Transaction struct {
	ID         int64             `json:"id,omitempty"`
	Date       time.Time         `json:"-"`
	Payee      *string           `json:"payee,omitempty"`
	Amount     Amount            `json:"amount"`
	Currency   *string           `json:"currency,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
	CategoryID *int64            `json:"category_id,omitempty"`
	AssetID    *int64            `json:"asset_id,omitempty"`
	Status     TransactionStatus `json:"status"`
	ExternalID *string           `json:"external_id,omitempty"`
	Tags       []Tag             `json:"tags,omitempty"`
}

type transactionJSON Transaction

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		transactionJSON
		Date string `json:"date"`
	}{transactionJSON(t), t.Date.Format(dateLayout)})
}

func (t *Transaction) UnmarshalJSON(b []byte) error {
	var raw struct {
		transactionJSON
		Date string `json:"date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*t = Transaction(raw.transactionJSON)
	if raw.Date == "" {
		return nil
	}

	date, err := time.Parse(dateLayout, raw.Date[:min(len(raw.Date), len(dateLayout))])
	if err != nil {
		return fmt.Errorf("invalid transaction date %q: %w", raw.Date, err)
	}
	t.Date = date
	return nil
}

// Asset object as defined in https://lunchmoney.dev/#assets-object.
type Asset struct {
	ID              int64  `json:"id"`
	TypeName        string `json:"type_name"`
	SubtypeName     string `json:"subtype_name"`
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	Balance         string `json:"balance"`
	Currency        string `json:"currency"`
	InstitutionName string `json:"institution_name"`
}

type GetAllAssetsResponse struct {
	Assets []Asset `json:"assets"`
}

type InsertTransactionRequest struct {
	Transactions      []Transaction `json:"transactions"`
	ApplyRules        *bool         `json:"apply_rules,omitempty"`
	SkipDuplicates    *bool         `json:"skip_duplicates,omitempty"`
	CheckForRecurring *bool         `json:"check_for_recurring,omitempty"`
	DebitAsNegative   *bool         `json:"debit_as_negative,omitempty"`
	SkipBalanceUpdate *bool         `json:"skip_balance_update,omitempty"`
}

type InsertTransactionResponse struct {
	IDs   []int64         `json:"ids"`
	Error json.RawMessage `json:"error,omitempty"`
}
