// Package normalizer turns Venmo transactions into Lunch Money transactions.
//
// A transaction becomes one primary entry for the Venmo asset, plus a shadow transfer entry
// when the money came from an external funding source and another when it went out to an
// external destination. All entries of a transaction share its date and asset and carry
// distinct external ids, so Lunch Money can deduplicate them on every re-run.
package normalizer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bcaldwell/venmosync/pkg/currency"
	"github.com/bcaldwell/venmosync/pkg/lunchmoney"
	"github.com/bcaldwell/venmosync/pkg/venmo"
)

// VenmoBalance is the funding source and destination name Venmo uses for the account's own
// balance. Money moving to or from it needs no shadow entry.
const VenmoBalance = "Venmo balance"

const (
	transferToPrefix   = "TRANSFER TO "
	transferFromPrefix = "TRANSFER FROM "

	fundingSuffix     = "T"
	destinationSuffix = "TDEPOSIT"
)

// payeeSource names the transaction field a payee is read from.
type payeeSource struct {
	field  string
	prefix string
	value  func(venmo.Transaction) *string
}

var (
	fromField        = payeeSource{field: "from", value: func(t venmo.Transaction) *string { return t.From }}
	toField          = payeeSource{field: "to", value: func(t venmo.Transaction) *string { return t.To }}
	destinationField = payeeSource{field: "destination", prefix: transferToPrefix, value: func(t venmo.Transaction) *string { return t.Destination }}
)

// payeeRule picks the payee source by the sign of the amount. Zero counts as positive.
type payeeRule struct {
	description string
	positive    payeeSource
	negative    payeeSource
}

var payeeRules = map[venmo.TransactionType]payeeRule{
	venmo.StandardTransfer: {
		description: "'Transaction Type' is set to 'Standard Transfer'",
		positive:    destinationField,
		negative:    destinationField,
	},
	venmo.Charge: {
		description: "'Transaction Type' is set to 'Charge'",
		positive:    toField,
		negative:    fromField,
	},
	venmo.Payment: {
		description: "'Transaction Type' is set to 'Payment' or 'Merchant Transaction'",
		positive:    fromField,
		negative:    toField,
	},
	venmo.MerchantTransaction: {
		description: "'Transaction Type' is set to 'Payment' or 'Merchant Transaction'",
		positive:    fromField,
		negative:    toField,
	},
}

func resolvePayee(t venmo.Transaction) (string, error) {
	rule, ok := payeeRules[t.Type]
	if !ok {
		return "", fmt.Errorf("no payee rule for transaction type %s", t.Type)
	}

	source, sign := rule.positive, "positive"
	if math.Signbit(t.AmountTotal.Value) {
		source, sign = rule.negative, "negative"
	}

	value := source.value(t)
	if value == nil {
		description := rule.description
		if rule.positive.field != rule.negative.field {
			description += " and 'Amount' is " + sign
		}
		return "", &InvalidTransactionError{Field: source.field, Rule: description, Transaction: t}
	}

	return source.prefix + *value, nil
}

// Normalize maps one Venmo transaction onto Lunch Money entries for assetID. The amount's
// marker must match expected's symbol; nothing is built otherwise.
func Normalize(t venmo.Transaction, expected currency.Currency, assetID int64) ([]lunchmoney.Transaction, error) {
	if t.AmountTotal.Currency != expected.Symbol {
		return nil, &CurrencyMismatchError{
			ExpectedMarker: expected.Symbol,
			ExpectedCode:   expected.IsoAlphaCode,
			ActualMarker:   t.AmountTotal.Currency,
		}
	}

	payee, err := resolvePayee(t)
	if err != nil {
		return nil, err
	}

	id := strconv.FormatUint(t.ID, 10)
	amount := t.AmountTotal.Value

	newEntry := func(payee string, amount float64, note *string, externalID string) lunchmoney.Transaction {
		code := expected.LowerCode()
		asset := assetID
		return lunchmoney.Transaction{
			Date:       t.Datetime,
			Payee:      &payee,
			Amount:     lunchmoney.Amount(amount),
			Currency:   &code,
			Notes:      note,
			AssetID:    &asset,
			ExternalID: &externalID,
			Status:     lunchmoney.StatusUncleared,
		}
	}

	entries := []lunchmoney.Transaction{newEntry(payee, amount, copyString(t.Note), id)}

	if isExternal(t.FundingSource) {
		entries = append(entries, newEntry(
			transferFromPrefix+*t.FundingSource,
			-amount,
			quoteNote("To fund Venmo transaction with note: '%s'", t.Note),
			id+fundingSuffix,
		))
	}

	// a standard transfer already paid its destination in the primary entry
	if isExternal(t.Destination) && t.Type != venmo.StandardTransfer {
		entries = append(entries, newEntry(
			transferToPrefix+*t.Destination,
			-amount,
			quoteNote("From Venmo transaction with note: '%s'", t.Note),
			id+destinationSuffix,
		))
	}

	return entries, nil
}

// NormalizeAll normalizes transactions in order and stops at the first failure.
func NormalizeAll(transactions []venmo.Transaction, expected currency.Currency, assetID int64) ([]lunchmoney.Transaction, error) {
	entries := make([]lunchmoney.Transaction, 0, len(transactions))
	for i, t := range transactions {
		e, err := Normalize(t, expected, assetID)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize transaction %d (id %d): %w", i, t.ID, err)
		}
		entries = append(entries, e...)
	}

	return entries, nil
}

func isExternal(account *string) bool {
	return account != nil && *account != "" && *account != VenmoBalance
}

func quoteNote(format string, note *string) *string {
	if note == nil {
		return nil
	}

	s := fmt.Sprintf(format, *note)
	return &s
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}

	c := *s
	return &c
}
