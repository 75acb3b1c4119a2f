package ledgerstore

import (
	"context"
	"testing"
	"time"

	"github.com/bcaldwell/venmosync/pkg/lunchmoney"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRows(t *testing.T) {
	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	date := time.Date(2021, 12, 31, 9, 0, 0, 0, time.UTC)
	payee := "Alice"
	currency := "usd"
	notes := "lunch"
	assetID := int64(5)
	externalID := "100T"

	rows, err := toRows([]lunchmoney.Transaction{{
		Date:       date,
		Payee:      &payee,
		Amount:     -5,
		Currency:   &currency,
		Notes:      &notes,
		AssetID:    &assetID,
		ExternalID: &externalID,
		Status:     lunchmoney.StatusUncleared,
	}}, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, SQLTransaction{
		ExternalID: "100T",
		Date:       date,
		Payee:      "Alice",
		Amount:     -5,
		Currency:   "usd",
		Notes:      "lunch",
		AssetID:    5,
		Status:     "uncleared",
		UpdatedAt:  now,
	}, rows[0])
}

func TestToRowsRequiresExternalID(t *testing.T) {
	_, err := toRows([]lunchmoney.Transaction{{Amount: 1}}, time.Now())
	assert.Error(t, err)
}

func TestInsertTransactionsEmptyBatch(t *testing.T) {
	ids, err := New(nil, "venmo_transactions").InsertTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
