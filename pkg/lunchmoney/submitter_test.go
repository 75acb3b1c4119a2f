package lunchmoney

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	batches [][]Transaction
	failOn  int
	nextID  int64
}

func (f *fakeLedger) InsertTransactions(ctx context.Context, transactions []Transaction) ([]int64, error) {
	f.batches = append(f.batches, transactions)
	if len(f.batches) == f.failOn {
		return nil, errors.New("rejected")
	}

	ids := make([]int64, len(transactions))
	for i := range transactions {
		f.nextID++
		ids[i] = f.nextID
	}
	return ids, nil
}

func entries(n int) []Transaction {
	out := make([]Transaction, n)
	for i := range out {
		id := fmt.Sprint(i)
		out[i] = Transaction{ExternalID: &id, Amount: Amount(i), Status: StatusUncleared}
	}
	return out
}

func TestSubmitBatches(t *testing.T) {
	ledger := &fakeLedger{}

	ids, err := SubmitBatches(context.Background(), ledger, entries(120), DefaultBatchSize)
	require.NoError(t, err)

	require.Len(t, ledger.batches, 3)
	assert.Len(t, ledger.batches[0], 50)
	assert.Len(t, ledger.batches[1], 50)
	assert.Len(t, ledger.batches[2], 20)
	assert.Equal(t, "50", *ledger.batches[1][0].ExternalID)
	assert.Equal(t, "119", *ledger.batches[2][19].ExternalID)

	require.Len(t, ids, 120)
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}
}

func TestSubmitBatchesEmpty(t *testing.T) {
	ledger := &fakeLedger{}

	ids, err := SubmitBatches(context.Background(), ledger, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, ledger.batches)
}

func TestSubmitBatchesStopsOnFailure(t *testing.T) {
	ledger := &fakeLedger{failOn: 2}

	ids, err := SubmitBatches(context.Background(), ledger, entries(120), 50)

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 1, batchErr.Batch)
	assert.Equal(t, 50, batchErr.Offset)
	assert.Len(t, batchErr.IDs, 50)
	assert.Len(t, ids, 50)
	// the third batch is never attempted
	assert.Len(t, ledger.batches, 2)
}
