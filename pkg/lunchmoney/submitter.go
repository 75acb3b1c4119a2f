package lunchmoney

import (
	"context"
	"fmt"

	"k8s.io/klog"
)

// DefaultBatchSize is the most transactions Lunch Money takes per insert request.
const DefaultBatchSize = 50

// Ledger accepts batches of entries and returns the ids it stored them under, in order.
type Ledger interface {
	InsertTransactions(ctx context.Context, transactions []Transaction) ([]int64, error)
}

// BatchError reports the batch that failed. IDs holds what earlier batches already stored;
// those are not rolled back.
type BatchError struct {
	Batch  int
	Offset int
	Size   int
	IDs    []int64
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (entries %d-%d) failed after %d entries were stored: %v",
		e.Batch, e.Offset, e.Offset+e.Size-1, len(e.IDs), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// SubmitBatches sends entries in order, batchSize at a time, waiting for each batch before
// sending the next. The first failing batch stops the run.
func SubmitBatches(ctx context.Context, ledger Ledger, entries []Transaction, batchSize int) ([]int64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	ids := make([]int64, 0, len(entries))

	for i := 0; i < len(entries); i += batchSize {
		endIndex := min(len(entries), i+batchSize)
		batch := entries[i:endIndex]

		batchIDs, err := ledger.InsertTransactions(ctx, batch)
		if err != nil {
			return ids, &BatchError{Batch: i / batchSize, Offset: i, Size: len(batch), IDs: ids, Err: err}
		}

		ids = append(ids, batchIDs...)
		klog.Infof("Wrote batch %d with %d transactions\n", i/batchSize, len(batch))
	}

	return ids, nil
}
