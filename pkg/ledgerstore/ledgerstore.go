// Package ledgerstore keeps ledger entries in Postgres. It takes the same batches the Lunch
// Money client does and upserts them by external id, so repeated runs update rows in place.
package ledgerstore

import (
	"context"
	"fmt"
	"time"

	"github.com/bcaldwell/venmosync/pkg/lunchmoney"
	"github.com/bcaldwell/venmosync/pkg/postgresutils"
	"github.com/uptrace/bun"
	"k8s.io/klog"
)

type SQLTransaction struct {
	bun.BaseModel `bun:"table:venmo_transactions"`
	ID            int64  `bun:",pk,autoincrement"`
	ExternalID    string `bun:",unique,notnull"`
	Date          time.Time
	Payee         string
	Amount        float64
	Currency      string
	Notes         string `bun:"type:text"`
	AssetID       int64
	Status        string
	UpdatedAt     time.Time
}

type Store struct {
	db        *bun.DB
	tableName string
}

func New(db *bun.DB, tableName string) *Store {
	return &Store{db: db, tableName: tableName}
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SQLTransaction)(nil)).
		ModelTableExpr(s.tableName).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create %s table: %w", s.tableName, err)
	}
	return nil
}

// InsertTransactions upserts one batch and returns the row ids in input order.
func (s *Store) InsertTransactions(ctx context.Context, transactions []lunchmoney.Transaction) ([]int64, error) {
	if len(transactions) == 0 {
		return []int64{}, nil
	}

	rows, err := toRows(transactions, time.Now())
	if err != nil {
		return nil, err
	}

	model := (*SQLTransaction)(nil)
	_, err = s.db.NewInsert().
		Model(&rows).
		ModelTableExpr(s.tableName).
		On("CONFLICT (external_id) DO UPDATE").
		Set(postgresutils.TableSetString(s.db, model, "id", "external_id")).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("error writing transactions to sql: %w", err)
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	klog.Infof("Wrote %d transactions to sql table %s\n", len(rows), s.tableName)
	return ids, nil
}

func toRows(transactions []lunchmoney.Transaction, now time.Time) ([]SQLTransaction, error) {
	rows := make([]SQLTransaction, 0, len(transactions))

	for i, t := range transactions {
		if t.ExternalID == nil || *t.ExternalID == "" {
			return nil, fmt.Errorf("transaction %d has no external id to upsert on", i)
		}

		row := SQLTransaction{
			ExternalID: *t.ExternalID,
			Date:       t.Date,
			Amount:     float64(t.Amount),
			Status:     string(t.Status),
			UpdatedAt:  now,
		}
		if t.Payee != nil {
			row.Payee = *t.Payee
		}
		if t.Currency != nil {
			row.Currency = *t.Currency
		}
		if t.Notes != nil {
			row.Notes = *t.Notes
		}
		if t.AssetID != nil {
			row.AssetID = *t.AssetID
		}

		rows = append(rows, row)
	}

	return rows, nil
}
