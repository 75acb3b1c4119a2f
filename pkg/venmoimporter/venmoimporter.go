package venmoimporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bcaldwell/venmosync/pkg/config"
	"github.com/bcaldwell/venmosync/pkg/currency"
	"github.com/bcaldwell/venmosync/pkg/influxutils"
	"github.com/bcaldwell/venmosync/pkg/ledgerstore"
	"github.com/bcaldwell/venmosync/pkg/lunchmoney"
	"github.com/bcaldwell/venmosync/pkg/normalizer"
	"github.com/bcaldwell/venmosync/pkg/postgresutils"
	"github.com/bcaldwell/venmosync/pkg/transport"
	"github.com/bcaldwell/venmosync/pkg/venmo"
	"github.com/google/uuid"
	influxdb "github.com/influxdata/influxdb/client/v2"
	"github.com/uptrace/bun"
)

const (
	LedgerLunchMoney = "lunchmoney"
	LedgerPostgres   = "postgres"
)

// Options are the per invocation settings that come from the command line.
type Options struct {
	// Start and End override the lookback window when both are set
	Start  time.Time
	End    time.Time
	DryRun bool
	Out    io.Writer
}

type ImportVenmoRunner struct {
	venmoClient *venmo.Client
	lunchMoney  *lunchmoney.Client
	ledger      lunchmoney.Ledger
	ledgerName  string
	db          *bun.DB
	influx      influxdb.Client

	account  venmo.Account
	currency currency.Currency
	conf     config.Config
	options  Options

	now   func() time.Time
	runID func() string
}

// RunResult is what a single run did.
type RunResult struct {
	RunID     string
	Statement venmo.Statement
	Entries   []lunchmoney.Transaction
	IDs       []int64
}

func NewImportVenmoRunner(options Options) (*ImportVenmoRunner, error) {
	conf := config.CurrentConfig()
	timeout := time.Duration(conf.LunchMoney.HTTPTimeoutSeconds) * time.Second

	importer, err := newImportVenmoRunner(*conf, *config.CurrentSecrets(), &http.Client{Timeout: timeout}, options)
	if err != nil {
		return nil, err
	}

	if conf.Ledger == LedgerPostgres && !options.DryRun {
		db, err := postgresutils.CreatePostgresClient(conf.SQL.Database)
		if err != nil {
			return nil, fmt.Errorf("Error connecting to postgres DB: %s", err)
		}

		store := ledgerstore.New(db, conf.SQL.EntriesTable)
		if err := store.Migrate(context.Background()); err != nil {
			db.Close()
			return nil, err
		}

		importer.db = db
		importer.ledger = store
		importer.ledgerName = LedgerPostgres
	}

	if influxutils.Enabled() && !options.DryRun {
		influxClient, err := influxutils.CreateInfluxClient()
		if err != nil {
			importer.Close()
			return nil, fmt.Errorf("Error creating InfluxDB Client: %s", err)
		}

		if err := influxutils.CreateDatabase(influxClient, conf.Influx.Database); err != nil {
			influxClient.Close()
			importer.Close()
			return nil, fmt.Errorf("Error creating InfluxDB database: %s", err)
		}
		importer.influx = influxClient
	}

	return importer, nil
}

// newImportVenmoRunner wires the HTTP clients. The Lunch Money client is the ledger until
// something else replaces it.
func newImportVenmoRunner(conf config.Config, secrets config.Secrets, httpClient *http.Client, options Options) (*ImportVenmoRunner, error) {
	cur, err := currency.Find(conf.Venmo.Currency)
	if err != nil {
		return nil, err
	}

	if options.Out == nil {
		options.Out = os.Stdout
	}

	lunchMoneyClient := lunchmoney.NewClient(
		transport.NewClient(httpClient, "lunchmoney"),
		conf.LunchMoney.BaseURL,
		secrets.LunchMoney.AccessToken,
		lunchmoney.InsertOptions{
			ApplyRules:        conf.LunchMoney.ApplyRules,
			CheckForRecurring: conf.LunchMoney.CheckForRecurring,
		},
	)

	return &ImportVenmoRunner{
		venmoClient: venmo.NewClient(transport.NewClient(httpClient, "venmo"), conf.Venmo.BaseURL),
		lunchMoney:  lunchMoneyClient,
		ledger:      lunchMoneyClient,
		ledgerName:  LedgerLunchMoney,
		account: venmo.Account{
			ProfileID: conf.Venmo.ProfileID,
			APIToken:  secrets.Venmo.APIToken,
		},
		currency: cur,
		conf:     conf,
		options:  options,
		now:      time.Now,
		runID:    uuid.NewString,
	}, nil
}

func (importer *ImportVenmoRunner) Run() error {
	_, err := importer.RunContext(context.Background())
	return err
}

func (importer *ImportVenmoRunner) Close() error {
	if importer.influx != nil {
		importer.influx.Close()
	}
	if importer.db != nil {
		return importer.db.Close()
	}
	return nil
}

func (importer *ImportVenmoRunner) RunContext(ctx context.Context) (RunResult, error) {
	result := RunResult{RunID: importer.runID()}
	logger := slog.With("run_id", result.RunID, "profile", importer.account.ProfileID)

	assetID, err := importer.resolveAssetID(ctx)
	if err != nil {
		return result, fmt.Errorf("Error resolving Lunch Money asset: %w", err)
	}

	start, end := importer.dateRange()
	logger.Info("Fetching Venmo statement", "start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))

	result.Statement, err = importer.venmoClient.FetchStatement(ctx, importer.account, start, end)
	if err != nil {
		return result, err
	}

	result.Entries, err = normalizer.NormalizeAll(result.Statement.Transactions, importer.currency, assetID)
	if err != nil {
		return result, err
	}

	logger.Info("Normalized Venmo statement",
		"beginning_balance", result.Statement.BeginningBalance.String(),
		"ending_balance", result.Statement.EndingBalance.String(),
		"transactions", len(result.Statement.Transactions),
		"entries", len(result.Entries),
	)

	if importer.options.DryRun {
		return result, importer.printEntries(result.Entries)
	}

	result.IDs, err = lunchmoney.SubmitBatches(ctx, importer.ledger, result.Entries, importer.conf.LunchMoney.BatchSize)
	if err != nil {
		return result, err
	}
	logger.Info("Submitted entries", "ledger", importer.ledgerName, "submitted", len(result.IDs))

	if err := importer.writeRunPoint(result); err != nil {
		return result, err
	}

	return result, nil
}

func (importer *ImportVenmoRunner) resolveAssetID(ctx context.Context) (int64, error) {
	if importer.conf.LunchMoney.AssetID != 0 {
		return importer.conf.LunchMoney.AssetID, nil
	}
	return importer.lunchMoney.FindAsset(ctx, importer.conf.LunchMoney.AssetName)
}

func (importer *ImportVenmoRunner) dateRange() (time.Time, time.Time) {
	if !importer.options.Start.IsZero() && !importer.options.End.IsZero() {
		return importer.options.Start, importer.options.End
	}

	end := importer.now()
	return end.AddDate(0, 0, -importer.conf.Venmo.LookbackDays), end
}

func (importer *ImportVenmoRunner) printEntries(entries []lunchmoney.Transaction) error {
	encoder := json.NewEncoder(importer.options.Out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func (importer *ImportVenmoRunner) writeRunPoint(result RunResult) error {
	if importer.influx == nil {
		return nil
	}

	pt, err := influxutils.NewRunPoint(importer.conf.Influx.Measurement, influxutils.RunSummary{
		RunID:            result.RunID,
		ProfileID:        importer.account.ProfileID,
		Currency:         importer.currency.IsoAlphaCode,
		Ledger:           importer.ledgerName,
		BeginningBalance: result.Statement.BeginningBalance.Value,
		EndingBalance:    result.Statement.EndingBalance.Value,
		Transactions:     len(result.Statement.Transactions),
		Entries:          len(result.Entries),
		Submitted:        len(result.IDs),
		Time:             importer.now(),
	})
	if err != nil {
		return err
	}

	return influxutils.WritePoint(importer.influx, importer.conf.Influx.Database, pt)
}
