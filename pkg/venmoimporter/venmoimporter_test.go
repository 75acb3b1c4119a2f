package venmoimporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bcaldwell/venmosync/pkg/config"
	"github.com/bcaldwell/venmosync/pkg/lunchmoney"
	"github.com/bcaldwell/venmosync/pkg/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStatement = `Account Statement - (@Jane-Doe) ,,,
Account Activity,,,
,ID,Datetime,Type,Status,Note,From,To,Amount (total),Amount (tip),Amount (fee),Funding Source,Destination,Beginning Balance,Ending Balance,Statement Period Venmo Fees,Terminal Location,Year to Date Venmo Fees,Disclaimer
,,,,,,,,,,,,,$10.00,,,,,
,3001,2022-06-01T10:00:00,Payment,Complete,pizza,Jane Doe,Pizza Pal,- $12.50,,,Chase Checking,,,,,Venmo,,
,3002,2022-06-02T18:30:00,Payment,Complete,rent,Bob,Jane Doe,+ $20.00,,,,,,,,Venmo,,
,,,,,,,,,,,,,,$17.50,$0.00,,$0.00,In case of errors
`

type fakeServers struct {
	t            *testing.T
	mu           sync.Mutex
	venmoQueries []string
	cookies      []string
	batches      [][]lunchmoney.Transaction
	nextID       int64
	rejectInsert bool
	statement    string
}

func newFakeServers(t *testing.T) (*fakeServers, *httptest.Server) {
	f := &fakeServers{t: t, nextID: 100}

	mux := http.NewServeMux()
	mux.HandleFunc("/transaction-history/statement", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.venmoQueries = append(f.venmoQueries, r.URL.RawQuery)
		f.cookies = append(f.cookies, r.Header.Get("Cookie"))
		body := f.statement
		f.mu.Unlock()
		if body == "" {
			body = testStatement
		}
		w.Write([]byte(body))
	})
	mux.HandleFunc("/v1/assets", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"assets":[{"id":7,"name":"Chequing","display_name":"Chequing","currency":"usd"},{"id":42,"name":"Venmo","display_name":"My Venmo","currency":"usd","balance":"17.5000","type_name":"cash"}]}`))
	})
	mux.HandleFunc("/v1/transactions", func(w http.ResponseWriter, r *http.Request) {
		if f.rejectInsert {
			t.Errorf("unexpected insert request")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var request lunchmoney.InsertTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("failed to decode insert request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.batches = append(f.batches, request.Transactions)

		ids := make([]int64, len(request.Transactions))
		for i := range ids {
			ids[i] = f.nextID
			f.nextID++
		}
		json.NewEncoder(w).Encode(lunchmoney.InsertTransactionResponse{IDs: ids})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func testConfig(baseURL string) (config.Config, config.Secrets) {
	conf := config.Default()
	conf.Venmo.ProfileID = 1234
	conf.Venmo.BaseURL = baseURL
	conf.LunchMoney.BaseURL = baseURL
	conf.LunchMoney.AssetName = "My Venmo"
	conf.LunchMoney.BatchSize = 2

	secrets := config.Secrets{
		Venmo:      config.VenmoSecrets{APIToken: "venmo-token"},
		LunchMoney: config.LunchMoneySecrets{AccessToken: "lm-token"},
	}
	return conf, secrets
}

func newTestRunner(t *testing.T, conf config.Config, secrets config.Secrets, srv *httptest.Server, options Options) *ImportVenmoRunner {
	importer, err := newImportVenmoRunner(conf, secrets, srv.Client(), options)
	require.NoError(t, err)

	importer.now = func() time.Time { return time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC) }
	importer.runID = func() string { return "run-1" }
	return importer
}

func TestRunSubmitsEntriesInBatches(t *testing.T) {
	f, srv := newFakeServers(t)
	conf, secrets := testConfig(srv.URL)

	importer := newTestRunner(t, conf, secrets, srv, Options{
		Start: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC),
	})

	result, err := importer.RunContext(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, 10.0, result.Statement.BeginningBalance.Value)
	assert.Equal(t, 17.5, result.Statement.EndingBalance.Value)
	assert.Len(t, result.Statement.Transactions, 2)
	assert.Len(t, result.Entries, 3)
	assert.Equal(t, []int64{100, 101, 102}, result.IDs)

	require.Len(t, f.venmoQueries, 1)
	assert.Contains(t, f.venmoQueries[0], "startDate=06-01-2022")
	assert.Contains(t, f.venmoQueries[0], "endDate=06-15-2022")
	assert.Contains(t, f.venmoQueries[0], "profileId=1234")
	assert.Equal(t, "api_access_token=venmo-token", f.cookies[0])

	require.Len(t, f.batches, 2)
	assert.Len(t, f.batches[0], 2)
	assert.Len(t, f.batches[1], 1)

	primary := f.batches[0][0]
	assert.Equal(t, "Pizza Pal", *primary.Payee)
	assert.Equal(t, lunchmoney.Amount(-12.5), primary.Amount)
	assert.Equal(t, "3001", *primary.ExternalID)
	assert.Equal(t, int64(42), *primary.AssetID)
	assert.Equal(t, "usd", *primary.Currency)

	funding := f.batches[0][1]
	assert.Equal(t, "TRANSFER FROM Chase Checking", *funding.Payee)
	assert.Equal(t, lunchmoney.Amount(12.5), funding.Amount)
	assert.Equal(t, "3001T", *funding.ExternalID)

	assert.Equal(t, "Bob", *f.batches[1][0].Payee)
	assert.Equal(t, "3002", *f.batches[1][0].ExternalID)
}

func TestRunUsesLookbackWindow(t *testing.T) {
	f, srv := newFakeServers(t)
	conf, secrets := testConfig(srv.URL)
	conf.Venmo.LookbackDays = 10
	conf.LunchMoney.AssetID = 42

	importer := newTestRunner(t, conf, secrets, srv, Options{})

	_, err := importer.RunContext(context.Background())
	require.NoError(t, err)

	require.Len(t, f.venmoQueries, 1)
	assert.Contains(t, f.venmoQueries[0], "startDate=06-20-2022")
	assert.Contains(t, f.venmoQueries[0], "endDate=06-30-2022")
}

func TestRunDryRunPrintsEntries(t *testing.T) {
	f, srv := newFakeServers(t)
	f.rejectInsert = true
	conf, secrets := testConfig(srv.URL)

	out := &bytes.Buffer{}
	importer := newTestRunner(t, conf, secrets, srv, Options{DryRun: true, Out: out})

	result, err := importer.RunContext(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Entries, 3)
	assert.Empty(t, result.IDs)
	assert.Contains(t, out.String(), `"payee": "Pizza Pal"`)
	assert.Contains(t, out.String(), `"external_id": "3001T"`)
	assert.Contains(t, out.String(), `"date": "2022-06-01"`)
}

func TestRunCurrencyMismatchSubmitsNothing(t *testing.T) {
	f, srv := newFakeServers(t)
	f.rejectInsert = true
	conf, secrets := testConfig(srv.URL)
	conf.Venmo.Currency = "EUR"

	importer := newTestRunner(t, conf, secrets, srv, Options{})

	_, err := importer.RunContext(context.Background())
	require.Error(t, err)

	var mismatch *normalizer.CurrencyMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "€", mismatch.ExpectedMarker)
	assert.Equal(t, "$", mismatch.ActualMarker)
}

func TestRunUnknownAssetName(t *testing.T) {
	_, srv := newFakeServers(t)
	conf, secrets := testConfig(srv.URL)
	conf.LunchMoney.AssetName = "Missing"

	importer := newTestRunner(t, conf, secrets, srv, Options{})

	_, err := importer.RunContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Missing"`)
}

func TestNewImportVenmoRunnerRejectsUnknownCurrency(t *testing.T) {
	conf, secrets := testConfig("http://localhost")
	conf.Venmo.Currency = "XYZ"

	_, err := newImportVenmoRunner(conf, secrets, http.DefaultClient, Options{})
	assert.Error(t, err)
}

func TestListAssets(t *testing.T) {
	_, srv := newFakeServers(t)

	out := &bytes.Buffer{}
	err := newListAssetsRunner(srv.Client(), srv.URL, "lm-token", out).Run()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "My Venmo")
	assert.Contains(t, lines[2], "17.5000")
}

const emptyStatement = `Account Statement - (@Jane-Doe) ,,,
Account Activity,,,
,ID,Datetime,Type,Status,Note,From,To,Amount (total),Amount (tip),Amount (fee),Funding Source,Destination,Beginning Balance,Ending Balance,Statement Period Venmo Fees,Terminal Location,Year to Date Venmo Fees,Disclaimer
,,,,,,,,,,,,,$10.00,,,,,
,,,,,,,,,,,,,,$10.00,$0.00,,$0.00,In case of errors
`

func TestRunDryRunEmptyStatement(t *testing.T) {
	f, srv := newFakeServers(t)
	f.rejectInsert = true
	f.statement = emptyStatement
	conf, secrets := testConfig(srv.URL)

	out := &bytes.Buffer{}
	importer := newTestRunner(t, conf, secrets, srv, Options{DryRun: true, Out: out})

	result, err := importer.RunContext(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Statement.Transactions)
	assert.Equal(t, "[]\n", out.String())
}
