package influxutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/bcaldwell/venmosync/pkg/config"
	influxdb "github.com/influxdata/influxdb/client/v2"
)

// Enabled reports whether an Influx endpoint is configured.
func Enabled() bool {
	return config.CurrentInfluxSecrets().InfluxEndpoint != ""
}

func CreateInfluxClient() (influxdb.Client, error) {
	secrets := config.CurrentInfluxSecrets()
	return influxdb.NewHTTPClient(influxdb.HTTPConfig{
		Addr:     secrets.InfluxEndpoint,
		Username: secrets.InfluxUsername,
		Password: secrets.InfluxPassword,
	})
}

func CreateDatabase(influxClient influxdb.Client, name string) error {
	name = strings.Split(name, " ")[0]

	q := influxdb.NewQuery(fmt.Sprintf("CREATE DATABASE %s", name), "", "")
	response, err := influxClient.Query(q)
	if err != nil {
		return err
	}
	return response.Error()
}

// WritePoint writes a single point at second precision.
func WritePoint(influxClient influxdb.Client, database string, pt *influxdb.Point) error {
	bp, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("Error creating InfluxDB point batch: %w", err)
	}

	bp.AddPoint(pt)

	if err := influxClient.Write(bp); err != nil {
		return fmt.Errorf("Error writing to influx: %w", err)
	}
	return nil
}

// RunSummary is what one sync run reports.
type RunSummary struct {
	RunID            string
	ProfileID        uint64
	Currency         string
	Ledger           string
	BeginningBalance float64
	EndingBalance    float64
	Transactions     int
	Entries          int
	Submitted        int
	Time             time.Time
}

func NewRunPoint(measurement string, summary RunSummary) (*influxdb.Point, error) {
	tags := map[string]string{
		"profile":  fmt.Sprint(summary.ProfileID),
		"currency": summary.Currency,
		"ledger":   summary.Ledger,
	}

	fields := map[string]interface{}{
		"run_id":            summary.RunID,
		"beginning_balance": summary.BeginningBalance,
		"ending_balance":    summary.EndingBalance,
		"transactions":      summary.Transactions,
		"entries":           summary.Entries,
		"submitted":         summary.Submitted,
	}

	pt, err := influxdb.NewPoint(measurement, tags, fields, summary.Time)
	if err != nil {
		return nil, fmt.Errorf("Error adding new point: %w", err)
	}
	return pt, nil
}
