package venmo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL  = "https://venmo.com"
	statementPath   = "/transaction-history/statement"
	queryDateLayout = "01-02-2006"
)

// Fetcher is the transport the client needs.
type Fetcher interface {
	Get(ctx context.Context, url string, headers http.Header) ([]byte, error)
}

// Account identifies whose statement is fetched.
type Account struct {
	ProfileID uint64
	APIToken  string
}

type Client struct {
	fetcher Fetcher
	baseURL string
}

func NewClient(fetcher Fetcher, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{fetcher: fetcher, baseURL: baseURL}
}

func (c *Client) statementURL(account Account, start, end time.Time) string {
	q := url.Values{}
	q.Set("startDate", start.Format(queryDateLayout))
	q.Set("endDate", end.Format(queryDateLayout))
	q.Set("profileId", strconv.FormatUint(account.ProfileID, 10))
	q.Set("accountType", "personal")

	return c.baseURL + statementPath + "?" + q.Encode()
}

// FetchStatementBytes downloads the raw CSV export for the date range.
func (c *Client) FetchStatementBytes(ctx context.Context, account Account, start, end time.Time) ([]byte, error) {
	headers := http.Header{}
	headers.Set("Cookie", "api_access_token="+account.APIToken)

	body, err := c.fetcher.Get(ctx, c.statementURL(account, start, end), headers)
	if err != nil {
		return nil, fmt.Errorf("failed to get Venmo statement: %w", err)
	}

	return body, nil
}

// FetchStatement downloads and parses the statement for the date range.
func (c *Client) FetchStatement(ctx context.Context, account Account, start, end time.Time) (Statement, error) {
	body, err := c.FetchStatementBytes(ctx, account, start, end)
	if err != nil {
		return Statement{}, err
	}

	statement, err := ParseStatement(body)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to parse Venmo statement for profile %d: %w", account.ProfileID, err)
	}

	return statement, nil
}
