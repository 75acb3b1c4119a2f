package lunchmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const DefaultBaseURL = "https://dev.lunchmoney.app"

// Transport is the byte level HTTP collaborator.
type Transport interface {
	Get(ctx context.Context, url string, headers http.Header) ([]byte, error)
	Post(ctx context.Context, url string, headers http.Header, body []byte) ([]byte, error)
}

// InsertOptions are passed through on every insert request.
type InsertOptions struct {
	ApplyRules        bool
	CheckForRecurring bool
}

type Client struct {
	transport Transport
	baseURL   string
	apiToken  string
	options   InsertOptions
}

func NewClient(transport Transport, baseURL, apiToken string, options InsertOptions) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		transport: transport,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiToken:  apiToken,
		options:   options,
	}
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.apiToken)
	return h
}

func (c *Client) GetAllAssets(ctx context.Context) ([]Asset, error) {
	body, err := c.transport.Get(ctx, c.baseURL+"/v1/assets", c.headers())
	if err != nil {
		return nil, fmt.Errorf("failed to get Lunch Money assets: %w", err)
	}

	var response GetAllAssetsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode Lunch Money assets: %w", err)
	}

	return response.Assets, nil
}

// FindAsset returns the id of the asset whose name or display name matches.
func (c *Client) FindAsset(ctx context.Context, name string) (int64, error) {
	assets, err := c.GetAllAssets(ctx)
	if err != nil {
		return 0, err
	}

	for _, asset := range assets {
		if asset.Name == name || asset.DisplayName == name {
			return asset.ID, nil
		}
	}

	return 0, fmt.Errorf("unable to find Lunch Money asset named %q", name)
}

// InsertTransactions inserts one batch and returns the ids Lunch Money assigned, in order.
func (c *Client) InsertTransactions(ctx context.Context, transactions []Transaction) ([]int64, error) {
	debitAsNegative := true
	request := InsertTransactionRequest{
		Transactions:      transactions,
		ApplyRules:        &c.options.ApplyRules,
		CheckForRecurring: &c.options.CheckForRecurring,
		DebitAsNegative:   &debitAsNegative,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode Lunch Money transactions: %w", err)
	}

	headers := c.headers()
	headers.Set("Content-Type", "application/json; charset=utf-8")

	body, err := c.transport.Post(ctx, c.baseURL+"/v1/transactions", headers, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to insert Lunch Money transactions: %w", err)
	}

	var response InsertTransactionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode Lunch Money insert response: %w", err)
	}

	if len(response.Error) > 0 && string(response.Error) != "null" {
		return nil, fmt.Errorf("Lunch Money rejected transactions: %s", string(response.Error))
	}

	return response.IDs, nil
}
