// Package ynab provides a client for the YNAB budgeting API, the ledger
// where investment transactions are read and value adjustments posted.
//
// Amounts are exchanged in milliunits, as the API does.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/etnz/invest"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the YNAB API v1 endpoint.
const DefaultBaseURL = "https://api.ynab.com/v1"

var (
	// ErrUnauthorized is returned when the access token is missing, invalid
	// or expired.
	ErrUnauthorized = errors.New("ynab: unauthorized")
	// ErrNotFound is returned when the budget or account does not exist.
	ErrNotFound = errors.New("ynab: not found")
)

// APIError is an error response of the API.
type APIError struct {
	Status int    // HTTP status code.
	ID     string `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ynab: %d %s: %s", e.Status, e.Name, e.Detail)
}

// Unwrap maps the status to ErrUnauthorized or ErrNotFound.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Client is the YNAB API client. It implements invest.LedgerAPI.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new YNAB client authenticated by a personal access
// token. An empty baseURL means DefaultBaseURL.
func NewClient(token, baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("component", "ynab").Logger(),
	}
}

var _ invest.LedgerAPI = (*Client)(nil)

// Budget fetches a budget summary.
func (c *Client) Budget(ctx context.Context, budgetID string) (invest.Budget, error) {
	var resp budgetResponse
	if err := c.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(budgetID), nil, &resp); err != nil {
		return invest.Budget{}, err
	}
	b := resp.Data.Budget
	return invest.Budget{ID: b.ID, Name: b.Name, Currency: b.CurrencyFormat.ISOCode}, nil
}

// Accounts fetches all the accounts of a budget, closed and deleted ones
// included.
func (c *Client) Accounts(ctx context.Context, budgetID string) ([]invest.Account, error) {
	var resp accountsResponse
	if err := c.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(budgetID)+"/accounts", nil, &resp); err != nil {
		return nil, err
	}
	accounts := make([]invest.Account, 0, len(resp.Data.Accounts))
	for _, a := range resp.Data.Accounts {
		accounts = append(accounts, invest.Account{
			ID:      a.ID,
			Name:    a.Name,
			Note:    a.Note,
			Closed:  a.Closed,
			Deleted: a.Deleted,
		})
	}
	return accounts, nil
}

// Transactions fetches the whole transaction history of an account.
func (c *Client) Transactions(ctx context.Context, budgetID, accountID string) ([]invest.Transaction, error) {
	var resp transactionsResponse
	path := "/budgets/" + url.PathEscape(budgetID) + "/accounts/" + url.PathEscape(accountID) + "/transactions"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Transactions, nil
}

// Submit creates all adjustments in a single request.
func (c *Client) Submit(ctx context.Context, budgetID string, adjustments []invest.Adjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	body := saveTransactions{Transactions: adjustments}
	var resp saveResponse
	if err := c.do(ctx, http.MethodPost, "/budgets/"+url.PathEscape(budgetID)+"/transactions", body, &resp); err != nil {
		return err
	}
	c.log.Debug().Int("created", len(resp.Data.TransactionIDs)).Msg("Transactions created")
	if len(resp.Data.DuplicateImportIDs) > 0 {
		c.log.Warn().Strs("duplicates", resp.Data.DuplicateImportIDs).Msg("Duplicate transactions ignored")
	}
	return nil
}

// do performs an API request, encoding body as JSON when not nil, and
// decoding the response into data.
func (c *Client) do(ctx context.Context, method, path string, body, data any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ynab: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("ynab: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("Request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ynab: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ynab: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Name: http.StatusText(resp.StatusCode)}
		var e errorResponse
		if json.Unmarshal(content, &e) == nil && e.Error != nil {
			e.Error.Status = resp.StatusCode
			apiErr = e.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(content, data); err != nil {
		return fmt.Errorf("ynab: failed to decode %s response: %w", path, err)
	}
	return nil
}
