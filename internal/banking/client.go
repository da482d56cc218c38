// Package banking is the REST client for non-real-time banking data:
// balances, transactions, profile, and the money-moving endpoints the
// assistant's approved actions ultimately hit. Plain request/response; the
// conversational core never calls it.
package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/liminalcash/nimchat/internal/auth"
)

const defaultBaseURL = "https://api.liminal.cash"

// APIError is a non-2xx response from the banking API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
}

// Client talks to the Liminal banking API with bearer auth.
type Client struct {
	baseURL string
	tokens  auth.TokenProvider
	http    *http.Client
}

// New creates a banking client. baseURL may be empty to use the production
// endpoint.
func New(baseURL string, tokens auth.TokenProvider) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.tokens.Token())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Balance fetches the wallet balance.
func (c *Client) Balance(ctx context.Context) (*BalanceResponse, error) {
	var out BalanceResponse
	if err := c.request(ctx, http.MethodGet, "/v1/tools/get_balance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavingsBalance fetches the savings balance and vault positions.
func (c *Client) SavingsBalance(ctx context.Context) (*SavingsBalanceResponse, error) {
	var out SavingsBalanceResponse
	if err := c.request(ctx, http.MethodGet, "/v1/tools/get_savings_balance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VaultRates fetches the current savings vault rates.
func (c *Client) VaultRates(ctx context.Context) (*VaultRatesResponse, error) {
	var out VaultRatesResponse
	if err := c.request(ctx, http.MethodGet, "/v1/tools/get_vault_rates", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transactions fetches one page of transaction history.
func (c *Client) Transactions(ctx context.Context, page, limit int) (*TransactionsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	path := "/v1/tools/get_transactions?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	var out TransactionsResponse
	if err := c.request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.request(ctx, http.MethodGet, "/v1/tools/get_profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers looks up recipients by name or email.
func (c *Client) SearchUsers(ctx context.Context, query string) (*SearchUsersResponse, error) {
	path := "/v1/tools/search_users?q=" + url.QueryEscape(query)
	var out SearchUsersResponse
	if err := c.request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMoney transfers funds to another user.
func (c *Client) SendMoney(ctx context.Context, req SendMoneyRequest) (*ActionResponse, error) {
	var out ActionResponse
	if err := c.request(ctx, http.MethodPost, "/v1/tools/send_money", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DepositSavings moves funds from the wallet into a savings vault.
func (c *Client) DepositSavings(ctx context.Context, req SavingsActionRequest) (*ActionResponse, error) {
	var out ActionResponse
	if err := c.request(ctx, http.MethodPost, "/v1/tools/deposit_savings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WithdrawSavings moves funds from a savings vault back to the wallet.
func (c *Client) WithdrawSavings(ctx context.Context, req SavingsActionRequest) (*ActionResponse, error) {
	var out ActionResponse
	if err := c.request(ctx, http.MethodPost, "/v1/tools/withdraw_savings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
