package banking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liminalcash/nimchat/internal/auth"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL, auth.Static("tok-abc"))
}

func TestBalance(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/tools/get_balance", r.URL.Path)
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"balance":100.5,"currency":"USD"}`))
	})

	got, err := c.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.5, got.Balance)
	assert.Equal(t, "USD", got.Currency)
}

func TestTransactionsPaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tools/get_transactions", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"transactions":[{"id":"t1","amount":-20,"currency":"USD","type":"send","status":"completed","description":"coffee","createdAt":"2026-08-30T10:00:00Z"}],"pagination":{"page":2,"limit":5,"total":11}}`))
	})

	got, err := c.Transactions(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, "send", got.Transactions[0].Type)
	assert.Equal(t, 11, got.Pagination.Total)
}

func TestTransactionsDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"transactions":[],"pagination":{"page":1,"limit":20,"total":0}}`))
	})

	_, err := c.Transactions(context.Background(), 0, 0)
	require.NoError(t, err)
}

func TestSearchUsersEscapesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a b&c", r.URL.Query().Get("q"))
		w.Write([]byte(`{"users":[]}`))
	})

	_, err := c.SearchUsers(context.Background(), "a b&c")
	require.NoError(t, err)
}

func TestSendMoney(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/tools/send_money", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"success":true,"transactionId":"tx-9"}`))
	})

	got, err := c.SendMoney(context.Background(), SendMoneyRequest{
		RecipientEmail: "a@b.com",
		Amount:         50,
	})
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Equal(t, "tx-9", got.TransactionID)
}

func TestAPIErrorMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	_, err := c.Balance(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
