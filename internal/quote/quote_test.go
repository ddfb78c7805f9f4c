package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchQuote_ComputesChangePercent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/ACME", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`[{"symbol":"ACME","exchange":"NASDAQ","price":103.337,"previousClose":100.0,"currency":"USD"}]`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	q, err := c.FetchQuote(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME", q.Ticker)
	assert.Equal(t, "NASDAQ", q.Exchange)
	assert.Equal(t, 103.337, q.Price)
	assert.Equal(t, 3.34, q.ChangePercent)
	assert.Equal(t, "USD", q.Currency)
}

func TestFetchQuote_DefaultsCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"symbol":"ACME","price":50,"previousClose":60}]`))
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	q, err := c.FetchQuote(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, -16.67, q.ChangePercent)
}

func TestFetchQuote_IncompleteData(t *testing.T) {
	cases := map[string]string{
		"missing price":    `[{"symbol":"ACME","previousClose":100}]`,
		"missing previous": `[{"symbol":"ACME","price":100}]`,
		"zero previous":    `[{"symbol":"ACME","price":100,"previousClose":0}]`,
		"empty array":      `[]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			}))
			defer srv.Close()

			c := NewClient("", WithBaseURL(srv.URL))
			q, err := c.FetchQuote(context.Background(), "ACME")
			assert.Error(t, err)
			assert.Nil(t, q)
		})
	}
}

func TestFetchQuote_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	_, err := c.FetchQuote(context.Background(), "ACME")
	assert.Error(t, err)
}

func TestFetchQuote_EmptyTicker(t *testing.T) {
	c := NewClient("")
	_, err := c.FetchQuote(context.Background(), "  ")
	assert.Error(t, err)
}
