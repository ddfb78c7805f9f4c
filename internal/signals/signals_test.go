package signals

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/signals", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme Corp", req.CompanyName)
		assert.Equal(t, "acme.com", req.Domain)
		assert.Equal(t, 5, req.MaxSignals, "defaults when caller passes zero")

		_, _ = w.Write([]byte(`{"signals":["Acme opened a new plant"],"debug":{"queries":3}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	resp, err := c.Generate(context.Background(), Request{CompanyName: "Acme Corp", Domain: "acme.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme opened a new plant"}, resp.Signals)
	assert.EqualValues(t, 3, resp.Debug["queries"])
}

func TestGenerate_Unconfigured(t *testing.T) {
	c := NewClient("", "")
	_, err := c.Generate(context.Background(), Request{CompanyName: "Acme"})
	assert.Error(t, err)
}

func TestGenerate_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Generate(context.Background(), Request{CompanyName: "Acme"})
	assert.Error(t, err)
}
