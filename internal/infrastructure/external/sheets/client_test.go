package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sozow-hub/mentor-match/internal/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("sheet-123", "test-key")
	cfg.BaseURL = server.URL
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	return NewClient(cfg, nil)
}

func TestClient_Values(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/sheet-123/values/students!A1:Z", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "ROWS", r.URL.Query().Get("majorDimension"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"range": "students!A1:Z",
			"majorDimension": "ROWS",
			"values": [["id", "name"], ["S-001", "はると"]]
		}`))
	})

	values, err := client.Values(context.Background(), "students!A1:Z")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"id", "name"}, {"S-001", "はると"}}, values)
}

func TestClient_ValuesRetriesServerErrors(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"range": "x", "majorDimension": "ROWS", "values": [["ok"]]}`))
	})

	values, err := client.Values(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, [][]string{{"ok"}}, values)
}

func TestClient_ValuesRateLimited(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.Values(context.Background(), "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrSheetsRateLimited)
	assert.True(t, shared.IsExternalService(err))
}

func TestClient_ValuesPermanentError(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "API key invalid", "status": "PERMISSION_DENIED"}}`))
	})

	_, err := client.Values(context.Background(), "x")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
}
