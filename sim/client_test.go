package sim

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum-optimism/op-seatbelt/testlog"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestSimulateDecodesResult(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "1", req.NetworkID)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(&Result{
			Transaction: Transaction{Status: true, GasUsed: 21000},
		}))
	})
	client := NewClient(testlog.Logger(t, slog.LevelInfo), srv.URL, "test-key", []string{"1", "10"})
	result, err := client.Simulate(context.Background(), &Request{
		NetworkID: "1",
		To:        common.HexToAddress("0x0000000000000000000000000000000000000001"),
		Value:     "0",
	})
	require.NoError(t, err)
	require.True(t, result.Transaction.Status)
	require.Equal(t, uint64(21000), result.Transaction.GasUsed)
}

func TestSimulateRetriesRateLimit(t *testing.T) {
	var calls atomic.Int64
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(&Result{
			Transaction: Transaction{Status: true},
		}))
	})
	client := NewClient(testlog.Logger(t, slog.LevelInfo), srv.URL, "test-key", nil)
	result, err := client.Simulate(context.Background(), &Request{NetworkID: "1", Value: "0"})
	require.NoError(t, err)
	require.True(t, result.Transaction.Status)
	require.Equal(t, int64(2), calls.Load())
}

func TestSimulateServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	client := NewClient(testlog.Logger(t, slog.LevelInfo), srv.URL, "test-key", nil)
	_, err := client.Simulate(context.Background(), &Request{NetworkID: "1", Value: "0"})
	require.Error(t, err)
	require.Equal(t, int64(1), calls.Load())
}

func TestSupportsChain(t *testing.T) {
	client := NewClient(testlog.Logger(t, slog.LevelInfo), "http://localhost", "", []string{"1", "10", "8453"})
	require.True(t, client.SupportsChain("10"))
	require.False(t, client.SupportsChain("42161000"))
}
