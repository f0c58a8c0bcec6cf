package remote_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/mutker/pgscout/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	body := remote.Encode([]remote.Sample{
		{Name: "multixact_members_bytes", Value: 950, Strategy: "aurora_members", Timestamp: at},
		{Name: "wal_bytes", Value: 16777216, Strategy: "ls_waldir", Timestamp: at},
	})

	assert.Contains(t, body, `pgscout_multixact_members_bytes{strategy="aurora_members"} 950 1700000000000`)
	assert.Contains(t, body, `pgscout_wal_bytes{strategy="ls_waldir"} 1.6777216e+07 1700000000000`)
}

func TestPush(t *testing.T) {
	var gotMethod, gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	pusher := remote.NewPusher(server.URL, nil)
	err := pusher.Push(context.Background(), []remote.Sample{
		{Name: "database_bytes", Value: 42, Strategy: "pg_database_size", Timestamp: time.UnixMilli(1)},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Contains(t, gotContentType, "text/plain")
	assert.Contains(t, gotBody, `pgscout_database_bytes{strategy="pg_database_size"} 42 1`)
}

func TestPushEmptyIsNoop(t *testing.T) {
	pusher := remote.NewPusher("http://localhost:1", nil)
	assert.NoError(t, pusher.Push(context.Background(), nil))
}

func TestPushServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "workspace not found", http.StatusNotFound)
	}))
	defer server.Close()

	pusher := remote.NewPusher(server.URL, nil)
	err := pusher.Push(context.Background(), []remote.Sample{
		{Name: "wal_bytes", Value: 1, Strategy: "ls_waldir", Timestamp: time.Now()},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace not found")
}

func TestPushCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pusher := remote.NewPusher(server.URL, nil)
	err := pusher.Push(ctx, []remote.Sample{
		{Name: "wal_bytes", Value: 1, Strategy: "ls_waldir", Timestamp: time.Now()},
	})
	assert.Error(t, err)
}
