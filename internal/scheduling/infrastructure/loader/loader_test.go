package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterJSON = `[
	{"id": "w1", "name": "Ann", "email": "a@example.com", "tier": 1, "is_commuter": true, "is_active": true, "desired_hours": 15,
	 "busy_intervals": [{"date": "2026-01-06", "start": "09:00", "end": "11:00"}]},
	{"id": "w2", "name": "Bob", "email": "b@example.com", "tier": 3, "is_commuter": false, "is_active": true, "desired_hours": 15}
]`

func TestFileLoader_LoadParsesRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, writeFile(path, rosterJSON))

	l := loader.NewFileLoader(path)
	roster, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, roster.Len())
	w1, ok := roster.ByID("w1")
	require.True(t, ok)
	assert.True(t, w1.IsCommuter)
	require.Len(t, w1.BusyIntervals, 1)
}

func TestFileLoader_LoadMissingFile(t *testing.T) {
	l := loader.NewFileLoader(filepath.Join(t.TempDir(), "missing.json"))
	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestFileLoader_LoadRejectsInvalidWorker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, writeFile(path, `[{"id":"w1","tier":9,"desired_hours":15}]`))

	l := loader.NewFileLoader(path)
	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestHTTPLoader_LoadFetchesAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(rosterJSON))
	}))
	defer server.Close()

	l := loader.NewHTTPLoader(server.URL)
	roster, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, roster.Len())
}

func TestHTTPLoader_LoadNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	l := loader.NewHTTPLoader(server.URL)
	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
