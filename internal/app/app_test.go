package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"juros-justos/internal/analytics"
	"juros-justos/internal/config"
	"juros-justos/internal/storage/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, ok := NewTracker(config.Config{}, logger).(*analytics.LogTracker)
	assert.True(t, ok)

	_, ok = NewTracker(config.Config{AnalyticsURL: "https://collector.example/e"}, logger).(*analytics.HTTPCollector)
	assert.True(t, ok)
}

func TestOpenLeadStorageSupabase(t *testing.T) {
	t.Parallel()

	store, closeFn, err := OpenLeadStorage(context.Background(), config.Config{
		LeadsBackend: config.BackendSupabase,
		SupabaseURL:  "https://xyz.supabase.co",
		SupabaseKey:  "anon",
	})
	require.NoError(t, err)
	defer closeFn()

	_, ok := store.(*supabase.Client)
	assert.True(t, ok)
}

func TestOpenLeadStorageErrors(t *testing.T) {
	t.Parallel()

	_, _, err := OpenLeadStorage(context.Background(), config.Config{LeadsBackend: "mongo"})
	require.Error(t, err)

	_, _, err = OpenLeadStorage(context.Background(), config.Config{
		LeadsBackend: config.BackendSupabase,
		SupabaseURL:  "not a url",
		SupabaseKey:  "anon",
	})
	require.Error(t, err)

	_, _, err = OpenLeadStorage(context.Background(), config.Config{
		LeadsBackend: config.BackendPostgres,
		DBConn:       "::not-a-dsn::",
	})
	require.Error(t, err)
}
