package diag

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metailurini/sqlcontext/config"
	"github.com/metailurini/sqlcontext/dbcontext"
	"github.com/metailurini/sqlcontext/storage"
	"github.com/metailurini/sqlcontext/timeprovider"
)

func TestRecordClockDrift_SQLite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := dbcontext.PrepareContextFrom(context.Background(), config.MapProvider{}, dbcontext.BuildOptions{
		Dialect:  storage.SQLite,
		Database: filepath.Join(t.TempDir(), "drift.db"),
	}, dbcontext.Config{Logger: logger})
	require.NoError(t, err)
	defer c.Close()

	appNow := time.Now().Add(-time.Hour)
	drift, err := RecordClockDrift(context.Background(), c, timeprovider.FixedProvider{T: appNow}, logger)

	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), drift.Seconds(), 60)
	assert.Zero(t, c.OpenConnections())
}

func TestParseServerTime(t *testing.T) {
	want := time.Date(2026, 10, 18, 9, 30, 15, 250_000_000, time.UTC)

	for name, in := range map[string]any{
		"time":    want,
		"rfc3339": "2026-10-18T09:30:15.250Z",
		"bytes":   []byte("2026-10-18 09:30:15.25"),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := parseServerTime(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	_, err := parseServerTime(int64(3))
	assert.Error(t, err)
	_, err = parseServerTime("yesterday")
	assert.Error(t, err)
}

func TestParseServerTime_ZonelessTextIsUTC(t *testing.T) {
	got, err := parseServerTime([]byte("2026-10-18 09:30:15.000000"))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(time.Date(2026, 10, 18, 9, 30, 15, 0, time.UTC)))
}
