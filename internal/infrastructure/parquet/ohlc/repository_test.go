package ohlc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/history/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_StoreAndGetBars(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(t.TempDir())

	require.NoError(t, repo.StoreBars(ctx, "eurusd", "1h", []bar.Bar{
		{Time: 1699999200000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 1},
		{Time: 1699992000000, Open: 0.9, High: 1, Low: 0.8, Close: 1, Volume: 2},
	}))
	require.NoError(t, repo.StoreBars(ctx, "EURUSD", "1h", []bar.Bar{
		{Time: 1699999200000, Open: 1, High: 3, Low: 0.5, Close: 2.5, Volume: 9},
		{Time: 1700002800000, Open: 2.5, High: 2.5, Low: 2.5, Close: 2.5},
	}))

	testCases := []struct {
		name     string
		query    v1.Query
		expected []bar.Bar
	}{
		{
			name: "full range ascending with replaced bucket",
			query: v1.Query{Symbol: "EURUSD", Interval: "1h", From: time.Unix(0, 0), To: time.Unix(1800000000, 0)},
			expected: []bar.Bar{
				{Time: 1699992000000, Open: 0.9, High: 1, Low: 0.8, Close: 1, Volume: 2},
				{Time: 1699999200000, Open: 1, High: 3, Low: 0.5, Close: 2.5, Volume: 9},
				{Time: 1700002800000, Open: 2.5, High: 2.5, Low: 2.5, Close: 2.5},
			},
		},
		{
			name:  "inclusive bounds",
			query: v1.Query{Symbol: "EURUSD", Interval: "1h", From: time.Unix(1699999200, 0), To: time.Unix(1700002800, 0)},
			expected: []bar.Bar{
				{Time: 1699999200000, Open: 1, High: 3, Low: 0.5, Close: 2.5, Volume: 9},
				{Time: 1700002800000, Open: 2.5, High: 2.5, Low: 2.5, Close: 2.5},
			},
		},
		{
			name:  "limit keeps newest",
			query: v1.Query{Symbol: "EURUSD", Interval: "1h", From: time.Unix(0, 0), To: time.Unix(1800000000, 0), Limit: 1},
			expected: []bar.Bar{
				{Time: 1700002800000, Open: 2.5, High: 2.5, Low: 2.5, Close: 2.5},
			},
		},
		{
			name:     "other interval has no file",
			query:    v1.Query{Symbol: "EURUSD", Interval: "1d", From: time.Unix(0, 0), To: time.Unix(1800000000, 0)},
			expected: []bar.Bar{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bars, err := repo.GetBars(ctx, tc.query)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, bars)
		})
	}
}

func TestRepository_LayoutAndErrors(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(dir)

	require.NoError(t, repo.StoreBars(context.Background(), "btcusdt", "1m", []bar.Bar{{Time: 60000, Open: 1, High: 1, Low: 1, Close: 1}}))
	_, err := os.Stat(filepath.Join(dir, "BTCUSDT", "1m.parquet"))
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "BTCUSDT", "5m.parquet"), []byte("not parquet"), 0o644))
	_, err = repo.GetBars(context.Background(), v1.Query{Symbol: "BTCUSDT", Interval: "5m", To: time.Now()})
	assert.ErrorContains(t, err, "failed to read parquet bars")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.GetBars(ctx, v1.Query{Symbol: "BTCUSDT", Interval: "1m"})
	assert.Error(t, err)

	assert.NoError(t, repo.StoreBars(context.Background(), "BTCUSDT", "1m", nil))
}

func TestRepository_MinuteAndMonthUseDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(dir)
	ctx := context.Background()

	minute := []bar.Bar{{Time: 60000, Open: 1, High: 1, Low: 1, Close: 1}}
	month := []bar.Bar{{Time: 2592000000, Open: 2, High: 2, Low: 2, Close: 2}}
	require.NoError(t, repo.StoreBars(ctx, "EURUSD", "1m", minute))
	require.NoError(t, repo.StoreBars(ctx, "EURUSD", "1M", month))

	_, err := os.Stat(filepath.Join(dir, "EURUSD", "1mo.parquet"))
	assert.NoError(t, err)

	query := v1.Query{Symbol: "EURUSD", From: time.Unix(0, 0), To: time.Unix(1800000000, 0)}

	query.Interval = "1m"
	bars, err := repo.GetBars(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, minute, bars)

	query.Interval = "1M"
	bars, err = repo.GetBars(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, month, bars)
}
