package ohlc

import (
	"context"
	stdErrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	"github.com/muhammadchandra19/chart-datafeed/internal/domain/history"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/history/v1"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/parquet-go/parquet-go"
)

// Repository keeps one parquet file of bars per symbol and interval under
// <directory>/<SYMBOL>/<file>.parquet, where file is the interval name except
// for the monthly interval which is stored as "1mo".
type Repository struct {
	directory string
	mu        sync.RWMutex
}

var _ history.Repository = (*Repository)(nil)

// NewRepository creates a parquet backed history repository.
func NewRepository(directory string) *Repository {
	return &Repository{directory: directory}
}

// fileNames keeps names distinct on case-insensitive filesystems.
var fileNames = map[string]string{
	"1M": "1mo",
}

func (r *Repository) path(symbol, interval string) string {
	name, ok := fileNames[interval]
	if !ok {
		name = interval
	}
	return filepath.Join(r.directory, strings.ToUpper(symbol), name+".parquet")
}

// GetBars returns the bars matching the query, ascending by time. A missing
// file yields no bars.
func (r *Repository) GetBars(ctx context.Context, query v1.Query) ([]bar.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.TracerWithCode(errors.HistoryFetchError, "history request cancelled", err)
	}

	r.mu.RLock()
	stored, err := r.read(query.Symbol, query.Interval)
	r.mu.RUnlock()
	if err != nil {
		return nil, errors.TracerWithCode(errors.HistoryFetchError, "failed to read parquet bars", err)
	}

	from, to := query.From.UnixMilli(), query.To.UnixMilli()
	bars := make([]bar.Bar, 0, len(stored))
	for _, b := range stored {
		if b.Time >= from && b.Time <= to {
			bars = append(bars, b)
		}
	}

	if query.Limit > 0 && len(bars) > query.Limit {
		bars = bars[len(bars)-query.Limit:]
	}

	return bars, nil
}

// StoreBars merges bars into the file of the symbol and interval. Bars with
// an existing bucket start replace the stored ones.
func (r *Repository) StoreBars(ctx context.Context, symbol, interval string, bars []bar.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.TracerWithCode(errors.GeneralRepositoryError, "store cancelled", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.read(symbol, interval)
	if err != nil {
		return errors.TracerWithCode(errors.GeneralRepositoryError, "failed to read parquet bars", err)
	}

	byTime := make(map[int64]bar.Bar, len(stored)+len(bars))
	for _, b := range stored {
		byTime[b.Time] = b
	}
	for _, b := range bars {
		byTime[b.Time] = b
	}

	merged := make([]bar.Bar, 0, len(byTime))
	for _, b := range byTime {
		merged = append(merged, b)
	}
	slices.SortFunc(merged, func(a, b bar.Bar) int {
		return compareInt64(a.Time, b.Time)
	})

	if err := r.write(symbol, interval, merged); err != nil {
		return errors.TracerWithCode(errors.GeneralRepositoryError, "failed to write parquet bars", err)
	}

	return nil
}

func (r *Repository) read(symbol, interval string) ([]bar.Bar, error) {
	bars, err := parquet.ReadFile[bar.Bar](r.path(symbol, interval))
	if stdErrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	slices.SortFunc(bars, func(a, b bar.Bar) int {
		return compareInt64(a.Time, b.Time)
	})
	return bars, nil
}

// write replaces the file atomically through a temporary sibling.
func (r *Repository) write(symbol, interval string, bars []bar.Bar) error {
	target := r.path(symbol, interval)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp := target + ".tmp"
	if err := parquet.WriteFile(tmp, bars); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, target)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
