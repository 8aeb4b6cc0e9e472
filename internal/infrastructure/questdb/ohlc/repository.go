package ohlc

import (
	"context"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	"github.com/muhammadchandra19/chart-datafeed/internal/domain/history"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/history/v1"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/questdb"
)

const (
	selectRangeQuery = `SELECT timestamp, open, high, low, close, volume
			  FROM ohlc
			  WHERE symbol = $1 AND timeframe = $2 AND timestamp >= $3 AND timestamp <= $4
			  ORDER BY timestamp ASC`

	selectNewestQuery = `SELECT timestamp, open, high, low, close, volume
			  FROM ohlc
			  WHERE symbol = $1 AND timeframe = $2 AND timestamp >= $3 AND timestamp <= $4
			  ORDER BY timestamp DESC
			  LIMIT $5`

	insertQuery = `INSERT INTO ohlc (timestamp, symbol, timeframe, open, high, low, close, volume)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// Repository reads and writes bars of the ohlc table.
type Repository struct {
	client questdb.QuestDBClient
}

var _ history.Repository = (*Repository)(nil)

// NewRepository creates a new OHLC repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// GetBars returns the bars matching the query, ascending by time.
func (r *Repository) GetBars(ctx context.Context, query v1.Query) ([]bar.Bar, error) {
	args := []any{query.Symbol, query.Interval, query.From.UTC(), query.To.UTC()}
	sql := selectRangeQuery
	if query.Limit > 0 {
		sql = selectNewestQuery
		args = append(args, query.Limit)
	}

	rows, err := r.client.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.TracerWithCode(errors.HistoryFetchError, "failed to query ohlc", err)
	}
	defer rows.Close()

	var bars []bar.Bar
	for rows.Next() {
		var (
			ts time.Time
			b  bar.Bar
		)
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, errors.TracerWithCode(errors.HistoryFetchError, "failed to scan ohlc", err)
		}
		b.Time = ts.UnixMilli()
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerWithCode(errors.HistoryFetchError, "error iterating ohlc rows", err)
	}

	if query.Limit > 0 {
		slices.Reverse(bars)
	}

	return bars, nil
}

// StoreBars upserts bars of one symbol and interval in a single batch.
func (r *Repository) StoreBars(ctx context.Context, symbol, interval string, bars []bar.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(insertQuery,
			time.UnixMilli(b.Time).UTC(), symbol, interval,
			b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	if err := r.client.SendBatch(ctx, batch); err != nil {
		return errors.TracerWithCode(errors.GeneralRepositoryError, "failed to store ohlc batch", err)
	}

	return nil
}
