package history

import (
	"context"

	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/history/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// Repository loads and stores historical bars. GetBars returns bars
// ascending by time.
type Repository interface {
	GetBars(ctx context.Context, query v1.Query) ([]bar.Bar, error)
	StoreBars(ctx context.Context, symbol, interval string, bars []bar.Bar) error
}
