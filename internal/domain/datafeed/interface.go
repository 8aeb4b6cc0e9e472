package datafeed

import (
	"context"

	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock

// Usecase is the chart datafeed adapter.
type Usecase interface {
	OnReady() v1.Configuration
	SearchSymbols(query, exchange, symbolType string, limit int) []v1.SymbolSearchResult
	ResolveSymbol(name string) v1.SymbolInfo
	GetBars(ctx context.Context, symbolInfo v1.SymbolInfo, resolution string, params v1.PeriodParams) (v1.HistoryResult, error)
	SubscribeBars(symbolInfo v1.SymbolInfo, resolution string, onRealtime v1.RealtimeCallback, subscriberUID string, onResetCacheNeeded v1.ResetCallback) string
	UnsubscribeBars(subscriberUID string)
	HandlePriceUpdate(payload map[string]any)
}
