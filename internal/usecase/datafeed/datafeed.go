package datafeed

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	"github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
	"github.com/muhammadchandra19/chart-datafeed/internal/domain/history"
	historyv1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/history/v1"
	"github.com/muhammadchandra19/chart-datafeed/internal/domain/pricestream"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/interval"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/muhammadchandra19/chart-datafeed/pkg/util"
)

// Config configures the datafeed usecase.
type Config struct {
	HistoryEpoch int64
	ExchangeName string
	Symbols      []string
	PriceScale   int
	Retry        RetryConfig
}

// Option customizes a Usecase.
type Option func(*Usecase)

// WithClock replaces the wall clock used for ticks without timestamp and for
// full-history windows.
func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

// Usecase bridges a push price stream to the pull and subscribe chart API.
type Usecase struct {
	config   Config
	history  history.Repository
	stream   pricestream.PriceStream
	logger   logger.Interface
	registry *Registry
	upstream *upstream
	catalog  []v1.Symbol
	now      func() time.Time

	// dispatchMu serializes ticks; symbolsMu orders upstream subscribe and
	// unsubscribe decisions with the registry changes behind them. Neither
	// is held across upstream I/O.
	dispatchMu sync.Mutex
	symbolsMu  sync.Mutex
}

var _ datafeed.Usecase = (*Usecase)(nil)

// NewUsecase creates the datafeed and registers it as the price stream handler.
func NewUsecase(config Config, historyRepository history.Repository, stream pricestream.PriceStream, log logger.Interface, opts ...Option) *Usecase {
	if config.HistoryEpoch == 0 {
		config.HistoryEpoch = DefaultHistoryEpoch
	}
	if config.PriceScale <= 0 {
		config.PriceScale = 100000
	}
	config.Retry = withRetryDefaults(config.Retry)

	u := &Usecase{
		config:   config,
		history:  historyRepository,
		stream:   stream,
		logger:   log,
		registry: NewRegistry(),
		catalog:  NewCatalog(config.Symbols, config.ExchangeName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}

	u.upstream = newUpstream(stream, log, config.Retry, u.resetSymbol)
	stream.OnPriceUpdate(u.HandlePriceUpdate)

	return u
}

func withRetryDefaults(retry RetryConfig) RetryConfig {
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = DefaultRetryConfig.BaseDelay
	}
	if retry.MaxDelay <= 0 {
		retry.MaxDelay = DefaultRetryConfig.MaxDelay
	}
	if retry.MaxAttempts < 0 {
		retry.MaxAttempts = DefaultRetryConfig.MaxAttempts
	}
	if retry.Timeout <= 0 {
		retry.Timeout = DefaultRetryConfig.Timeout
	}
	if retry.MaxJitter < 0 {
		retry.MaxJitter = 0
	}
	return retry
}

// Registry exposes the subscription registry for diagnostics.
func (u *Usecase) Registry() *Registry {
	return u.registry
}

// GetBars loads the bars of a history request, ascending by time. The last
// bar becomes the shared last bar of the symbol and resolution.
func (u *Usecase) GetBars(ctx context.Context, symbolInfo v1.SymbolInfo, resolution string, params v1.PeriodParams) (v1.HistoryResult, error) {
	if err := interval.ValidateTimeRange(params.From, params.To); err != nil {
		return v1.HistoryResult{}, errors.TracerWithCode(errors.GeneralBadRequestError, "invalid history range", err)
	}

	symbol := symbolOf(symbolInfo)
	iv := interval.ToInternal(resolution)
	window := ResolveRange(resolution, params.From, params.To, params.FirstDataRequest, u.now(), u.config.HistoryEpoch)

	bars, err := u.history.GetBars(ctx, historyv1.Query{
		Symbol:   symbol,
		Interval: iv.Name,
		From:     util.UnixSeconds(window.From),
		To:       util.UnixSeconds(window.To),
		Limit:    max(params.CountBack, 0),
	})
	if err != nil {
		u.logger.ErrorContext(ctx, err,
			logger.NewField("symbol", symbol),
			logger.NewField("resolution", resolution),
			logger.NewField("from", window.From),
			logger.NewField("to", window.To))
		return v1.HistoryResult{}, errors.TracerWithCode(errors.HistoryFetchError, "failed to load bars", err)
	}

	if len(bars) == 0 {
		return v1.HistoryResult{Bars: []bar.Bar{}, NoData: true}, nil
	}

	if !slices.IsSortedFunc(bars, func(a, b bar.Bar) int { return compareInt64(a.Time, b.Time) }) {
		bars = slices.Clone(bars)
		slices.SortStableFunc(bars, func(a, b bar.Bar) int { return compareInt64(a.Time, b.Time) })
	}

	u.registry.StoreLastBar(symbol, resolution, bars[len(bars)-1])

	u.logger.DebugContext(ctx, "history loaded",
		logger.NewField("symbol", symbol),
		logger.NewField("resolution", resolution),
		logger.NewField("bars", len(bars)))

	return v1.HistoryResult{Bars: bars}, nil
}

// SubscribeBars registers a live subscription and returns its internal key.
// The symbol is subscribed upstream in the background unless it already is.
func (u *Usecase) SubscribeBars(symbolInfo v1.SymbolInfo, resolution string, onRealtime v1.RealtimeCallback, subscriberUID string, onResetCacheNeeded v1.ResetCallback) string {
	symbol := symbolOf(symbolInfo)

	u.symbolsMu.Lock()
	key, first := u.registry.Subscribe(subscriberUID, symbol, resolution, onRealtime, onResetCacheNeeded)
	u.upstream.subscribe(symbol)
	u.symbolsMu.Unlock()

	u.logger.Debug("subscribed bars",
		logger.NewField("symbol", symbol),
		logger.NewField("resolution", resolution),
		logger.NewField("subscriber_uid", subscriberUID),
		logger.NewField("key", key),
		logger.NewField("first_subscriber", first))

	return key
}

// UnsubscribeBars removes every subscription registered under subscriberUID.
// Symbols left without subscribers are unsubscribed upstream once each.
func (u *Usecase) UnsubscribeBars(subscriberUID string) {
	u.symbolsMu.Lock()
	orphaned := u.registry.Unsubscribe(subscriberUID)
	for _, symbol := range orphaned {
		u.upstream.unsubscribe(symbol)
	}
	u.symbolsMu.Unlock()

	u.logger.Debug("unsubscribed bars",
		logger.NewField("subscriber_uid", subscriberUID),
		logger.NewField("released_symbols", orphaned))
}

// HandlePriceUpdate dispatches one upstream tick to every subscription of its
// symbol. Malformed ticks are dropped.
func (u *Usecase) HandlePriceUpdate(payload map[string]any) {
	tick, ok := bar.ParseTick(payload)
	if !ok {
		u.logger.Debug("dropping malformed tick", logger.NewField("payload", payload))
		return
	}

	u.dispatchMu.Lock()
	defer u.dispatchMu.Unlock()

	for _, d := range u.registry.advance(tick, u.now()) {
		u.deliver(d)
	}
}

func (u *Usecase) deliver(d delivery) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error(errors.TracerFromError(fmt.Errorf("realtime callback panicked: %v", r)),
				logger.NewField("subscriber_uid", d.externalID),
				logger.NewField("key", d.internalKey))
		}
	}()

	if d.callback != nil {
		d.callback(d.bar)
	}
}

// resetSymbol asks every chart on symbol to refetch its history.
func (u *Usecase) resetSymbol(symbol string) {
	callbacks := u.registry.resetCallbacks(symbol)
	u.logger.Info("upstream recovered, resetting charts",
		logger.NewField("symbol", symbol),
		logger.NewField("subscriptions", len(callbacks)))

	for _, reset := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					u.logger.Error(errors.TracerFromError(fmt.Errorf("reset callback panicked: %v", r)),
						logger.NewField("symbol", symbol))
				}
			}()
			reset()
		}()
	}
}

// Close stops background subscribes and closes the price stream.
func (u *Usecase) Close() error {
	return u.upstream.close()
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
