package bootstrap

import (
	datafeedUc "github.com/muhammadchandra19/chart-datafeed/internal/usecase/datafeed"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
)

// Usecase is the usecase for the chart datafeed.
type Usecase struct {
	DatafeedUsecase *datafeedUc.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	cfg := b.Config.Datafeed
	b.Usecase.DatafeedUsecase = datafeedUc.NewUsecase(datafeedUc.Config{
		HistoryEpoch: cfg.HistoryEpoch,
		ExchangeName: cfg.ExchangeName,
		Symbols:      cfg.Symbols,
		PriceScale:   cfg.PriceScale,
		Retry:        retryConfig(cfg),
	}, b.Repository.HistoryRepository, b.Stream.PriceStream, b.Logger)
}

func retryConfig(cfg config.DatafeedConfig) datafeedUc.RetryConfig {
	return datafeedUc.RetryConfig{
		BaseDelay:   cfg.ConnectRetryBase,
		MaxDelay:    cfg.ConnectRetryMax,
		MaxAttempts: cfg.ConnectRetryAttempts,
		Timeout:     cfg.ConnectTimeout,
		MaxJitter:   cfg.ConnectRetryJitter,
	}
}
