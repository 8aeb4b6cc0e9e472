package bootstrap

import (
	"fmt"

	"github.com/muhammadchandra19/chart-datafeed/internal/domain/history"
	parquetOhlc "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/parquet/ohlc"
	questdbOhlc "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/questdb/ohlc"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
)

// Repository is the repository for the chart datafeed.
type Repository struct {
	HistoryRepository history.Repository
}

// registerRepository registers the history repository of the configured source.
func (b *Bootstrap) registerRepository() error {
	switch b.Config.Datafeed.HistorySource {
	case config.HistorySourceQuestDB:
		if b.QuestDB == nil {
			return errors.NewErrorDetails("questdb history source requires a questdb client", string(errors.HistorySourceError), "questdb")
		}
		b.Repository.HistoryRepository = questdbOhlc.NewRepository(b.QuestDB)
	case config.HistorySourceParquet:
		b.Repository.HistoryRepository = parquetOhlc.NewRepository(b.Config.Parquet.Directory)
	default:
		return errors.NewErrorDetails(fmt.Sprintf("unsupported history source: %s", b.Config.Datafeed.HistorySource), string(errors.HistorySourceError), "history_source")
	}
	return nil
}
