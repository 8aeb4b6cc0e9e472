package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/muhammadchandra19/chart-datafeed/internal/domain/history"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/history/v1"
	parquetOhlc "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/parquet/ohlc"
	questdbOhlc "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/questdb/ohlc"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/interval"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/muhammadchandra19/chart-datafeed/pkg/questdb"
	"github.com/muhammadchandra19/chart-datafeed/pkg/util"
)

// copyBars moves every stored bar of the given symbols and resolutions between
// from and to out of src into dst. It returns the number of copied bars.
func copyBars(ctx context.Context, src, dst history.Repository, symbols, resolutions []string, from, to time.Time, log logger.Interface) (int, error) {
	total := 0
	for _, symbol := range symbols {
		for _, resolution := range resolutions {
			iv := interval.ToInternal(resolution)

			bars, err := src.GetBars(ctx, v1.Query{Symbol: symbol, Interval: iv.Name, From: from, To: to})
			if err != nil {
				return total, fmt.Errorf("failed to read %s %s: %w", symbol, iv.Name, err)
			}
			if len(bars) == 0 {
				continue
			}

			if err := dst.StoreBars(ctx, symbol, iv.Name, bars); err != nil {
				return total, fmt.Errorf("failed to store %s %s: %w", symbol, iv.Name, err)
			}

			total += len(bars)
			log.InfoContext(ctx, "copied bars",
				logger.NewField("symbol", symbol),
				logger.NewField("interval", iv.Name),
				logger.NewField("bars", len(bars)))
		}
	}
	return total, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		direction   = flag.String("direction", "import", "import copies parquet into QuestDB, export copies QuestDB into parquet")
		directory   = flag.String("dir", cfg.Parquet.Directory, "Parquet bar directory")
		symbols     = flag.String("symbols", strings.Join(cfg.Datafeed.Symbols, ","), "Symbols to copy (comma-separated)")
		resolutions = flag.String("resolutions", strings.Join(interval.SupportedResolutions(), ","), "Resolutions to copy (comma-separated)")
		from        = flag.Int64("from", cfg.Datafeed.HistoryEpoch, "Earliest bar time in epoch seconds")
		to          = flag.Int64("to", 0, "Latest bar time in epoch seconds (0 is now)")
	)
	flag.Parse()

	appLogger, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	ctx := context.Background()

	client, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Fatalf("Failed to initialize QuestDB client: %v", err)
	}
	defer client.Close()

	parquetRepo := parquetOhlc.NewRepository(*directory)
	questdbRepo := questdbOhlc.NewRepository(client)

	var src, dst history.Repository
	switch *direction {
	case "import":
		src, dst = parquetRepo, questdbRepo
	case "export":
		src, dst = questdbRepo, parquetRepo
	default:
		log.Fatalf("Unknown direction: %s", *direction)
	}

	end := time.Now().UTC()
	if *to > 0 {
		end = util.UnixSeconds(*to)
	}

	total, err := copyBars(ctx, src, dst, splitList(*symbols), splitList(*resolutions), util.UnixSeconds(*from), end, appLogger)
	if err != nil {
		log.Fatalf("Failed to copy bars after %d bars: %v", total, err)
	}

	log.Printf("Copied %d bars", total)
}
