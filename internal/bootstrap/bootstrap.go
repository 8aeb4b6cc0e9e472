package bootstrap

import (
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/muhammadchandra19/chart-datafeed/pkg/questdb"
	"github.com/muhammadchandra19/chart-datafeed/pkg/redis"
)

// Bootstrap is the bootstrap for the chart datafeed.
type Bootstrap struct {
	Usecase    Usecase
	Logger     logger.Interface
	Handler    Handler
	Repository Repository
	Stream     Stream

	Config  config.Config
	QuestDB questdb.QuestDBClient
	Redis   redis.Client
}

// BootstrapConfig is the config for the bootstrap. QuestDB is required by the
// questdb history source and Redis by the redis price stream.
type BootstrapConfig struct {
	Config  config.Config
	QuestDB questdb.QuestDBClient
	Redis   redis.Client
	Logger  logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BootstrapConfig) (Bootstrap, error) {
	b.Config = config.Config
	b.QuestDB = config.QuestDB
	b.Redis = config.Redis
	b.Logger = config.Logger

	if err := b.registerRepository(); err != nil {
		return Bootstrap{}, err
	}
	if err := b.registerStream(); err != nil {
		return Bootstrap{}, err
	}
	b.registerUsecase()
	b.registerHandler()

	return *b, nil
}
