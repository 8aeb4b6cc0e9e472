package server

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/muhammadchandra19/chart-datafeed/internal/bootstrap"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/grpclib/health"
	"github.com/muhammadchandra19/chart-datafeed/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/muhammadchandra19/chart-datafeed/pkg/questdb"
	pkgRedis "github.com/muhammadchandra19/chart-datafeed/pkg/redis"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

const healthInterval = 10 * time.Second

// Server runs the chart facing HTTP server and the gRPC health server.
type Server struct {
	HTTP *http.Server
	GRPC *grpc.Server

	logger    logger.Interface
	config    config.Config
	bootstrap bootstrap.Bootstrap
	health    *health.Server
	checks    healthcheck.HealthCheck
	db        questdb.QuestDBClient
	redis     pkgRedis.Client
	cancel    context.CancelFunc
}

// NewServer connects the configured stores and wires the datafeed.
func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		return nil, err
	}

	server := &Server{
		logger: log.WithFields(logger.NewField("app", cfg.App.Name)),
		config: cfg,
		health: health.NewServer(),
	}

	if err := server.initDB(ctx); err != nil {
		return nil, err
	}
	server.initRedis()

	b, err := (&bootstrap.Bootstrap{}).Init(bootstrap.BootstrapConfig{
		Config:  cfg,
		QuestDB: server.db,
		Redis:   server.redis,
		Logger:  server.logger,
	})
	if err != nil {
		server.closeStores()
		return nil, err
	}
	server.bootstrap = b

	server.registerHTTPServer()
	server.registerGrpcServer()

	return server, nil
}

func (s *Server) initDB(ctx context.Context) error {
	if s.config.Datafeed.HistorySource != config.HistorySourceQuestDB {
		return nil
	}

	questdbClient, err := questdb.NewClient(ctx, s.config.QuestDB)
	if err != nil {
		return errors.TracerWithCode(errors.HistorySourceError, "failed to initialize QuestDB client", err)
	}

	s.db = questdbClient
	return nil
}

// initRedis creates the client only. The price stream connects it on the
// first upstream subscription.
func (s *Server) initRedis() {
	if s.config.Datafeed.PriceStream != config.PriceStreamRedis {
		return
	}
	s.redis = pkgRedis.NewClient(s.logger, &s.config.Redis)
}

func (s *Server) probes() map[string]healthcheck.Probe {
	probes := map[string]healthcheck.Probe{}

	switch s.config.Datafeed.HistorySource {
	case config.HistorySourceQuestDB:
		probes["questdb"] = s.db.Ping
	case config.HistorySourceParquet:
		directory := s.config.Parquet.Directory
		probes["parquet"] = func(context.Context) error {
			_, err := os.Stat(directory)
			return err
		}
	}

	return probes
}

func (s *Server) registerHTTPServer() {
	s.checks = healthcheck.New(0, s.probes())

	s.HTTP = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.App.Port),
		Handler:           s.checks.Handler(s.bootstrap.Handler.API.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) registerGrpcServer() {
	s.GRPC = grpc.NewServer()
	s.health.Register(s.GRPC)
	s.health.InitService(s.config.App.Name)

	if s.config.App.Environment == "development" {
		reflection.Register(s.GRPC)
	}
}

// Start serves HTTP and gRPC in the background. Serve failures are sent on the
// returned channel.
func (s *Server) Start(ctx context.Context) (<-chan error, error) {
	httpLis, err := net.Listen("tcp", s.HTTP.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen http: %w", err)
	}

	grpcLis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.App.GRPCPort))
	if err != nil {
		_ = httpLis.Close()
		return nil, fmt.Errorf("failed to listen grpc: %w", err)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	errCh := make(chan error, 2)

	go s.health.Monitor(ctx, s.config.App.Name, healthInterval, func(ctx context.Context) error {
		if report := s.checks.Check(ctx); report.Status != healthcheck.StatusOK {
			return fmt.Errorf("datafeed is %s", report.Status)
		}
		return nil
	})

	go func() {
		if err := s.HTTP.Serve(httpLis); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		if err := s.GRPC.Serve(grpcLis); err != nil && !stdErrors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	s.logger.Info("chart datafeed started",
		logger.NewField("environment", s.config.App.Environment),
		logger.NewField("http_port", s.config.App.Port),
		logger.NewField("grpc_port", s.config.App.GRPCPort),
		logger.NewField("history_source", s.config.Datafeed.HistorySource),
		logger.NewField("price_stream", s.config.Datafeed.PriceStream),
	)

	return errCh, nil
}

// Stop drains the servers, closes the upstream price stream and the stores.
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()
	if s.cancel != nil {
		s.cancel()
	}

	if err := s.HTTP.Shutdown(ctx); err != nil {
		s.logger.Error(errors.TracerFromError(err), logger.NewField("action", "shutdown_http"))
	}
	s.GRPC.GracefulStop()

	if err := s.bootstrap.Usecase.DatafeedUsecase.Close(); err != nil {
		s.logger.Error(errors.TracerFromError(err), logger.NewField("action", "close_price_stream"))
	}

	s.closeStores()
	_ = s.logger.Sync()
}

func (s *Server) closeStores() {
	if s.db != nil {
		s.db.Close()
	}
}
