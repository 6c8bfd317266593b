package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/cypherlabdev/order-service/internal/calendar"
	"github.com/cypherlabdev/order-service/internal/clock"
	"github.com/cypherlabdev/order-service/internal/config"
	grpcHandler "github.com/cypherlabdev/order-service/internal/handler/grpc"
	"github.com/cypherlabdev/order-service/internal/handler/grpc/interceptors"
	httpHandler "github.com/cypherlabdev/order-service/internal/handler/http"
	"github.com/cypherlabdev/order-service/internal/messaging"
	"github.com/cypherlabdev/order-service/internal/observability"
	"github.com/cypherlabdev/order-service/internal/repository"
	"github.com/cypherlabdev/order-service/internal/service"
)

const (
	shutdownTimeout     = 30 * time.Second
	healthCheckInterval = 10 * time.Second
)

// App wires the order service and its servers
type App struct {
	cfg      *config.Config
	logger   zerolog.Logger
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
}

// New creates an App. gatherer backs the /metrics endpoint.
func New(cfg *config.Config, logger zerolog.Logger, metrics *observability.Metrics, gatherer prometheus.Gatherer) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		gatherer: gatherer,
	}
}

// components are the wired, not yet started, parts of the service
type components struct {
	store    repository.OrderStore
	producer sarama.SyncProducer
	service  service.OrderService
	api      *gin.Engine
	ops      *http.ServeMux
	grpc     *grpc.Server
	health   *grpcHandler.HealthChecker
	closers  []func()
}

func (c *components) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// OpenStore opens the configured order store. The returned func releases it.
func OpenStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.OrderStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		dbPool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info().Msg("database connection established")

		if cfg.Database.AutoMigrate {
			applied, err := repository.Migrate(ctx, dbPool, logger)
			if err != nil {
				dbPool.Close()
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			logger.Info().Int("applied", applied).Msg("database migrations complete")
		}

		return repository.NewPostgresOrderRepository(dbPool, logger), dbPool.Close, nil

	case config.StoreDriverDynamoDB:
		client, err := repository.NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
		}
		logger.Info().
			Str("table", cfg.DynamoDB.OrdersTable).
			Str("region", cfg.DynamoDB.Region).
			Msg("dynamodb client initialized")
		return repository.NewDynamoOrderRepository(client, cfg.DynamoDB.OrdersTable, logger), func() {}, nil

	case config.StoreDriverMemory:
		logger.Warn().Msg("using in-memory order store; data is lost on restart")
		return repository.NewMemoryOrderRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func (a *App) build(ctx context.Context) (*components, error) {
	c := &components{}

	holidays, err := calendar.LoadHolidays(a.cfg.Calendar.HolidaysFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	a.logger.Info().
		Int("holidays", holidays.Len()).
		Str("recurrence", string(holidays.Recurrence())).
		Str("timezone", a.cfg.Calendar.Location.String()).
		Msg("business calendar loaded")

	store, closeStore, err := OpenStore(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	c.store = store
	c.closers = append(c.closers, closeStore)

	var publisher service.EventPublisher = messaging.NopPublisher{}
	if a.cfg.Kafka.Enabled {
		producer, err := messaging.NewSyncProducer(a.cfg.Kafka)
		if err != nil {
			c.close()
			return nil, err
		}
		kafkaPublisher := messaging.NewKafkaEventPublisher(producer, a.cfg.Kafka.Topic, a.metrics, a.logger)
		c.producer = producer
		publisher = kafkaPublisher
		c.closers = append(c.closers, func() {
			if err := kafkaPublisher.Close(); err != nil {
				a.logger.Error().Err(err).Msg("failed to close Kafka producer")
			}
		})
		a.logger.Info().Strs("brokers", a.cfg.Kafka.Brokers).Msg("kafka producer initialized")
	}

	c.service = service.NewOrderService(
		repository.NewInstrumentedOrderStore(store, a.metrics),
		publisher,
		clock.NewSystem(),
		holidays,
		a.cfg.Calendar.Location,
		a.metrics,
		a.logger,
	)

	if a.cfg.Service.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	c.api = httpHandler.NewRouter(
		httpHandler.NewOrderHandler(c.service, a.logger),
		a.metrics,
		a.cfg.API.RequestTimeout,
		a.logger,
	)

	c.ops = httpHandler.NewOpsMux(
		httpHandler.ReadyHandler(store, c.producer, a.cfg.Kafka.Enabled, a.logger),
		a.gatherer,
	)

	c.grpc = grpcHandler.NewServer(a.logger)
	c.health = grpcHandler.NewHealthChecker(store, healthCheckInterval, a.logger)
	c.health.Register(c.grpc)
	interceptors.RegisterMetrics(c.grpc)

	return c, nil
}

// Run starts all servers and blocks until ctx is cancelled or a server fails
func (a *App) Run(ctx context.Context) error {
	c, err := a.build(ctx)
	if err != nil {
		return err
	}
	defer c.close()

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.API.Port),
		Handler:      c.api,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: a.cfg.API.RequestTimeout + 5*time.Second,
	}
	opsServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.HTTP.Port),
		Handler:      c.ops,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	go c.health.Run(healthCtx)

	errCh := make(chan error, 3)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.GRPC.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	go func() {
		a.logger.Info().Int("port", a.cfg.GRPC.Port).Msg("gRPC server listening")
		if err := c.grpc.Serve(grpcListener); err != nil {
			errCh <- fmt.Errorf("gRPC server failed: %w", err)
		}
	}()

	go func() {
		a.logger.Info().Int("port", a.cfg.API.Port).Msg("orders API listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("API server failed: %w", err)
		}
	}()

	go func() {
		a.logger.Info().Int("port", a.cfg.HTTP.Port).Msg("HTTP server listening")
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down gracefully...")
	case runErr = <-errCh:
		a.logger.Error().Err(runErr).Msg("server failed, shutting down")
	}

	stopHealth()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("API server shutdown error")
	}
	a.logger.Info().Msg("orders API stopped")

	c.grpc.GracefulStop()
	a.logger.Info().Msg("gRPC server stopped")

	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	a.logger.Info().Msg("HTTP server stopped")

	a.logger.Info().Msg("shutdown complete")
	return runErr
}
