package grpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cypherlabdev/order-service/internal/handler/grpc/interceptors"
)

// HealthServiceName is the service name reported alongside the overall ("") status
const HealthServiceName = "orders.OrderService"

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewServer creates a gRPC server with the standard interceptor chain
func NewServer(logger zerolog.Logger) *grpc.Server {
	logger = logger.With().Str("component", "grpc_server").Logger()

	return grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(logger),
			interceptors.LoggingInterceptor(logger),
			interceptors.MetricsInterceptor(),
			interceptors.TracingInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(logger),
			interceptors.StreamLoggingInterceptor(logger),
			interceptors.StreamMetricsInterceptor(),
		),
	)
}

// HealthChecker keeps the gRPC health status in line with store reachability
type HealthChecker struct {
	server   *health.Server
	store    Pinger
	interval time.Duration
	logger   zerolog.Logger
}

// NewHealthChecker creates a checker; statuses start as NOT_SERVING until the first check
func NewHealthChecker(store Pinger, interval time.Duration, logger zerolog.Logger) *HealthChecker {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthChecker{
		server:   hs,
		store:    store,
		interval: interval,
		logger:   logger.With().Str("component", "grpc_health").Logger(),
	}
}

// Register adds the health service to server
func (h *HealthChecker) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.server)
}

// Run checks the store every interval until ctx is done, then marks everything NOT_SERVING
func (h *HealthChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.check(ctx)
	for {
		select {
		case <-ticker.C:
			h.check(ctx)
		case <-ctx.Done():
			h.server.Shutdown()
			h.logger.Info().Msg("health checker stopped")
			return
		}
	}
}

func (h *HealthChecker) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.store.Ping(pingCtx); err != nil {
		h.logger.Warn().Err(err).Msg("store ping failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(HealthServiceName, status)
}
