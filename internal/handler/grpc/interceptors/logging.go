package interceptors

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs all gRPC requests with duration and status
func LoggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCompletion(logger, info.FullMethod, "unary", time.Since(start), err)
		return resp, err
	}
}

// StreamLoggingInterceptor logs streaming calls (health Watch) when they end
func StreamLoggingInterceptor(logger zerolog.Logger) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		err := handler(srv, ss)
		logCompletion(logger, info.FullMethod, "stream", time.Since(start), err)
		return err
	}
}

func logCompletion(logger zerolog.Logger, method, kind string, duration time.Duration, err error) {
	st, _ := status.FromError(err)

	logEvent := logger.Info()
	if err != nil {
		logEvent = logger.Error().Err(err)
	}

	logEvent.
		Str("method", method).
		Str("kind", kind).
		Dur("duration_ms", duration).
		Str("status", st.Code().String()).
		Msg("gRPC request completed")
}
