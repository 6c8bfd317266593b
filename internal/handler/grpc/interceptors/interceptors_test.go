package interceptors

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(zerolog.New(&buf))

	resp, err := interceptor(context.Background(), "req", testInfo,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			return "resp", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "resp", resp)
	assert.Contains(t, buf.String(), `"method":"/grpc.health.v1.Health/Check"`)
	assert.Contains(t, buf.String(), `"status":"OK"`)
}

func TestLoggingInterceptor_Error(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(zerolog.New(&buf))

	_, err := interceptor(context.Background(), "req", testInfo,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, status.Error(codes.NotFound, "unknown service")
		})

	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":"NotFound"`)
}

func TestRecoveryInterceptor(t *testing.T) {
	var buf bytes.Buffer
	interceptor := RecoveryInterceptor(zerolog.New(&buf))

	resp, err := interceptor(context.Background(), "req", testInfo,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			panic("boom")
		})

	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, buf.String(), "boom")
}

func TestStreamRecoveryInterceptor(t *testing.T) {
	interceptor := StreamRecoveryInterceptor(zerolog.Nop())

	err := interceptor(nil, nil, &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch"},
		func(srv interface{}, stream grpc.ServerStream) error {
			panic("stream boom")
		})

	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestTracingInterceptor_PassesThrough(t *testing.T) {
	interceptor := TracingInterceptor()
	handlerErr := errors.New("failed")

	_, err := interceptor(context.Background(), "req", testInfo,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, handlerErr
		})

	assert.ErrorIs(t, err, handlerErr)
}
