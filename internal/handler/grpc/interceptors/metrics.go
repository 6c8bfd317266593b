package interceptors

import (
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
)

// MetricsInterceptor records grpc_server_* Prometheus metrics for unary calls
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return grpc_prometheus.UnaryServerInterceptor
}

// StreamMetricsInterceptor records grpc_server_* Prometheus metrics for streams
func StreamMetricsInterceptor() grpc.StreamServerInterceptor {
	return grpc_prometheus.StreamServerInterceptor
}

// RegisterMetrics initialises per-method metrics and enables the latency histogram.
// Call after all services are registered on server.
func RegisterMetrics(server *grpc.Server) {
	grpc_prometheus.EnableHandlingTimeHistogram()
	grpc_prometheus.Register(server)
}
