package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns a liveness check (always OK)
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}

// ReadyHandler returns a readiness check (checks dependencies).
// Kafka is only required when kafkaEnabled is set.
func ReadyHandler(store Pinger, kafkaProducer sarama.SyncProducer, kafkaEnabled bool, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		// Check store
		if err := store.Ping(ctx); err != nil {
			logger.Error().Err(err).Msg("store health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"checks": map[string]string{
					"store": "failed",
					"error": err.Error(),
				},
			})
			return
		}

		kafkaStatus := "disabled"
		if kafkaEnabled {
			// If the producer is nil, it's not ready
			if kafkaProducer == nil {
				logger.Error().Msg("kafka producer is nil")
				writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
					"status": "unavailable",
					"checks": map[string]string{
						"store": "ok",
						"kafka": "failed",
					},
				})
				return
			}
			kafkaStatus = "ok"
		}

		// All checks passed
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ready",
			"checks": map[string]string{
				"store": "ok",
				"kafka": kafkaStatus,
			},
		})
	}
}

// NewOpsMux serves /health, /ready and /metrics
func NewOpsMux(ready http.Handler, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", HealthHandler())
	mux.Handle("/ready", ready)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
