package repository

import (
	"context"
	"time"

	"github.com/cypherlabdev/order-service/internal/models"
	"github.com/cypherlabdev/order-service/internal/observability"
)

// InstrumentedOrderStore records Prometheus metrics around another OrderStore
type InstrumentedOrderStore struct {
	next    OrderStore
	metrics *observability.Metrics
}

var _ OrderStore = (*InstrumentedOrderStore)(nil)

// NewInstrumentedOrderStore wraps next with store metrics
func NewInstrumentedOrderStore(next OrderStore, metrics *observability.Metrics) *InstrumentedOrderStore {
	return &InstrumentedOrderStore{next: next, metrics: metrics}
}

// Insert delegates and observes the insert duration
func (s *InstrumentedOrderStore) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	start := time.Now()
	stored, err := s.next.Insert(ctx, order)
	s.observe("insert", start, err)
	return stored, err
}

// ListSince delegates and observes the query duration
func (s *InstrumentedOrderStore) ListSince(ctx context.Context, lowerBound time.Time, includeDeleted bool) ([]*models.Order, error) {
	start := time.Now()
	orders, err := s.next.ListSince(ctx, lowerBound, includeDeleted)
	s.observe("list_since", start, err)
	return orders, err
}

// Ping delegates without metrics
func (s *InstrumentedOrderStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *InstrumentedOrderStore) observe(operation string, start time.Time, err error) {
	s.metrics.StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues(operation).Inc()
	}
}
