package repository

import (
	"context"
	"sync"
	"time"

	"github.com/cypherlabdev/order-service/internal/models"
)

// MemoryOrderRepository is an in-memory OrderStore for local development and tests
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []models.Order
}

var _ OrderStore = (*MemoryOrderRepository)(nil)

// NewMemoryOrderRepository returns an empty in-memory repository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

// Insert stores a copy of the order under the next sequential ID
func (r *MemoryOrderRepository) Insert(_ context.Context, order *models.Order) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *order
	stored.ID = r.nextID
	stored.EntryDate = order.EntryDate.UTC()
	r.items = append(r.items, stored)

	out := stored
	return &out, nil
}

// ListSince returns copies of matching orders, newest first
func (r *MemoryOrderRepository) ListSince(_ context.Context, lowerBound time.Time, includeDeleted bool) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Order, 0, len(r.items))
	for _, item := range r.items {
		if item.EntryDate.Before(lowerBound) {
			continue
		}
		if item.IsDeleted && !includeDeleted {
			continue
		}
		order := item
		result = append(result, &order)
	}

	sortNewestFirst(result)
	return result, nil
}

// Ping always succeeds
func (r *MemoryOrderRepository) Ping(context.Context) error {
	return nil
}
