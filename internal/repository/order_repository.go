package repository

import (
	"context"
	"sort"
	"time"

	"github.com/cypherlabdev/order-service/internal/models"
)

//go:generate mockgen -source=order_repository.go -destination=../mocks/mock_order_store.go -package=mocks

// OrderStore defines the interface for order data access
type OrderStore interface {
	// Insert persists a new order and returns the stored record
	// The store assigns the ID; any ID on the input is ignored
	Insert(ctx context.Context, order *models.Order) (*models.Order, error)

	// ListSince returns orders with entry_date >= lowerBound, newest first
	// Soft-deleted orders are only returned when includeDeleted is set
	// Returns an empty slice if nothing matches
	ListSince(ctx context.Context, lowerBound time.Time, includeDeleted bool) ([]*models.Order, error)

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
}

// sortNewestFirst orders by entry_date descending, then ID descending
func sortNewestFirst(orders []*models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		return a.ID > b.ID
	})
}
