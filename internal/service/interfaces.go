package service

import (
	"context"

	"github.com/cypherlabdev/order-service/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_order_service.go -package=mocks

// OrderService defines the business logic interface for order management
type OrderService interface {
	// Submit validates and stores a new order
	// EntryDate is stamped by the service; invoiced/deleted flags are forced
	// Returns *models.ValidationError for bad input and models.ErrStore on storage failure
	Submit(ctx context.Context, order *models.Order) (*models.Order, error)

	// ListRecent returns non-deleted orders entered in the last 24 hours, newest first
	// Returns models.ErrNotFound when there are none
	ListRecent(ctx context.Context) ([]*models.Order, error)

	// ListAfterBusinessDays returns non-deleted orders entered on or after the
	// instant lying businessDays business days before now, newest first
	// Returns models.ErrInvalidArgument for negative input; an empty result is not an error
	ListAfterBusinessDays(ctx context.Context, businessDays int) ([]*models.Order, error)
}

// EventPublisher delivers order notifications to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event *models.OrderEvent) error
}
