package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/order-service/internal/calendar"
	"github.com/cypherlabdev/order-service/internal/clock"
	"github.com/cypherlabdev/order-service/internal/models"
	"github.com/cypherlabdev/order-service/internal/observability"
	"github.com/cypherlabdev/order-service/internal/repository"
)

// RecentWindow is the lookback used by ListRecent
const RecentWindow = 24 * time.Hour

// Query labels for metrics
const (
	queryRecent            = "recent"
	queryAfterBusinessDays = "after_business_days"
)

// OrderServiceImpl implements the OrderService interface
type OrderServiceImpl struct {
	store     repository.OrderStore
	publisher EventPublisher
	clock     clock.Clock
	holidays  calendar.HolidaySet
	location  *time.Location
	metrics   *observability.Metrics
	logger    zerolog.Logger
	validator *validator.Validate
}

// NewOrderService creates a new order service instance.
// A nil publisher disables notifications; a nil location means UTC.
func NewOrderService(
	store repository.OrderStore,
	publisher EventPublisher,
	clk clock.Clock,
	holidays calendar.HolidaySet,
	location *time.Location,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) OrderService {
	if location == nil {
		location = time.UTC
	}
	return &OrderServiceImpl{
		store:     store,
		publisher: publisher,
		clock:     clk,
		holidays:  holidays,
		location:  location,
		metrics:   metrics,
		logger:    logger.With().Str("component", "order_service").Logger(),
		validator: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Submit validates, stamps and stores a new order, then publishes order.submitted
func (s *OrderServiceImpl) Submit(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order == nil {
		s.metrics.OrdersSubmittedTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: order is required", models.ErrInvalidArgument)
	}

	if err := s.validate(order); err != nil {
		s.metrics.OrdersSubmittedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	candidate := *order
	candidate.ID = 0
	candidate.EntryDate = s.clock.Now().UTC()
	candidate.IsInvoiced = true
	candidate.IsDeleted = false

	stored, err := s.store.Insert(ctx, &candidate)
	if err != nil {
		s.metrics.OrdersSubmittedTotal.WithLabelValues("store_error").Inc()
		s.logger.Error().Err(err).
			Str("name", candidate.Name).
			Msg("failed to store order")
		return nil, fmt.Errorf("submit order: %w", models.ErrStore)
	}

	s.metrics.OrdersSubmittedTotal.WithLabelValues("created").Inc()
	s.logger.Info().
		Int64("order_id", stored.ID).
		Time("entry_date", stored.EntryDate).
		Msg("order submitted")

	s.publishSubmitted(ctx, stored)

	return stored, nil
}

// ListRecent returns orders from the last 24 hours
func (s *OrderServiceImpl) ListRecent(ctx context.Context) ([]*models.Order, error) {
	lowerBound := s.clock.Now().Add(-RecentWindow)

	orders, err := s.store.ListSince(ctx, lowerBound, false)
	if err != nil {
		s.metrics.OrderQueriesTotal.WithLabelValues(queryRecent, "store_error").Inc()
		s.logger.Error().Err(err).
			Time("lower_bound", lowerBound).
			Msg("failed to list recent orders")
		return nil, fmt.Errorf("list recent orders: %w", models.ErrStore)
	}

	s.metrics.OrdersReturned.WithLabelValues(queryRecent).Observe(float64(len(orders)))
	if len(orders) == 0 {
		s.metrics.OrderQueriesTotal.WithLabelValues(queryRecent, "empty").Inc()
		return nil, fmt.Errorf("no orders since %s: %w", lowerBound.Format(time.RFC3339), models.ErrNotFound)
	}

	s.metrics.OrderQueriesTotal.WithLabelValues(queryRecent, "ok").Inc()
	return orders, nil
}

// ListAfterBusinessDays returns orders entered within the last businessDays business days
func (s *OrderServiceImpl) ListAfterBusinessDays(ctx context.Context, businessDays int) ([]*models.Order, error) {
	if businessDays < 0 {
		s.metrics.OrderQueriesTotal.WithLabelValues(queryAfterBusinessDays, "invalid").Inc()
		return nil, fmt.Errorf("%w: days must be a non-negative number", models.ErrInvalidArgument)
	}
	s.metrics.BusinessDaysRequested.Observe(float64(businessDays))

	cutoff, err := calendar.ComputeCutoff(s.clock.Now().In(s.location), businessDays, s.holidays)
	if err != nil {
		s.metrics.OrderQueriesTotal.WithLabelValues(queryAfterBusinessDays, "invalid").Inc()
		if errors.Is(err, calendar.ErrNegativeBusinessDays) {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
		}
		return nil, err
	}

	orders, err := s.store.ListSince(ctx, cutoff, false)
	if err != nil {
		s.metrics.OrderQueriesTotal.WithLabelValues(queryAfterBusinessDays, "store_error").Inc()
		s.logger.Error().Err(err).
			Int("business_days", businessDays).
			Time("cutoff", cutoff).
			Msg("failed to list orders after business days")
		return nil, fmt.Errorf("list orders after business days: %w", models.ErrStore)
	}

	s.metrics.OrdersReturned.WithLabelValues(queryAfterBusinessDays).Observe(float64(len(orders)))
	s.metrics.OrderQueriesTotal.WithLabelValues(queryAfterBusinessDays, "ok").Inc()
	s.logger.Debug().
		Int("business_days", businessDays).
		Time("cutoff", cutoff).
		Int("count", len(orders)).
		Msg("listed orders after business days")

	if orders == nil {
		orders = make([]*models.Order, 0)
	}
	return orders, nil
}

// validate translates validator errors into a field map keyed by JSON name
func (s *OrderServiceImpl) validate(order *models.Order) error {
	err := s.validator.Struct(order)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &models.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " length can't be more than " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

func (s *OrderServiceImpl) publishSubmitted(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	event := models.NewOrderSubmittedEvent(order)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Int64("order_id", order.ID).
			Str("event_id", event.ID.String()).
			Msg("failed to publish order event")
	}
}
