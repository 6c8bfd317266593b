package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cypherlabdev/order-service/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// DBTX is the subset of *pgxpool.Pool used by the Postgres repository
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// PostgresOrderRepository implements OrderStore using PostgreSQL
type PostgresOrderRepository struct {
	db     DBTX
	logger zerolog.Logger
}

var _ OrderStore = (*PostgresOrderRepository)(nil)

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db DBTX, logger zerolog.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger.With().Str("component", "postgres_order_repository").Logger(),
	}
}

// Insert creates a new order; the ID comes from the BIGSERIAL sequence
func (r *PostgresOrderRepository) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	query := `
		INSERT INTO orders (name, description, entry_date, is_invoiced, is_deleted)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	stored := *order
	stored.EntryDate = order.EntryDate.UTC()

	err := r.db.QueryRow(ctx, query,
		stored.Name,
		stored.Description,
		stored.EntryDate,
		stored.IsInvoiced,
		stored.IsDeleted,
	).Scan(&stored.ID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("name", stored.Name).
			Msg("failed to insert order")
		return nil, fmt.Errorf("insert order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", stored.ID).
		Time("entry_date", stored.EntryDate).
		Msg("order inserted")

	return &stored, nil
}

// ListSince retrieves orders entered at or after lowerBound, newest first
func (r *PostgresOrderRepository) ListSince(ctx context.Context, lowerBound time.Time, includeDeleted bool) ([]*models.Order, error) {
	query := `
		SELECT id, name, description, entry_date, is_invoiced, is_deleted
		FROM orders
		WHERE entry_date >= $1 AND ($2 OR NOT is_deleted)
		ORDER BY entry_date DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, lowerBound.UTC(), includeDeleted)
	if err != nil {
		r.logger.Error().Err(err).
			Time("lower_bound", lowerBound).
			Msg("failed to query orders")
		return nil, fmt.Errorf("query orders since: %w", err)
	}
	defer rows.Close()

	return r.scanOrders(rows)
}

// Ping checks database connectivity
func (r *PostgresOrderRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// scanOrders scans multiple orders from rows
func (r *PostgresOrderRepository) scanOrders(rows pgx.Rows) ([]*models.Order, error) {
	orders := make([]*models.Order, 0)

	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.Name,
			&order.Description,
			&order.EntryDate,
			&order.IsInvoiced,
			&order.IsDeleted,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order")
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.EntryDate = order.EntryDate.UTC()
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("rows error")
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}
