package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/order-service/internal/models"
)

var orderColumns = []string{"id", "name", "description", "entry_date", "is_invoiced", "is_deleted"}

func setupPostgresRepo(t *testing.T) (*PostgresOrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgresOrderRepository(mock, zerolog.Nop()), mock
}

func TestPostgresOrderRepository_Insert_Success(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	ctx := context.Background()

	entry := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	order := &models.Order{
		ID:          999,
		Name:        "Widget",
		Description: "Blue widget",
		EntryDate:   entry,
		IsInvoiced:  true,
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("Widget", "Blue widget", entry, true, false).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	stored, err := repo.Insert(ctx, order)

	require.NoError(t, err)
	assert.Equal(t, int64(7), stored.ID)
	assert.Equal(t, "Widget", stored.Name)
	assert.True(t, stored.EntryDate.Equal(entry))
	assert.Equal(t, int64(999), order.ID, "input must not be mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderRepository_Insert_Error(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	ctx := context.Background()

	dbErr := errors.New("connection reset")
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(dbErr)

	stored, err := repo.Insert(ctx, &models.Order{Name: "a", Description: "b", EntryDate: time.Now()})

	assert.Nil(t, stored)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "insert order")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderRepository_ListSince_ExcludesDeleted(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	ctx := context.Background()

	lower := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	older := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, name, description, entry_date, is_invoiced, is_deleted FROM orders").
		WithArgs(lower, false).
		WillReturnRows(pgxmock.NewRows(orderColumns).
			AddRow(int64(2), "second", "d2", newer, true, false).
			AddRow(int64(1), "first", "d1", older, true, false))

	orders, err := repo.ListSince(ctx, lower, false)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2), orders[0].ID)
	assert.Equal(t, int64(1), orders[1].ID)
	assert.Equal(t, time.UTC, orders[0].EntryDate.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderRepository_ListSince_IncludeDeleted(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	ctx := context.Background()

	lower := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM orders").
		WithArgs(lower, true).
		WillReturnRows(pgxmock.NewRows(orderColumns).
			AddRow(int64(3), "gone", "d", lower, true, true))

	orders, err := repo.ListSince(ctx, lower, true)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].IsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderRepository_ListSince_ConvertsBoundToUTC(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	ctx := context.Background()

	zone := time.FixedZone("UTC+2", 2*60*60)
	lower := time.Date(2024, 3, 14, 2, 0, 0, 0, zone)

	mock.ExpectQuery("FROM orders").
		WithArgs(lower.UTC(), false).
		WillReturnRows(pgxmock.NewRows(orderColumns))

	orders, err := repo.ListSince(ctx, lower, false)

	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderRepository_ListSince_QueryError(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM orders").
		WithArgs(pgxmock.AnyArg(), false).
		WillReturnError(errors.New("timeout"))

	orders, err := repo.ListSince(ctx, time.Now(), false)

	assert.Nil(t, orders)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query orders since")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderRepository_ListSince_RowError(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM orders").
		WithArgs(now, false).
		WillReturnRows(pgxmock.NewRows(orderColumns).
			AddRow(int64(1), "a", "b", now, true, false).
			RowError(0, errors.New("broken row")))

	orders, err := repo.ListSince(ctx, now, false)

	assert.Nil(t, orders)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderRepository_Ping(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	ctx := context.Background()

	mock.ExpectPing()
	assert.NoError(t, repo.Ping(ctx))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, repo.Ping(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
