package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/integration/persistence/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbSQL, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	dbSQL.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbSQL.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.InvoiceModel{}))
	return db
}

func newTestInvoice(reference string, date time.Time, amount string, items ...entity.InvoiceItem) *entity.Invoice {
	return entity.NewInvoice(reference, "Acme Corp", decimal.RequireFromString(amount), date, items)
}

func TestInvoiceRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(openTestDB(t))

	invoice := newTestInvoice("INV-001", time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC), "150.25",
		entity.InvoiceItem{SKU: "ZED", Quantity: 3},
		entity.InvoiceItem{SKU: "ALPHA", Quantity: 1},
		entity.InvoiceItem{SKU: "MID", Quantity: 7},
	)
	require.NoError(t, repo.Create(ctx, invoice))

	found, err := repo.FindByID(ctx, invoice.ID.String())
	require.NoError(t, err)

	assert.Equal(t, invoice.ID, found.ID)
	assert.Equal(t, "INV-001", found.Reference)
	assert.Equal(t, "Acme Corp", found.Customer)
	assert.True(t, found.Amount.Equal(decimal.RequireFromString("150.25")))
	assert.True(t, found.Date.Equal(invoice.Date))
	assert.Equal(t, invoice.Items, found.Items)
}

func TestInvoiceRepository_DuplicateReference(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(openTestDB(t))
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newTestInvoice("INV-001", date, "10")))

	err := repo.Create(ctx, newTestInvoice("INV-001", date, "20"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerror.ErrDuplicateReference))

	all, err := repo.FindByDateRange(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInvoiceRepository_FindByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(openTestDB(t))

	for _, id := range []string{"", "abc", "65a1b2c3d4e5f6a7b8c9d0e1", "9b2f8f4e-0000-4000-8000-000000000000"} {
		_, err := repo.FindByID(ctx, id)
		assert.ErrorIs(t, err, domainerror.ErrInvoiceNotFound, "id %q", id)
	}
}

func TestInvoiceRepository_FindByDateRange(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(openTestDB(t))

	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	jan20 := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	feb01 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newTestInvoice("INV-C", feb01, "5")))
	require.NoError(t, repo.Create(ctx, newTestInvoice("INV-A", jan10, "100")))
	require.NoError(t, repo.Create(ctx, newTestInvoice("INV-B", jan20, "200")))

	references := func(invoices []*entity.Invoice) []string {
		out := make([]string, len(invoices))
		for i, inv := range invoices {
			out[i] = inv.Reference
		}
		return out
	}

	t.Run("no bounds returns all ordered by date", func(t *testing.T) {
		got, err := repo.FindByDateRange(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"INV-A", "INV-B", "INV-C"}, references(got))
	})

	t.Run("both bounds are inclusive", func(t *testing.T) {
		got, err := repo.FindByDateRange(ctx, &jan10, &jan20)
		require.NoError(t, err)
		assert.Equal(t, []string{"INV-A", "INV-B"}, references(got))
	})

	t.Run("start only", func(t *testing.T) {
		got, err := repo.FindByDateRange(ctx, &jan20, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"INV-B", "INV-C"}, references(got))
	})

	t.Run("end only", func(t *testing.T) {
		got, err := repo.FindByDateRange(ctx, nil, &jan10)
		require.NoError(t, err)
		assert.Equal(t, []string{"INV-A"}, references(got))
	})

	t.Run("empty window", func(t *testing.T) {
		from := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC)
		got, err := repo.FindByDateRange(ctx, &from, &to)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestInvoiceItemsJSON_Scan(t *testing.T) {
	var items model.InvoiceItemsJSON
	require.NoError(t, items.Scan(`[{"sku":"A","qt":2}]`))
	assert.Equal(t, model.InvoiceItemsJSON{{SKU: "A", Quantity: 2}}, items)

	require.NoError(t, items.Scan(nil))
	assert.Empty(t, items)

	assert.Error(t, items.Scan(42))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: invoices.reference (2067)")))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
