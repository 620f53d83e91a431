package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

func seedInvoice(t *testing.T, repo *memoryInvoiceRepository, reference string, date time.Time) *entity.Invoice {
	t.Helper()
	invoice := entity.NewInvoice(reference, "Acme", decimal.NewFromInt(10), date, []entity.InvoiceItem{{SKU: "A", Quantity: 1}})
	require.NoError(t, repo.Create(context.Background(), invoice))
	return invoice
}

func TestGetInvoiceUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryInvoiceRepository()
	seeded := seedInvoice(t, repo, "INV-1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	uc := NewGetInvoiceUseCase(repo)

	t.Run("found", func(t *testing.T) {
		out, err := uc.Execute(ctx, GetInvoiceInput{ID: seeded.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, out.Invoice.ID)
	})

	for _, id := range []string{"", "not-a-uuid", "12345", "00000000-0000-0000-0000-000000000000"} {
		t.Run("not found for "+id, func(t *testing.T) {
			_, err := uc.Execute(ctx, GetInvoiceInput{ID: id})
			require.Error(t, err)

			var invErr *domainerror.InvoiceError
			require.True(t, errors.As(err, &invErr))
			assert.Equal(t, domainerror.ErrCodeInvoiceNotFound, invErr.Code)
		})
	}
}

func TestListInvoicesUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryInvoiceRepository()
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	jan20 := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	seedInvoice(t, repo, "INV-1", jan10)
	seedInvoice(t, repo, "INV-2", jan20)
	uc := NewListInvoicesUseCase(repo)

	t.Run("no bounds returns all", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListInvoicesInput{})
		require.NoError(t, err)
		assert.Len(t, out.Invoices, 2)
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListInvoicesInput{StartDate: &jan10, EndDate: &jan20})
		require.NoError(t, err)
		assert.Len(t, out.Invoices, 2)
	})

	t.Run("open ended start", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListInvoicesInput{StartDate: &jan20})
		require.NoError(t, err)
		require.Len(t, out.Invoices, 1)
		assert.Equal(t, "INV-2", out.Invoices[0].Reference)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		out, err := uc.Execute(ctx, ListInvoicesInput{StartDate: &feb})
		require.NoError(t, err)
		assert.NotNil(t, out.Invoices)
		assert.Empty(t, out.Invoices)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListInvoicesInput{StartDate: &jan20, EndDate: &jan10})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidDateRange))
	})
}
