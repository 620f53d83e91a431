package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryInvoiceRepository struct {
	mu       sync.Mutex
	invoices []*entity.Invoice
	listErr  error
}

func (r *memoryInvoiceRepository) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.Reference == invoice.Reference {
			return domainerror.ErrDuplicateReference
		}
	}
	r.invoices = append(r.invoices, invoice)
	return nil
}

func (r *memoryInvoiceRepository) FindByID(_ context.Context, id string) (*entity.Invoice, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domainerror.ErrInvoiceNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.ID == parsed {
			return invoice, nil
		}
	}
	return nil, domainerror.ErrInvoiceNotFound
}

func (r *memoryInvoiceRepository) FindByDateRange(_ context.Context, start, end *time.Time) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*entity.Invoice
	for _, invoice := range r.invoices {
		if start != nil && invoice.Date.Before(*start) {
			continue
		}
		if end != nil && invoice.Date.After(*end) {
			continue
		}
		out = append(out, invoice)
	}
	return out, nil
}

type recordingPublisher struct {
	published []*entity.SalesReport
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, report *entity.SalesReport) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, report)
	return nil
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
