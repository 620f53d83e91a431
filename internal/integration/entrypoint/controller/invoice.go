// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sales-reporter/backend/internal/application/usecase/invoice"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/integration/entrypoint/dto"
)

// InvoiceController handles invoice endpoints.
type InvoiceController struct {
	createUseCase *invoice.CreateInvoiceUseCase
	getUseCase    *invoice.GetInvoiceUseCase
	listUseCase   *invoice.ListInvoicesUseCase
}

// NewInvoiceController creates a new invoice controller instance.
func NewInvoiceController(
	createUseCase *invoice.CreateInvoiceUseCase,
	getUseCase *invoice.GetInvoiceUseCase,
	listUseCase *invoice.ListInvoicesUseCase,
) *InvoiceController {
	return &InvoiceController{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
	}
}

// Create handles POST /invoices requests.
func (c *InvoiceController) Create(ctx *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingInvoiceFields),
			Details: err.Error(),
		})
		return
	}

	date, err := parseDate(req.Date, time.UTC, false)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid invoice date",
			Code:  string(domainerror.ErrCodeInvalidInvoiceDate),
		})
		return
	}

	input := invoice.CreateInvoiceInput{
		Reference: req.Reference,
		Customer:  req.Customer,
		Amount:    *req.Amount,
		Date:      date,
		Items:     req.ToEntityItems(),
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleInvoiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToInvoiceResponse(output.Invoice))
}

// Get handles GET /invoices/:id requests.
func (c *InvoiceController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context(), invoice.GetInvoiceInput{
		ID: ctx.Param("id"),
	})
	if err != nil {
		c.handleInvoiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(output.Invoice))
}

// List handles GET /invoices requests with optional startDate and endDate filters.
func (c *InvoiceController) List(ctx *gin.Context) {
	var input invoice.ListInvoicesInput

	if startDateStr := ctx.Query("startDate"); startDateStr != "" {
		startDate, err := parseDate(startDateStr, time.UTC, false)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Invalid startDate",
				Code:    string(domainerror.ErrCodeInvalidDateRange),
				Details: err.Error(),
			})
			return
		}
		input.StartDate = &startDate
	}
	if endDateStr := ctx.Query("endDate"); endDateStr != "" {
		endDate, err := parseDate(endDateStr, time.UTC, true)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Invalid endDate",
				Code:    string(domainerror.ErrCodeInvalidDateRange),
				Details: err.Error(),
			})
			return
		}
		input.EndDate = &endDate
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleInvoiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceListResponse(output.Invoices))
}

// handleInvoiceError handles invoice errors and returns appropriate HTTP responses.
func (c *InvoiceController) handleInvoiceError(ctx *gin.Context, err error) {
	var invErr *domainerror.InvoiceError
	if errors.As(err, &invErr) {
		statusCode := c.getStatusCodeForInvoiceError(invErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: invErr.Message,
			Code:  string(invErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForInvoiceError maps invoice error codes to HTTP status codes.
func (c *InvoiceController) getStatusCodeForInvoiceError(code domainerror.InvoiceErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvoiceNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeDuplicateSku,
		domainerror.ErrCodeDuplicateReference:
		return http.StatusConflict
	case domainerror.ErrCodeMissingInvoiceFields,
		domainerror.ErrCodeInvalidInvoiceAmount,
		domainerror.ErrCodeInvalidInvoiceItem,
		domainerror.ErrCodeInvalidInvoiceDate,
		domainerror.ErrCodeInvalidDateRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
