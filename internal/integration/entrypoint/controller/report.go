package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sales-reporter/backend/internal/application/usecase/report"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/integration/entrypoint/dto"
)

// ReportController handles on-demand report generation.
type ReportController struct {
	generateUseCase *report.GenerateDailyReportUseCase
	location        *time.Location
	now             func() time.Time
}

// NewReportController creates a new report controller instance.
// Calendar dates in requests are read in location. A nil now uses time.Now.
func NewReportController(
	generateUseCase *report.GenerateDailyReportUseCase,
	location *time.Location,
	now func() time.Time,
) *ReportController {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ReportController{
		generateUseCase: generateUseCase,
		location:        location,
		now:             now,
	}
}

// GenerateDaily handles POST /reports/daily requests.
// Without a date the previous day is reported.
func (c *ReportController) GenerateDaily(ctx *gin.Context) {
	var req dto.GenerateReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	date := c.now().In(c.location).AddDate(0, 0, -1)
	if req.Date != "" {
		parsed, err := parseDate(req.Date, c.location, false)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Invalid report date",
				Code:    string(domainerror.ErrCodeInvalidReportWindow),
				Details: err.Error(),
			})
			return
		}
		date = parsed
	}

	output, err := c.generateUseCase.Execute(ctx.Request.Context(), report.GenerateDailyReportInput{
		Date: date,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.ToSalesReportResponse(
		output.Report,
		output.InvoiceCount,
		output.WindowStart,
		output.WindowEnd,
	))
}

func (c *ReportController) handleReportError(ctx *gin.Context, err error) {
	var rptErr *domainerror.ReportError
	if errors.As(err, &rptErr) {
		statusCode := http.StatusInternalServerError
		switch rptErr.Code {
		case domainerror.ErrCodeInvalidReportWindow:
			statusCode = http.StatusBadRequest
		case domainerror.ErrCodeReportPublishFailed, domainerror.ErrCodeChannelUnavailable:
			statusCode = http.StatusBadGateway
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: rptErr.Message,
			Code:  string(rptErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
