package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sales-reporter/backend/internal/application/adapter"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/integration/entrypoint/dto"
)

// EmailController exposes the mail sender for operators.
type EmailController struct {
	sender   adapter.EmailSender
	provider string
}

// NewEmailController creates a new email controller instance.
func NewEmailController(sender adapter.EmailSender, provider string) *EmailController {
	return &EmailController{
		sender:   sender,
		provider: provider,
	}
}

// Status handles GET /email/status requests.
func (c *EmailController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.EmailStatusResponse{
		Status:   "Email service is running",
		Provider: c.provider,
	})
}

// Send handles POST /email/send requests.
func (c *EmailController) Send(ctx *gin.Context) {
	var req dto.SendEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingRecipient),
			Details: err.Error(),
		})
		return
	}

	result, err := c.sender.Send(ctx.Request.Context(), adapter.SendEmailInput{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
	})
	if err != nil {
		var emailErr *domainerror.EmailError
		if errors.As(err, &emailErr) {
			statusCode := http.StatusBadGateway
			if emailErr.Code == domainerror.ErrCodeMissingRecipient {
				statusCode = http.StatusBadRequest
			}
			ctx.JSON(statusCode, dto.ErrorResponse{
				Error: emailErr.Message,
				Code:  string(emailErr.Code),
			})
			return
		}
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: "Failed to send email",
			Code:  string(domainerror.ErrCodeEmailSendFailed),
		})
		return
	}

	response := dto.SendEmailResponse{Message: "Email sent"}
	if result != nil {
		response.ProviderID = result.ProviderID
	}
	ctx.JSON(http.StatusOK, response)
}
