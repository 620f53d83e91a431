package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sales-reporter/backend/internal/application/adapter"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/metrics"
)

// Supported providers.
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderMock   = "mock"
)

// RouterConfig selects and configures the mail provider.
type RouterConfig struct {
	Provider     string
	ResendAPIKey string
	// ResendBaseURL overrides the Resend API endpoint when set.
	ResendBaseURL string
	SMTP          SMTPConfig
}

// Router sends through the configured provider and records send latency.
type Router struct {
	provider string
	sender   adapter.EmailSender
}

// NewRouter builds the sender for cfg.Provider.
func NewRouter(cfg RouterConfig) (*Router, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	var sender adapter.EmailSender
	switch provider {
	case ProviderResend:
		client := NewResendClient(cfg.ResendAPIKey, cfg.SMTP.FromName, cfg.SMTP.FromEmail)
		if cfg.ResendBaseURL != "" {
			if err := client.SetBaseURL(cfg.ResendBaseURL); err != nil {
				return nil, err
			}
		}
		sender = client
	case ProviderSMTP, "":
		provider = ProviderSMTP
		sender = NewSMTPSender(cfg.SMTP)
	case ProviderMock:
		sender = NewMockEmailSender()
	default:
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeEmailSendFailed,
			fmt.Sprintf("unknown email provider %q", cfg.Provider),
			domainerror.ErrUnknownEmailProvider,
		)
	}

	return NewRouterWithSender(provider, sender), nil
}

// NewRouterWithSender wraps an existing sender.
func NewRouterWithSender(provider string, sender adapter.EmailSender) *Router {
	return &Router{provider: provider, sender: sender}
}

// Provider returns the active provider name.
func (r *Router) Provider() string {
	return r.provider
}

// Send implements adapter.EmailSender.
func (r *Router) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	if strings.TrimSpace(input.To) == "" {
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeMissingRecipient,
			"recipient is required",
			domainerror.ErrMissingRecipient,
		)
	}

	start := time.Now()
	result, err := r.sender.Send(ctx, input)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.ObserveEmailSend(r.provider, status, time.Since(start).Seconds())

	return result, err
}

var _ adapter.EmailSender = (*Router)(nil)
