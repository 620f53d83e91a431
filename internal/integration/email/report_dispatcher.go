package email

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/sales-reporter/backend/internal/application/adapter"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/integration/email/templates"
	"github.com/sales-reporter/backend/internal/integration/messaging"
	"github.com/sales-reporter/backend/internal/metrics"
)

// ReportDispatcher turns report queue messages into emails to a fixed recipient.
// It implements messaging.MessageHandler.
type ReportDispatcher struct {
	sender    adapter.EmailSender
	renderer  *templates.Renderer
	ledger    adapter.DeliveryLedger
	recipient string
	logger    *slog.Logger
}

// NewReportDispatcher creates a new ReportDispatcher. ledger may be nil, which
// disables duplicate suppression.
func NewReportDispatcher(
	sender adapter.EmailSender,
	renderer *templates.Renderer,
	ledger adapter.DeliveryLedger,
	recipient string,
	logger *slog.Logger,
) *ReportDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportDispatcher{
		sender:    sender,
		renderer:  renderer,
		ledger:    ledger,
		recipient: recipient,
		logger:    logger,
	}
}

// HandleMessage decodes, renders and emails one report. Any returned error is a
// *MessageProcessingError naming the failed stage.
func (d *ReportDispatcher) HandleMessage(ctx context.Context, msg messaging.Message) error {
	report, err := messaging.DecodeSalesReport(msg.Body)
	if err != nil {
		return err
	}

	key := DeliveryKey(msg)
	logger := d.logger.With("delivery_key", key, "report_date", report.Date.Format("2006-01-02"))

	if d.ledger != nil {
		seen, err := d.ledger.Seen(ctx, key)
		switch {
		case err != nil:
			logger.Warn("Delivery ledger lookup failed, sending anyway", "error", err)
		case seen:
			metrics.IncMessage(metrics.OutcomeDuplicate)
			logger.Info("Report already delivered, skipping email")
			return nil
		}
	}

	email, err := d.renderer.RenderSalesReport(report)
	if err != nil {
		return domainerror.NewMessageProcessingError(
			domainerror.StageRender,
			domainerror.NewEmailError(domainerror.ErrCodeTemplateRenderFailed, "failed to render report email", err),
		)
	}

	if d.recipient == "" {
		return domainerror.NewMessageProcessingError(
			domainerror.StageSend,
			domainerror.NewEmailError(domainerror.ErrCodeMissingRecipient, "report recipient is not configured", domainerror.ErrMissingRecipient),
		)
	}

	result, err := d.sender.Send(ctx, adapter.SendEmailInput{
		To:      d.recipient,
		Subject: email.Subject,
		Text:    email.Text,
		HTML:    email.HTML,
	})
	if err != nil {
		return domainerror.NewMessageProcessingError(domainerror.StageSend, err)
	}

	if d.ledger != nil {
		if err := d.ledger.Record(ctx, key); err != nil {
			logger.Warn("Failed to record report delivery", "error", err)
		}
	}

	logger.Info("Report email sent", "provider_id", result.ProviderID, "redelivered", msg.Redelivered)
	return nil
}

// DeliveryKey identifies a message for duplicate suppression: the broker
// message id when present, otherwise a SHA-256 of the body.
func DeliveryKey(msg messaging.Message) string {
	if msg.ID != "" {
		return msg.ID
	}
	sum := sha256.Sum256(msg.Body)
	return "sha256:" + hex.EncodeToString(sum[:])
}

var _ messaging.MessageHandler = (*ReportDispatcher)(nil)
