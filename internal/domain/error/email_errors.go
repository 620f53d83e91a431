// Package error defines domain-specific errors for the sales reporting service.
package error

import "errors"

// Email domain errors.
var (
	// ErrEmailSendFailed is returned when the mail provider does not accept a message.
	ErrEmailSendFailed = errors.New("failed to send email")

	// ErrTemplateRenderFailed is returned when an email template cannot be rendered.
	ErrTemplateRenderFailed = errors.New("failed to render email template")

	// ErrMissingRecipient is returned when no recipient address is configured or given.
	ErrMissingRecipient = errors.New("missing email recipient")

	// ErrUnknownEmailProvider is returned when EMAIL_PROVIDER names no known sender.
	ErrUnknownEmailProvider = errors.New("unknown email provider")
)

// EmailErrorCode defines error codes for email errors.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	// Send errors (02XXXX)
	ErrCodeEmailSendFailed       EmailErrorCode = "EMAIL-020001"
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020003"
	ErrCodeMissingRecipient      EmailErrorCode = "EMAIL-020004"

	// Template errors (03XXXX)
	ErrCodeTemplateRenderFailed EmailErrorCode = "EMAIL-030002"
)

// EmailError represents an email error with code and message.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EmailError) Unwrap() error {
	return e.Err
}

// NewEmailError creates a new EmailError with the given code and message.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
