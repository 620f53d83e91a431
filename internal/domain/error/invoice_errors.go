// Package error defines domain-specific errors for the sales reporting service.
package error

import "errors"

// Invoice domain errors.
var (
	// ErrDuplicateSku is returned when two items of one invoice share the same SKU.
	ErrDuplicateSku = errors.New("duplicate sku in invoice items")

	// ErrDuplicateReference is returned when an invoice reference is already taken.
	ErrDuplicateReference = errors.New("invoice reference already exists")

	// ErrInvoiceNotFound is returned when no invoice matches the identifier,
	// including identifiers that are not well formed.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvalidInvoice is returned when required invoice fields are missing or out of range.
	ErrInvalidInvoice = errors.New("invalid invoice")

	// ErrInvalidDateRange is returned when a date filter cannot be parsed.
	ErrInvalidDateRange = errors.New("invalid date range")
)

// InvoiceErrorCode defines error codes for invoice errors.
// Format: INV-XXYYYY where XX is category and YYYY is specific error.
type InvoiceErrorCode string

const (
	// Conflict errors (01XXXX)
	ErrCodeDuplicateSku       InvoiceErrorCode = "INV-010001"
	ErrCodeDuplicateReference InvoiceErrorCode = "INV-010002"

	// Lookup errors (02XXXX)
	ErrCodeInvoiceNotFound InvoiceErrorCode = "INV-020001"

	// Validation errors (03XXXX)
	ErrCodeMissingInvoiceFields InvoiceErrorCode = "INV-030001"
	ErrCodeInvalidInvoiceAmount InvoiceErrorCode = "INV-030002"
	ErrCodeInvalidInvoiceItem   InvoiceErrorCode = "INV-030003"
	ErrCodeInvalidInvoiceDate   InvoiceErrorCode = "INV-030004"
	ErrCodeInvalidDateRange     InvoiceErrorCode = "INV-030005"
)

// InvoiceError represents an invoice error with code and message.
type InvoiceError struct {
	Code    InvoiceErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *InvoiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *InvoiceError) Unwrap() error {
	return e.Err
}

// NewInvoiceError creates a new InvoiceError with the given code and message.
func NewInvoiceError(code InvoiceErrorCode, message string, err error) *InvoiceError {
	return &InvoiceError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
