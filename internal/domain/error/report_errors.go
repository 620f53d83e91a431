// Package error defines domain-specific errors for the sales reporting service.
package error

import "errors"

// Report queue errors.
var (
	// ErrChannelUnavailable is returned when the broker channel is not established.
	ErrChannelUnavailable = errors.New("report queue channel is not available")

	// ErrReportPublishFailed is returned when the broker rejects a publish.
	ErrReportPublishFailed = errors.New("failed to publish report")

	// ErrInvalidReportWindow is returned when a report window starts after it ends.
	ErrInvalidReportWindow = errors.New("invalid report window")

	// ErrMalformedReport is returned when a queue message is not a valid sales report.
	ErrMalformedReport = errors.New("malformed sales report")
)

// ReportErrorCode defines error codes for report errors.
// Format: RPT-XXYYYY where XX is category and YYYY is specific error.
type ReportErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeChannelUnavailable  ReportErrorCode = "RPT-010001"
	ErrCodeReportPublishFailed ReportErrorCode = "RPT-010002"

	// Builder errors (02XXXX)
	ErrCodeInvalidReportWindow ReportErrorCode = "RPT-020001"
	ErrCodeReportQueryFailed   ReportErrorCode = "RPT-020002"
)

// ReportError represents a report error with code and message.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError with the given code and message.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ProcessingStage names the step of message processing that failed.
type ProcessingStage string

const (
	StageDecode ProcessingStage = "decode"
	StageParse  ProcessingStage = "parse"
	StageRender ProcessingStage = "render"
	StageSend   ProcessingStage = "send"
)

// MessageProcessingError is the umbrella error for a queue message that could not
// be turned into a delivered email. It always resolves to a negative acknowledgment.
type MessageProcessingError struct {
	Stage ProcessingStage
	Err   error
}

// Error implements the error interface.
func (e *MessageProcessingError) Error() string {
	return "message processing failed at " + string(e.Stage) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *MessageProcessingError) Unwrap() error {
	return e.Err
}

// NewMessageProcessingError wraps err as a failure of the given stage.
func NewMessageProcessingError(stage ProcessingStage, err error) *MessageProcessingError {
	return &MessageProcessingError{
		Stage: stage,
		Err:   err,
	}
}
