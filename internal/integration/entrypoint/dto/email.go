package dto

// SendEmailRequest represents the request body for a manual test email.
type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

// SendEmailResponse is returned after a successful send.
type SendEmailResponse struct {
	Message    string `json:"message"`
	ProviderID string `json:"providerId,omitempty"`
}

// EmailStatusResponse is returned by GET /email/status.
type EmailStatusResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
}
