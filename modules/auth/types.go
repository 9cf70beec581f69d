package auth

// VerifyRequest represents a credential verification request.
type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse represents a credential verification response. Verification
// failures come back as a response rather than an error; Error carries the
// sub-reason for server-side logging.
type VerifyResponse struct {
	Valid   bool   `json:"valid"`
	UserID  int64  `json:"user_id,omitempty"`
	Subject string `json:"subject,omitempty"`
	Error   string `json:"error,omitempty"`
}
