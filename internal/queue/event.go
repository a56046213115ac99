package queue

// EmailVerificationEvent is published when a user needs a verification
// code delivered. The consumer owns the actual delivery, so the payload
// carries everything the mail template needs without a database lookup.
type EmailVerificationEvent struct {
	UserID      uint64 `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Code        string `json:"code"`
	ExpiresAt   string `json:"expires_at"`
	RequestedAt string `json:"requested_at"`
}
