package admin

// LoginRequest is the admin-login service request.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is the admin-login service response. A rejected password
// is reported in Error rather than as a transport error.
type LoginResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ValidateTokenRequest is the validate-admin-token service request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the validate-admin-token service response.
type ValidateTokenResponse struct {
	Valid     bool   `json:"valid"`
	Subject   string `json:"subject,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
	Error     string `json:"error,omitempty"`
}
