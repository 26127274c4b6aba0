package auth

import "errors"

// Sentinel errors for authentication failures.
var (
	// ErrNotReady indicates the OIDC provider has not completed discovery.
	ErrNotReady = errors.New("identity provider not ready")
	// ErrMissingToken indicates a request without a bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates a token that failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrMissingRole indicates a verified token without a role claim.
	ErrMissingRole = errors.New("token carries no role claim")
)
