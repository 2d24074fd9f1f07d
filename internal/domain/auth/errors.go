package auth

import "errors"

// Token errors raised while reading the verified access token.
var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrMissingClaims = errors.New("company_id claim is missing or invalid")
)
