package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired runs after jwtauth.Verifier and only lets verified access
// tokens through. Refresh tokens issued by the identity service are rejected.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if tokenType, _ := claims["type"].(string); tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// stringClaim reads a string claim of the verified token, "" when absent.
func stringClaim(r *http.Request, name string) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	value, _ := claims[name].(string)
	return value
}
