package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/handler/http/response"
)

// RequireCompany rejects tokens that are not bound to a company. Every
// payroll query is scoped by the company_id claim.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if stringClaim(r, "company_id") == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
