package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/handler/http/response"
)

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !user.Role(stringClaim(r, "role")).CanRunPayroll() {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
