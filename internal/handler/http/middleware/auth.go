package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/paycore-labs/payroll-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a verified access token.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Missing token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.Unauthorized(w, "Invalid token type")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// CompanyID extracts the tenant from the verified token claims. Payroll
// routes require it; a token without a company has nothing to process.
func CompanyID(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", false
	}
	return companyID, true
}
