package routes

import (
	"context"
	"fmt"
	"net/http"

	"hiredesk/logger"
	"hiredesk/models"
	"hiredesk/utils"
)

// AuthOptions configures bearer token checks.
type AuthOptions struct {
	JWTSecret []byte
	Issuer    string
}

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by RequireToken, or nil.
func ClaimsFromContext(ctx context.Context) *models.UploadClaims {
	claims, _ := ctx.Value(claimsKey{}).(*models.UploadClaims)
	return claims
}

// verifyJWT verifies the JWT from the request and returns the claims
func verifyJWT(r *http.Request, auth AuthOptions) (*models.UploadClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header required")
	}

	token, err := utils.BearerToken(authHeader)
	if err != nil {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	return utils.VerifyUploadToken(token, utils.VerifyConfig{
		SecretKey:      auth.JWTSecret,
		ExpectedIssuer: auth.Issuer,
	})
}

// RequireToken rejects requests without a valid bearer token with 401.
func RequireToken(auth AuthOptions, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := verifyJWT(r, auth)
		if err != nil {
			logger.Debugf("Rejected %s %s from %s: %v", r.Method, r.URL.Path, r.RemoteAddr, err)
			http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// RequireAdmin is RequireToken plus the admin claim; other valid tokens get 403.
func RequireAdmin(auth AuthOptions, next http.HandlerFunc) http.HandlerFunc {
	return RequireToken(auth, func(w http.ResponseWriter, r *http.Request) {
		if claims := ClaimsFromContext(r.Context()); claims == nil || !claims.Admin {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}
		next(w, r)
	})
}
