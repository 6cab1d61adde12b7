package auth

import (
	"crypto"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenCookie carries the Supabase access token for browser sessions.
const AccessTokenCookie = "sb-access-token"

// RefreshTokenCookie carries the Supabase refresh token.
const RefreshTokenCookie = "sb-refresh-token"

// ParsePublicKey accepts the auth provider's PEM-encoded verification key
// (RSA or EC).
func ParsePublicKey(pemData string) (crypto.PublicKey, error) {
	b := []byte(pemData)
	if k, err := jwt.ParseRSAPublicKeyFromPEM(b); err == nil {
		return k, nil
	}
	if k, err := jwt.ParseECPublicKeyFromPEM(b); err == nil {
		return k, nil
	}
	return nil, fmt.Errorf("auth: unsupported public key PEM")
}

// RequireSession verifies the session JWT from the Authorization header or
// the access-token cookie before letting the request through.
func RequireSession(key crypto.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				unauthorized(w, "missing session token")
				return
			}
			_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				switch t.Method.(type) {
				case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
					return key, nil
				}
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			})
			if err != nil {
				unauthorized(w, "invalid session token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
