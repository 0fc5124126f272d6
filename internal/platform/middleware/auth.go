package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "docroute/pkg/domain"
	"docroute/pkg/requestcontext"
)

// Claims are the token fields the engine cares about. Roles and branch come
// from the identity provider; the engine never stores them.
type Claims struct {
	UserID id.UserID
	Roles  []string
	Branch id.BranchCode
}

// TokenValidator validates a bearer token and extracts Claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// JWTValidator validates HMAC-signed JWTs.
type JWTValidator struct {
	signingKey []byte
}

// NewJWTValidator constructs a validator over the shared signing key.
func NewJWTValidator(signingKey string) *JWTValidator {
	return &JWTValidator{signingKey: []byte(signingKey)}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Roles  []string `json:"roles"`
	Branch int      `json:"branch"`
}

func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userUUID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}
	return &Claims{
		UserID: id.UserID(userUUID),
		Roles:  claims.Roles,
		Branch: id.BranchCode(claims.Branch),
	}, nil
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// authenticated claims into the request context for services to read.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(r.Context()))
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()))
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithUserID(r.Context(), claims.UserID)
			ctx = requestcontext.WithRoles(ctx, claims.Roles)
			ctx = requestcontext.WithBranch(ctx, claims.Branch)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
