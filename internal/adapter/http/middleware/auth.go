package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/auth"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
)

// CallerIdentityHeader carries the caller identity when token
// authentication is disabled.
const CallerIdentityHeader = "X-Caller-Identity"

// CallerRoleHeader optionally carries the caller role alongside
// CallerIdentityHeader.
const CallerRoleHeader = "X-Caller-Role"

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware resolves the caller identity for every request.
type AuthMiddleware struct {
	verifier TokenVerifier
	metrics  *metrics.Metrics
}

// NewAuthMiddleware creates an AuthMiddleware. A nil verifier trusts the
// CallerIdentityHeader instead of bearer tokens.
func NewAuthMiddleware(verifier TokenVerifier, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, metrics: m}
}

// Authenticate rejects requests without a usable caller identity.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, reason := m.identify(r)
		if id == nil {
			m.fail(reason)
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", reason)
			return
		}

		recordCaller(r.Context(), id.ID)
		next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), id)))
	})
}

func (m *AuthMiddleware) identify(r *http.Request) (*domain.Identity, string) {
	if m.verifier == nil {
		caller := strings.TrimSpace(r.Header.Get(CallerIdentityHeader))
		if caller == "" {
			return nil, "missing caller identity"
		}
		role := domain.Role(r.Header.Get(CallerRoleHeader))
		if role == "" {
			role = domain.RoleParticipant
		}
		if !role.IsValid() {
			return nil, "invalid caller role"
		}
		return &domain.Identity{ID: caller, Role: role}, ""
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, "invalid authorization header format"
	}

	claims, err := m.verifier.Verify(parts[1])
	if err != nil {
		return nil, err.Error()
	}

	return &domain.Identity{ID: claims.Identity(), Role: claims.Role}, ""
}

func (m *AuthMiddleware) fail(reason string) {
	if m.metrics == nil {
		return
	}
	label := "invalid_token"
	switch reason {
	case "missing authorization header", "missing caller identity":
		label = "missing"
	case auth.ErrExpiredToken.Error():
		label = "expired"
	}
	m.metrics.AuthFailures.WithLabelValues(label).Inc()
}

// RequireRole rejects callers that do not hold role.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := domain.IdentityFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "")
				return
			}
			if id.Role != role {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions", domain.ErrInsufficientRole.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
