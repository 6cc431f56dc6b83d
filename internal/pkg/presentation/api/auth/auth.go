package auth

import (
	"net/http"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"github.com/go-chi/jwtauth/v5"
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

type Authenticator struct {
	tokenAuth *jwtauth.JWTAuth
}

func New(secret []byte) *Authenticator {
	return &Authenticator{tokenAuth: jwtauth.New("HS256", secret, nil)}
}

// Middlewares returns the verification chain to mount on protected routes.
func (a *Authenticator) Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		jwtauth.Verifier(a.tokenAuth),
		jwtauth.Authenticator(a.tokenAuth),
	}
}

// RequireRole rejects requests whose token does not carry the given role.
// Admins pass every role check.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			tokenRole, _ := claims["role"].(string)
			if tokenRole != role && tokenRole != RoleAdmin {
				logger := logging.GetLoggerFromContext(r.Context())
				logger.Warn().Msgf("role %s may not access %s", tokenRole, r.URL.Path)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UsernameFromContext returns the username claim from the verified token,
// falling back to "system" for requests without one.
func UsernameFromContext(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "system"
	}

	if username, ok := claims["username"].(string); ok && username != "" {
		return username
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}

	return "system"
}
