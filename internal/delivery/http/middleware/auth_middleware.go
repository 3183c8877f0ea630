package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cabinet-portal/internal/access"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/usecase"
	"cabinet-portal/pkg/jwt"
	"cabinet-portal/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	RoleViewKey contextKey = "role_view"
	TokenIDKey  contextKey = "token_id"
)

// SessionResolver hydrates the identity behind an access token.
type SessionResolver interface {
	ResolveSession(ctx context.Context, accessToken string) (entity.RoleView, *jwt.Claims, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
	log      *logrus.Logger
}

func NewAuthMiddleware(sessions SessionResolver, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		log:      log,
	}
}

// Authenticate loads the session of the bearer token and stores the role view in the request
// context. The identity always comes from the session store, never from the token alone.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Redirect(w, http.StatusUnauthorized, "Authorization header is required", access.LoginRoute)
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Redirect(w, http.StatusUnauthorized, "Invalid authorization header format", access.LoginRoute)
			return
		}

		view, claims, err := m.sessions.ResolveSession(r.Context(), parts[1])
		if err != nil {
			if errors.Is(err, usecase.ErrSessionExpired) {
				response.Redirect(w, http.StatusUnauthorized, "Session expired, please log in again", access.LoginRoute)
				return
			}
			m.log.Warnf("Failed to resolve session: %+v", err)
			response.InternalServerError(w, "Failed to validate session")
			return
		}

		ctx := context.WithValue(r.Context(), RoleViewKey, view)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ViewFromContext returns the authenticated identity, nil when the request is anonymous.
func ViewFromContext(ctx context.Context) entity.RoleView {
	view, _ := ctx.Value(RoleViewKey).(entity.RoleView)
	return view
}

func AdminFromContext(ctx context.Context) (entity.AdminView, bool) {
	view, ok := ViewFromContext(ctx).(entity.AdminView)
	return view, ok
}

func MedecinFromContext(ctx context.Context) (entity.MedecinView, bool) {
	view, ok := ViewFromContext(ctx).(entity.MedecinView)
	return view, ok
}

func PatientFromContext(ctx context.Context) (entity.PatientView, bool) {
	view, ok := ViewFromContext(ctx).(entity.PatientView)
	return view, ok
}

// GetTokenIDFromContext extracts the access token id from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
