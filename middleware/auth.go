package middleware

import (
	"errors"
	"log"
	"net/http"
	"socialcare365/config"
	"socialcare365/db"
	"socialcare365/models"
	"socialcare365/services"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeyConfig is the context key for the application config
	ContextKeyConfig = "config"
)

// Auth failure messages returned to clients
const (
	MsgNoToken      = "No token, authorization denied"
	MsgInvalidToken = "Token is not valid"
)

// WithConfig makes the application config available to middleware and handlers
func WithConfig(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyConfig, cfg)
			return next(c)
		}
	}
}

// GetConfig retrieves the application config from context
func GetConfig(c echo.Context) *config.Config {
	cfg, ok := c.Get(ContextKeyConfig).(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth is middleware that requires a valid bearer token.
// The user is reloaded on every request so role and name changes apply immediately.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNoToken)
			}

			cfg := GetConfig(c)
			if cfg == nil || cfg.JWTSecret == "" {
				log.Printf("[SECURITY] RequireAuth called without a configured JWT secret")
				return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
			}

			claims, err := services.ParseToken(cfg.JWTSecret, token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
			}

			user, err := services.GetActiveUser(db.DB, claims.UserID)
			if err != nil {
				if !errors.Is(err, services.ErrNotFound) && !errors.Is(err, services.ErrAccountInactive) {
					log.Printf("Error loading user %s for token: %v", claims.UserID, err)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNoToken)
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentPrincipal returns the authorization identity of the current user
func CurrentPrincipal(c echo.Context) services.Principal {
	user := GetCurrentUser(c)
	if user == nil {
		return services.Principal{}
	}
	return services.PrincipalFromUser(user)
}
