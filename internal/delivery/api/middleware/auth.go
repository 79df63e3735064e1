package middleware

import (
	"strings"

	"majicmall/config"
	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc   service.TokenService
	cookieName string
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, cfg *config.Config) *AuthMiddleware {
	cookieName := ""
	if cfg.Auth != nil {
		cookieName = cfg.Auth.CookieName
	}

	return &AuthMiddleware{tokenSvc: tokenSvc, cookieName: cookieName}
}

// Authenticate validates the access token from the Authorization header, falling
// back to the auth cookie.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := m.extractToken(c)
		if !ok {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil || claims.UserID == 0 {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		deliverycontext.SetUser(c, claims.UserID, entity.RolesFromStrings(claims.Roles))

		return next(c)
	}
}

func (m *AuthMiddleware) extractToken(c echo.Context) (string, bool) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)

		return token, found && token != ""
	}

	if m.cookieName == "" {
		return "", false
	}
	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

// RequireRole must run after Authenticate.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !deliverycontext.GetRoles(c).Contains(requiredRole) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+string(requiredRole)+"' role")
			}

			return next(c)
		}
	}
}

// Optional identifies the user when a valid token is present and lets anonymous
// requests through otherwise.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if tokenString, ok := m.extractToken(c); ok {
			if claims, err := m.tokenSvc.ValidateToken(tokenString); err == nil && claims.UserID != 0 {
				deliverycontext.SetUser(c, claims.UserID, entity.RolesFromStrings(claims.Roles))
			}
		}

		return next(c)
	}
}
