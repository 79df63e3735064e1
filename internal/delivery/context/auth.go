package context

import (
	"majicmall/internal/domain/entity"
	"majicmall/internal/infra/session"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	// KeyUserID holds the authenticated user id.
	KeyUserID ContextKey = "user_id"

	// KeyRoles holds the roles carried in the access token.
	KeyRoles ContextKey = "roles"

	// KeySession holds the server-side session of the request.
	KeySession ContextKey = "session"

	// KeyResolvedStore holds the active store resolved for the request.
	KeyResolvedStore ContextKey = "resolved_store"
)

// SetUser stores the authenticated identity in echo.Context.
func SetUser(c echo.Context, userID uint, roles entity.Roles) {
	c.Set(string(KeyUserID), userID)
	c.Set(string(KeyRoles), roles)
}

// GetUserID returns the authenticated user id.
func GetUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(string(KeyUserID)).(uint)

	return id, ok && id != 0
}

// GetRoles returns the roles of the authenticated user.
func GetRoles(c echo.Context) entity.Roles {
	roles, _ := c.Get(string(KeyRoles)).(entity.Roles)

	return roles
}

// SetSession stores the request session in echo.Context.
func SetSession(c echo.Context, sess *session.Session) {
	c.Set(string(KeySession), sess)
}

// GetSession returns the request session, or nil when the session middleware did not run.
func GetSession(c echo.Context) *session.Session {
	sess, _ := c.Get(string(KeySession)).(*session.Session)

	return sess
}

// SetResolvedStore stores the active store of the request.
func SetResolvedStore(c echo.Context, resolved *usecase.ResolvedStore) {
	c.Set(string(KeyResolvedStore), resolved)
}

// GetStore returns the active store, or nil when the user has none yet.
func GetStore(c echo.Context) *entity.Store {
	resolved, _ := c.Get(string(KeyResolvedStore)).(*usecase.ResolvedStore)
	if resolved == nil {
		return nil
	}

	return resolved.Store
}
