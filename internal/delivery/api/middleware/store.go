package middleware

import (
	"strconv"

	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// StoreQueryParam overrides the active store. A valid override is remembered in the session.
const StoreQueryParam = "store"

// StoreMiddleware resolves the active store of an authenticated merchant.
type StoreMiddleware struct {
	storeUC usecase.StoreUsecase
}

func NewStoreMiddleware(storeUC usecase.StoreUsecase) *StoreMiddleware {
	return &StoreMiddleware{storeUC: storeUC}
}

// Resolve must run after Authenticate and the session middleware. A user without
// any store gets a nil store; use cases reject that where a store is required.
func (m *StoreMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := deliverycontext.GetUserID(c)
		if !ok {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
		}

		sess := deliverycontext.GetSession(c)
		var activeSession usecase.ActiveStoreSession
		if sess != nil {
			activeSession = sess
		}

		resolved, err := m.storeUC.ResolveActiveStore(c.Request().Context(), userID, parseOverride(c.QueryParam(StoreQueryParam)), activeSession)
		if err != nil {
			return errors.WithStack(err)
		}
		deliverycontext.SetResolvedStore(c, resolved)

		return next(c)
	}
}

// parseOverride ignores anything that is not a positive id.
func parseOverride(raw string) *uint {
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	override := uint(id)

	return &override
}
