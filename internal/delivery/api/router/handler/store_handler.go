package handler

import (
	"net/http"

	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// StoreHandler covers the merchant's store profile, store list and lifecycle.
type StoreHandler struct {
	uc usecase.StoreUsecase
}

func NewStoreHandler(uc usecase.StoreUsecase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

type profileResponse struct {
	Store   *storeView `json:"store"`
	Created bool       `json:"created"`
}

// GetProfile returns the active store, creating a blank one for owners without a store.
func (h *StoreHandler) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if store := deliverycontext.GetStore(c); store != nil {
		return response.Success(c, http.StatusOK, profileResponse{Store: newStoreView(store)})
	}

	store, created, err := h.uc.EnsureStore(c.Request().Context(), userID, activeSession(c))
	if err != nil {
		return errors.WithStack(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	return response.Success(c, status, profileResponse{Store: newStoreView(store), Created: created})
}

// UpdateProfile edits the active store. Omitted fields are left unchanged.
func (h *StoreHandler) UpdateProfile(c echo.Context) error {
	var input usecase.StoreInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid store input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	store, err := h.uc.UpdateStoreProfile(c.Request().Context(), deliverycontext.GetStore(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newStoreView(store), "Store profile updated")
}

// UploadLogo replaces the active store's logo from the "logo" form file.
func (h *StoreHandler) UploadLogo(c echo.Context) error {
	upload, err := readUpload(c, "logo")
	if err != nil {
		return err
	}

	store, err := h.uc.UploadLogo(c.Request().Context(), deliverycontext.GetStore(c), upload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newStoreView(store), "Logo uploaded")
}

type storeListResponse struct {
	Stores        []*lifecycleStoreView `json:"stores"`
	ActiveStoreID uint                  `json:"active_store_id,omitempty"`
}

// ListStores lists every store of the user, archived ones included.
func (h *StoreHandler) ListStores(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	views, err := h.uc.ListOwnedStores(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	out := storeListResponse{Stores: newLifecycleStoreViews(views)}
	if store := deliverycontext.GetStore(c); store != nil {
		out.ActiveStoreID = store.ID
	}

	return response.Success(c, http.StatusOK, out)
}

// CreateStore creates a store and makes it the active one.
func (h *StoreHandler) CreateStore(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input usecase.StoreInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid store input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	store, err := h.uc.CreateStore(c.Request().Context(), userID, &input, activeSession(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusCreated, newStoreView(store), "Store created")
}

// SwitchStore remembers another owned, active store in the session.
func (h *StoreHandler) SwitchStore(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	storeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	store, err := h.uc.SwitchStore(c.Request().Context(), userID, storeID, activeSession(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newStoreView(store), "Switched to "+store.Name)
}

// ArchiveStore archives the active store.
func (h *StoreHandler) ArchiveStore(c echo.Context) error {
	result, err := h.uc.ArchiveStore(c.Request().Context(), deliverycontext.GetStore(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newLifecycleResultView(result), result.Message)
}

// RestoreStore restores one of the user's archived stores.
func (h *StoreHandler) RestoreStore(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	storeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.uc.RestoreStore(c.Request().Context(), userID, storeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newLifecycleResultView(result), result.Message)
}
