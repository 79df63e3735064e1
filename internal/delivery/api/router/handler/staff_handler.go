package handler

import (
	"context"
	"net/http"

	"majicmall/internal/delivery/api/response"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// StaffHandler administers every store and payment method.
type StaffHandler struct {
	storeUC   usecase.StoreUsecase
	paymentUC usecase.PaymentMethodUsecase
}

func NewStaffHandler(storeUC usecase.StoreUsecase, paymentUC usecase.PaymentMethodUsecase) *StaffHandler {
	return &StaffHandler{storeUC: storeUC, paymentUC: paymentUC}
}

// ListStores lists all stores newest first with their purge countdown.
func (h *StaffHandler) ListStores(c echo.Context) error {
	views, err := h.storeUC.ListAllStores(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newLifecycleStoreViews(views))
}

func (h *StaffHandler) ArchiveStore(c echo.Context) error {
	return h.lifecycle(c, h.storeUC.StaffArchiveStore)
}

func (h *StaffHandler) RestoreStore(c echo.Context) error {
	return h.lifecycle(c, h.storeUC.StaffRestoreStore)
}

// PurgeStore fails with PURGE_TOO_EARLY inside the restore window.
func (h *StaffHandler) PurgeStore(c echo.Context) error {
	return h.lifecycle(c, h.storeUC.PurgeStore)
}

func (h *StaffHandler) lifecycle(c echo.Context, action func(ctx context.Context, storeID uint) (*usecase.LifecycleResult, error)) error {
	storeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := action(c.Request().Context(), storeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newLifecycleResultView(result), result.Message)
}

// ListPaymentMethods lists every store's methods, credentials excluded.
func (h *StaffHandler) ListPaymentMethods(c echo.Context) error {
	rows, err := h.paymentUC.ListAllPaymentMethods(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newStaffPaymentMethodViews(rows))
}
