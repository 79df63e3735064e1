package handler

import (
	"net/http"

	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// PaymentMethodHandler manages the gateways of the active store.
type PaymentMethodHandler struct {
	uc usecase.PaymentMethodUsecase
}

func NewPaymentMethodHandler(uc usecase.PaymentMethodUsecase) *PaymentMethodHandler {
	return &PaymentMethodHandler{uc: uc}
}

func (h *PaymentMethodHandler) ListPaymentMethods(c echo.Context) error {
	methods, err := h.uc.ListPaymentMethods(c.Request().Context(), deliverycontext.GetStore(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPaymentMethodViews(methods))
}

// CreatePaymentMethod clears the previous default in the same transaction when
// the new method is the default.
func (h *PaymentMethodHandler) CreatePaymentMethod(c echo.Context) error {
	var input usecase.PaymentMethodInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid payment method input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	method, err := h.uc.CreatePaymentMethod(c.Request().Context(), deliverycontext.GetStore(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusCreated, newPaymentMethodView(method), "Payment method saved")
}

func (h *PaymentMethodHandler) UpdatePaymentMethod(c echo.Context) error {
	methodID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var input usecase.PaymentMethodInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid payment method input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	method, err := h.uc.UpdatePaymentMethod(c.Request().Context(), deliverycontext.GetStore(c), methodID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newPaymentMethodView(method), "Payment method updated")
}

func (h *PaymentMethodHandler) DeletePaymentMethod(c echo.Context) error {
	methodID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeletePaymentMethod(c.Request().Context(), deliverycontext.GetStore(c), methodID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
