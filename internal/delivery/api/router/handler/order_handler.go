package handler

import (
	"net/http"

	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// OrderHandler lists and updates the orders of the active store.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type updateOrderStatusInput struct {
	Status entity.OrderStatus `json:"status" validate:"required"`
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.uc.ListOrders(c.Request().Context(), deliverycontext.GetStore(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderViews(orders))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.uc.GetOrder(c.Request().Context(), deliverycontext.GetStore(c), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderView(order))
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var input updateOrderStatusInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid status input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	order, err := h.uc.UpdateOrderStatus(c.Request().Context(), deliverycontext.GetStore(c), orderID, input.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newOrderView(order), "Order updated")
}
