package handler

import (
	"net/http"

	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CheckoutHandler starts hosted checkouts and plan upgrades and handles the
// gateway return URLs.
type CheckoutHandler struct {
	uc usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type checkoutStartInput struct {
	OrderID *uint `json:"order_id" form:"order_id" query:"order_id"`
}

type planCheckoutInput struct {
	Provider entity.PaymentProvider `json:"provider" form:"provider" query:"provider"`
}

type checkoutReturnView struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
	Gateway   string `json:"gateway,omitempty"`
}

type planView struct {
	Plan         entity.Plan `json:"plan"`
	PriceMinor   int64       `json:"price_minor"`
	PriceDisplay string      `json:"price_display"`
	Current      bool        `json:"current"`
}

type plansResponse struct {
	Plans         []*planView          `json:"plans"`
	Currency      string               `json:"currency"`
	ActiveMethods []*paymentMethodView `json:"active_methods"`
}

type planReturnView struct {
	Plan    entity.Plan              `json:"plan"`
	Status  entity.PlanUpgradeStatus `json:"status"`
	Applied bool                     `json:"applied"`
}

// StartCheckout redirects to the gateway of the selected payment method. Without
// an order id the demo amount is charged.
func (h *CheckoutHandler) StartCheckout(c echo.Context) error {
	var input checkoutStartInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid checkout input")
	}
	// Bind skips the query string on POST.
	if input.OrderID == nil && c.QueryParam("order_id") != "" {
		var orderID uint
		if err := echo.QueryParamsBinder(c).Uint("order_id", &orderID).BindError(); err != nil {
			return response.BindingError(c, "Invalid order id")
		}
		input.OrderID = &orderID
	}

	output, err := h.uc.StartCheckout(c.Request().Context(), deliverycontext.GetStore(c), input.OrderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusSeeOther, output.RedirectURL)
}

func (h *CheckoutHandler) CheckoutSuccess(c echo.Context) error {
	return response.SuccessWithMessage(c, http.StatusOK, checkoutReturnView{
		Status:    "success",
		SessionID: c.QueryParam("session_id"),
		Gateway:   c.QueryParam("gateway"),
	}, "Payment completed")
}

func (h *CheckoutHandler) CheckoutCancel(c echo.Context) error {
	return response.SuccessWithMessage(c, http.StatusOK, checkoutReturnView{Status: "canceled"}, "Payment canceled")
}

// ListPlans lists tiers with their monthly price and the store's active gateways.
func (h *CheckoutHandler) ListPlans(c echo.Context) error {
	output, err := h.uc.ListPlans(c.Request().Context(), deliverycontext.GetStore(c))
	if err != nil {
		return errors.WithStack(err)
	}

	plans := make([]*planView, 0, len(output.Plans))
	for _, p := range output.Plans {
		plans = append(plans, &planView{
			Plan:         p.Plan,
			PriceMinor:   p.PriceMinor,
			PriceDisplay: entity.FormatMoney(decimal.New(p.PriceMinor, -2)),
			Current:      p.Current,
		})
	}

	return response.Success(c, http.StatusOK, plansResponse{
		Plans:         plans,
		Currency:      output.Currency,
		ActiveMethods: newPaymentMethodViews(output.ActiveMethods),
	})
}

// StartPlanCheckout records a pending upgrade and redirects to the gateway.
func (h *CheckoutHandler) StartPlanCheckout(c echo.Context) error {
	var input planCheckoutInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid plan checkout input")
	}
	if input.Provider == "" {
		input.Provider = entity.PaymentProvider(c.QueryParam("provider"))
	}

	output, err := h.uc.StartPlanCheckout(c.Request().Context(), deliverycontext.GetStore(c), entity.Plan(c.Param("plan")), input.Provider)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusSeeOther, output.RedirectURL)
}

// PlanSuccess reports whether the upgrade is applied. Until a verified webhook
// arrives the upgrade stays pending.
func (h *CheckoutHandler) PlanSuccess(c echo.Context) error {
	output, err := h.uc.CompletePlanCheckout(c.Request().Context(), deliverycontext.GetStore(c), &usecase.PlanReturnInput{
		SessionID: c.QueryParam("session_id"),
		Plan:      c.QueryParam("plan"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, planReturnView{
		Plan:    output.Plan,
		Status:  output.Status,
		Applied: output.Applied,
	}, output.Message)
}

func (h *CheckoutHandler) PlanCancel(c echo.Context) error {
	return response.SuccessWithMessage(c, http.StatusOK, checkoutReturnView{Status: "canceled"}, "Plan change canceled")
}
