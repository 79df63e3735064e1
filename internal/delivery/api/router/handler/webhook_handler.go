package handler

import (
	"io"
	"net/http"

	"majicmall/internal/delivery/api/response"
	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HeaderWebhookSignature carries the hex HMAC-SHA256 of the raw body.
const HeaderWebhookSignature = "X-Majic-Signature"

// WebhookHandler receives gateway notifications.
type WebhookHandler struct {
	uc usecase.CheckoutUsecase
}

func NewWebhookHandler(uc usecase.CheckoutUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

type webhookResponse struct {
	Received         bool   `json:"received"`
	EventType        string `json:"event_type,omitempty"`
	Verified         bool   `json:"verified"`
	UpgradeConfirmed bool   `json:"upgrade_confirmed"`
}

// For returns the handler bound to one provider.
func (h *WebhookHandler) For(provider entity.PaymentProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return response.BindingError(c, "Webhooks accept POST only")
		}

		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return response.BindingError(c, "Unable to read webhook body")
		}

		output, err := h.uc.HandleWebhook(c.Request().Context(), provider, body, c.Request().Header.Get(HeaderWebhookSignature))
		if err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusOK, webhookResponse{
			Received:         true,
			EventType:        output.EventType,
			Verified:         output.Verified,
			UpgradeConfirmed: output.UpgradeConfirmed,
		})
	}
}
