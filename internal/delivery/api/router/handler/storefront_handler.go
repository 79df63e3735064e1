package handler

import (
	"net/http"
	"strconv"
	"strings"

	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

const defaultQRModuleSize = 6

// StorefrontHandler serves public store pages, their QR codes and guest ordering.
type StorefrontHandler struct {
	storefrontUC usecase.StorefrontUsecase
	orderUC      usecase.OrderUsecase
}

func NewStorefrontHandler(storefrontUC usecase.StorefrontUsecase, orderUC usecase.OrderUsecase) *StorefrontHandler {
	return &StorefrontHandler{storefrontUC: storefrontUC, orderUC: orderUC}
}

type storefrontResponse struct {
	Store    *storeView     `json:"store"`
	Products []*productView `json:"products"`
	URL      string         `json:"url"`
	QRURL    string         `json:"qr_url"`
}

// GetStorefront is 404 unless the store is public and not archived.
func (h *StorefrontHandler) GetStorefront(c echo.Context) error {
	storefront, err := h.storefrontUC.GetStorefront(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, storefrontResponse{
		Store:    newStoreView(storefront.Store),
		Products: newProductViews(storefront.Products),
		URL:      storefront.URL,
		QRURL:    strings.TrimSuffix(storefront.URL, "/") + "/qr.png",
	})
}

// GetQRCode renders the storefront URL as a PNG. size is the module size (2-20,
// default 6), box widens the quiet zone and download forces an attachment.
func (h *StorefrontHandler) GetQRCode(c echo.Context) error {
	opts := service.QRCodeOptions{
		ModuleSize: defaultQRModuleSize,
		WideBorder: truthy(c.QueryParam("box")),
	}
	if size, err := strconv.Atoi(c.QueryParam("size")); err == nil {
		opts.ModuleSize = size
	}

	qr, err := h.storefrontUC.StorefrontQR(c.Request().Context(), c.Param("slug"), opts)
	if err != nil {
		return errors.WithStack(err)
	}

	disposition := "inline"
	if truthy(c.QueryParam("download")) {
		disposition = "attachment"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition+`; filename="`+qr.Filename+`"`)
	c.Response().Header().Set("Cache-Control", "public, max-age=300")

	return c.Blob(http.StatusOK, "image/png", qr.PNG)
}

// PlaceOrder creates a pending order for the signed-in user, or for the
// anonymous session when nobody is signed in.
func (h *StorefrontHandler) PlaceOrder(c echo.Context) error {
	var input usecase.PlaceOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid order input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	// The buyer identity never comes from the body.
	input.UserID, input.SessionKey = nil, ""
	if userID, ok := deliverycontext.GetUserID(c); ok {
		input.UserID = &userID
	} else {
		sess := deliverycontext.GetSession(c)
		if sess == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "A session is required to order as a guest")
		}
		sess.Touch()
		input.SessionKey = sess.ID()
	}

	order, err := h.orderUC.PlaceOrder(c.Request().Context(), c.Param("slug"), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusCreated, newOrderView(order), "Order placed")
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
