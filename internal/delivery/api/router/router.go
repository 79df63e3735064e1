// Package router registers the routes of the JSON API.
package router

import (
	"majicmall/internal/delivery/api/middleware"
	"majicmall/internal/delivery/api/router/handler"
	"majicmall/internal/domain/entity"
	"majicmall/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler          *handler.AuthHandler
	StorefrontHandler    *handler.StorefrontHandler
	StoreHandler         *handler.StoreHandler
	ProductHandler       *handler.ProductHandler
	OrderHandler         *handler.OrderHandler
	PaymentMethodHandler *handler.PaymentMethodHandler
	CheckoutHandler      *handler.CheckoutHandler
	ReportHandler        *handler.ReportHandler
	StaffHandler         *handler.StaffHandler
	WebhookHandler       *handler.WebhookHandler
	MediaHandler         *handler.MediaHandler
	HealthHandler        *handler.HealthHandler

	AuthMiddleware    *middleware.AuthMiddleware
	SessionMiddleware *middleware.SessionMiddleware
	StoreMiddleware   *middleware.StoreMiddleware
	Metrics           *metrics.Registry
}

// router holds all the handlers that need to be registered.
type router struct {
	RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{RouterParams: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.HealthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(r.Metrics.Handler()))
	e.GET("/media/*", r.MediaHandler.Serve)

	authGroup := e.Group("/auth", r.SessionMiddleware.Handle)
	{
		authGroup.POST("/signup", r.AuthHandler.Signup)
		authGroup.POST("/login", r.AuthHandler.Login)
	}

	// Public storefronts. A signed-in buyer is recognised but not required.
	storefront := e.Group("/s/:slug", r.SessionMiddleware.Handle, r.AuthMiddleware.Optional)
	{
		storefront.GET("", r.StorefrontHandler.GetStorefront)
		storefront.GET("/", r.StorefrontHandler.GetStorefront)
		storefront.GET("/qr.png", r.StorefrontHandler.GetQRCode)
		storefront.POST("/orders", r.StorefrontHandler.PlaceOrder)
	}

	r.registerMerchantRoutes(e)
	r.registerStaffRoutes(e)

	// Every method is routed; the handler answers non-POST with 400.
	webhooks := e.Group("/payments/webhooks")
	for _, provider := range []entity.PaymentProvider{entity.ProviderStripe, entity.ProviderPayPal} {
		h := r.WebhookHandler.For(provider)
		webhooks.Any("/"+string(provider), h)
		webhooks.Any("/"+string(provider)+"/", h)
	}
}

// registerMerchantRoutes mounts everything that operates on the active store.
func (r *router) registerMerchantRoutes(e *echo.Echo) {
	merchant := e.Group("/merchant",
		r.AuthMiddleware.Authenticate,
		r.SessionMiddleware.Handle,
		r.StoreMiddleware.Resolve,
	)

	merchant.GET("/dashboard", r.ReportHandler.Dashboard)

	merchant.GET("/profile", r.StoreHandler.GetProfile)
	merchant.PUT("/profile", r.StoreHandler.UpdateProfile)
	merchant.POST("/profile/logo", r.StoreHandler.UploadLogo)

	merchant.GET("/reports", r.ReportHandler.Report)
	merchant.GET("/reports/export", r.ReportHandler.Export)

	merchant.GET("/orders", r.OrderHandler.ListOrders)
	merchant.GET("/orders/:id", r.OrderHandler.GetOrder)
	merchant.PATCH("/orders/:id/status", r.OrderHandler.UpdateStatus)

	merchant.GET("/products", r.ProductHandler.ListProducts)
	merchant.POST("/products", r.ProductHandler.CreateProduct)
	merchant.GET("/products/:id", r.ProductHandler.GetProduct)
	merchant.PUT("/products/:id", r.ProductHandler.UpdateProduct)
	merchant.DELETE("/products/:id", r.ProductHandler.DeleteProduct)
	merchant.POST("/products/:id/image", r.ProductHandler.UploadImage)

	merchant.GET("/payments", r.PaymentMethodHandler.ListPaymentMethods)
	merchant.POST("/payments", r.PaymentMethodHandler.CreatePaymentMethod)
	merchant.PUT("/payments/:id", r.PaymentMethodHandler.UpdatePaymentMethod)
	merchant.DELETE("/payments/:id", r.PaymentMethodHandler.DeletePaymentMethod)

	merchant.POST("/checkout/start", r.CheckoutHandler.StartCheckout)
	merchant.GET("/checkout/success", r.CheckoutHandler.CheckoutSuccess)
	merchant.GET("/checkout/cancel", r.CheckoutHandler.CheckoutCancel)

	merchant.GET("/plans", r.CheckoutHandler.ListPlans)
	merchant.POST("/plans/:plan/checkout", r.CheckoutHandler.StartPlanCheckout)
	merchant.GET("/plans/success", r.CheckoutHandler.PlanSuccess)
	merchant.GET("/plans/cancel", r.CheckoutHandler.PlanCancel)

	merchant.GET("/stores", r.StoreHandler.ListStores)
	merchant.POST("/stores", r.StoreHandler.CreateStore)
	merchant.POST("/stores/:id/switch", r.StoreHandler.SwitchStore)
	merchant.POST("/stores/:id/restore", r.StoreHandler.RestoreStore)
	merchant.POST("/store/archive", r.StoreHandler.ArchiveStore)
}

func (r *router) registerStaffRoutes(e *echo.Echo) {
	staff := e.Group("/staff",
		r.AuthMiddleware.Authenticate,
		r.AuthMiddleware.RequireRole(entity.RoleStaff),
	)

	staff.GET("/stores", r.StaffHandler.ListStores)
	staff.POST("/stores/:id/archive", r.StaffHandler.ArchiveStore)
	staff.POST("/stores/:id/restore", r.StaffHandler.RestoreStore)
	staff.POST("/stores/:id/purge", r.StaffHandler.PurgeStore)
	staff.GET("/payment-methods", r.StaffHandler.ListPaymentMethods)
}
