package handler

import (
	"net/http"
	"strconv"
	"time"

	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	chartsPro  = "pro"
	chartsLite = "lite"
)

// ReportHandler serves the dashboard, the sales report and its CSV export.
type ReportHandler struct {
	uc usecase.ReportUsecase
}

func NewReportHandler(uc usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

type reportPointView struct {
	Date    string          `json:"date"`
	Label   string          `json:"label"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type topProductView struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type reportResponse struct {
	Range               int                `json:"range"`
	Charts              string             `json:"charts"`
	Since               time.Time          `json:"since"`
	Points              []*reportPointView `json:"points"`
	TotalOrders         int                `json:"total_orders"`
	TotalRevenue        decimal.Decimal    `json:"total_revenue"`
	TotalRevenueDisplay string             `json:"total_revenue_display"`
	ProductCount        int64              `json:"product_count"`
	TopProducts         []*topProductView  `json:"top_products"`
}

type dashboardResponse struct {
	Store          *storeView      `json:"store"`
	ProductCount   int64           `json:"product_count"`
	OrderCount     int64           `json:"order_count"`
	Revenue        decimal.Decimal `json:"revenue"`
	RevenueDisplay string          `json:"revenue_display"`
	RecentOrders   []*orderView    `json:"recent_orders"`
}

// Report accepts range=7|30|90; anything else falls back to 7 days.
func (h *ReportHandler) Report(c echo.Context) error {
	report, err := h.uc.Report(c.Request().Context(), deliverycontext.GetStore(c), rangeParam(c))
	if err != nil {
		return errors.WithStack(err)
	}

	charts := chartsLite
	if c.QueryParam("charts") == chartsPro {
		charts = chartsPro
	}

	points := make([]*reportPointView, 0, len(report.Points))
	for _, p := range report.Points {
		points = append(points, &reportPointView{
			Date:    p.Date.Format(time.DateOnly),
			Label:   p.Label,
			Orders:  p.Orders,
			Revenue: p.Revenue,
		})
	}

	top := make([]*topProductView, 0, len(report.TopProducts))
	for _, p := range report.TopProducts {
		top = append(top, &topProductView{
			ProductID: p.ProductID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Revenue:   p.Revenue,
		})
	}

	return response.Success(c, http.StatusOK, reportResponse{
		Range:               report.Days,
		Charts:              charts,
		Since:               report.Since,
		Points:              points,
		TotalOrders:         report.TotalOrders,
		TotalRevenue:        report.TotalRevenue,
		TotalRevenueDisplay: entity.FormatMoney(report.TotalRevenue),
		ProductCount:        report.ProductCount,
		TopProducts:         top,
	})
}

// Export downloads the report window as CSV.
func (h *ReportHandler) Export(c echo.Context) error {
	export, err := h.uc.Export(c.Request().Context(), deliverycontext.GetStore(c), rangeParam(c))
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", export.Content)
}

// Dashboard summarises the active store.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	store := deliverycontext.GetStore(c)

	dashboard, err := h.uc.Dashboard(c.Request().Context(), store)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboardResponse{
		Store:          newStoreView(store),
		ProductCount:   dashboard.ProductCount,
		OrderCount:     dashboard.OrderCount,
		Revenue:        dashboard.Revenue,
		RevenueDisplay: entity.FormatMoney(dashboard.Revenue),
		RecentOrders:   newOrderViews(dashboard.RecentOrders),
	})
}

func rangeParam(c echo.Context) int {
	days, err := strconv.Atoi(c.QueryParam("range"))
	if err != nil {
		return 0
	}

	return days
}
