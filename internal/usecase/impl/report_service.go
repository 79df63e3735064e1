package impl

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"majicmall/config"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/repository"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

const (
	defaultReportDays = 7
	topProductsLimit  = 10
	recentOrdersLimit = 10
	dayKeyLayout      = "2006-01-02"
)

var csvHeader = []string{"Date", "Order ID", "Status", "Total", "Customer Email", "Items (qty)"}

// reportService implements the ReportUsecase interface.
type reportService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	clock       service.Clock
	location    *time.Location
	logger      *slog.Logger
}

// ReportServiceParams holds dependencies for ReportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository
	Clock       service.Clock
	Config      *config.Config
	Logger      *slog.Logger
}

// NewReportService is the constructor for reportService.
func NewReportService(params ReportServiceParams) (usecase.ReportUsecase, error) {
	location := time.UTC
	if params.Config != nil {
		loc, err := params.Config.Location()
		if err != nil {
			return nil, err
		}
		location = loc
	}

	return &reportService{
		productRepo: params.ProductRepo,
		orderRepo:   params.OrderRepo,
		clock:       params.Clock,
		location:    location,
		logger:      params.Logger,
	}, nil
}

func (srv *reportService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// clampDays accepts 7, 30 or 90 and falls back to 7.
func clampDays(days int) int {
	switch days {
	case 7, 30, 90:
		return days
	default:
		return defaultReportDays
	}
}

// windowStart is local midnight of the first day of a days-long window ending today.
func windowStart(now time.Time, days int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()-(days-1), 0, 0, 0, 0, now.Location())
}

// Report builds a zero-filled daily series plus totals and best sellers for the window.
func (srv *reportService) Report(ctx context.Context, store *entity.Store, days int) (*usecase.Report, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}

	days = clampDays(days)
	now := srv.clock.Now().In(srv.location)
	since := windowStart(now, days)

	orders, err := srv.orderRepo.FindOrdersSince(ctx, store.ID, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load orders for report")
	}
	productCount, err := srv.productRepo.CountProductsByStore(ctx, store.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products")
	}
	top, err := srv.orderRepo.TopProductsSince(ctx, store.ID, since, topProductsLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank products")
	}

	type bucket struct {
		orders  int
		revenue decimal.Decimal
	}
	buckets := make(map[string]*bucket, days)
	report := &usecase.Report{
		Days:         days,
		Since:        since,
		TotalRevenue: decimal.Zero,
		ProductCount: productCount,
		TopProducts:  top,
	}
	for _, order := range orders {
		key := order.CreatedAt.In(srv.location).Format(dayKeyLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{revenue: decimal.Zero}
			buckets[key] = b
		}
		b.orders++
		b.revenue = b.revenue.Add(order.Total)
		report.TotalOrders++
		report.TotalRevenue = report.TotalRevenue.Add(order.Total)
	}

	report.Points = make([]usecase.ReportPoint, 0, days)
	for i := range days {
		day := time.Date(since.Year(), since.Month(), since.Day()+i, 0, 0, 0, 0, srv.location)
		point := usecase.ReportPoint{Date: day, Label: day.Format("Jan 02"), Revenue: decimal.Zero}
		if b, ok := buckets[day.Format(dayKeyLayout)]; ok {
			point.Orders = b.orders
			point.Revenue = b.revenue
		}
		report.Points = append(report.Points, point)
	}

	return report, nil
}

// Export renders the window's orders as CSV, oldest first.
func (srv *reportService) Export(ctx context.Context, store *entity.Store, days int) (*usecase.ReportExport, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}

	days = clampDays(days)
	now := srv.clock.Now().In(srv.location)

	orders, err := srv.orderRepo.FindOrdersSince(ctx, store.ID, windowStart(now, days))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load orders for export")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(csvHeader); err != nil {
		return nil, errors.Wrap(err, "failed to write csv header")
	}
	for _, order := range orders {
		row := []string{
			order.CreatedAt.In(srv.location).Format("2006-01-02 15:04"),
			strconv.FormatUint(uint64(order.ID), 10),
			string(order.Status),
			order.Total.StringFixed(2),
			order.CustomerEmail,
			strconv.Itoa(order.ItemCount()),
		}
		if err := writer.Write(row); err != nil {
			return nil, errors.Wrap(err, "failed to write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush csv")
	}

	srv.log(ctx).Info("Report exported", slog.Uint64("storeID", uint64(store.ID)), slog.Int("days", days), slog.Int("rows", len(orders)))

	return &usecase.ReportExport{
		Filename: fmt.Sprintf("store_%d_report_%s.csv", store.ID, now.Format("20060102_150405")),
		Content:  buf.Bytes(),
	}, nil
}

// Dashboard loads the summary figures concurrently.
func (srv *reportService) Dashboard(ctx context.Context, store *entity.Store) (*usecase.Dashboard, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}

	dashboard := &usecase.Dashboard{Revenue: decimal.Zero}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := srv.productRepo.CountProductsByStore(gctx, store.ID)
		if err != nil {
			return errors.Wrap(err, "failed to count products")
		}
		dashboard.ProductCount = count

		return nil
	})
	g.Go(func() error {
		stats, err := srv.orderRepo.OrderStats(gctx, store.ID)
		if err != nil {
			return errors.Wrap(err, "failed to compute order stats")
		}
		dashboard.OrderCount = stats.Count
		dashboard.Revenue = stats.Revenue

		return nil
	})
	g.Go(func() error {
		orders, err := srv.orderRepo.FindRecentOrders(gctx, store.ID, recentOrdersLimit)
		if err != nil {
			return errors.Wrap(err, "failed to load recent orders")
		}
		dashboard.RecentOrders = orders

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dashboard, nil
}
