package usecase

import (
	"context"
	"time"

	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/repository"

	"github.com/shopspring/decimal"
)

// ReportUsecase aggregates order history of the resolved store at read time.
type ReportUsecase interface {
	Report(ctx context.Context, store *entity.Store, days int) (*Report, error)
	Export(ctx context.Context, store *entity.Store, days int) (*ReportExport, error)
	Dashboard(ctx context.Context, store *entity.Store) (*Dashboard, error)
}

// ReportPoint is one day of the series.
type ReportPoint struct {
	Date    time.Time
	Label   string
	Orders  int
	Revenue decimal.Decimal
}

// Report is the windowed sales summary.
type Report struct {
	Days         int
	Since        time.Time
	Points       []ReportPoint
	TotalOrders  int
	TotalRevenue decimal.Decimal
	ProductCount int64
	TopProducts  []*repository.ProductSales
}

// ReportExport is a CSV download.
type ReportExport struct {
	Filename string
	Content  []byte
}

// Dashboard is the merchant landing summary.
type Dashboard struct {
	ProductCount int64
	OrderCount   int64
	Revenue      decimal.Decimal
	RecentOrders []*entity.Order
}
