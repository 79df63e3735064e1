package repository

import (
	"context"
	"time"

	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"

	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned when an order is not found in the given store.
var ErrOrderNotFound = errors.New("order not found")

// ProductSales is one row of a best-seller ranking.
type ProductSales struct {
	ProductID uint
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}

// OrderStats summarises all orders of a store.
type OrderStats struct {
	Count   int64
	Revenue decimal.Decimal
}

// OrderRepository defines order persistence scoped to a store.
type OrderRepository interface {
	// CreateOrder persists the order together with its items.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// FindOrder returns the order with items and customer email.
	FindOrder(ctx context.Context, storeID, id uint) (*entity.Order, error)

	// FindRecentOrders returns the newest orders first. limit <= 0 means no limit.
	FindRecentOrders(ctx context.Context, storeID uint, limit int) ([]*entity.Order, error)

	// FindOrdersSince returns orders created at or after since, oldest first, with items.
	FindOrdersSince(ctx context.Context, storeID uint, since time.Time) ([]*entity.Order, error)

	UpdateOrderStatus(ctx context.Context, storeID, id uint, status entity.OrderStatus) error

	OrderStats(ctx context.Context, storeID uint) (*OrderStats, error)

	// TopProductsSince ranks products by quantity desc, revenue desc, name asc.
	TopProductsSince(ctx context.Context, storeID uint, since time.Time, limit int) ([]*ProductSales, error)
}
