package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRefunded  OrderStatus = "refunded"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusRefunded, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// Order belongs to one store and is placed either by a user or by an anonymous session.
type Order struct {
	ID         uint
	StoreID    uint
	UserID     *uint
	SessionKey string
	// CustomerEmail is resolved from the purchasing user and is empty for anonymous orders.
	CustomerEmail string
	Status        OrderStatus
	Note          string
	Subtotal      decimal.Decimal
	Total         decimal.Decimal
	Items         []*OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem snapshots the product name and unit price at creation time.
type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID uint
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// NewOrderItem copies name and price from the product.
func NewOrderItem(product *Product, quantity int) *OrderItem {
	return &OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
	}
}

// LineTotal is unit price times quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Recalculate refreshes the cached subtotal and total from the items.
func (o *Order) Recalculate() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.Subtotal = subtotal
	o.Total = subtotal
}

// ItemCount sums item quantities.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}

	return count
}
