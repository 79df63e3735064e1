package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewOrderItem_SnapshotsProduct(t *testing.T) {
	product := &Product{ID: 7, Name: "Mug", Price: decimal.RequireFromString("12.50")}
	item := NewOrderItem(product, 3)

	product.Name = "Big Mug"
	product.Price = decimal.RequireFromString("99.00")

	assert.Equal(t, uint(7), item.ProductID)
	assert.Equal(t, "Mug", item.Name)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("37.50")))
}

func TestOrder_Recalculate(t *testing.T) {
	order := &Order{Items: []*OrderItem{
		{Name: "A", UnitPrice: decimal.RequireFromString("1.25"), Quantity: 2},
		{Name: "B", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1},
	}}
	order.Recalculate()

	assert.Equal(t, "12.50", order.Subtotal.StringFixed(2))
	assert.Equal(t, "12.50", order.Total.StringFixed(2))
	assert.Equal(t, 3, order.ItemCount())
}

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []OrderStatus{"pending", "paid", "shipped", "completed", "refunded", "canceled"} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, OrderStatus("lost").IsValid())
}

func TestMinorUnitsAndFormatMoney(t *testing.T) {
	assert.Equal(t, int64(2599), MinorUnits(decimal.RequireFromString("25.99")))
	assert.Equal(t, int64(1001), MinorUnits(decimal.RequireFromString("10.005")))
	assert.Equal(t, "$25.90", FormatMoney(decimal.RequireFromString("25.9")))
}
