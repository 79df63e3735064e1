package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID         uint             `gorm:"primaryKey"`
	StoreID    uint             `gorm:"not null;index:idx_orders_store_created"`
	Store      *StoreModel      `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	UserID     *uint            `gorm:"index"`
	User       *UserModel       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	SessionKey string           `gorm:"type:varchar(64);index"`
	Status     string           `gorm:"type:varchar(20);not null;default:'pending'"`
	Note       string           `gorm:"type:text"`
	Subtotal   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Total      decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Items      []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time        `gorm:"index:idx_orders_store_created"`
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. The product reference is
// RESTRICT so products with sales history cannot be deleted.
type OrderItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"not null;index"`
	Order     *OrderModel     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ProductID uint            `gorm:"not null;index"`
	Product   *ProductModel   `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Name      string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"not null;default:1"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
