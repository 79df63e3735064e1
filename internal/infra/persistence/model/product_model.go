package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel mirrors the 'products' table.
type ProductModel struct {
	ID          uint            `gorm:"primaryKey"`
	StoreID     uint            `gorm:"not null;index"`
	Store       *StoreModel     `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string          `gorm:"type:text"`
	ImageKey    string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
