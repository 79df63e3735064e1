package model

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentMethodModel mirrors the 'payment_methods' table.
type PaymentMethodModel struct {
	ID          uint        `gorm:"primaryKey"`
	StoreID     uint        `gorm:"not null;index"`
	Store       *StoreModel `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Provider    string      `gorm:"type:varchar(20);not null"`
	DisplayName string      `gorm:"type:varchar(80)"`
	Mode        string      `gorm:"type:varchar(10);not null;default:'test'"`
	IsActive    bool        `gorm:"not null"`
	IsDefault   bool        `gorm:"not null;default:false"`
	Credentials datatypes.JSONMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}
