package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item of exactly one store.
type Product struct {
	ID          uint
	StoreID     uint
	Name        string
	Price       decimal.Decimal
	Description string
	ImageKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
