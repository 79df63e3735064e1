package repository

import (
	"context"

	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
)

// ErrProductNotFound is returned when a product is not found in the given store.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines product persistence scoped to a store.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *entity.Product) error
	FindProduct(ctx context.Context, storeID, id uint) (*entity.Product, error)
	FindProductsByStore(ctx context.Context, storeID uint) ([]*entity.Product, error)
	FindProductsByIDs(ctx context.Context, storeID uint, ids []uint) ([]*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) error

	// DeleteProduct fails with ErrProductInUse while order items reference the product.
	DeleteProduct(ctx context.Context, storeID, id uint) error

	CountProductsByStore(ctx context.Context, storeID uint) (int64, error)
}
