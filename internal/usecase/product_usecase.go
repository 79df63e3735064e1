package usecase

import (
	"context"

	"majicmall/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// ProductUsecase manages the products of the resolved store.
type ProductUsecase interface {
	ListProducts(ctx context.Context, store *entity.Store) ([]*entity.Product, error)
	GetProduct(ctx context.Context, store *entity.Store, productID uint) (*entity.Product, error)
	CreateProduct(ctx context.Context, store *entity.Store, input *ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, store *entity.Store, productID uint, input *ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, store *entity.Store, productID uint) error
	UploadProductImage(ctx context.Context, store *entity.Store, productID uint, upload *Upload) (*entity.Product, error)
}

// ProductInput defines product fields.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}
