package usecase

import (
	"context"

	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/service"
)

// StorefrontUsecase serves public storefront pages.
type StorefrontUsecase interface {
	// GetStorefront returns a visible store with its products.
	GetStorefront(ctx context.Context, slug string) (*Storefront, error)

	// StorefrontQR renders a PNG QR code pointing at the storefront URL.
	StorefrontQR(ctx context.Context, slug string, opts service.QRCodeOptions) (*QRCode, error)
}

// Storefront is a public store page.
type Storefront struct {
	Store    *entity.Store
	Products []*entity.Product
	URL      string
}

// QRCode is a rendered storefront QR image.
type QRCode struct {
	PNG      []byte
	Filename string
	URL      string
}
