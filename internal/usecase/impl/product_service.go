package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"majicmall/config"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

var maxProductPrice = decimal.New(1, 8)

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo  repository.ProductRepository
	media        service.MediaStorage
	maxImageSize int64
	logger       *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Media       service.MediaStorage
	Config      *config.Config
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	var maxImageSize int64
	if params.Config != nil && params.Config.Storage != nil {
		maxImageSize = params.Config.Storage.MaxImageSize
	}

	return &productService{
		productRepo:  params.ProductRepo,
		media:        params.Media,
		maxImageSize: maxImageSize,
		logger:       params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *productService) ListProducts(ctx context.Context, store *entity.Store) ([]*entity.Product, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}

	products, err := srv.productRepo.FindProductsByStore(ctx, store.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *productService) GetProduct(ctx context.Context, store *entity.Store, productID uint) (*entity.Product, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}

	return srv.find(ctx, store.ID, productID)
}

func (srv *productService) find(ctx context.Context, storeID, productID uint) (*entity.Product, error) {
	product, err := srv.productRepo.FindProduct(ctx, storeID, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domainerrors.ErrProductNotFound.WrapMessage(fmt.Sprintf("product %d", productID))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

func validateProductInput(input *usecase.ProductInput) error {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("Please provide a product name.")
	}
	if input.Price.IsNegative() || input.Price.GreaterThanOrEqual(maxProductPrice) {
		return domainerrors.ErrValidationFailed.WrapMessage("Price must be a valid number.")
	}

	return nil
}

func (srv *productService) CreateProduct(ctx context.Context, store *entity.Store, input *usecase.ProductInput) (*entity.Product, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &entity.Product{
		StoreID:     store.ID,
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price.Round(2),
		Description: input.Description,
	}
	if err := srv.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Uint64("storeID", uint64(store.ID)), slog.Uint64("productID", uint64(product.ID)))

	return product, nil
}

func (srv *productService) UpdateProduct(ctx context.Context, store *entity.Store, productID uint, input *usecase.ProductInput) (*entity.Product, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := srv.find(ctx, store.ID, productID)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Price = input.Price.Round(2)
	product.Description = input.Description

	if err := srv.productRepo.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("product disappeared during update")
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// DeleteProduct removes the product and its image. Products referenced by orders
// cannot be deleted.
func (srv *productService) DeleteProduct(ctx context.Context, store *entity.Store, productID uint) error {
	if err := requireActiveStore(store); err != nil {
		return err
	}

	product, err := srv.find(ctx, store.ID, productID)
	if err != nil {
		return err
	}

	if err := srv.productRepo.DeleteProduct(ctx, store.ID, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound.WrapMessage("product already deleted")
		}

		return errors.Wrap(err, "failed to delete product")
	}

	if product.ImageKey != "" {
		if err := srv.media.Delete(ctx, product.ImageKey); err != nil {
			srv.log(ctx).Warn("Failed to delete product image", slog.String("key", product.ImageKey), slog.Any("error", err))
		}
	}
	srv.log(ctx).Info("Product deleted", slog.Uint64("storeID", uint64(store.ID)), slog.String("name", product.Name))

	return nil
}

func (srv *productService) UploadProductImage(ctx context.Context, store *entity.Store, productID uint, upload *usecase.Upload) (*entity.Product, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("image is required")
	}
	if err := validateImageUpload(upload.Data, upload.ContentType, srv.maxImageSize); err != nil {
		return nil, err
	}

	product, err := srv.find(ctx, store.ID, productID)
	if err != nil {
		return nil, err
	}

	key := mediaKey(fmt.Sprintf("products/store-%d", store.ID), upload.Filename)
	if err := srv.media.Put(ctx, key, upload.Data, upload.ContentType); err != nil {
		return nil, errors.Wrap(err, "failed to store product image")
	}

	previous := product.ImageKey
	product.ImageKey = key
	if err := srv.productRepo.UpdateProduct(ctx, product); err != nil {
		_ = srv.media.Delete(ctx, key)

		return nil, errors.Wrap(err, "failed to save product image")
	}
	if previous != "" {
		if err := srv.media.Delete(ctx, previous); err != nil {
			srv.log(ctx).Warn("Failed to delete replaced product image", slog.String("key", previous), slog.Any("error", err))
		}
	}

	return product, nil
}
