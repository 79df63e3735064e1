package impl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"majicmall/config"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"go.uber.org/fx"
)

// storefrontService implements the StorefrontUsecase interface.
type storefrontService struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	qrcode      service.QRCodeService
	baseURL     string
	logger      *slog.Logger
}

// StorefrontServiceParams holds dependencies for StorefrontService, injected by Fx.
type StorefrontServiceParams struct {
	fx.In

	StoreRepo   repository.StoreRepository
	ProductRepo repository.ProductRepository
	QRCode      service.QRCodeService
	Config      *config.Config
	Logger      *slog.Logger
}

// NewStorefrontService is the constructor for storefrontService.
func NewStorefrontService(params StorefrontServiceParams) usecase.StorefrontUsecase {
	baseURL := ""
	if params.Config != nil {
		baseURL = strings.TrimRight(params.Config.HTTP.PublicBaseURL, "/")
	}

	return &storefrontService{
		storeRepo:   params.StoreRepo,
		productRepo: params.ProductRepo,
		qrcode:      params.QRCode,
		baseURL:     baseURL,
		logger:      params.Logger,
	}
}

func (srv *storefrontService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// visibleStore returns the store only when it is public and not archived.
func (srv *storefrontService) visibleStore(ctx context.Context, slug string) (*entity.Store, error) {
	store, err := srv.storeRepo.FindStoreBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreNotFound(err, "storefront "+slug)
	}
	if !store.Visible() {
		return nil, domainerrors.ErrStoreNotFound.WrapMessage("storefront " + slug + " is not public")
	}

	return store, nil
}

func (srv *storefrontService) storefrontURL(slug string) string {
	return srv.baseURL + "/s/" + url.PathEscape(slug) + "/"
}

func (srv *storefrontService) GetStorefront(ctx context.Context, slug string) (*usecase.Storefront, error) {
	store, err := srv.visibleStore(ctx, slug)
	if err != nil {
		return nil, err
	}

	products, err := srv.productRepo.FindProductsByStore(ctx, store.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list storefront products")
	}

	return &usecase.Storefront{
		Store:    store,
		Products: products,
		URL:      srv.storefrontURL(store.Slug),
	}, nil
}

// StorefrontQR encodes the public storefront URL.
func (srv *storefrontService) StorefrontQR(ctx context.Context, slug string, opts service.QRCodeOptions) (*usecase.QRCode, error) {
	store, err := srv.visibleStore(ctx, slug)
	if err != nil {
		return nil, err
	}

	target := srv.storefrontURL(store.Slug)
	png, err := srv.qrcode.GeneratePNG(target, opts)
	if err != nil {
		srv.log(ctx).Error("Failed to render storefront QR", slog.String("slug", slug), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to render QR code")
	}

	return &usecase.QRCode{
		PNG:      png,
		Filename: store.Slug + "-qr.png",
		URL:      target,
	}, nil
}
