package impl

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/infra/qrcode"
	"majicmall/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStorefrontService(t *testing.T) (*testRepos, usecase.StorefrontUsecase) {
	t.Helper()

	repos := newTestRepos(t)
	cfg := newTestConfig()
	cfg.HTTP.PublicBaseURL = "https://mall.example.com/"

	return repos, NewStorefrontService(StorefrontServiceParams{
		StoreRepo:   repos.stores,
		ProductRepo: repos.products,
		QRCode:      qrcode.NewQRCodeService("M"),
		Config:      cfg,
		Logger:      newDiscardLogger(),
	})
}

func TestStorefrontService_GetStorefront(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestStorefrontService(t)
	owner := repos.seedUser(t, "owner")
	store := repos.seedStore(t, owner.ID, "glow", time.Now())
	repos.seedProduct(t, store.ID, "Glow Mug", "12.50")

	front, err := srv.GetStorefront(ctx, "glow")
	require.NoError(t, err)
	assert.Equal(t, store.ID, front.Store.ID)
	assert.Len(t, front.Products, 1)
	assert.Equal(t, "https://mall.example.com/s/glow/", front.URL)
}

func TestStorefrontService_HiddenStores(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestStorefrontService(t)
	owner := repos.seedUser(t, "owner")

	private := repos.seedStore(t, owner.ID, "private", time.Now())
	private.IsPublic = false
	require.NoError(t, repos.stores.UpdateStore(ctx, private))

	archived := repos.seedStore(t, owner.ID, "archived", time.Now())
	repos.archiveStore(t, archived, time.Now())

	for _, slug := range []string{"private", "archived", "missing"} {
		t.Run(slug, func(t *testing.T) {
			_, err := srv.GetStorefront(ctx, slug)
			assert.True(t, errors.Is(err, domainerrors.ErrStoreNotFound))

			_, err = srv.StorefrontQR(ctx, slug, service.QRCodeOptions{ModuleSize: 8})
			assert.True(t, errors.Is(err, domainerrors.ErrStoreNotFound))
		})
	}
}

func TestStorefrontService_StorefrontQR(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestStorefrontService(t)
	owner := repos.seedUser(t, "owner")
	repos.seedStore(t, owner.ID, "glow", time.Now())

	small, err := srv.StorefrontQR(ctx, "glow", service.QRCodeOptions{ModuleSize: 4})
	require.NoError(t, err)
	assert.Equal(t, "glow-qr.png", small.Filename)
	assert.Equal(t, "https://mall.example.com/s/glow/", small.URL)

	img, err := png.Decode(bytes.NewReader(small.PNG))
	require.NoError(t, err)

	large, err := srv.StorefrontQR(ctx, "glow", service.QRCodeOptions{ModuleSize: 8, WideBorder: true})
	require.NoError(t, err)
	largeImg, err := png.Decode(bytes.NewReader(large.PNG))
	require.NoError(t, err)

	assert.Greater(t, largeImg.Bounds().Dx(), img.Bounds().Dx())
}
