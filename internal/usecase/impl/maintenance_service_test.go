package impl

import (
	"context"
	"testing"
	"time"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMaintenanceService(t *testing.T) (*testRepos, usecase.MaintenanceUsecase) {
	t.Helper()

	repos := newTestRepos(t)
	srv := NewMaintenanceService(MaintenanceServiceParams{
		TxManager:   repos.txManager,
		UserRepo:    repos.users,
		ProfileRepo: repos.profiles,
		StoreRepo:   repos.stores,
		ProductRepo: repos.products,
		OrderRepo:   repos.orders,
		Logger:      newDiscardLogger(),
	})

	return repos, srv
}

func TestMaintenanceService_Backfill(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestMaintenanceService(t)
	bare := repos.seedUser(t, "dave")
	withStore := repos.seedUser(t, "erin")
	existing := repos.seedStore(t, withStore.ID, "erin-shop", time.Now())

	plan, err := srv.Backfill(ctx, true)
	require.NoError(t, err)
	assert.True(t, plan.DryRun)
	assert.Equal(t, 2, plan.Users)
	assert.Equal(t, 2, plan.ProfilesCreated)
	assert.Equal(t, 1, plan.StoresCreated)
	assert.Contains(t, plan.Actions, "[DRY-RUN] Create store for user=1 'dave's Store'")
	for _, action := range plan.Actions {
		assert.Contains(t, action, "[DRY-RUN]")
	}

	stores, err := repos.stores.FindStoresByOwner(ctx, bare.ID, true)
	require.NoError(t, err)
	assert.Empty(t, stores, "dry run must not write")

	result, err := srv.Backfill(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProfilesCreated)
	assert.Equal(t, 1, result.StoresCreated)

	stores, err = repos.stores.FindStoresByOwner(ctx, bare.ID, true)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "daves-store", stores[0].Slug)
	assert.True(t, stores[0].IsPublic)
	assert.Equal(t, "Auto-created store inside Majic Mall.", stores[0].Description)

	erinStores, err := repos.stores.FindStoresByOwner(ctx, withStore.ID, true)
	require.NoError(t, err)
	require.Len(t, erinStores, 1)
	assert.Equal(t, existing.ID, erinStores[0].ID)

	again, err := srv.Backfill(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, again.ProfilesCreated)
	assert.Zero(t, again.StoresCreated)
	assert.Empty(t, again.Actions)
}

func TestMaintenanceService_SeedOrders(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestMaintenanceService(t)

	_, err := srv.SeedOrders(ctx, 3)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))

	owner := repos.seedUser(t, "owner")
	_, err = srv.SeedOrders(ctx, 3)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreRequired))

	store := repos.seedStore(t, owner.ID, "shop", time.Now())

	result, err := srv.SeedOrders(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, store.ID, result.StoreID)
	assert.Equal(t, 3, result.ProductsCreated)
	assert.Equal(t, 5, result.OrdersCreated)

	orders, err := repos.orders.FindRecentOrders(ctx, store.ID, 0)
	require.NoError(t, err)
	require.Len(t, orders, 5)
	for _, order := range orders {
		assert.Nil(t, order.UserID)
		assert.Contains(t, []entity.OrderStatus{
			entity.OrderStatusPending, entity.OrderStatusPaid, entity.OrderStatusShipped, entity.OrderStatusCompleted,
		}, order.Status)
		assert.True(t, order.Total.IsPositive())
	}

	more, err := srv.SeedOrders(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, more.ProductsCreated)
	assert.Equal(t, 2, more.OrdersCreated)
}
