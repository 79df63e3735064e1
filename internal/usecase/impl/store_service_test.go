package impl

import (
	"context"
	"testing"
	"time"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/infra/storage"
	servicemocks "majicmall/internal/mocks/service"
	"majicmall/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type storeServiceFixture struct {
	repos     *testRepos
	clock     *fixedClock
	publisher *servicemocks.MockEventPublisher
	metrics   *servicemocks.MockMetricsRecorder
	service   usecase.StoreUsecase
}

func createTestStoreService(t *testing.T) *storeServiceFixture {
	t.Helper()

	repos := newTestRepos(t)
	clock := newFixedClock()
	publisher := servicemocks.NewMockEventPublisher(t)
	metrics := servicemocks.NewMockMetricsRecorder(t)

	srv := NewStoreService(StoreServiceParams{
		TxManager: repos.txManager,
		StoreRepo: repos.stores,
		Media:     storage.NewBlobStorage(memblob.OpenBucket(nil)),
		Publisher: publisher,
		Metrics:   metrics,
		Clock:     clock,
		Config:    newTestConfig(),
		Logger:    newDiscardLogger(),
	})

	return &storeServiceFixture{
		repos:     repos,
		clock:     clock,
		publisher: publisher,
		metrics:   metrics,
		service:   srv,
	}
}

func TestStoreService_ResolveActiveStore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("falls back to earliest active store", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		archived := f.repos.seedStore(t, owner.ID, "first", base)
		f.repos.archiveStore(t, archived, base.Add(time.Hour))
		second := f.repos.seedStore(t, owner.ID, "second", base.Add(24*time.Hour))
		f.repos.seedStore(t, owner.ID, "third", base.Add(48*time.Hour))

		sess := &memorySession{}
		resolved, err := f.service.ResolveActiveStore(ctx, owner.ID, nil, sess)
		require.NoError(t, err)
		require.NotNil(t, resolved)
		assert.Equal(t, second.ID, resolved.Store.ID)
		assert.Equal(t, usecase.ResolvedFromEarliest, resolved.Source)

		id, ok := sess.ActiveStoreID()
		assert.True(t, ok)
		assert.Equal(t, second.ID, id)
	})

	t.Run("override wins and is remembered", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		first := f.repos.seedStore(t, owner.ID, "first", base)
		second := f.repos.seedStore(t, owner.ID, "second", base.Add(time.Hour))

		sess := &memorySession{}
		sess.SetActiveStoreID(first.ID)

		resolved, err := f.service.ResolveActiveStore(ctx, owner.ID, &second.ID, sess)
		require.NoError(t, err)
		assert.Equal(t, second.ID, resolved.Store.ID)
		assert.Equal(t, usecase.ResolvedFromOverride, resolved.Source)

		id, _ := sess.ActiveStoreID()
		assert.Equal(t, second.ID, id)
	})

	t.Run("foreign override is ignored", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		other := f.repos.seedUser(t, "other")
		own := f.repos.seedStore(t, owner.ID, "own", base)
		foreign := f.repos.seedStore(t, other.ID, "foreign", base)

		resolved, err := f.service.ResolveActiveStore(ctx, owner.ID, &foreign.ID, &memorySession{})
		require.NoError(t, err)
		assert.Equal(t, own.ID, resolved.Store.ID)
		assert.Equal(t, usecase.ResolvedFromEarliest, resolved.Source)
	})

	t.Run("stale session selection is cleared", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		first := f.repos.seedStore(t, owner.ID, "first", base)
		second := f.repos.seedStore(t, owner.ID, "second", base.Add(time.Hour))
		f.repos.archiveStore(t, second, base.Add(2*time.Hour))

		sess := &memorySession{}
		sess.SetActiveStoreID(second.ID)

		resolved, err := f.service.ResolveActiveStore(ctx, owner.ID, nil, sess)
		require.NoError(t, err)
		assert.Equal(t, first.ID, resolved.Store.ID)

		id, _ := sess.ActiveStoreID()
		assert.Equal(t, first.ID, id)
	})

	t.Run("session selection is used", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		f.repos.seedStore(t, owner.ID, "first", base)
		second := f.repos.seedStore(t, owner.ID, "second", base.Add(time.Hour))

		sess := &memorySession{}
		sess.SetActiveStoreID(second.ID)

		resolved, err := f.service.ResolveActiveStore(ctx, owner.ID, nil, sess)
		require.NoError(t, err)
		assert.Equal(t, second.ID, resolved.Store.ID)
		assert.Equal(t, usecase.ResolvedFromSession, resolved.Source)
	})

	t.Run("no active store resolves to nil", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		only := f.repos.seedStore(t, owner.ID, "only", base)
		f.repos.archiveStore(t, only, base.Add(time.Hour))

		sess := &memorySession{}
		resolved, err := f.service.ResolveActiveStore(ctx, owner.ID, nil, sess)
		require.NoError(t, err)
		assert.Nil(t, resolved)

		_, ok := sess.ActiveStoreID()
		assert.False(t, ok)
	})
}

func TestStoreService_EnsureStore(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")

	store, created, err := f.service.EnsureStore(ctx, owner.ID, &memorySession{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "store", store.Slug)
	assert.Equal(t, entity.PlanStarter, store.Plan)

	again, created, err := f.service.EnsureStore(ctx, owner.ID, &memorySession{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, store.ID, again.ID)

	stores, err := f.repos.stores.FindStoresByOwner(ctx, owner.ID, true)
	require.NoError(t, err)
	assert.Len(t, stores, 1)
}

func TestStoreService_EnsureStore_ReturnsArchivedStore(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")
	store := f.repos.seedStore(t, owner.ID, "old", time.Now().Add(-time.Hour))
	f.repos.archiveStore(t, store, f.clock.Now())

	got, created, err := f.service.EnsureStore(ctx, owner.ID, &memorySession{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, store.ID, got.ID)
	assert.True(t, got.IsArchived)
}

func TestStoreService_CreateStore(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")
	f.repos.seedStore(t, owner.ID, "cafe-creme", time.Now())

	name := "Café Crème"
	sess := &memorySession{}
	store, err := f.service.CreateStore(ctx, owner.ID, &usecase.StoreInput{Name: &name}, sess)
	require.NoError(t, err)
	assert.Equal(t, "cafe-creme-2", store.Slug)
	assert.Equal(t, name, store.Name)

	id, _ := sess.ActiveStoreID()
	assert.Equal(t, store.ID, id)

	blank := "  "
	_, err = f.service.CreateStore(ctx, owner.ID, &usecase.StoreInput{Name: &blank}, sess)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	taken := "cafe-creme"
	_, err = f.service.CreateStore(ctx, owner.ID, &usecase.StoreInput{Name: &name, Slug: &taken}, sess)
	assert.True(t, errors.Is(err, domainerrors.ErrSlugTaken))
}

func TestStoreService_SwitchStore(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")
	other := f.repos.seedUser(t, "other")
	active := f.repos.seedStore(t, owner.ID, "active", time.Now())
	archived := f.repos.seedStore(t, owner.ID, "archived", time.Now())
	f.repos.archiveStore(t, archived, f.clock.Now())
	foreign := f.repos.seedStore(t, other.ID, "foreign", time.Now())

	sess := &memorySession{}
	store, err := f.service.SwitchStore(ctx, owner.ID, active.ID, sess)
	require.NoError(t, err)
	assert.Equal(t, active.ID, store.ID)

	_, err = f.service.SwitchStore(ctx, owner.ID, archived.ID, sess)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreArchived))

	_, err = f.service.SwitchStore(ctx, owner.ID, foreign.ID, sess)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreNotFound))

	id, _ := sess.ActiveStoreID()
	assert.Equal(t, active.ID, id)
}

func TestStoreService_UploadLogo(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")
	store := f.repos.seedStore(t, owner.ID, "logo", time.Now())

	png := []byte("\x89PNG\r\n\x1a\n0000")
	updated, err := f.service.UploadLogo(ctx, store, &usecase.Upload{Filename: "logo.png", ContentType: "image/png", Data: png})
	require.NoError(t, err)
	assert.Contains(t, updated.LogoKey, "logos/store-")

	_, err = f.service.UploadLogo(ctx, store, &usecase.Upload{Filename: "logo.txt", ContentType: "text/plain", Data: []byte("hello")})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestStoreService_ArchiveAndRestore(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")
	store := f.repos.seedStore(t, owner.ID, "shop", time.Now())

	f.metrics.EXPECT().StoreLifecycle("archive").Once()
	f.metrics.EXPECT().StoreLifecycle("restore").Once()
	f.publisher.EXPECT().Publish(mock.Anything, eventOfType("store.archived")).Return(nil).Once()
	f.publisher.EXPECT().Publish(mock.Anything, eventOfType("store.restored")).Return(nil).Once()

	result, err := f.service.ArchiveStore(ctx, store)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.Store.IsArchived)
	require.NotNil(t, result.RestoreDeadline)
	assert.Equal(t, f.clock.Now().Add(entity.RestoreWindow), result.RestoreDeadline.UTC())
	assert.True(t, result.CanRestore)
	assert.Contains(t, result.Message, "restore it within 7 days")

	again, err := f.service.ArchiveStore(ctx, store)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Contains(t, again.Message, "already archived")

	restored, err := f.service.RestoreStore(ctx, owner.ID, store.ID)
	require.NoError(t, err)
	assert.True(t, restored.Changed)
	assert.False(t, restored.Store.IsArchived)
	assert.Nil(t, restored.Store.ArchivedAt)

	noop, err := f.service.RestoreStore(ctx, owner.ID, store.ID)
	require.NoError(t, err)
	assert.False(t, noop.Changed)
	assert.Contains(t, noop.Message, "is not archived")
}

func TestStoreService_RestoreAfterWindow(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")
	store := f.repos.seedStore(t, owner.ID, "late", time.Now())
	f.repos.archiveStore(t, store, f.clock.Now().Add(-10*24*time.Hour))

	f.metrics.EXPECT().StoreLifecycle("restore").Once()
	f.publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(event *service.DomainEvent) bool {
		return event.Type == "store.restored" && event.Payload["late"] == true
	})).Return(nil).Once()

	result, err := f.service.RestoreStore(ctx, owner.ID, store.ID)
	require.NoError(t, err)
	assert.True(t, result.Changed)
}

func TestStoreService_RestoreForeignStore(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")
	other := f.repos.seedUser(t, "other")
	store := f.repos.seedStore(t, other.ID, "theirs", time.Now())
	f.repos.archiveStore(t, store, f.clock.Now())

	_, err := f.service.RestoreStore(ctx, owner.ID, store.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreNotFound))
}

func TestStoreService_PurgeStore(t *testing.T) {
	ctx := context.Background()

	t.Run("active store cannot be purged", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		store := f.repos.seedStore(t, owner.ID, "active", time.Now())

		_, err := f.service.PurgeStore(ctx, store.ID)
		assert.True(t, errors.Is(err, domainerrors.ErrStoreNotArchived))
	})

	t.Run("too early reports remaining time", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		store := f.repos.seedStore(t, owner.ID, "recent", time.Now())
		f.repos.archiveStore(t, store, f.clock.Now().Add(-5*24*time.Hour))

		_, err := f.service.PurgeStore(ctx, store.ID)
		require.Error(t, err)

		var tooEarly *domainerrors.PurgeTooEarlyError
		require.True(t, errors.As(err, &tooEarly))
		assert.Equal(t, 2*24*time.Hour, tooEarly.Remaining)

		_, err = f.repos.stores.FindStoreByID(ctx, store.ID)
		assert.NoError(t, err)
	})

	t.Run("window boundary", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		store := f.repos.seedStore(t, owner.ID, "edge", time.Now())

		f.repos.archiveStore(t, store, f.clock.Now().Add(-6*24*time.Hour))
		_, err := f.service.PurgeStore(ctx, store.ID)
		var tooEarly *domainerrors.PurgeTooEarlyError
		require.True(t, errors.As(err, &tooEarly))
		assert.Equal(t, 24*time.Hour, tooEarly.Remaining)

		archivedAt := f.clock.Now().Add(-7*24*time.Hour - time.Second)
		store.ArchivedAt = &archivedAt
		require.NoError(t, f.repos.stores.UpdateStore(ctx, store))
		f.metrics.EXPECT().StoreLifecycle("purge").Once()
		f.publisher.EXPECT().Publish(mock.Anything, eventOfType("store.purged")).Return(nil).Once()

		_, err = f.service.PurgeStore(ctx, store.ID)
		require.NoError(t, err)
		_, err = f.repos.stores.FindStoreByID(ctx, store.ID)
		assert.Error(t, err)
	})

	t.Run("expired store is deleted with its data", func(t *testing.T) {
		f := createTestStoreService(t)
		owner := f.repos.seedUser(t, "owner")
		store := f.repos.seedStore(t, owner.ID, "gone", time.Now())
		product := f.repos.seedProduct(t, store.ID, "Tee", "10.00")
		f.repos.seedOrder(t, store.ID, time.Now(), orderLine{product, 2})
		f.repos.seedPaymentMethod(t, store.ID, entity.ProviderStripe, true, true)
		f.repos.archiveStore(t, store, f.clock.Now().Add(-8*24*time.Hour))

		f.metrics.EXPECT().StoreLifecycle("purge").Once()
		f.publisher.EXPECT().Publish(mock.Anything, eventOfType("store.purged")).Return(nil).Once()

		result, err := f.service.PurgeStore(ctx, store.ID)
		require.NoError(t, err)
		assert.Equal(t, `Store "Store gone" permanently deleted.`, result.Message)

		_, err = f.repos.stores.FindStoreByID(ctx, store.ID)
		assert.Error(t, err)

		products, err := f.repos.products.FindProductsByStore(ctx, store.ID)
		require.NoError(t, err)
		assert.Empty(t, products)

		methods, err := f.repos.methods.FindPaymentMethodsByStore(ctx, store.ID)
		require.NoError(t, err)
		assert.Empty(t, methods)
	})

	t.Run("missing store", func(t *testing.T) {
		f := createTestStoreService(t)

		_, err := f.service.PurgeStore(ctx, 999)
		assert.True(t, errors.Is(err, domainerrors.ErrStoreNotFound))
	})
}

func TestStoreService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")

	expired := f.repos.seedStore(t, owner.ID, "expired", time.Now())
	f.repos.archiveStore(t, expired, f.clock.Now().Add(-9*24*time.Hour))
	recent := f.repos.seedStore(t, owner.ID, "recent", time.Now())
	f.repos.archiveStore(t, recent, f.clock.Now().Add(-24*time.Hour))
	active := f.repos.seedStore(t, owner.ID, "active", time.Now())

	f.metrics.EXPECT().StoreLifecycle("purge").Once()
	f.publisher.EXPECT().Publish(mock.Anything, eventOfType("store.purged")).Return(nil).Once()

	purged, err := f.service.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{expired.ID}, purged)

	for _, id := range []uint{recent.ID, active.ID} {
		_, err := f.repos.stores.FindStoreByID(ctx, id)
		assert.NoError(t, err)
	}
}

func TestStoreService_ListOwnedStores(t *testing.T) {
	ctx := context.Background()
	f := createTestStoreService(t)
	owner := f.repos.seedUser(t, "owner")
	active := f.repos.seedStore(t, owner.ID, "a", time.Now().Add(-time.Hour))
	archived := f.repos.seedStore(t, owner.ID, "b", time.Now())
	f.repos.archiveStore(t, archived, f.clock.Now().Add(-3*24*time.Hour))

	views, err := f.service.ListOwnedStores(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, active.ID, views[0].Store.ID)
	assert.Nil(t, views[0].RestoreDeadline)
	assert.False(t, views[0].CanRestore)

	assert.Equal(t, archived.ID, views[1].Store.ID)
	assert.True(t, views[1].CanRestore)
	assert.Equal(t, 4*24*time.Hour, views[1].PurgeRemaining)
}
