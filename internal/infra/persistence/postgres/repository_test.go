package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "mall.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(context.Background(), db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()

	user := &entity.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).CreateUser(context.Background(), user))

	return user
}

func seedStore(t *testing.T, db *gorm.DB, ownerID uint, slug string, createdAt time.Time) *entity.Store {
	t.Helper()

	store := &entity.Store{
		OwnerID:   ownerID,
		Name:      "Store " + slug,
		Slug:      slug,
		Plan:      entity.PlanStarter,
		CreatedAt: createdAt,
	}
	require.NoError(t, NewStoreRepository(db).CreateStore(context.Background(), store))

	return store
}

func seedProduct(t *testing.T, db *gorm.DB, storeID uint, name, price string) *entity.Product {
	t.Helper()

	product := &entity.Product{StoreID: storeID, Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, NewProductRepository(db).CreateProduct(context.Background(), product))

	return product
}

func seedOrder(t *testing.T, db *gorm.DB, storeID uint, createdAt time.Time, lines map[*entity.Product]int) *entity.Order {
	t.Helper()

	order := &entity.Order{StoreID: storeID, Status: entity.OrderStatusPaid, CreatedAt: createdAt}
	for product, qty := range lines {
		order.Items = append(order.Items, entity.NewOrderItem(product, qty))
	}
	order.Recalculate()
	require.NoError(t, NewOrderRepository(db).CreateOrder(context.Background(), order))

	return order
}

func TestUserRepository_CreateAndFindByLogin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := seedUser(t, db, "alice")
	assert.NotZero(t, user.ID)

	byName, err := repo.FindUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.FindUserByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindUserByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	err = repo.CreateUser(ctx, &entity.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserRepository_LockUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "bob")

	repo := NewUserRepository(db)
	assert.NoError(t, repo.LockUser(ctx, user.ID))
	assert.ErrorIs(t, repo.LockUser(ctx, user.ID+100), repository.ErrUserNotFound)
}

func TestStoreRepository_FindEarliestActiveStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewStoreRepository(db)
	owner := seedUser(t, db, "owner")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	older := seedStore(t, db, owner.ID, "older", base)
	newer := seedStore(t, db, owner.ID, "newer", base.Add(time.Hour))

	store, err := repo.FindEarliestActiveStore(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, store.ID)

	older.Archive(base.Add(2 * time.Hour))
	require.NoError(t, repo.UpdateStore(ctx, older))

	store, err = repo.FindEarliestActiveStore(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, store.ID)

	active, err := repo.FindStoresByOwner(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := repo.FindStoresByOwner(ctx, owner.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	other := seedUser(t, db, "other")
	_, err = repo.FindEarliestActiveStore(ctx, other.ID)
	assert.ErrorIs(t, err, repository.ErrStoreNotFound)
}

func TestStoreRepository_SlugUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewStoreRepository(db)
	owner := seedUser(t, db, "owner")

	store := seedStore(t, db, owner.ID, "shop", time.Now())

	err := repo.CreateStore(ctx, &entity.Store{OwnerID: owner.ID, Name: "Dup", Slug: "shop", Plan: entity.PlanStarter})
	assert.True(t, errors.Is(err, domainerrors.ErrSlugTaken))

	exists, err := repo.SlugExists(ctx, "shop", store.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.SlugExists(ctx, "shop", 0)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreRepository_UpdateStorePersistsFalseFlags(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewStoreRepository(db)
	owner := seedUser(t, db, "owner")

	store := seedStore(t, db, owner.ID, "flags", time.Now())
	store.IsPublic = true
	require.NoError(t, repo.UpdateStore(ctx, store))

	store.IsPublic = false
	store.Slogan = "fresh"
	require.NoError(t, repo.UpdateStore(ctx, store))

	reloaded, err := repo.FindOwnedStore(ctx, owner.ID, store.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPublic)
	assert.Equal(t, "fresh", reloaded.Slogan)

	_, err = repo.FindOwnedStore(ctx, owner.ID+1, store.ID)
	assert.ErrorIs(t, err, repository.ErrStoreNotFound)
}

func TestStoreRepository_FindArchivedBefore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewStoreRepository(db)
	owner := seedUser(t, db, "owner")
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	expired := seedStore(t, db, owner.ID, "expired", now.Add(-30*24*time.Hour))
	expired.Archive(now.Add(-8 * 24 * time.Hour))
	require.NoError(t, repo.UpdateStore(ctx, expired))

	recent := seedStore(t, db, owner.ID, "recent", now.Add(-30*24*time.Hour))
	recent.Archive(now.Add(-2 * 24 * time.Hour))
	require.NoError(t, repo.UpdateStore(ctx, recent))

	seedStore(t, db, owner.ID, "live", now)

	stores, err := repo.FindArchivedBefore(ctx, now.Add(-entity.RestoreWindow))
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, expired.ID, stores[0].ID)
}

func TestStoreRepository_DeleteStoreCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	doomed := seedStore(t, db, owner.ID, "doomed", time.Now())
	kept := seedStore(t, db, owner.ID, "kept", time.Now())

	product := seedProduct(t, db, doomed.ID, "Mug", "12.50")
	keptProduct := seedProduct(t, db, kept.ID, "Cap", "5.00")
	seedOrder(t, db, doomed.ID, time.Now(), map[*entity.Product]int{product: 2})
	seedOrder(t, db, kept.ID, time.Now(), map[*entity.Product]int{keptProduct: 1})
	require.NoError(t, NewPaymentMethodRepository(db).CreatePaymentMethod(ctx, &entity.PaymentMethod{
		StoreID: doomed.ID, Provider: entity.ProviderStripe, Mode: entity.ModeTest, IsActive: true,
	}))
	require.NoError(t, NewPlanUpgradeRepository(db).CreatePlanUpgrade(ctx, &entity.PlanUpgrade{
		StoreID: doomed.ID, Plan: entity.PlanPro, Provider: entity.ProviderStripe,
		SessionID: "cs_test_demo", Status: entity.PlanUpgradePending,
	}))

	require.NoError(t, NewStoreRepository(db).DeleteStoreCascade(ctx, doomed.ID))

	for _, table := range []any{&model.ProductModel{}, &model.OrderModel{}, &model.PaymentMethodModel{}, &model.PlanUpgradeModel{}} {
		var count int64
		require.NoError(t, db.Model(table).Where("store_id = ?", doomed.ID).Count(&count).Error)
		assert.Zero(t, count, "%T rows remain", table)
	}

	var items int64
	require.NoError(t, db.Model(&model.OrderItemModel{}).Count(&items).Error)
	assert.Equal(t, int64(1), items)

	_, err := NewStoreRepository(db).FindStoreByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, repository.ErrStoreNotFound)

	_, err = NewStoreRepository(db).FindStoreByID(ctx, kept.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, NewStoreRepository(db).DeleteStoreCascade(ctx, doomed.ID), repository.ErrStoreNotFound)
}

func TestProductRepository_DeleteInUse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)
	owner := seedUser(t, db, "owner")
	store := seedStore(t, db, owner.ID, "shop", time.Now())

	sold := seedProduct(t, db, store.ID, "Sold", "3.00")
	unsold := seedProduct(t, db, store.ID, "Unsold", "4.00")
	seedOrder(t, db, store.ID, time.Now(), map[*entity.Product]int{sold: 1})

	err := repo.DeleteProduct(ctx, store.ID, sold.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrProductInUse))

	assert.NoError(t, repo.DeleteProduct(ctx, store.ID, unsold.ID))
	assert.ErrorIs(t, repo.DeleteProduct(ctx, store.ID, unsold.ID), repository.ErrProductNotFound)
}

func TestProductRepository_ScopedToStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)
	owner := seedUser(t, db, "owner")
	mine := seedStore(t, db, owner.ID, "mine", time.Now())
	theirs := seedStore(t, db, owner.ID, "theirs", time.Now())

	product := seedProduct(t, db, theirs.ID, "Hat", "9.99")

	_, err := repo.FindProduct(ctx, mine.ID, product.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	found, err := repo.FindProductsByIDs(ctx, mine.ID, []uint{product.ID})
	require.NoError(t, err)
	assert.Empty(t, found)

	product.Name = "Cap"
	product.StoreID = mine.ID
	assert.ErrorIs(t, repo.UpdateProduct(ctx, product), repository.ErrProductNotFound)

	count, err := repo.CountProductsByStore(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)
	buyer := seedUser(t, db, "buyer")
	owner := seedUser(t, db, "owner")
	store := seedStore(t, db, owner.ID, "shop", time.Now())
	product := seedProduct(t, db, store.ID, "Mug", "12.50")

	order := &entity.Order{StoreID: store.ID, UserID: &buyer.ID, Status: entity.OrderStatusPending}
	order.Items = []*entity.OrderItem{entity.NewOrderItem(product, 3)}
	order.Recalculate()
	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.NotZero(t, order.Items[0].ID)

	found, err := repo.FindOrder(ctx, store.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", found.CustomerEmail)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Mug", found.Items[0].Name)
	assert.True(t, decimal.RequireFromString("37.50").Equal(found.Total))

	require.NoError(t, repo.UpdateOrderStatus(ctx, store.ID, order.ID, entity.OrderStatusShipped))
	found, err = repo.FindOrder(ctx, store.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, found.Status)

	_, err = repo.FindOrder(ctx, store.ID+1, order.ID)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderRepository_StatsAndTopProducts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)
	owner := seedUser(t, db, "owner")
	store := seedStore(t, db, owner.ID, "shop", time.Now())
	now := time.Now().UTC()

	cheap := seedProduct(t, db, store.ID, "Cheap", "1.00")
	pricey := seedProduct(t, db, store.ID, "Pricey", "10.00")
	other := seedProduct(t, db, store.ID, "Other", "2.00")

	seedOrder(t, db, store.ID, now.Add(-time.Hour), map[*entity.Product]int{cheap: 4, pricey: 4})
	seedOrder(t, db, store.ID, now.Add(-2*time.Hour), map[*entity.Product]int{other: 1})
	seedOrder(t, db, store.ID, now.Add(-40*24*time.Hour), map[*entity.Product]int{other: 50})

	stats, err := repo.OrderStats(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.True(t, decimal.RequireFromString("146").Equal(stats.Revenue), stats.Revenue.String())

	top, err := repo.TopProductsSince(ctx, store.ID, now.Add(-7*24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, pricey.ID, top[0].ProductID)
	assert.Equal(t, cheap.ID, top[1].ProductID)
	assert.Equal(t, other.ID, top[2].ProductID)
	assert.Equal(t, int64(4), top[0].Quantity)
	assert.True(t, decimal.RequireFromString("40").Equal(top[0].Revenue))

	since, err := repo.FindOrdersSince(ctx, store.ID, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.True(t, since[0].CreatedAt.Before(since[1].CreatedAt))

	recent, err := repo.FindRecentOrders(ctx, store.ID, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	empty, err := repo.OrderStats(ctx, store.ID+99)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.True(t, empty.Revenue.IsZero())
}

func TestPaymentMethodRepository_DefaultAndOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPaymentMethodRepository(db)
	owner := seedUser(t, db, "owner")
	store := seedStore(t, db, owner.ID, "shop", time.Now())

	paypal := &entity.PaymentMethod{StoreID: store.ID, Provider: entity.ProviderPayPal, Mode: entity.ModeTest, IsActive: true, IsDefault: true}
	stripe := &entity.PaymentMethod{
		StoreID: store.ID, Provider: entity.ProviderStripe, Mode: entity.ModeLive, IsActive: false,
		Credentials: map[string]any{"secret_key": "sk_test"},
	}
	require.NoError(t, repo.CreatePaymentMethod(ctx, paypal))
	require.NoError(t, repo.CreatePaymentMethod(ctx, stripe))

	stripe.IsDefault = true
	require.NoError(t, repo.UpdatePaymentMethod(ctx, stripe))
	require.NoError(t, repo.ClearDefaultExcept(ctx, store.ID, stripe.ID))

	methods, err := repo.FindPaymentMethodsByStore(ctx, store.ID)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, stripe.ID, methods[0].ID)
	assert.True(t, methods[0].IsDefault)
	assert.False(t, methods[0].IsActive)
	assert.Equal(t, "sk_test", methods[0].Credentials["secret_key"])
	assert.False(t, methods[1].IsDefault)

	active, err := repo.FindActivePaymentMethods(ctx, store.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, paypal.ID, active[0].ID)

	all, err := repo.ListAllPaymentMethods(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, store.Name, all[0].StoreName)

	assert.ErrorIs(t, repo.DeletePaymentMethod(ctx, store.ID+1, paypal.ID), repository.ErrPaymentMethodNotFound)
	assert.NoError(t, repo.DeletePaymentMethod(ctx, store.ID, paypal.ID))
}

func TestPlanUpgradeRepository_Confirm(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPlanUpgradeRepository(db)
	owner := seedUser(t, db, "owner")
	store := seedStore(t, db, owner.ID, "shop", time.Now())

	upgrade := &entity.PlanUpgrade{
		StoreID: store.ID, Plan: entity.PlanElite, Provider: entity.ProviderStripe,
		SessionID: "cs_test_demo", Status: entity.PlanUpgradePending,
	}
	require.NoError(t, repo.CreatePlanUpgrade(ctx, upgrade))

	found, err := repo.FindPlanUpgradeBySessionID(ctx, "cs_test_demo")
	require.NoError(t, err)
	assert.Equal(t, entity.PlanUpgradePending, found.Status)

	require.True(t, found.Confirm(time.Now()))
	require.NoError(t, repo.UpdatePlanUpgrade(ctx, found))

	found, err = repo.FindPlanUpgradeBySessionID(ctx, "cs_test_demo")
	require.NoError(t, err)
	assert.Equal(t, entity.PlanUpgradeConfirmed, found.Status)
	assert.NotNil(t, found.ConfirmedAt)

	_, err = repo.FindPlanUpgradeBySessionID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrPlanUpgradeNotFound)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	boom := errors.New("boom")

	err := NewTransactionManager(db).Execute(ctx, func(factory repository.RepositoryFactory) error {
		store := &entity.Store{OwnerID: owner.ID, Name: "Temp", Slug: "temp", Plan: entity.PlanStarter}
		if err := factory.NewStoreRepository().CreateStore(ctx, store); err != nil {
			return err
		}

		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewStoreRepository(db).FindStoreBySlug(ctx, "temp")
	assert.ErrorIs(t, err, repository.ErrStoreNotFound)
}
