package impl

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"majicmall/config"
	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/repository"
	"majicmall/internal/domain/service"
	"majicmall/internal/infra/persistence/postgres"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:     4,
			AccessTokenTTL: time.Hour,
		},
		Payments: &config.PaymentsConfig{
			Currency:                   "usd",
			DemoAmountMinor:            2599,
			GatewayTimeout:             time.Second,
			RequireWebhookConfirmation: true,
		},
		Storage: &config.StorageConfig{
			MaxImageSize: 1 << 20,
		},
	}
	cfg.Env.Timezone = "UTC"
	cfg.HTTP.PublicBaseURL = "https://mall.example.com"
	cfg.SecretKey.Access = "test-secret"

	return cfg
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
}

var _ service.Clock = (*fixedClock)(nil)

// memorySession is an in-memory ActiveStoreSession.
type memorySession struct {
	storeID *uint
}

func (s *memorySession) ActiveStoreID() (uint, bool) {
	if s.storeID == nil {
		return 0, false
	}

	return *s.storeID, true
}

func (s *memorySession) SetActiveStoreID(id uint) { s.storeID = &id }

func (s *memorySession) ClearActiveStoreID() { s.storeID = nil }

// testRepos bundles repositories over one SQLite database.
type testRepos struct {
	db           *gorm.DB
	txManager    repository.TransactionManager
	users        repository.UserRepository
	profiles     repository.MerchantProfileRepository
	stores       repository.StoreRepository
	products     repository.ProductRepository
	orders       repository.OrderRepository
	methods      repository.PaymentMethodRepository
	planUpgrades repository.PlanUpgradeRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()

	db, err := postgres.OpenSQLite(filepath.Join(t.TempDir(), "mall.db"))
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(context.Background(), db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testRepos{
		db:           db,
		txManager:    postgres.NewTransactionManager(db),
		users:        postgres.NewUserRepository(db),
		profiles:     postgres.NewMerchantProfileRepository(db),
		stores:       postgres.NewStoreRepository(db),
		products:     postgres.NewProductRepository(db),
		orders:       postgres.NewOrderRepository(db),
		methods:      postgres.NewPaymentMethodRepository(db),
		planUpgrades: postgres.NewPlanUpgradeRepository(db),
	}
}

func (r *testRepos) seedUser(t *testing.T, username string) *entity.User {
	t.Helper()

	user := &entity.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, r.users.CreateUser(context.Background(), user))

	return user
}

func (r *testRepos) seedStore(t *testing.T, ownerID uint, slug string, createdAt time.Time) *entity.Store {
	t.Helper()

	store := &entity.Store{
		OwnerID:   ownerID,
		Name:      "Store " + slug,
		Slug:      slug,
		Plan:      entity.PlanStarter,
		IsPublic:  true,
		CreatedAt: createdAt,
	}
	require.NoError(t, r.stores.CreateStore(context.Background(), store))

	return store
}

func (r *testRepos) archiveStore(t *testing.T, store *entity.Store, at time.Time) {
	t.Helper()

	store.Archive(at)
	require.NoError(t, r.stores.UpdateStore(context.Background(), store))
}

func (r *testRepos) seedProduct(t *testing.T, storeID uint, name, price string) *entity.Product {
	t.Helper()

	product := &entity.Product{StoreID: storeID, Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, r.products.CreateProduct(context.Background(), product))

	return product
}

type orderLine struct {
	product  *entity.Product
	quantity int
}

func (r *testRepos) seedOrder(t *testing.T, storeID uint, createdAt time.Time, lines ...orderLine) *entity.Order {
	t.Helper()

	order := &entity.Order{StoreID: storeID, Status: entity.OrderStatusPaid, CreatedAt: createdAt}
	for _, line := range lines {
		order.Items = append(order.Items, entity.NewOrderItem(line.product, line.quantity))
	}
	order.Recalculate()
	require.NoError(t, r.orders.CreateOrder(context.Background(), order))

	return order
}

func (r *testRepos) seedPaymentMethod(t *testing.T, storeID uint, provider entity.PaymentProvider, active, isDefault bool) *entity.PaymentMethod {
	t.Helper()

	method := &entity.PaymentMethod{
		StoreID:     storeID,
		Provider:    provider,
		Mode:        entity.ModeTest,
		IsActive:    active,
		IsDefault:   isDefault,
		Credentials: map[string]any{},
	}
	require.NoError(t, r.methods.CreatePaymentMethod(context.Background(), method))

	return method
}

// eventOfType matches a published event by type.
func eventOfType(eventType string) any {
	return mock.MatchedBy(func(event *service.DomainEvent) bool {
		return event != nil && event.Type == eventType
	})
}
