package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const defaultSeedCount = 5

var (
	seedStatuses = []entity.OrderStatus{
		entity.OrderStatusPending,
		entity.OrderStatusPaid,
		entity.OrderStatusShipped,
		entity.OrderStatusCompleted,
	}
	seedProducts = []struct {
		name  string
		price string
	}{
		{"Majic Tee", "25.00"},
		{"Spark Hoodie", "59.00"},
		{"Glow Mug", "12.50"},
	}
)

// maintenanceService implements the MaintenanceUsecase interface.
type maintenanceService struct {
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	profileRepo repository.MerchantProfileRepository
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	rand        *rand.Rand
	logger      *slog.Logger
}

// MaintenanceServiceParams holds dependencies for MaintenanceService, injected by Fx.
type MaintenanceServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	ProfileRepo repository.MerchantProfileRepository
	StoreRepo   repository.StoreRepository
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository
	Logger      *slog.Logger
}

// NewMaintenanceService is the constructor for maintenanceService.
func NewMaintenanceService(params MaintenanceServiceParams) usecase.MaintenanceUsecase {
	return &maintenanceService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		profileRepo: params.ProfileRepo,
		storeRepo:   params.StoreRepo,
		productRepo: params.ProductRepo,
		orderRepo:   params.OrderRepo,
		rand:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:      params.Logger,
	}
}

func (srv *maintenanceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Backfill provisions a merchant profile and a store for every user missing them.
// Each user is handled in its own transaction with the user row locked.
func (srv *maintenanceService) Backfill(ctx context.Context, dryRun bool) (*usecase.BackfillResult, error) {
	users, err := srv.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	result := &usecase.BackfillResult{Users: len(users), DryRun: dryRun}
	for _, user := range users {
		if dryRun {
			if err := srv.planBackfill(ctx, user, result); err != nil {
				return nil, err
			}

			continue
		}

		var provisioned *tenantProvision
		err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
			if err := repos.NewUserRepository().LockUser(ctx, user.ID); err != nil {
				return errors.Wrap(err, "failed to lock user")
			}

			p, err := provisionTenant(ctx, repos, user, backfillStoreBlurb, true)
			if err != nil {
				return err
			}
			provisioned = p

			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to backfill user %d", user.ID)
		}

		if provisioned.ProfileCreated {
			result.ProfilesCreated++
			result.Actions = append(result.Actions, fmt.Sprintf("Created merchant profile for user=%d '%s' slug='%s'",
				user.ID, provisioned.Profile.DisplayName, provisioned.Profile.Slug))
		}
		if provisioned.StoreCreated {
			result.StoresCreated++
			result.Actions = append(result.Actions, fmt.Sprintf("Created store for user=%d '%s'", user.ID, provisioned.Store.Name))
		}
	}

	srv.log(ctx).Info("Backfill finished",
		slog.Bool("dryRun", dryRun),
		slog.Int("users", result.Users),
		slog.Int("profilesCreated", result.ProfilesCreated),
		slog.Int("storesCreated", result.StoresCreated))

	return result, nil
}

// planBackfill records what Backfill would create without writing.
func (srv *maintenanceService) planBackfill(ctx context.Context, user *entity.User, result *usecase.BackfillResult) error {
	_, err := srv.profileRepo.FindProfileByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, repository.ErrMerchantProfileNotFound):
		displayName := user.Username
		if displayName == "" {
			displayName = fmt.Sprintf("merchant-%d", user.ID)
		}
		slug, err := uniqueProfileSlug(ctx, srv.profileRepo, displayName)
		if err != nil {
			return errors.Wrap(err, "failed to pick merchant slug")
		}
		result.ProfilesCreated++
		result.Actions = append(result.Actions, fmt.Sprintf("[DRY-RUN] Create merchant profile for user=%d '%s' slug='%s'", user.ID, displayName, slug))
	case err != nil:
		return errors.Wrap(err, "failed to find merchant profile")
	}

	stores, err := srv.storeRepo.FindStoresByOwner(ctx, user.ID, true)
	if err != nil {
		return errors.Wrap(err, "failed to find stores")
	}
	if len(stores) == 0 {
		storeName := "My Store"
		if user.Username != "" {
			storeName = user.Username + "'s Store"
		}
		result.StoresCreated++
		result.Actions = append(result.Actions, fmt.Sprintf("[DRY-RUN] Create store for user=%d '%s'", user.ID, storeName))
	}

	return nil
}

// SeedOrders fills the first user's store with random demo orders, creating three
// demo products when the store has none.
func (srv *maintenanceService) SeedOrders(ctx context.Context, count int) (*usecase.SeedResult, error) {
	if count <= 0 {
		count = defaultSeedCount
	}

	users, err := srv.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	if len(users) == 0 {
		return nil, domainerrors.ErrUserNotFound.WrapMessage("No users found. Create a user first.")
	}

	store, err := srv.storeRepo.FindEarliestActiveStore(ctx, users[0].ID)
	if errors.Is(err, repository.ErrStoreNotFound) {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("User has no store. Create one first.")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find store")
	}

	result := &usecase.SeedResult{StoreID: store.ID}
	products, err := srv.productRepo.FindProductsByStore(ctx, store.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	if len(products) == 0 {
		for _, seed := range seedProducts {
			product := &entity.Product{StoreID: store.ID, Name: seed.name, Price: decimal.RequireFromString(seed.price)}
			if err := srv.productRepo.CreateProduct(ctx, product); err != nil {
				return nil, errors.Wrap(err, "failed to seed product")
			}
			products = append(products, product)
			result.ProductsCreated++
		}
	}

	for range count {
		order := &entity.Order{
			StoreID: store.ID,
			Status:  seedStatuses[srv.rand.IntN(len(seedStatuses))],
		}
		picks := srv.rand.Perm(len(products))[:1+srv.rand.IntN(min(3, len(products)))]
		for _, idx := range picks {
			order.Items = append(order.Items, entity.NewOrderItem(products[idx], 1+srv.rand.IntN(3)))
		}
		order.Recalculate()

		if err := srv.orderRepo.CreateOrder(ctx, order); err != nil {
			return nil, errors.Wrap(err, "failed to seed order")
		}
		result.OrdersCreated++
	}

	srv.log(ctx).Info("Seeded orders", slog.Uint64("storeID", uint64(store.ID)), slog.Int("orders", result.OrdersCreated))

	return result, nil
}
