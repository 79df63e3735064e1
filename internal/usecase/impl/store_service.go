// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

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

// storeService implements the StoreUsecase interface.
type storeService struct {
	txManager    repository.TransactionManager
	storeRepo    repository.StoreRepository
	media        service.MediaStorage
	publisher    service.EventPublisher
	metrics      service.MetricsRecorder
	clock        service.Clock
	maxImageSize int64
	logger       *slog.Logger
}

// StoreServiceParams holds dependencies for StoreService, injected by Fx.
type StoreServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	StoreRepo repository.StoreRepository
	Media     service.MediaStorage
	Publisher service.EventPublisher
	Metrics   service.MetricsRecorder
	Clock     service.Clock
	Config    *config.Config
	Logger    *slog.Logger
}

// NewStoreService is the constructor for storeService.
func NewStoreService(params StoreServiceParams) usecase.StoreUsecase {
	var maxImageSize int64
	if params.Config != nil && params.Config.Storage != nil {
		maxImageSize = params.Config.Storage.MaxImageSize
	}

	return &storeService{
		txManager:    params.TxManager,
		storeRepo:    params.StoreRepo,
		media:        params.Media,
		publisher:    params.Publisher,
		metrics:      params.Metrics,
		clock:        params.Clock,
		maxImageSize: maxImageSize,
		logger:       params.Logger,
	}
}

func (srv *storeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ResolveActiveStore applies the override, then the session selection, then the
// owner's earliest active store. Archived and foreign stores are never resolved.
func (srv *storeService) ResolveActiveStore(
	ctx context.Context,
	ownerID uint,
	overrideID *uint,
	sess usecase.ActiveStoreSession,
) (*usecase.ResolvedStore, error) {
	if overrideID != nil {
		store, err := srv.findActiveOwned(ctx, ownerID, *overrideID)
		if err != nil {
			return nil, err
		}
		if store != nil {
			rememberStore(sess, store)

			return &usecase.ResolvedStore{Store: store, Source: usecase.ResolvedFromOverride}, nil
		}
		srv.log(ctx).Debug("Ignoring store override", slog.Uint64("ownerID", uint64(ownerID)), slog.Uint64("storeID", uint64(*overrideID)))
	}

	if sess != nil {
		if storeID, ok := sess.ActiveStoreID(); ok {
			store, err := srv.findActiveOwned(ctx, ownerID, storeID)
			if err != nil {
				return nil, err
			}
			if store != nil {
				return &usecase.ResolvedStore{Store: store, Source: usecase.ResolvedFromSession}, nil
			}
			sess.ClearActiveStoreID()
		}
	}

	store, err := srv.storeRepo.FindEarliestActiveStore(ctx, ownerID)
	if errors.Is(err, repository.ErrStoreNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find earliest active store")
	}
	rememberStore(sess, store)

	return &usecase.ResolvedStore{Store: store, Source: usecase.ResolvedFromEarliest}, nil
}

// findActiveOwned returns nil without error when the store is missing, foreign or archived.
func (srv *storeService) findActiveOwned(ctx context.Context, ownerID, storeID uint) (*entity.Store, error) {
	store, err := srv.storeRepo.FindOwnedStore(ctx, ownerID, storeID)
	if errors.Is(err, repository.ErrStoreNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find owned store")
	}
	if store.IsArchived {
		return nil, nil
	}

	return store, nil
}

func rememberStore(sess usecase.ActiveStoreSession, store *entity.Store) {
	if sess != nil && store != nil {
		sess.SetActiveStoreID(store.ID)
	}
}

// EnsureStore returns the active store, or the owner's oldest archived store, or a
// new blank store. Creation is serialised per owner by locking the user row.
func (srv *storeService) EnsureStore(ctx context.Context, ownerID uint, sess usecase.ActiveStoreSession) (*entity.Store, bool, error) {
	resolved, err := srv.ResolveActiveStore(ctx, ownerID, nil, sess)
	if err != nil {
		return nil, false, err
	}
	if resolved != nil {
		return resolved.Store, false, nil
	}

	var (
		store   *entity.Store
		created bool
	)
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.NewUserRepository().LockUser(ctx, ownerID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("store owner not found")
			}

			return errors.Wrap(err, "failed to lock owner")
		}

		storeRepo := repos.NewStoreRepository()
		stores, err := storeRepo.FindStoresByOwner(ctx, ownerID, true)
		if err != nil {
			return errors.Wrap(err, "failed to find owner stores")
		}
		if len(stores) > 0 {
			store = stores[0]

			return nil
		}

		slug, err := uniqueStoreSlug(ctx, storeRepo, "", 0)
		if err != nil {
			return err
		}
		store = &entity.Store{
			OwnerID:  ownerID,
			Slug:     slug,
			Plan:     entity.PlanStarter,
			IsPublic: true,
		}
		if err := storeRepo.CreateStore(ctx, store); err != nil {
			return errors.Wrap(err, "failed to create blank store")
		}
		created = true

		return nil
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to ensure store")
	}

	if created {
		srv.log(ctx).Info("Created blank store", slog.Uint64("ownerID", uint64(ownerID)), slog.Uint64("storeID", uint64(store.ID)))
	}
	if !store.IsArchived {
		rememberStore(sess, store)
	}

	return store, created, nil
}

// CreateStore adds another store for the owner and makes it the active one.
func (srv *storeService) CreateStore(ctx context.Context, ownerID uint, input *usecase.StoreInput, sess usecase.ActiveStoreSession) (*entity.Store, error) {
	if input == nil || input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("store name is required")
	}

	store := &entity.Store{
		OwnerID:  ownerID,
		Plan:     entity.PlanStarter,
		IsPublic: true,
	}
	applyStoreInput(store, input)

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		storeRepo := repos.NewStoreRepository()

		slug, err := srv.chooseSlug(ctx, storeRepo, store, input.Slug)
		if err != nil {
			return err
		}
		store.Slug = slug

		if err := storeRepo.CreateStore(ctx, store); err != nil {
			return errors.Wrap(err, "failed to create store")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create store")
	}

	rememberStore(sess, store)
	srv.log(ctx).Info("Store created", slog.Uint64("ownerID", uint64(ownerID)), slog.Uint64("storeID", uint64(store.ID)), slog.String("slug", store.Slug))

	return store, nil
}

// chooseSlug validates an explicit slug or derives a free one from the store name.
func (srv *storeService) chooseSlug(ctx context.Context, storeRepo repository.StoreRepository, store *entity.Store, requested *string) (string, error) {
	if requested != nil && strings.TrimSpace(*requested) != "" {
		slug := slugify(*requested)
		if slug == "" {
			return "", domainerrors.ErrValidationFailed.WrapMessage("slug must contain letters or digits")
		}
		taken, err := storeRepo.SlugExists(ctx, slug, store.ID)
		if err != nil {
			return "", errors.Wrap(err, "failed to check slug")
		}
		if taken {
			return "", domainerrors.ErrSlugTaken.WrapMessage("slug " + slug + " is taken")
		}

		return slug, nil
	}

	if store.Slug != "" {
		return store.Slug, nil
	}

	return uniqueStoreSlug(ctx, storeRepo, store.Name, store.ID)
}

func applyStoreInput(store *entity.Store, input *usecase.StoreInput) {
	if input.Name != nil {
		store.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slogan != nil {
		store.Slogan = strings.TrimSpace(*input.Slogan)
	}
	if input.Description != nil {
		store.Description = *input.Description
	}
	if input.Category != nil {
		store.Category = strings.TrimSpace(*input.Category)
	}
	if input.IsPublic != nil {
		store.IsPublic = *input.IsPublic
	}
}

// ListOwnedStores lists every store of the owner, archived ones included.
func (srv *storeService) ListOwnedStores(ctx context.Context, ownerID uint) ([]*usecase.StoreView, error) {
	stores, err := srv.storeRepo.FindStoresByOwner(ctx, ownerID, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list owned stores")
	}

	return srv.views(stores), nil
}

// SwitchStore makes an owned, active store the session's selection.
func (srv *storeService) SwitchStore(ctx context.Context, ownerID, storeID uint, sess usecase.ActiveStoreSession) (*entity.Store, error) {
	store, err := srv.storeRepo.FindOwnedStore(ctx, ownerID, storeID)
	if err != nil {
		return nil, mapStoreNotFound(err, "failed to find store to switch to")
	}
	if store.IsArchived {
		return nil, domainerrors.ErrStoreArchived.WrapMessage("cannot switch to an archived store")
	}
	rememberStore(sess, store)

	return store, nil
}

// UpdateStoreProfile edits the profile fields. The plan is not editable here.
func (srv *storeService) UpdateStoreProfile(ctx context.Context, store *entity.Store, input *usecase.StoreInput) (*entity.Store, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}
	if input == nil {
		return store, nil
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("store name cannot be blank")
	}

	var updated *entity.Store
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		storeRepo := repos.NewStoreRepository()

		current, err := storeRepo.FindStoreByID(ctx, store.ID)
		if err != nil {
			return mapStoreNotFound(err, "failed to find store")
		}
		applyStoreInput(current, input)

		slug, err := srv.chooseSlug(ctx, storeRepo, current, input.Slug)
		if err != nil {
			return err
		}
		current.Slug = slug

		if err := storeRepo.UpdateStore(ctx, current); err != nil {
			return mapStoreNotFound(err, "failed to update store")
		}
		updated = current

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update store profile")
	}

	srv.log(ctx).Info("Store profile saved", slog.Uint64("storeID", uint64(updated.ID)))

	return updated, nil
}

// UploadLogo stores the image and replaces the store's previous logo.
func (srv *storeService) UploadLogo(ctx context.Context, store *entity.Store, upload *usecase.Upload) (*entity.Store, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("logo is required")
	}
	if err := validateImageUpload(upload.Data, upload.ContentType, srv.maxImageSize); err != nil {
		return nil, err
	}

	key := mediaKey(fmt.Sprintf("logos/store-%d", store.ID), upload.Filename)
	if err := srv.media.Put(ctx, key, upload.Data, upload.ContentType); err != nil {
		return nil, errors.Wrap(err, "failed to store logo")
	}

	updated, err := srv.storeRepo.FindStoreByID(ctx, store.ID)
	if err != nil {
		return nil, mapStoreNotFound(err, "failed to find store")
	}
	previous := updated.LogoKey
	updated.LogoKey = key
	if err := srv.storeRepo.UpdateStore(ctx, updated); err != nil {
		srv.deleteMedia(ctx, key)

		return nil, mapStoreNotFound(err, "failed to save logo")
	}
	if previous != "" {
		srv.deleteMedia(ctx, previous)
	}

	return updated, nil
}

func (srv *storeService) deleteMedia(ctx context.Context, key string) {
	if err := srv.media.Delete(ctx, key); err != nil {
		srv.log(ctx).Warn("Failed to delete media", slog.String("key", key), slog.Any("error", err))
	}
}

// ArchiveStore archives the owner's resolved store.
func (srv *storeService) ArchiveStore(ctx context.Context, store *entity.Store) (*usecase.LifecycleResult, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired
	}

	return srv.archive(ctx, store.ID, &store.OwnerID)
}

// RestoreStore restores one of the owner's stores.
func (srv *storeService) RestoreStore(ctx context.Context, ownerID, storeID uint) (*usecase.LifecycleResult, error) {
	return srv.restore(ctx, storeID, &ownerID)
}

// ListAllStores is the staff listing, newest first.
func (srv *storeService) ListAllStores(ctx context.Context) ([]*usecase.StoreView, error) {
	stores, err := srv.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	return srv.views(stores), nil
}

func (srv *storeService) StaffArchiveStore(ctx context.Context, storeID uint) (*usecase.LifecycleResult, error) {
	return srv.archive(ctx, storeID, nil)
}

func (srv *storeService) StaffRestoreStore(ctx context.Context, storeID uint) (*usecase.LifecycleResult, error) {
	return srv.restore(ctx, storeID, nil)
}

// lockedStore locks the row and then reads it, checking ownership when ownerID is set.
func lockedStore(ctx context.Context, storeRepo repository.StoreRepository, storeID uint, ownerID *uint) (*entity.Store, error) {
	if err := storeRepo.LockStore(ctx, storeID); err != nil {
		return nil, mapStoreNotFound(err, "failed to lock store")
	}

	var (
		store *entity.Store
		err   error
	)
	if ownerID != nil {
		store, err = storeRepo.FindOwnedStore(ctx, *ownerID, storeID)
	} else {
		store, err = storeRepo.FindStoreByID(ctx, storeID)
	}
	if err != nil {
		return nil, mapStoreNotFound(err, "failed to find store")
	}

	return store, nil
}

func (srv *storeService) archive(ctx context.Context, storeID uint, ownerID *uint) (*usecase.LifecycleResult, error) {
	now := srv.clock.Now()

	var result *usecase.LifecycleResult
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		storeRepo := repos.NewStoreRepository()

		store, err := lockedStore(ctx, storeRepo, storeID, ownerID)
		if err != nil {
			return err
		}

		if !store.Archive(now) {
			result = lifecycleResult(store, false, fmt.Sprintf("Store %q is already archived.", store.Name), now)

			return nil
		}
		if err := storeRepo.UpdateStore(ctx, store); err != nil {
			return mapStoreNotFound(err, "failed to archive store")
		}
		result = lifecycleResult(store, true,
			fmt.Sprintf("Store %q archived. You can restore it within 7 days.", store.Name), now)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to archive store")
	}

	if result.Changed {
		srv.log(ctx).Info("Store archived", slog.Uint64("storeID", uint64(storeID)), slog.Bool("byStaff", ownerID == nil))
		srv.metrics.StoreLifecycle("archive")
		publish(ctx, srv.log(ctx), srv.publisher, service.NewEvent(service.EventStoreArchived, storeID, map[string]any{
			"slug":             result.Store.Slug,
			"archived_at":      result.Store.ArchivedAt,
			"restore_deadline": result.RestoreDeadline,
			"by_staff":         ownerID == nil,
		}))
	}

	return result, nil
}

// restore reactivates an archived store. Restoring after the deadline is allowed
// and logged.
func (srv *storeService) restore(ctx context.Context, storeID uint, ownerID *uint) (*usecase.LifecycleResult, error) {
	now := srv.clock.Now()

	var (
		result *usecase.LifecycleResult
		late   bool
	)
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		storeRepo := repos.NewStoreRepository()

		store, err := lockedStore(ctx, storeRepo, storeID, ownerID)
		if err != nil {
			return err
		}

		late = store.IsArchived && !store.CanRestore(now)
		if !store.Restore() {
			result = lifecycleResult(store, false, fmt.Sprintf("Store %q is not archived.", store.Name), now)

			return nil
		}
		if err := storeRepo.UpdateStore(ctx, store); err != nil {
			return mapStoreNotFound(err, "failed to restore store")
		}
		result = lifecycleResult(store, true, fmt.Sprintf("Store %q restored.", store.Name), now)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore store")
	}

	if result.Changed {
		logger := srv.log(ctx)
		if late {
			logger.Warn("Store restored after the restore window", slog.Uint64("storeID", uint64(storeID)))
		} else {
			logger.Info("Store restored", slog.Uint64("storeID", uint64(storeID)))
		}
		srv.metrics.StoreLifecycle("restore")
		publish(ctx, logger, srv.publisher, service.NewEvent(service.EventStoreRestored, storeID, map[string]any{
			"slug":     result.Store.Slug,
			"late":     late,
			"by_staff": ownerID == nil,
		}))
	}

	return result, nil
}

// PurgeStore permanently deletes an archived store once the restore window has
// elapsed. The window is re-checked under the row lock.
func (srv *storeService) PurgeStore(ctx context.Context, storeID uint) (*usecase.LifecycleResult, error) {
	now := srv.clock.Now()

	var (
		purged    *entity.Store
		mediaKeys []string
	)
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		storeRepo := repos.NewStoreRepository()

		store, err := lockedStore(ctx, storeRepo, storeID, nil)
		if err != nil {
			return err
		}
		if !store.IsArchived {
			return domainerrors.ErrStoreNotArchived.WrapMessage("store must be archived before it can be purged")
		}
		if remaining := store.PurgeRemaining(now); remaining > 0 {
			return domainerrors.NewPurgeTooEarlyError(remaining)
		}

		products, err := repos.NewProductRepository().FindProductsByStore(ctx, storeID)
		if err != nil {
			return errors.Wrap(err, "failed to list products for purge")
		}
		for _, product := range products {
			if product.ImageKey != "" {
				mediaKeys = append(mediaKeys, product.ImageKey)
			}
		}
		if store.LogoKey != "" {
			mediaKeys = append(mediaKeys, store.LogoKey)
		}

		if err := storeRepo.DeleteStoreCascade(ctx, storeID); err != nil {
			return mapStoreNotFound(err, "failed to purge store")
		}
		purged = store

		return nil
	})
	if err != nil {
		if tooEarly, ok := errors.AsType[*domainerrors.PurgeTooEarlyError](err); ok {
			return nil, tooEarly
		}

		return nil, errors.Wrap(err, "failed to purge store")
	}

	for _, key := range mediaKeys {
		srv.deleteMedia(ctx, key)
	}

	logger := srv.log(ctx)
	logger.Info("Store purged", slog.Uint64("storeID", uint64(storeID)), slog.String("slug", purged.Slug))
	srv.metrics.StoreLifecycle("purge")
	publish(ctx, logger, srv.publisher, service.NewEvent(service.EventStorePurged, storeID, map[string]any{
		"slug":     purged.Slug,
		"owner_id": purged.OwnerID,
	}))

	return &usecase.LifecycleResult{
		Store:   purged,
		Changed: true,
		Message: fmt.Sprintf("Store %q permanently deleted.", purged.Name),
	}, nil
}

// PurgeExpired purges every store whose restore window has elapsed. A failure on
// one store does not stop the others.
func (srv *storeService) PurgeExpired(ctx context.Context) ([]uint, error) {
	cutoff := srv.clock.Now().Add(-entity.RestoreWindow)

	stores, err := srv.storeRepo.FindArchivedBefore(ctx, cutoff)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find expired stores")
	}

	var (
		purged []uint
		errs   []error
	)
	for _, store := range stores {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)

			break
		}
		if _, err := srv.PurgeStore(ctx, store.ID); err != nil {
			srv.log(ctx).Error("Failed to purge expired store", slog.Uint64("storeID", uint64(store.ID)), slog.Any("error", err))
			errs = append(errs, errors.Wrapf(err, "store %d", store.ID))

			continue
		}
		purged = append(purged, store.ID)
	}

	srv.log(ctx).Info("Expired store purge finished", slog.Int("candidates", len(stores)), slog.Int("purged", len(purged)))

	return purged, errors.Join(errs...)
}

func (srv *storeService) views(stores []*entity.Store) []*usecase.StoreView {
	now := srv.clock.Now()
	views := make([]*usecase.StoreView, 0, len(stores))
	for _, store := range stores {
		views = append(views, &usecase.StoreView{
			Store:           store,
			RestoreDeadline: store.RestoreDeadline(),
			CanRestore:      store.CanRestore(now),
			PurgeRemaining:  store.PurgeRemaining(now),
		})
	}

	return views
}

func lifecycleResult(store *entity.Store, changed bool, message string, now time.Time) *usecase.LifecycleResult {
	return &usecase.LifecycleResult{
		Store:           store,
		Changed:         changed,
		Message:         message,
		RestoreDeadline: store.RestoreDeadline(),
		CanRestore:      store.CanRestore(now),
	}
}
