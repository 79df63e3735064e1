package postgres

import (
	"context"
	"time"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// storeRepository implements the domain.StoreRepository interface.
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository is the constructor for storeRepository.
func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

// CreateStore persists a new store.
func (repo *storeRepository) CreateStore(ctx context.Context, store *entity.Store) error {
	storeM := fromStoreDomain(store)

	if err := repo.db.WithContext(ctx).Create(storeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrSlugTaken.WrapMessage("store slug already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid store owner")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create store")
	}

	store.ID = storeM.ID
	store.CreatedAt = storeM.CreatedAt
	store.UpdatedAt = storeM.UpdatedAt

	return nil
}

// FindStoreByID retrieves a store by ID regardless of owner.
func (repo *storeRepository) FindStoreByID(ctx context.Context, id uint) (*entity.Store, error) {
	return repo.first(ctx, repo.db.Where("id = ?", id), "failed to find store by ID")
}

// FindOwnedStore retrieves a store only if ownerID owns it.
func (repo *storeRepository) FindOwnedStore(ctx context.Context, ownerID, id uint) (*entity.Store, error) {
	return repo.first(ctx, repo.db.Where("id = ? AND owner_id = ?", id, ownerID), "failed to find owned store")
}

// FindStoreBySlug retrieves a store by its public slug.
func (repo *storeRepository) FindStoreBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	return repo.first(ctx, repo.db.Where("slug = ?", slug), "failed to find store by slug")
}

// FindStoresByOwner returns the owner's stores, oldest first.
func (repo *storeRepository) FindStoresByOwner(ctx context.Context, ownerID uint, includeArchived bool) ([]*entity.Store, error) {
	query := repo.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	var storeModels []*model.StoreModel
	if err := query.Order("created_at ASC, id ASC").Find(&storeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find stores by owner")
	}

	return toStoreDomains(storeModels), nil
}

// FindEarliestActiveStore returns the owner's oldest non-archived store.
func (repo *storeRepository) FindEarliestActiveStore(ctx context.Context, ownerID uint) (*entity.Store, error) {
	query := repo.db.
		Where("owner_id = ? AND is_archived = ?", ownerID, false).
		Order("created_at ASC, id ASC")

	return repo.first(ctx, query, "failed to find earliest active store")
}

// ListStores returns every store, newest first.
func (repo *storeRepository) ListStores(ctx context.Context) ([]*entity.Store, error) {
	var storeModels []*model.StoreModel
	if err := repo.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&storeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	return toStoreDomains(storeModels), nil
}

// FindArchivedBefore returns archived stores whose window ended at or before cutoff.
func (repo *storeRepository) FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]*entity.Store, error) {
	var storeModels []*model.StoreModel
	err := repo.db.WithContext(ctx).
		Where("is_archived = ? AND archived_at <= ?", true, utc(cutoff)).
		Order("archived_at ASC, id ASC").
		Find(&storeModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find archived stores")
	}

	return toStoreDomains(storeModels), nil
}

// UpdateStore saves every mutable column of the store.
func (repo *storeRepository) UpdateStore(ctx context.Context, store *entity.Store) error {
	storeM := fromStoreDomain(store)
	storeM.UpdatedAt = utcNow()

	result := repo.db.WithContext(ctx).Model(&model.StoreModel{ID: store.ID}).
		Select("name", "slug", "slogan", "description", "category", "logo_key", "plan",
			"is_public", "is_archived", "archived_at", "updated_at").
		Updates(storeM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrSlugTaken.WrapMessage("store slug already exists")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update store")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStoreNotFound
	}

	store.UpdatedAt = storeM.UpdatedAt

	return nil
}

// SlugExists reports whether another store uses slug.
func (repo *storeRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.StoreModel{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check store slug")
	}

	return count > 0, nil
}

// LockStore serialises concurrent transactions on the same store row.
func (repo *storeRepository) LockStore(ctx context.Context, id uint) error {
	return lockRow(ctx, repo.db, model.StoreModel{}.TableName(), id, repository.ErrStoreNotFound)
}

// DeleteStoreCascade removes the store and everything that belongs to it. Children
// are deleted explicitly so the RESTRICT reference from order items to products
// never blocks a purge.
func (repo *storeRepository) DeleteStoreCascade(ctx context.Context, id uint) error {
	db := repo.db.WithContext(ctx)

	orderIDs := db.Model(&model.OrderModel{}).Select("id").Where("store_id = ?", id)
	if err := db.Where("order_id IN (?)", orderIDs).Delete(&model.OrderItemModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete order items")
	}

	children := []any{
		&model.OrderModel{},
		&model.ProductModel{},
		&model.PaymentMethodModel{},
		&model.PlanUpgradeModel{},
	}
	for _, child := range children {
		if err := db.Where("store_id = ?", id).Delete(child).Error; err != nil {
			return errors.Wrapf(err, "failed to delete %T rows", child)
		}
	}

	result := db.Delete(&model.StoreModel{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete store")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStoreNotFound
	}

	return nil
}

func (repo *storeRepository) first(ctx context.Context, query *gorm.DB, msg string) (*entity.Store, error) {
	var storeM model.StoreModel
	if err := query.WithContext(ctx).First(&storeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, msg)
	}

	return toStoreDomain(&storeM), nil
}

// --- Mapper Functions ---

func toStoreDomains(storeModels []*model.StoreModel) []*entity.Store {
	stores := make([]*entity.Store, 0, len(storeModels))
	for _, storeM := range storeModels {
		stores = append(stores, toStoreDomain(storeM))
	}

	return stores
}

func toStoreDomain(data *model.StoreModel) *entity.Store {
	if data == nil {
		return nil
	}

	return &entity.Store{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Name:        data.Name,
		Slug:        data.Slug,
		Slogan:      data.Slogan,
		Description: data.Description,
		Category:    data.Category,
		LogoKey:     data.LogoKey,
		Plan:        entity.Plan(data.Plan),
		IsPublic:    data.IsPublic,
		IsArchived:  data.IsArchived,
		ArchivedAt:  utcPtr(data.ArchivedAt),
		CreatedAt:   utc(data.CreatedAt),
		UpdatedAt:   utc(data.UpdatedAt),
	}
}

func fromStoreDomain(data *entity.Store) *model.StoreModel {
	if data == nil {
		return nil
	}

	return &model.StoreModel{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Name:        data.Name,
		Slug:        data.Slug,
		Slogan:      data.Slogan,
		Description: data.Description,
		Category:    data.Category,
		LogoKey:     data.LogoKey,
		Plan:        string(data.Plan),
		IsPublic:    data.IsPublic,
		IsArchived:  data.IsArchived,
		ArchivedAt:  utcPtr(data.ArchivedAt),
		CreatedAt:   utc(data.CreatedAt),
		UpdatedAt:   utc(data.UpdatedAt),
	}
}
