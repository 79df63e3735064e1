package postgres

import (
	"context"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productRepository implements the domain.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// CreateProduct persists a new product.
func (repo *productRepository) CreateProduct(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrStoreNotFound.WrapMessage("invalid product store")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// FindProduct retrieves a product of the given store.
func (repo *productRepository) FindProduct(ctx context.Context, storeID, id uint) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).Where("id = ? AND store_id = ?", id, storeID).First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return toProductDomain(&productM), nil
}

// FindProductsByStore lists the store's products, newest first.
func (repo *productRepository) FindProductsByStore(ctx context.Context, storeID uint) ([]*entity.Product, error) {
	var productModels []*model.ProductModel
	err := repo.db.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at DESC, id DESC").Find(&productModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find products by store")
	}

	return toProductDomains(productModels), nil
}

// FindProductsByIDs returns the subset of ids that belong to the store.
func (repo *productRepository) FindProductsByIDs(ctx context.Context, storeID uint, ids []uint) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	var productModels []*model.ProductModel
	err := repo.db.WithContext(ctx).Where("store_id = ? AND id IN ?", storeID, ids).Find(&productModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find products by IDs")
	}

	return toProductDomains(productModels), nil
}

// UpdateProduct saves name, price, description and image.
func (repo *productRepository) UpdateProduct(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	productM.UpdatedAt = utcNow()

	result := repo.db.WithContext(ctx).Model(&model.ProductModel{}).
		Where("id = ? AND store_id = ?", product.ID, product.StoreID).
		Select("name", "price", "description", "image_key", "updated_at").
		Updates(productM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// DeleteProduct removes a product unless order items still reference it.
func (repo *productRepository) DeleteProduct(ctx context.Context, storeID, id uint) error {
	result := repo.db.WithContext(ctx).Where("id = ? AND store_id = ?", id, storeID).Delete(&model.ProductModel{})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrProductInUse
		}

		return errors.Wrap(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// CountProductsByStore counts the store's products.
func (repo *productRepository) CountProductsByStore(ctx context.Context, storeID uint) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count products")
	}

	return count, nil
}

// --- Mapper Functions ---

func toProductDomains(productModels []*model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:          data.ID,
		StoreID:     data.StoreID,
		Name:        data.Name,
		Price:       data.Price,
		Description: data.Description,
		ImageKey:    data.ImageKey,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:          data.ID,
		StoreID:     data.StoreID,
		Name:        data.Name,
		Price:       data.Price,
		Description: data.Description,
		ImageKey:    data.ImageKey,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
