package postgres

import (
	"context"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// paymentMethodRepository implements the domain.PaymentMethodRepository interface.
type paymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository is the constructor for paymentMethodRepository.
func NewPaymentMethodRepository(db *gorm.DB) repository.PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

// CreatePaymentMethod persists a new payment method.
func (repo *paymentMethodRepository) CreatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error {
	methodM := fromPaymentMethodDomain(method)

	if err := repo.db.WithContext(ctx).Create(methodM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrStoreNotFound.WrapMessage("invalid payment method store")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment method")
	}

	method.ID = methodM.ID
	method.CreatedAt = methodM.CreatedAt
	method.UpdatedAt = methodM.UpdatedAt

	return nil
}

// FindPaymentMethod retrieves a method of the given store.
func (repo *paymentMethodRepository) FindPaymentMethod(ctx context.Context, storeID, id uint) (*entity.PaymentMethod, error) {
	var methodM model.PaymentMethodModel
	err := repo.db.WithContext(ctx).Where("id = ? AND store_id = ?", id, storeID).First(&methodM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPaymentMethodNotFound
		}

		return nil, errors.Wrap(err, "failed to find payment method")
	}

	return toPaymentMethodDomain(&methodM), nil
}

// FindPaymentMethodsByStore lists the store's methods, default first.
func (repo *paymentMethodRepository) FindPaymentMethodsByStore(ctx context.Context, storeID uint) ([]*entity.PaymentMethod, error) {
	var methodModels []*model.PaymentMethodModel
	err := repo.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("is_default DESC, provider ASC, updated_at DESC, id ASC").
		Find(&methodModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find payment methods by store")
	}

	return toPaymentMethodDomains(methodModels), nil
}

// FindActivePaymentMethods lists the store's active methods by id.
func (repo *paymentMethodRepository) FindActivePaymentMethods(ctx context.Context, storeID uint) ([]*entity.PaymentMethod, error) {
	var methodModels []*model.PaymentMethodModel
	err := repo.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("id ASC").
		Find(&methodModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active payment methods")
	}

	return toPaymentMethodDomains(methodModels), nil
}

// UpdatePaymentMethod saves every mutable column of the method.
func (repo *paymentMethodRepository) UpdatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error {
	methodM := fromPaymentMethodDomain(method)
	methodM.UpdatedAt = utcNow()

	result := repo.db.WithContext(ctx).Model(&model.PaymentMethodModel{}).
		Where("id = ? AND store_id = ?", method.ID, method.StoreID).
		Select("provider", "display_name", "mode", "is_active", "is_default", "credentials", "updated_at").
		Updates(methodM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update payment method")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPaymentMethodNotFound
	}

	method.UpdatedAt = methodM.UpdatedAt

	return nil
}

// DeletePaymentMethod removes a method of the given store.
func (repo *paymentMethodRepository) DeletePaymentMethod(ctx context.Context, storeID, id uint) error {
	result := repo.db.WithContext(ctx).Where("id = ? AND store_id = ?", id, storeID).Delete(&model.PaymentMethodModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete payment method")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPaymentMethodNotFound
	}

	return nil
}

// ClearDefaultExcept unsets the default flag on every sibling of keepID.
func (repo *paymentMethodRepository) ClearDefaultExcept(ctx context.Context, storeID, keepID uint) error {
	err := repo.db.WithContext(ctx).Model(&model.PaymentMethodModel{}).
		Where("store_id = ? AND id <> ? AND is_default = ?", storeID, keepID, true).
		Updates(map[string]any{"is_default": false, "updated_at": utcNow()}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear default payment methods")
	}

	return nil
}

// ListAllPaymentMethods lists every method with its store name.
func (repo *paymentMethodRepository) ListAllPaymentMethods(ctx context.Context) ([]*repository.PaymentMethodWithStore, error) {
	var methodModels []*model.PaymentMethodModel
	err := repo.db.WithContext(ctx).
		Joins("Store").
		Order(`"Store"."name" ASC, payment_methods.is_default DESC, payment_methods.provider ASC, payment_methods.id ASC`).
		Find(&methodModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payment methods")
	}

	rows := make([]*repository.PaymentMethodWithStore, 0, len(methodModels))
	for _, methodM := range methodModels {
		row := &repository.PaymentMethodWithStore{Method: toPaymentMethodDomain(methodM)}
		if methodM.Store != nil {
			row.StoreName = methodM.Store.Name
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// planUpgradeRepository implements the domain.PlanUpgradeRepository interface.
type planUpgradeRepository struct {
	db *gorm.DB
}

// NewPlanUpgradeRepository is the constructor for planUpgradeRepository.
func NewPlanUpgradeRepository(db *gorm.DB) repository.PlanUpgradeRepository {
	return &planUpgradeRepository{db: db}
}

func (repo *planUpgradeRepository) CreatePlanUpgrade(ctx context.Context, upgrade *entity.PlanUpgrade) error {
	upgradeM := fromPlanUpgradeDomain(upgrade)

	if err := repo.db.WithContext(ctx).Create(upgradeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrInvalidWebhookPayload.WrapMessage("checkout session already recorded")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create plan upgrade")
	}

	upgrade.ID = upgradeM.ID
	upgrade.CreatedAt = upgradeM.CreatedAt

	return nil
}

func (repo *planUpgradeRepository) FindPlanUpgradeBySessionID(ctx context.Context, sessionID string) (*entity.PlanUpgrade, error) {
	var upgradeM model.PlanUpgradeModel
	err := repo.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&upgradeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlanUpgradeNotFound
		}

		return nil, errors.Wrap(err, "failed to find plan upgrade")
	}

	return toPlanUpgradeDomain(&upgradeM), nil
}

func (repo *planUpgradeRepository) UpdatePlanUpgrade(ctx context.Context, upgrade *entity.PlanUpgrade) error {
	result := repo.db.WithContext(ctx).Model(&model.PlanUpgradeModel{}).
		Where("id = ?", upgrade.ID).
		Updates(map[string]any{
			"status":       string(upgrade.Status),
			"confirmed_at": utcPtr(upgrade.ConfirmedAt),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update plan upgrade")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPlanUpgradeNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toPaymentMethodDomains(methodModels []*model.PaymentMethodModel) []*entity.PaymentMethod {
	methods := make([]*entity.PaymentMethod, 0, len(methodModels))
	for _, methodM := range methodModels {
		methods = append(methods, toPaymentMethodDomain(methodM))
	}

	return methods
}

func toPaymentMethodDomain(data *model.PaymentMethodModel) *entity.PaymentMethod {
	if data == nil {
		return nil
	}

	credentials := map[string]any{}
	for k, v := range data.Credentials {
		credentials[k] = v
	}

	return &entity.PaymentMethod{
		ID:          data.ID,
		StoreID:     data.StoreID,
		Provider:    entity.PaymentProvider(data.Provider),
		DisplayName: data.DisplayName,
		Mode:        entity.PaymentMode(data.Mode),
		IsActive:    data.IsActive,
		IsDefault:   data.IsDefault,
		Credentials: credentials,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromPaymentMethodDomain(data *entity.PaymentMethod) *model.PaymentMethodModel {
	if data == nil {
		return nil
	}

	credentials := datatypes.JSONMap{}
	for k, v := range data.Credentials {
		credentials[k] = v
	}

	return &model.PaymentMethodModel{
		ID:          data.ID,
		StoreID:     data.StoreID,
		Provider:    string(data.Provider),
		DisplayName: data.DisplayName,
		Mode:        string(data.Mode),
		IsActive:    data.IsActive,
		IsDefault:   data.IsDefault,
		Credentials: credentials,
		CreatedAt:   utc(data.CreatedAt),
		UpdatedAt:   utc(data.UpdatedAt),
	}
}

func toPlanUpgradeDomain(data *model.PlanUpgradeModel) *entity.PlanUpgrade {
	if data == nil {
		return nil
	}

	return &entity.PlanUpgrade{
		ID:          data.ID,
		StoreID:     data.StoreID,
		Plan:        entity.Plan(data.Plan),
		Provider:    entity.PaymentProvider(data.Provider),
		SessionID:   data.SessionID,
		Status:      entity.PlanUpgradeStatus(data.Status),
		CreatedAt:   data.CreatedAt,
		ConfirmedAt: data.ConfirmedAt,
	}
}

func fromPlanUpgradeDomain(data *entity.PlanUpgrade) *model.PlanUpgradeModel {
	if data == nil {
		return nil
	}

	return &model.PlanUpgradeModel{
		ID:          data.ID,
		StoreID:     data.StoreID,
		Plan:        string(data.Plan),
		Provider:    string(data.Provider),
		SessionID:   data.SessionID,
		Status:      string(data.Status),
		CreatedAt:   utc(data.CreatedAt),
		ConfirmedAt: utcPtr(data.ConfirmedAt),
	}
}
