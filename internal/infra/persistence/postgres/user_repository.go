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

// userRepository implements the domain.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// CreateUser persists a new user.
func (repo *userRepository) CreateUser(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("username or email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// FindUserByID retrieves a user by ID.
func (repo *userRepository) FindUserByID(ctx context.Context, id uint) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).First(&userM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return toUserDomain(&userM), nil
}

// FindUserByLogin retrieves a user by username or email.
func (repo *userRepository) FindUserByLogin(ctx context.Context, login string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		Order("id ASC").
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by login")
	}

	return toUserDomain(&userM), nil
}

// ListUsers returns every user ordered by ID.
func (repo *userRepository) ListUsers(ctx context.Context) ([]*entity.User, error) {
	var userModels []*model.UserModel
	if err := repo.db.WithContext(ctx).Order("id ASC").Find(&userModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userModels))
	for _, userM := range userModels {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// UpdatePasswordHash stores a new hash for the user.
func (repo *userRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password hash")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// LockUser serialises concurrent transactions on the same user row.
func (repo *userRepository) LockUser(ctx context.Context, id uint) error {
	return lockRow(ctx, repo.db, model.UserModel{}.TableName(), id, repository.ErrUserNotFound)
}

// merchantProfileRepository implements the domain.MerchantProfileRepository interface.
type merchantProfileRepository struct {
	db *gorm.DB
}

// NewMerchantProfileRepository is the constructor for merchantProfileRepository.
func NewMerchantProfileRepository(db *gorm.DB) repository.MerchantProfileRepository {
	return &merchantProfileRepository{db: db}
}

// CreateProfile persists a merchant profile.
func (repo *merchantProfileRepository) CreateProfile(ctx context.Context, profile *entity.MerchantProfile) error {
	profileM := fromMerchantProfileDomain(profile)

	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrSlugTaken.WrapMessage("merchant profile already exists or slug is taken")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create merchant profile")
	}

	profile.ID = profileM.ID
	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

// FindProfileByUserID retrieves the merchant profile of a user.
func (repo *merchantProfileRepository) FindProfileByUserID(ctx context.Context, userID uint) (*entity.MerchantProfile, error) {
	var profileM model.MerchantProfileModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMerchantProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find merchant profile")
	}

	return toMerchantProfileDomain(&profileM), nil
}

// ProfileSlugExists reports whether a merchant profile already uses slug.
func (repo *merchantProfileRepository) ProfileSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.MerchantProfileModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check merchant slug")
	}

	return count > 0, nil
}

// lockRow takes a row-level write lock portable across PostgreSQL and SQLite by
// performing a no-op update.
func lockRow(ctx context.Context, db *gorm.DB, table string, id uint, notFound error) error {
	result := db.WithContext(ctx).Exec("UPDATE "+table+" SET updated_at = updated_at WHERE id = ?", id)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to lock %s row", table)
	}
	if result.RowsAffected == 0 {
		return notFound
	}

	return nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		IsStaff:      data.IsStaff,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		IsStaff:      data.IsStaff,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func toMerchantProfileDomain(data *model.MerchantProfileModel) *entity.MerchantProfile {
	if data == nil {
		return nil
	}

	return &entity.MerchantProfile{
		ID:          data.ID,
		UserID:      data.UserID,
		DisplayName: data.DisplayName,
		Slug:        data.Slug,
		Email:       data.Email,
		Plan:        entity.Plan(data.Plan),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromMerchantProfileDomain(data *entity.MerchantProfile) *model.MerchantProfileModel {
	if data == nil {
		return nil
	}

	return &model.MerchantProfileModel{
		ID:          data.ID,
		UserID:      data.UserID,
		DisplayName: data.DisplayName,
		Slug:        data.Slug,
		Email:       data.Email,
		Plan:        string(data.Plan),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
