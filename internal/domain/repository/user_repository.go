// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrMerchantProfileNotFound is returned when a user has no merchant profile.
	ErrMerchantProfileNotFound = errors.New("merchant profile not found")
)

// UserRepository defines account persistence.
type UserRepository interface {
	// CreateUser persists a new user. Duplicate username or email yields ErrUserAlreadyExists.
	CreateUser(ctx context.Context, user *entity.User) error

	FindUserByID(ctx context.Context, id uint) (*entity.User, error)

	// FindUserByLogin looks a user up by username or email.
	FindUserByLogin(ctx context.Context, login string) (*entity.User, error)

	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// UpdatePasswordHash replaces the stored hash of an existing user.
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error

	// LockUser takes a row lock on the user for the rest of the transaction.
	LockUser(ctx context.Context, id uint) error
}

// MerchantProfileRepository defines merchant profile persistence.
type MerchantProfileRepository interface {
	CreateProfile(ctx context.Context, profile *entity.MerchantProfile) error
	FindProfileByUserID(ctx context.Context, userID uint) (*entity.MerchantProfile, error)
	ProfileSlugExists(ctx context.Context, slug string) (bool, error)
}
