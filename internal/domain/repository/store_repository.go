package repository

import (
	"context"
	"time"

	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
)

// ErrStoreNotFound is returned when a store does not exist or is not owned by the caller.
var ErrStoreNotFound = errors.New("store not found")

// StoreRepository defines store persistence. Owner-scoped lookups never return
// stores owned by someone else.
type StoreRepository interface {
	// CreateStore persists a store. A slug collision yields ErrSlugTaken.
	CreateStore(ctx context.Context, store *entity.Store) error

	FindStoreByID(ctx context.Context, id uint) (*entity.Store, error)

	// FindOwnedStore returns the store only if ownerID owns it.
	FindOwnedStore(ctx context.Context, ownerID, id uint) (*entity.Store, error)

	FindStoreBySlug(ctx context.Context, slug string) (*entity.Store, error)

	// FindStoresByOwner returns the owner's stores, oldest first.
	FindStoresByOwner(ctx context.Context, ownerID uint, includeArchived bool) ([]*entity.Store, error)

	// FindEarliestActiveStore returns the owner's oldest non-archived store.
	FindEarliestActiveStore(ctx context.Context, ownerID uint) (*entity.Store, error)

	// ListStores returns every store, newest first.
	ListStores(ctx context.Context) ([]*entity.Store, error)

	// FindArchivedBefore returns archived stores whose archived_at is at or before cutoff.
	FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]*entity.Store, error)

	UpdateStore(ctx context.Context, store *entity.Store) error

	// SlugExists reports whether another store (id != excludeID) uses slug.
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)

	// LockStore takes a row lock on the store for the rest of the transaction.
	LockStore(ctx context.Context, id uint) error

	// DeleteStoreCascade removes the store with its order items, orders, products,
	// payment methods and plan upgrades.
	DeleteStoreCascade(ctx context.Context, id uint) error
}
