package usecase

import (
	"context"
	"time"

	"majicmall/internal/domain/entity"
)

// StoreUsecase covers active-store resolution, store profile management and the
// archive/restore/purge lifecycle.
type StoreUsecase interface {
	// ResolveActiveStore picks the store a request operates on. It returns nil
	// when the owner has no active store yet.
	ResolveActiveStore(ctx context.Context, ownerID uint, overrideID *uint, sess ActiveStoreSession) (*ResolvedStore, error)

	// EnsureStore returns the owner's active store, creating a blank one when the
	// owner has none. The boolean reports whether a store was created.
	EnsureStore(ctx context.Context, ownerID uint, sess ActiveStoreSession) (*entity.Store, bool, error)

	CreateStore(ctx context.Context, ownerID uint, input *StoreInput, sess ActiveStoreSession) (*entity.Store, error)
	ListOwnedStores(ctx context.Context, ownerID uint) ([]*StoreView, error)
	SwitchStore(ctx context.Context, ownerID, storeID uint, sess ActiveStoreSession) (*entity.Store, error)
	UpdateStoreProfile(ctx context.Context, store *entity.Store, input *StoreInput) (*entity.Store, error)
	UploadLogo(ctx context.Context, store *entity.Store, upload *Upload) (*entity.Store, error)

	ArchiveStore(ctx context.Context, store *entity.Store) (*LifecycleResult, error)
	RestoreStore(ctx context.Context, ownerID, storeID uint) (*LifecycleResult, error)

	// Staff operations act on any store.
	ListAllStores(ctx context.Context) ([]*StoreView, error)
	StaffArchiveStore(ctx context.Context, storeID uint) (*LifecycleResult, error)
	StaffRestoreStore(ctx context.Context, storeID uint) (*LifecycleResult, error)
	PurgeStore(ctx context.Context, storeID uint) (*LifecycleResult, error)

	// PurgeExpired purges every store archived for longer than the restore window
	// and returns the purged ids.
	PurgeExpired(ctx context.Context) ([]uint, error)
}

// ActiveStoreSession is the slice of the server-side session that remembers the
// selected store.
type ActiveStoreSession interface {
	ActiveStoreID() (uint, bool)
	SetActiveStoreID(id uint)
	ClearActiveStoreID()
}

// ResolutionSource names the rule that selected the active store.
type ResolutionSource string

const (
	ResolvedFromOverride ResolutionSource = "override"
	ResolvedFromSession  ResolutionSource = "session"
	ResolvedFromEarliest ResolutionSource = "earliest"
)

// ResolvedStore is the store a request operates on.
type ResolvedStore struct {
	Store  *entity.Store
	Source ResolutionSource
}

// --- Input DTOs ---

// StoreInput holds editable store fields. Nil fields are left unchanged on update.
type StoreInput struct {
	Name        *string `json:"store_name,omitempty" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,max=255"`
	Slogan      *string `json:"slogan,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// Upload is an uploaded image.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// --- Output DTOs ---

// StoreView is a store with its lifecycle deadlines evaluated at read time.
type StoreView struct {
	Store           *entity.Store
	RestoreDeadline *time.Time
	CanRestore      bool
	PurgeRemaining  time.Duration
}

// LifecycleResult reports the outcome of an archive, restore or purge. Changed is
// false for informational no-ops.
type LifecycleResult struct {
	Store           *entity.Store
	Changed         bool
	Message         string
	RestoreDeadline *time.Time
	CanRestore      bool
}
