package impl

import (
	"context"
	"fmt"

	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/repository"
	"majicmall/internal/errors"
)

const (
	defaultStoreSlogan   = "Welcome to my store!"
	defaultStoreCategory = "General"
	signupStoreBlurb     = "This is your first store inside Majic Mall."
	backfillStoreBlurb   = "Auto-created store inside Majic Mall."
)

// tenantProvision describes the records ensured for one account.
type tenantProvision struct {
	Profile        *entity.MerchantProfile
	Store          *entity.Store
	ProfileCreated bool
	StoreCreated   bool
}

// provisionTenant ensures the merchant profile and at least one store exist for
// user. It must run inside a transaction; repos come from that transaction.
func provisionTenant(
	ctx context.Context,
	repos repository.RepositoryFactory,
	user *entity.User,
	storeDescription string,
	storeIsPublic bool,
) (*tenantProvision, error) {
	profileRepo := repos.NewMerchantProfileRepository()
	storeRepo := repos.NewStoreRepository()
	result := &tenantProvision{}

	profile, err := profileRepo.FindProfileByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, repository.ErrMerchantProfileNotFound):
		displayName := user.Username
		if displayName == "" {
			displayName = fmt.Sprintf("merchant-%d", user.ID)
		}
		slug, err := uniqueProfileSlug(ctx, profileRepo, displayName)
		if err != nil {
			return nil, errors.Wrap(err, "failed to pick merchant slug")
		}
		profile = &entity.MerchantProfile{
			UserID:      user.ID,
			DisplayName: displayName,
			Slug:        slug,
			Email:       user.Email,
			Plan:        entity.PlanStarter,
		}
		if err := profileRepo.CreateProfile(ctx, profile); err != nil {
			return nil, errors.Wrap(err, "failed to create merchant profile")
		}
		result.ProfileCreated = true
	case err != nil:
		return nil, errors.Wrap(err, "failed to find merchant profile")
	}
	result.Profile = profile

	stores, err := storeRepo.FindStoresByOwner(ctx, user.ID, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find stores")
	}
	if len(stores) > 0 {
		result.Store = stores[0]

		return result, nil
	}

	storeName := "My Store"
	if user.Username != "" {
		storeName = user.Username + "'s Store"
	}
	slug, err := uniqueStoreSlug(ctx, storeRepo, storeName, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pick store slug")
	}
	store := &entity.Store{
		OwnerID:     user.ID,
		Name:        storeName,
		Slug:        slug,
		Slogan:      defaultStoreSlogan,
		Description: storeDescription,
		Category:    defaultStoreCategory,
		Plan:        entity.PlanStarter,
		IsPublic:    storeIsPublic,
	}
	if err := storeRepo.CreateStore(ctx, store); err != nil {
		return nil, errors.Wrap(err, "failed to create default store")
	}
	result.Store = store
	result.StoreCreated = true

	return result, nil
}
