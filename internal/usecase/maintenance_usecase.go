package usecase

import "context"

// MaintenanceUsecase holds operator tasks run from the command line.
type MaintenanceUsecase interface {
	// Backfill ensures every user has a merchant profile and at least one store.
	Backfill(ctx context.Context, dryRun bool) (*BackfillResult, error)

	// SeedOrders creates random demo orders in the first user's store.
	SeedOrders(ctx context.Context, count int) (*SeedResult, error)
}

// BackfillResult counts what a backfill created or would create.
type BackfillResult struct {
	Users           int
	ProfilesCreated int
	StoresCreated   int
	DryRun          bool
	// Actions describes each record created or, in a dry run, that would be created.
	Actions []string
}

// SeedResult summarises a seeding run.
type SeedResult struct {
	StoreID         uint
	ProductsCreated int
	OrdersCreated   int
}
