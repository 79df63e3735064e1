package main

import (
	"context"
	"fmt"
	"time"

	"majicmall/internal/infra/persistence/postgres"
	"majicmall/internal/usecase"
	"majicmall/internal/util"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var db *gorm.DB

			return withApp(cmd.Context(), func(ctx context.Context) error {
				started := time.Now()
				if err := postgres.AutoMigrate(ctx, db); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema migrated in %s\n", util.FormatDuration(time.Since(started)))

				return nil
			}, &db)
		},
	}
}

func backfillCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Ensure every user has a merchant profile and a store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var uc usecase.MaintenanceUsecase

			return withApp(cmd.Context(), func(ctx context.Context) error {
				result, err := uc.Backfill(ctx, dryRun)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, action := range result.Actions {
					fmt.Fprintln(out, action)
				}
				prefix := "Backfill"
				if result.DryRun {
					prefix = "Backfill (dry run)"
				}
				fmt.Fprintf(out, "%s: %d users checked, %d profiles created, %d stores created\n",
					prefix, result.Users, result.ProfilesCreated, result.StoresCreated)

				return nil
			}, &uc)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be created without writing")

	return cmd
}

func seedOrdersCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed-orders",
		Short: "Create random demo orders in the first user's store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return errors.Errorf("--count must be positive, got %d", count)
			}

			var uc usecase.MaintenanceUsecase

			return withApp(cmd.Context(), func(ctx context.Context) error {
				result, err := uc.SeedOrders(ctx, count)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded store %d: %d products created, %d orders created\n",
					result.StoreID, result.ProductsCreated, result.OrdersCreated)

				return nil
			}, &uc)
		},
	}

	cmd.Flags().IntVar(&count, "count", 20, "number of orders to create")

	return cmd
}

func purgeExpiredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-expired",
		Short: "Permanently delete stores archived past the restore window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var uc usecase.StoreUsecase

			return withApp(cmd.Context(), func(ctx context.Context) error {
				purged, err := uc.PurgeExpired(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "Purged %d stores %v\n", len(purged), purged)

				return err
			}, &uc)
		},
	}
}
