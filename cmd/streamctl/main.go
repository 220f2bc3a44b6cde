// Command streamctl runs maintenance tasks against the service database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"streaming-app/config"
	"streaming-app/database"
	"streaming-app/internal/auth"
	"streaming-app/internal/domain/admins"
	"streaming-app/internal/domain/subscriptions"
	"streaming-app/internal/infra/stripe"
	"streaming-app/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfg *config.Config
	log *logrus.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "streamctl",
		Short:         "Maintenance commands for the streaming service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			log = logging.New(cfg.LogLevel, "text")
			return nil
		},
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(syncPlansCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openDB(ctx context.Context) (*gorm.DB, error) {
	db, err := database.Open(ctx, cfg.DB, log, database.Options{Attempts: 3})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close(db)
			log.Info("schema is up to date")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close(db)

			svc := admins.NewService(db, auth.NewPasswordHasher(cfg.BcryptCost), log)
			admin, err := svc.Create(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (must be strong)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func syncPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-plans",
		Short: "Import active recurring prices from Stripe as subscription plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StripeSecretKey == "" {
				return fmt.Errorf("STRIPE_SECRET_KEY is not set")
			}
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close(db)

			svc := subscriptions.NewService(db, log).
				WithPriceSource(stripe.NewPriceSource(cfg.StripeSecretKey, cfg.StripeProductID))
			res, err := svc.SyncFromStripe(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
