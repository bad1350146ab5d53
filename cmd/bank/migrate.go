package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoeShih716/go-bank-ledger/internal/config"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the MySQL tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.DriverMySQL {
				return fmt.Errorf("migrate requires storage.driver %q, got %q", config.DriverMySQL, cfg.Storage.Driver)
			}
			store, client, err := openMySQL(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := store.AutoMigrate(cmd.Context()); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			logger.Info("migration completed")
			return nil
		},
	}
}
