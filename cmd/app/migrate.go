package main

import (
	"fmt"
	"strconv"

	"repairshop/cmd"
	"repairshop/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCommand(loadConfig func() (cmd.Config, error)) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(config)

			gormDB, err := openDatabase(config)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := postgres.Migrate(sqlDB); err != nil {
				return err
			}
			logger.InfoContext(c.Context(), "Migrations applied")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back the given number of migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid steps %q: %w", args[0], err)
				}
				steps = n
			}

			config, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(config)

			gormDB, err := openDatabase(config)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := postgres.MigrateDown(sqlDB, steps); err != nil {
				return err
			}
			logger.InfoContext(c.Context(), "Migrations rolled back", "steps", steps)
			return nil
		},
	})

	return migrateCmd
}
