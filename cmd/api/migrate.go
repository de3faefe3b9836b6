package main

import (
	"errors"

	mg "task-buddy/internal/adapters/storage/mongodb"
	pg "task-buddy/internal/adapters/storage/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "crea tablas (Postgres) o índices (Mongo)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		switch {
		case a.opts.DB != nil:
			err = pg.Migrate(ctx, a.opts.DB)
		case a.opts.Mongo != nil:
			err = mg.EnsureIndexes(ctx, a.opts.Mongo)
		default:
			return errors.New("migrate: no storage configured (set storage.dsn or storage.mongo_uri)")
		}
		if err != nil {
			a.log.Error("migration failed", map[string]any{"error": err})
			return err
		}

		a.log.Info("migration completed", nil)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
