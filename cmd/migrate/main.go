package main

// Apply schema migrations:
//   go run ./cmd/migrate                 # DATABASE_URL (Postgres)
//   go run ./cmd/migrate --sqlite data/resumes.db

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"resume-editor/internal/shared/config"
	"resume-editor/internal/shared/storage/db"
	"resume-editor/internal/shared/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	var (
		databaseURL = cfg.DatabaseURL
		sqlitePath  = cfg.SQLitePath
	)
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply resume store migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := telemetry.Init(cfg.Env); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return migrate(ctx, databaseURL, sqlitePath)
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", databaseURL, "Postgres connection URL")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", sqlitePath, "SQLite database file, used when no Postgres URL is set")
	return cmd
}

func migrate(ctx context.Context, databaseURL, sqlitePath string) error {
	switch {
	case databaseURL != "":
		opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
		sqlDB, err := db.Connect(ctx, databaseURL, opts)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		if err := db.RunMigrations(ctx, sqlDB, db.DialectPostgres); err != nil {
			return err
		}
		telemetry.Info("migrate.applied", map[string]any{"dialect": db.DialectPostgres})
		return nil
	case sqlitePath != "":
		sqlDB, err := db.OpenSQLite(sqlitePath)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		telemetry.Info("migrate.applied", map[string]any{"dialect": db.DialectSQLite, "path": sqlitePath})
		return nil
	default:
		return errors.New("set DATABASE_URL or --sqlite")
	}
}
