package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"studyload/config"
	"studyload/store"
)

func migrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Apply the embedded schema for the configured DB_DRIVER.

Every statement is idempotent, so migrate is safe to run on every deploy.

Examples:
  studyctl migrate
  DB_DRIVER=sqlite SQLITE_PATH=./dev.db studyctl migrate
  studyctl migrate --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			schema := store.PostgresSchema
			if cfg.DBDriver == config.DriverSQLite {
				schema = store.SQLiteSchema
			}
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), schema)
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			switch cfg.DBDriver {
			case config.DriverPostgres:
				err = migratePostgres(ctx, cfg.DatabaseURL)
			default:
				err = migrateSQLite(ctx, cfg.SQLitePath)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("schema applied ("+cfg.DBDriver+")"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the schema without applying it")
	return cmd
}

func openSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func migratePostgres(ctx context.Context, dsn string) error {
	db, err := openSQLDB(dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, store.PostgresSchema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	return nil
}

func migrateSQLite(ctx context.Context, path string) error {
	s, err := store.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Migrate(ctx)
}
