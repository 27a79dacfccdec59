package main

import (
	"fmt"

	"github.com/gdugdh24/coparent-backend/internal/config"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/database"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func newMigrateCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}

	withDB := func(cmd *cobra.Command, fn func(db *sqlx.DB) error) error {
		cfg, err := env.config()
		if err != nil {
			return err
		}
		if cfg.Storage.Type != config.StorageTypePostgres {
			return fmt.Errorf("migrations need STORAGE_TYPE=%s, got %q", config.StorageTypePostgres, cfg.Storage.Type)
		}
		db, err := env.openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(db)
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(db *sqlx.DB) error {
				if err := database.MigrateUp(db); err != nil {
					return err
				}
				cmd.Println("migrations applied")
				return nil
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(db *sqlx.DB) error {
				if err := database.MigrateDown(db, steps); err != nil {
					return err
				}
				cmd.Printf("rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(db *sqlx.DB) error {
				v, dirty, err := database.MigrationVersion(db)
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty=%t)\n", v, dirty)
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}
