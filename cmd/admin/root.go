package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gdugdh24/coparent-backend/internal/config"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/container"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/database"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// cliEnv is what the commands need from the outside world. Tests swap the
// openers for in-memory ones.
type cliEnv struct {
	loadConfig func() (*config.Config, error)
	openDB     func(ctx context.Context, cfg *config.Config) (*sqlx.DB, error)
	openRepos  func(ctx context.Context, cfg *config.Config) (container.Repositories, io.Closer, error)
}

func defaultEnv() *cliEnv {
	openDB := func(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
		return database.NewPostgresDB(ctx, &cfg.Database)
	}
	return &cliEnv{
		loadConfig: config.Load,
		openDB:     openDB,
		openRepos: func(ctx context.Context, cfg *config.Config) (container.Repositories, io.Closer, error) {
			db, err := openDB(ctx, cfg)
			if err != nil {
				return container.Repositories{}, nil, err
			}
			return container.NewPostgresRepositories(db), db, nil
		},
	}
}

func newRootCmd(env *cliEnv) *cobra.Command {
	root := &cobra.Command{
		Use:           "coparent-admin",
		Short:         "Operator tooling for the co-parenting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stdout)

	root.AddCommand(
		newMigrateCmd(env),
		newRolesCmd(env),
		newTokenCmd(env),
	)
	return root
}

func (e *cliEnv) config() (*config.Config, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
