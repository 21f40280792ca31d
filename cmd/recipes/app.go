package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/arllen133/recipes/config"
	"github.com/arllen133/recipes/domain"
	"github.com/arllen133/recipes/logging"
	"github.com/arllen133/recipes/server"
	"github.com/arllen133/recipes/service"
	"github.com/arllen133/recipes/store"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const name = "recipes"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// globalFlags returns fresh flag values; urfave flags keep parse state.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration file",
			Sources: cli.EnvVars("RECIPES_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error); overrides the configuration",
		},
		&cli.StringFlag{
			Name:  "driver",
			Usage: "Database driver (sqlite3, mysql, postgres)",
		},
		&cli.StringFlag{
			Name:  "dsn",
			Usage: "Database data source name",
		},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Recipes, ingredients and authors REST service",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Apply the schema and serve the REST API until interrupted",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port; overrides the configuration",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			session, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := session.Close(); err != nil {
					slog.Warn("failed to close database", "error", err)
				}
			}()

			if err := domain.Migrate(ctx, session); err != nil {
				return fmt.Errorf("applying schema: %w", err)
			}

			srv := server.New(server.NewConfig(cfg, version), newServices(session, cfg), session)
			return srv.Run(ctx)
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the recipe, ingredient and author tables if they do not exist",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			session, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			if err := domain.Migrate(ctx, session); err != nil {
				return fmt.Errorf("applying schema: %w", err)
			}
			slog.Info("schema applied", "driver", cfg.Database.Driver)
			return nil
		},
	}
}

// loadConfig resolves the configuration for cmd and installs the default
// logger. Flags win over environment, which wins over the file.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("driver") {
		cfg.Database.Driver = cmd.String("driver")
	}
	if cmd.IsSet("dsn") {
		cfg.Database.DSN = cmd.String("dsn")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = int(cmd.Int("port"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.Log.Level)
	slog.Debug("configuration loaded",
		"commit", commit,
		"date", date,
		"driver", cfg.Database.Driver,
		"port", cfg.Server.Port,
	)
	return cfg, nil
}

func openSession(cfg *config.Config) (*store.Session, error) {
	dialect, err := store.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	db, err := cfg.Database.Open()
	if err != nil {
		return nil, err
	}

	return store.NewSession(db, dialect,
		store.WithLogger(slog.Default()),
		store.WithDefaultTracer(),
		store.WithDefaultMeter(),
		store.WithSlowQueryThreshold(cfg.Database.SlowQueryThreshold),
		store.WithQueryLogging(cfg.Database.QueryLogging),
	), nil
}

func newServices(session *store.Session, cfg *config.Config) server.Services {
	opts := service.Options{
		Logger:    slog.Default(),
		CacheSize: cfg.Database.CacheSize,
	}
	return server.Services{
		Authors:     service.NewAuthorService(session, opts),
		Recipes:     service.NewRecipeService(session, opts),
		Ingredients: service.NewIngredientService(session, opts),
	}
}
