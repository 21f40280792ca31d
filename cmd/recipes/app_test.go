package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestAppCommands(t *testing.T) {
	app := newApp()

	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
		assert.NotNil(t, c.Action, "command %s has no action", c.Name)
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
}

func TestMigrateInMemory(t *testing.T) {
	err := newApp().Run(context.Background(),
		[]string{name, "--driver", "sqlite3", "--dsn", ":memory:", "migrate"})
	assert.NoError(t, err)
}

func TestMigrateUnknownDriver(t *testing.T) {
	err := newApp().Run(context.Background(),
		[]string{name, "--driver", "oracle", "--dsn", "x", "migrate"})
	assert.Error(t, err)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
application: fileApp
database:
  driver: sqlite3
  dsn: file:from-file.db
log:
  level: warn
`), 0o600))
	t.Setenv("DATABASE_DSN", "file:from-env.db")

	var captured struct {
		app, dsn, level string
		port            int
	}
	cmd := &cli.Command{
		Name:  name,
		Flags: globalFlags(),
		Commands: []*cli.Command{{
			Name:  "probe",
			Flags: []cli.Flag{&cli.IntFlag{Name: "port"}},
			Action: func(_ context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				captured.app = cfg.Application
				captured.dsn = cfg.Database.DSN
				captured.level = cfg.Log.Level
				captured.port = cfg.Server.Port
				return nil
			},
		}},
	}

	err := cmd.Run(context.Background(),
		[]string{name, "--config", path, "--log-level", "debug", "probe", "--port", "9090"})
	require.NoError(t, err)

	assert.Equal(t, "fileApp", captured.app)
	assert.Equal(t, "file:from-env.db", captured.dsn)
	assert.Equal(t, "debug", captured.level)
	assert.Equal(t, 9090, captured.port)
}

func TestLoadConfigMissingFile(t *testing.T) {
	err := newApp().Run(context.Background(),
		[]string{name, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "migrate"})
	assert.Error(t, err)
}
