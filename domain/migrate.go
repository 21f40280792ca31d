package domain

import (
	"context"
	"fmt"

	"github.com/arllen133/recipes/store"
)

var ddl = map[string][]string{
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS author (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS recipe (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			author_id INTEGER REFERENCES author(id)
		)`,
		`CREATE TABLE IF NOT EXISTS ingredient (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quantity REAL NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			recipe_id INTEGER REFERENCES recipe(id)
		)`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS author (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			name VARCHAR(255) NOT NULL DEFAULT '',
			website VARCHAR(255) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS recipe (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			title VARCHAR(255) NOT NULL DEFAULT '',
			image VARCHAR(255) NOT NULL DEFAULT '',
			description VARCHAR(255) NOT NULL DEFAULT '',
			author_id BIGINT NULL,
			CONSTRAINT fk_recipe_author FOREIGN KEY (author_id) REFERENCES author(id)
		)`,
		`CREATE TABLE IF NOT EXISTS ingredient (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			quantity DOUBLE NOT NULL DEFAULT 0,
			unit VARCHAR(255) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL DEFAULT '',
			recipe_id BIGINT NULL,
			CONSTRAINT fk_ingredient_recipe FOREIGN KEY (recipe_id) REFERENCES recipe(id)
		)`,
	},
	"postgres": {
		`CREATE TABLE IF NOT EXISTS author (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			website VARCHAR(255) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS recipe (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL DEFAULT '',
			image VARCHAR(255) NOT NULL DEFAULT '',
			description VARCHAR(255) NOT NULL DEFAULT '',
			author_id BIGINT REFERENCES author(id)
		)`,
		`CREATE TABLE IF NOT EXISTS ingredient (
			id BIGSERIAL PRIMARY KEY,
			quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
			unit VARCHAR(255) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL DEFAULT '',
			recipe_id BIGINT REFERENCES recipe(id)
		)`,
	},
}

// Migrate creates the author, recipe and ingredient tables when missing.
func Migrate(ctx context.Context, session *store.Session) error {
	statements, ok := ddl[session.Dialect().Name()]
	if !ok {
		return fmt.Errorf("domain: no schema for dialect %s", session.Dialect().Name())
	}
	return session.Transaction(ctx, func(tx *store.Session) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("domain: migrate: %w", err)
			}
		}
		return nil
	})
}
