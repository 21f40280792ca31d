package service_test

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/arllen133/recipes/domain"
	apperrors "github.com/arllen133/recipes/errors"
	"github.com/arllen133/recipes/service"
	"github.com/arllen133/recipes/store"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *store.Session {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	session := store.NewSession(db, store.SQLite)
	if err := domain.Migrate(context.Background(), session); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return session
}

func TestRecipeServiceLifecycle(t *testing.T) {
	session := setupTestDB(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts := service.Options{Logger: logger, CacheSize: 10}

	authors := service.NewAuthorService(session, opts)
	recipes := service.NewRecipeService(session, opts)
	ctx := context.Background()

	author, err := authors.Save(ctx, domain.NewAuthor().WithName("Ada"))
	require.NoError(t, err)

	recipe, err := recipes.Save(ctx, domain.NewRecipe().WithTitle("AAAAAAAAAA").WithAuthor(author))
	require.NoError(t, err)
	require.NotZero(t, recipe.ID)
	assert.Contains(t, logs.String(), "request to save recipe")

	t.Run("FindOne resolves author", func(t *testing.T) {
		found, err := recipes.FindOne(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "AAAAAAAAAA", found.Title)
		require.NotNil(t, found.Author)
		assert.Equal(t, "Ada", found.Author.Name)

		// second read is served from the cache and still resolves the author
		again, err := recipes.FindOne(ctx, recipe.ID)
		require.NoError(t, err)
		require.NotNil(t, again.Author)
	})

	t.Run("update", func(t *testing.T) {
		update := &domain.Recipe{ID: recipe.ID, Title: "BBBBBBBBBB", Author: &domain.Author{ID: author.ID}}
		_, err := recipes.Save(ctx, update)
		require.NoError(t, err)

		found, err := recipes.FindOne(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "BBBBBBBBBB", found.Title)
		assert.Equal(t, "Ada", found.Author.Name)
	})

	t.Run("update unknown id", func(t *testing.T) {
		_, err := recipes.Save(ctx, &domain.Recipe{ID: 999, Title: "ghost"})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list and page", func(t *testing.T) {
		all, err := recipes.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.NotNil(t, all[0].Author)

		page, err := recipes.FindPage(ctx, store.Pageable{Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
		require.Len(t, page.Content, 1)
		assert.NotNil(t, page.Content[0].Author)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, recipes.Delete(ctx, recipe.ID))

		_, err := recipes.FindOne(ctx, recipe.ID)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

		assert.NoError(t, recipes.Delete(ctx, recipe.ID))
	})
}

func TestIngredientServiceResolvesRecipe(t *testing.T) {
	session := setupTestDB(t)
	recipes := service.NewRecipeService(session, service.Options{})
	ingredients := service.NewIngredientService(session, service.Options{})
	ctx := context.Background()

	recipe, err := recipes.Save(ctx, domain.NewRecipe().WithTitle("bread"))
	require.NoError(t, err)
	_, err = ingredients.Save(ctx, domain.NewIngredient().WithName("flour").WithQuantity(500).WithUnit("g").WithRecipe(recipe))
	require.NoError(t, err)
	_, err = ingredients.Save(ctx, domain.NewIngredient().WithName("water"))
	require.NoError(t, err)

	all, err := ingredients.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].Recipe)
	assert.Equal(t, "bread", all[0].Recipe.Title)
	assert.Nil(t, all[1].Recipe)
}

func TestServiceErrorsAreInternal(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	// no tables
	authors := service.NewAuthorService(store.NewSession(db, store.SQLite), service.Options{})
	_, err = authors.FindAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))

	_, err = authors.Save(context.Background(), domain.NewAuthor())
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
}
