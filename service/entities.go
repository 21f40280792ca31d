package service

import (
	"log/slog"

	"github.com/arllen133/recipes/domain"
	"github.com/arllen133/recipes/store"
)

// AuthorService manages authors.
type AuthorService interface {
	CRUD[domain.Author]
}

// RecipeService manages recipes. Reads resolve the recipe's author.
type RecipeService interface {
	CRUD[domain.Recipe]
}

// IngredientService manages ingredients. Reads resolve the owning recipe.
type IngredientService interface {
	CRUD[domain.Ingredient]
}

// Options shared by the entity constructors.
type Options struct {
	Logger *slog.Logger
	// CacheSize bounds each entity's identity cache; 0 disables caching.
	CacheSize int
}

func NewAuthorService(session *store.Session, opts Options) AuthorService {
	return New("author", session, entityOptions[domain.Author](opts)...)
}

func NewRecipeService(session *store.Session, opts Options) RecipeService {
	return New("recipe", session, append(entityOptions[domain.Recipe](opts),
		WithPreload(store.Preload(domain.RecipeAuthor)))...)
}

func NewIngredientService(session *store.Session, opts Options) IngredientService {
	return New("ingredient", session, append(entityOptions[domain.Ingredient](opts),
		WithPreload(store.Preload(domain.IngredientRecipe)))...)
}

func entityOptions[T any](opts Options) []Option[T] {
	out := []Option[T]{WithLogger[T](opts.Logger)}
	if opts.CacheSize > 0 {
		out = append(out, WithRepositoryOptions(store.WithCache[T](store.NewMemoryCache[T](opts.CacheSize))))
	}
	return out
}
