package domain

import (
	"github.com/arllen133/recipes/clause"
	"github.com/arllen133/recipes/store"
)

var (
	// AuthorRecipes loads Author.Recipes.
	AuthorRecipes = store.HasMany[Author, Recipe](
		RecipeFields.AuthorID.Column(),
		func(a *Author, recipes []*Recipe) {
			a.Recipes = recipes
			for _, r := range recipes {
				r.Author = a
			}
		},
		func(a *Author) any { return a.ID },
	)

	// RecipeIngredients loads Recipe.Ingredients.
	RecipeIngredients = store.HasMany[Recipe, Ingredient](
		IngredientFields.RecipeID.Column(),
		func(r *Recipe, ingredients []*Ingredient) {
			r.Ingredients = ingredients
			for _, i := range ingredients {
				i.Recipe = r
			}
		},
		func(r *Recipe) any { return r.ID },
	)

	// RecipeAuthor loads Recipe.Author.
	RecipeAuthor = store.BelongsTo[Recipe, Author](
		AuthorFields.ID.Column(),
		func(r *Recipe, a *Author) { r.Author = a },
		func(r *Recipe) any { return foreignKey(r.AuthorID) },
	)

	// IngredientRecipe loads Ingredient.Recipe.
	IngredientRecipe = store.BelongsTo[Ingredient, Recipe](
		RecipeFields.ID.Column(),
		func(i *Ingredient, r *Recipe) { i.Recipe = r },
		func(i *Ingredient) any { return foreignKey(i.RecipeID) },
	)
)

// foreignKey unwraps a nullable key; a nil interface means no reference.
func foreignKey(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// Sortable columns keyed by JSON property name.
var (
	AuthorSortable = map[string]clause.Column{
		"id":      AuthorFields.ID.Column(),
		"name":    AuthorFields.Name.Column(),
		"website": AuthorFields.Website.Column(),
	}
	RecipeSortable = map[string]clause.Column{
		"id":          RecipeFields.ID.Column(),
		"title":       RecipeFields.Title.Column(),
		"image":       RecipeFields.Image.Column(),
		"description": RecipeFields.Description.Column(),
	}
	IngredientSortable = map[string]clause.Column{
		"id":       IngredientFields.ID.Column(),
		"quantity": IngredientFields.Quantity.Column(),
		"unit":     IngredientFields.Unit.Column(),
		"name":     IngredientFields.Name.Column(),
	}
)
