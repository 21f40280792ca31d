// Package domain holds the persisted entities of the recipes service and
// their store mappings.
package domain

import (
	"context"
	"fmt"
	"slices"
)

// Author owns zero or more recipes.
type Author struct {
	ID      int64  `db:"id,primaryKey,autoIncrement" json:"id,omitempty"`
	Name    string `db:"name" json:"name"`
	Website string `db:"website" json:"website"`

	// Recipes is populated by preloading AuthorRecipes; it is never serialized.
	Recipes []*Recipe `db:"-" json:"-"`
}

func NewAuthor() *Author { return &Author{} }

func (a *Author) WithName(name string) *Author {
	a.Name = name
	return a
}

func (a *Author) WithWebsite(website string) *Author {
	a.Website = website
	return a
}

// WithRecipes replaces the recipe set, re-pointing every recipe at a.
func (a *Author) WithRecipes(recipes ...*Recipe) *Author {
	for _, r := range a.Recipes {
		r.setAuthor(nil)
	}
	a.Recipes = nil
	for _, r := range recipes {
		a.AddRecipe(r)
	}
	return a
}

// AddRecipe links r to a on both sides.
func (a *Author) AddRecipe(r *Recipe) *Author {
	if r == nil {
		return a
	}
	if r.Author != nil && r.Author != a {
		r.Author.RemoveRecipe(r)
	}
	if !slices.Contains(a.Recipes, r) {
		a.Recipes = append(a.Recipes, r)
	}
	r.setAuthor(a)
	return a
}

// RemoveRecipe unlinks r from a on both sides.
func (a *Author) RemoveRecipe(r *Recipe) *Author {
	if r == nil {
		return a
	}
	a.Recipes = slices.DeleteFunc(a.Recipes, func(x *Recipe) bool { return x == r })
	if r.Author == a {
		r.setAuthor(nil)
	}
	return a
}

// Equal reports whether a and other denote the same persisted author.
func (a *Author) Equal(other *Author) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	return a.ID != 0 && a.ID == other.ID
}

func (a *Author) String() string {
	return fmt.Sprintf("Author{id=%d, name='%s', website='%s'}", a.ID, a.Name, a.Website)
}

func (a *Author) syncRecipeKeys() {
	for _, r := range a.Recipes {
		if r.Author == a {
			r.syncAuthorKey()
		}
	}
}

// AfterCreate hands the freshly assigned id down to already attached recipes.
func (a *Author) AfterCreate(context.Context) error {
	a.syncRecipeKeys()
	return nil
}
