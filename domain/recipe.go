package domain

import (
	"context"
	"fmt"
	"slices"
)

// Recipe belongs to an optional author and owns its ingredients.
type Recipe struct {
	ID          int64  `db:"id,primaryKey,autoIncrement" json:"id,omitempty"`
	Title       string `db:"title" json:"title"`
	Image       string `db:"image" json:"image"`
	Description string `db:"description" json:"description"`

	// AuthorID is the persisted link. It follows Author when one is attached.
	AuthorID *int64  `db:"author_id" json:"-"`
	Author   *Author `db:"-" json:"author,omitempty"`

	Ingredients []*Ingredient `db:"-" json:"-"`
}

func NewRecipe() *Recipe { return &Recipe{} }

func (r *Recipe) WithTitle(title string) *Recipe {
	r.Title = title
	return r
}

func (r *Recipe) WithImage(image string) *Recipe {
	r.Image = image
	return r
}

func (r *Recipe) WithDescription(description string) *Recipe {
	r.Description = description
	return r
}

// WithAuthor moves r to author, updating both sides. A nil author detaches r.
func (r *Recipe) WithAuthor(author *Author) *Recipe {
	if author == nil {
		if r.Author != nil {
			r.Author.RemoveRecipe(r)
		}
		r.setAuthor(nil)
		return r
	}
	author.AddRecipe(r)
	return r
}

// WithIngredients replaces the ingredient set.
func (r *Recipe) WithIngredients(ingredients ...*Ingredient) *Recipe {
	for _, i := range r.Ingredients {
		i.setRecipe(nil)
	}
	r.Ingredients = nil
	for _, i := range ingredients {
		r.AddIngredient(i)
	}
	return r
}

// AddIngredient links i to r on both sides.
func (r *Recipe) AddIngredient(i *Ingredient) *Recipe {
	if i == nil {
		return r
	}
	if i.Recipe != nil && i.Recipe != r {
		i.Recipe.RemoveIngredient(i)
	}
	if !slices.Contains(r.Ingredients, i) {
		r.Ingredients = append(r.Ingredients, i)
	}
	i.setRecipe(r)
	return r
}

// RemoveIngredient unlinks i from r on both sides.
func (r *Recipe) RemoveIngredient(i *Ingredient) *Recipe {
	if i == nil {
		return r
	}
	r.Ingredients = slices.DeleteFunc(r.Ingredients, func(x *Ingredient) bool { return x == i })
	if i.Recipe == r {
		i.setRecipe(nil)
	}
	return r
}

func (r *Recipe) setAuthor(a *Author) {
	r.Author = a
	r.AuthorID = nil
	r.syncAuthorKey()
}

// syncAuthorKey derives AuthorID from the attached author, if any. A transient
// author leaves the key unset.
func (r *Recipe) syncAuthorKey() {
	if r.Author == nil {
		return
	}
	if r.Author.ID == 0 {
		r.AuthorID = nil
		return
	}
	id := r.Author.ID
	r.AuthorID = &id
}

// Equal reports whether r and other denote the same persisted recipe.
func (r *Recipe) Equal(other *Recipe) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return r.ID != 0 && r.ID == other.ID
}

func (r *Recipe) String() string {
	return fmt.Sprintf("Recipe{id=%d, title='%s', image='%s', description='%s'}", r.ID, r.Title, r.Image, r.Description)
}

func (r *Recipe) BeforeCreate(context.Context) error {
	r.syncAuthorKey()
	return nil
}

func (r *Recipe) AfterCreate(context.Context) error {
	for _, i := range r.Ingredients {
		if i.Recipe == r {
			i.syncRecipeKey()
		}
	}
	return nil
}

func (r *Recipe) BeforeUpdate(context.Context) error {
	r.syncAuthorKey()
	return nil
}
