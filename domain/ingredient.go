package domain

import (
	"context"
	"fmt"
)

// Ingredient belongs to an optional recipe.
type Ingredient struct {
	ID       int64   `db:"id,primaryKey,autoIncrement" json:"id,omitempty"`
	Quantity float64 `db:"quantity" json:"quantity"`
	Unit     string  `db:"unit" json:"unit"`
	Name     string  `db:"name" json:"name"`

	RecipeID *int64  `db:"recipe_id" json:"-"`
	Recipe   *Recipe `db:"-" json:"recipe,omitempty"`
}

func NewIngredient() *Ingredient { return &Ingredient{} }

func (i *Ingredient) WithQuantity(quantity float64) *Ingredient {
	i.Quantity = quantity
	return i
}

func (i *Ingredient) WithUnit(unit string) *Ingredient {
	i.Unit = unit
	return i
}

func (i *Ingredient) WithName(name string) *Ingredient {
	i.Name = name
	return i
}

// WithRecipe moves i to recipe. A nil recipe detaches i.
func (i *Ingredient) WithRecipe(recipe *Recipe) *Ingredient {
	if recipe == nil {
		if i.Recipe != nil {
			i.Recipe.RemoveIngredient(i)
		}
		i.setRecipe(nil)
		return i
	}
	recipe.AddIngredient(i)
	return i
}

func (i *Ingredient) setRecipe(r *Recipe) {
	i.Recipe = r
	i.RecipeID = nil
	i.syncRecipeKey()
}

func (i *Ingredient) syncRecipeKey() {
	if i.Recipe == nil {
		return
	}
	if i.Recipe.ID == 0 {
		i.RecipeID = nil
		return
	}
	id := i.Recipe.ID
	i.RecipeID = &id
}

// Equal reports whether i and other denote the same persisted ingredient.
func (i *Ingredient) Equal(other *Ingredient) bool {
	if i == other {
		return true
	}
	if i == nil || other == nil {
		return false
	}
	return i.ID != 0 && i.ID == other.ID
}

func (i *Ingredient) String() string {
	return fmt.Sprintf("Ingredient{id=%d, quantity=%g, unit='%s', name='%s'}", i.ID, i.Quantity, i.Unit, i.Name)
}

func (i *Ingredient) BeforeCreate(context.Context) error {
	i.syncRecipeKey()
	return nil
}

func (i *Ingredient) BeforeUpdate(context.Context) error {
	i.syncRecipeKey()
	return nil
}
