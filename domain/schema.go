package domain

import (
	"github.com/arllen133/recipes/clause"
	"github.com/arllen133/recipes/field"
	"github.com/arllen133/recipes/store"
)

const (
	AuthorTable     = "author"
	RecipeTable     = "recipe"
	IngredientTable = "ingredient"
)

// AuthorFields describes the columns of the author table.
var AuthorFields = struct {
	ID      field.Number[int64]
	Name    field.String
	Website field.String
}{
	ID:      field.NewNumber[int64](AuthorTable, "id"),
	Name:    field.NewString(AuthorTable, "name"),
	Website: field.NewString(AuthorTable, "website"),
}

// RecipeFields describes the columns of the recipe table.
var RecipeFields = struct {
	ID          field.Number[int64]
	Title       field.String
	Image       field.String
	Description field.String
	AuthorID    field.Number[int64]
}{
	ID:          field.NewNumber[int64](RecipeTable, "id"),
	Title:       field.NewString(RecipeTable, "title"),
	Image:       field.NewString(RecipeTable, "image"),
	Description: field.NewString(RecipeTable, "description"),
	AuthorID:    field.NewNumber[int64](RecipeTable, "author_id"),
}

// IngredientFields describes the columns of the ingredient table.
var IngredientFields = struct {
	ID       field.Number[int64]
	Quantity field.Number[float64]
	Unit     field.String
	Name     field.String
	RecipeID field.Number[int64]
}{
	ID:       field.NewNumber[int64](IngredientTable, "id"),
	Quantity: field.NewNumber[float64](IngredientTable, "quantity"),
	Unit:     field.NewString(IngredientTable, "unit"),
	Name:     field.NewString(IngredientTable, "name"),
	RecipeID: field.NewNumber[int64](IngredientTable, "recipe_id"),
}

type authorSchema struct{}

func (authorSchema) TableName() string { return AuthorTable }
func (authorSchema) SelectColumns() []string {
	return []string{"id", "name", "website"}
}
func (authorSchema) InsertRow(m *Author) ([]string, []any) {
	return []string{"name", "website"}, []any{m.Name, m.Website}
}
func (authorSchema) UpdateMap(m *Author) map[string]any {
	return map[string]any{"name": m.Name, "website": m.Website}
}
func (authorSchema) PK(m *Author) store.PK {
	var val any
	if m != nil {
		val = m.ID
	}
	return store.PK{Column: clause.Column{Name: "id"}, Value: val}
}
func (authorSchema) SetPK(m *Author, val int64) { m.ID = val }
func (authorSchema) AutoIncrement() bool        { return true }

type recipeSchema struct{}

func (recipeSchema) TableName() string { return RecipeTable }
func (recipeSchema) SelectColumns() []string {
	return []string{"id", "title", "image", "description", "author_id"}
}
func (recipeSchema) InsertRow(m *Recipe) ([]string, []any) {
	return []string{"title", "image", "description", "author_id"},
		[]any{m.Title, m.Image, m.Description, m.AuthorID}
}
func (recipeSchema) UpdateMap(m *Recipe) map[string]any {
	return map[string]any{
		"title":       m.Title,
		"image":       m.Image,
		"description": m.Description,
		"author_id":   m.AuthorID,
	}
}
func (recipeSchema) PK(m *Recipe) store.PK {
	var val any
	if m != nil {
		val = m.ID
	}
	return store.PK{Column: clause.Column{Name: "id"}, Value: val}
}
func (recipeSchema) SetPK(m *Recipe, val int64) { m.ID = val }
func (recipeSchema) AutoIncrement() bool        { return true }

type ingredientSchema struct{}

func (ingredientSchema) TableName() string { return IngredientTable }
func (ingredientSchema) SelectColumns() []string {
	return []string{"id", "quantity", "unit", "name", "recipe_id"}
}
func (ingredientSchema) InsertRow(m *Ingredient) ([]string, []any) {
	return []string{"quantity", "unit", "name", "recipe_id"},
		[]any{m.Quantity, m.Unit, m.Name, m.RecipeID}
}
func (ingredientSchema) UpdateMap(m *Ingredient) map[string]any {
	return map[string]any{
		"quantity":  m.Quantity,
		"unit":      m.Unit,
		"name":      m.Name,
		"recipe_id": m.RecipeID,
	}
}
func (ingredientSchema) PK(m *Ingredient) store.PK {
	var val any
	if m != nil {
		val = m.ID
	}
	return store.PK{Column: clause.Column{Name: "id"}, Value: val}
}
func (ingredientSchema) SetPK(m *Ingredient, val int64) { m.ID = val }
func (ingredientSchema) AutoIncrement() bool            { return true }

func init() {
	store.RegisterSchema[Author](authorSchema{})
	store.RegisterSchema[Recipe](recipeSchema{})
	store.RegisterSchema[Ingredient](ingredientSchema{})
}
