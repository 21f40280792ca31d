// Package field provides typed column descriptors. A descriptor only
// accepts values of its column's Go type, so a query such as
//
//	domain.IngredientFields.RecipeID.Eq(recipe.ID)
//
// cannot compare a foreign key against a string by mistake.
package field

import "github.com/arllen133/recipes/clause"

// column is the part shared by every typed field.
type column[T any] struct {
	col clause.Column
}

func newColumn[T any](table, name string) column[T] {
	return column[T]{col: clause.Column{Table: table, Name: name}}
}

// Column returns the underlying column.
func (c column[T]) Column() clause.Column { return c.col }

// ColumnName implements clause.Columnar.
func (c column[T]) ColumnName() string { return c.col.ColumnName() }

func (c column[T]) Eq(value T) clause.Expression {
	return clause.Eq{Column: c.col, Value: value}
}

func (c column[T]) In(values ...T) clause.Expression {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return clause.IN{Column: c.col, Values: vals}
}

func (c column[T]) IsNull() clause.Expression {
	return clause.IsNull{Column: c.col}
}

// Set builds the UPDATE assignment column = value.
func (c column[T]) Set(value T) clause.Assignment {
	return clause.Assignment{Column: c.col, Value: value}
}

func (c column[T]) Asc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: c.col}
}

func (c column[T]) Desc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: c.col, Desc: true}
}
