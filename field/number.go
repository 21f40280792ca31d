package field

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/recipes/clause"
	"golang.org/x/exp/constraints"
)

// Number is an integer or floating point column.
type Number[T constraints.Integer | constraints.Float] struct {
	column[T]
}

// NewNumber creates a Number field bound to table.name.
func NewNumber[T constraints.Integer | constraints.Float](table, name string) Number[T] {
	return Number[T]{newColumn[T](table, name)}
}

var _ clause.Columnar = Number[int64]{}

// Unqualified returns the field without its table prefix.
func (n Number[T]) Unqualified() Number[T] {
	return NewNumber[T]("", n.col.Name)
}

func (n Number[T]) Gt(value T) clause.Expression  { return sq.Gt{n.ColumnName(): value} }
func (n Number[T]) Gte(value T) clause.Expression { return sq.GtOrEq{n.ColumnName(): value} }
func (n Number[T]) Lt(value T) clause.Expression  { return sq.Lt{n.ColumnName(): value} }
func (n Number[T]) Lte(value T) clause.Expression { return sq.LtOrEq{n.ColumnName(): value} }
