package field

import "github.com/arllen133/recipes/clause"

// String is a text column.
type String struct {
	column[string]
}

// NewString creates a String field bound to table.name.
func NewString(table, name string) String {
	return String{newColumn[string](table, name)}
}

var _ clause.Columnar = String{}

// Like matches the column against a LIKE pattern.
func (s String) Like(pattern string) clause.Expression {
	return clause.Like{Column: s.col, Value: pattern}
}
