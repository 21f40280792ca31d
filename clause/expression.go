// Package clause holds the SQL expression primitives the store builds
// statements from. Every expression is a squirrel Sqlizer rendering "?"
// placeholders; the session's dialect rewrites them when the statement is
// finalised.
package clause

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Columnar is anything naming a column: a Column or a typed field.
type Columnar interface {
	ColumnName() string
}

// Column is a column reference with an optional table qualifier.
type Column struct {
	Table string
	Name  string
}

// ColumnName returns the column name, qualified when Table is set.
func (c Column) ColumnName() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}

var _ Columnar = Column{}

// Expression renders a SQL fragment with its arguments. It is squirrel's
// Sqlizer, so expressions go straight into squirrel builders.
type Expression = sq.Sqlizer

// Eq matches column = value.
type Eq struct {
	Column Column
	Value  any
}

func (e Eq) ToSql() (string, []any, error) {
	if e.Value == nil {
		return "", nil, fmt.Errorf("clause: nil value for %s, use IsNull", e.Column.ColumnName())
	}
	return sq.Eq{e.Column.ColumnName(): e.Value}.ToSql()
}

// Like matches column LIKE pattern.
type Like struct {
	Column Column
	Value  string
}

func (l Like) ToSql() (string, []any, error) {
	return sq.Like{l.Column.ColumnName(): l.Value}.ToSql()
}

// IsNull matches rows where column is NULL.
type IsNull struct {
	Column Column
}

func (i IsNull) ToSql() (string, []any, error) {
	return sq.Eq{i.Column.ColumnName(): nil}.ToSql()
}

// IN matches column against a list of values. An empty list matches nothing.
type IN struct {
	Column Column
	Values []any
}

func (i IN) ToSql() (string, []any, error) {
	return sq.Eq{i.Column.ColumnName(): i.Values}.ToSql()
}

// And joins expressions with AND. An empty And matches everything.
type And []Expression

func (a And) ToSql() (string, []any, error) {
	return sq.And(a).ToSql()
}

// Expr is a raw SQL fragment.
type Expr struct {
	SQL  string
	Vars []any
}

func (e Expr) ToSql() (string, []any, error) {
	return sq.Expr(e.SQL, e.Vars...).ToSql()
}

// Assignment is a single SET column = value pair of an UPDATE.
type Assignment struct {
	Column Column
	Value  any
}

func (a Assignment) ToSql() (string, []any, error) {
	return a.Column.ColumnName() + " = ?", []any{a.Value}, nil
}

// OrderByColumn is one ORDER BY term.
type OrderByColumn struct {
	Column Column
	Desc   bool
}

func (o OrderByColumn) ToSql() (string, []any, error) {
	if o.Column.Name == "" {
		return "", nil, fmt.Errorf("clause: order by column has no name")
	}
	sql := o.Column.ColumnName()
	if o.Desc {
		sql += " DESC"
	}
	return sql, nil, nil
}
