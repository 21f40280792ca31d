package clause_test

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/recipes/clause"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressions(t *testing.T) {
	tests := []struct {
		name     string
		expr     clause.Expression
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Eq",
			expr:     clause.Eq{Column: clause.Column{Name: "title"}, Value: "soup"},
			wantSQL:  "title = ?",
			wantArgs: []any{"soup"},
		},
		{
			name:     "Eq Qualified",
			expr:     clause.Eq{Column: clause.Column{Table: "recipe", Name: "id"}, Value: int64(3)},
			wantSQL:  "recipe.id = ?",
			wantArgs: []any{int64(3)},
		},
		{
			name:     "Like",
			expr:     clause.Like{Column: clause.Column{Name: "name"}, Value: "%salt%"},
			wantSQL:  "name LIKE ?",
			wantArgs: []any{"%salt%"},
		},
		{
			name:    "IsNull",
			expr:    clause.IsNull{Column: clause.Column{Name: "author_id"}},
			wantSQL: "author_id IS NULL",
		},
		{
			name:     "In",
			expr:     clause.IN{Column: clause.Column{Name: "recipe_id"}, Values: []any{1, 2}},
			wantSQL:  "recipe_id IN (?,?)",
			wantArgs: []any{1, 2},
		},
		{
			name:    "In Empty",
			expr:    clause.IN{Column: clause.Column{Name: "recipe_id"}, Values: []any{}},
			wantSQL: "(1=0)",
		},
		{
			name: "And",
			expr: clause.And{
				clause.Eq{Column: clause.Column{Name: "unit"}, Value: "g"},
				clause.IsNull{Column: clause.Column{Name: "recipe_id"}},
			},
			wantSQL:  "(unit = ? AND recipe_id IS NULL)",
			wantArgs: []any{"g"},
		},
		{
			name:    "And Empty",
			expr:    clause.And{},
			wantSQL: "(1=1)",
		},
		{
			name:     "Expr",
			expr:     clause.Expr{SQL: "quantity > ?", Vars: []any{2.5}},
			wantSQL:  "quantity > ?",
			wantArgs: []any{2.5},
		},
		{
			name:     "Assignment",
			expr:     clause.Assignment{Column: clause.Column{Name: "website"}, Value: "https://example.org"},
			wantSQL:  "website = ?",
			wantArgs: []any{"https://example.org"},
		},
		{
			name:    "OrderBy Desc",
			expr:    clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true},
			wantSQL: "id DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.expr.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if len(tt.wantArgs) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestInvalidExpressions(t *testing.T) {
	_, _, err := clause.OrderByColumn{}.ToSql()
	assert.Error(t, err, "order by without a column")

	_, _, err = clause.Eq{Column: clause.Column{Name: "author_id"}}.ToSql()
	assert.Error(t, err, "eq against nil")
}

func TestExpressionsComposeWithSquirrel(t *testing.T) {
	sql, args, err := sq.Select("id").
		From("ingredient").
		Where(clause.Eq{Column: clause.Column{Name: "unit"}, Value: "g"}).
		Where(clause.IN{Column: clause.Column{Name: "recipe_id"}, Values: []any{4, 5}}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM ingredient WHERE unit = $1 AND recipe_id IN ($2,$3)", sql)
	assert.Equal(t, []any{"g", 4, 5}, args)
}
