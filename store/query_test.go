package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/arllen133/recipes/clause"
	"github.com/arllen133/recipes/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryToSQL(t *testing.T) {
	session := setupTestDB(t)

	sql, args, err := store.Query[Book](session).
		Where(clause.Eq{Column: clause.Column{Name: "shelf_id"}, Value: 3}).
		OrderBy(clause.OrderByColumn{Column: clause.Column{Name: "title"}, Desc: true}).
		Limit(5).
		Offset(10).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, title, shelf_id FROM book WHERE shelf_id = ? ORDER BY title DESC LIMIT 5 OFFSET 10", sql)
	assert.Equal(t, []any{3}, args)
}

func TestQueryPostgresPlaceholders(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	session := store.NewSession(db, store.PostgreSQL)

	query, args, err := store.Query[Book](session).
		Select(clause.Column{Name: "id"}).
		Where(clause.And{
			clause.Like{Column: clause.Column{Name: "title"}, Value: "a%"},
			clause.IN{Column: clause.Column{Name: "shelf_id"}, Values: []any{1, 2}},
		}).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM book WHERE (title LIKE $1 AND shelf_id IN ($2,$3))", query)
	assert.Len(t, args, 3)
}

func TestQueryInvalidOrder(t *testing.T) {
	session := setupTestDB(t)

	_, err := store.Query[Book](session).
		OrderBy(clause.OrderByColumn{}).
		Find(context.Background())
	assert.Error(t, err)
}

func TestQueryFindTakeCount(t *testing.T) {
	session := setupTestDB(t)
	repo := store.NewRepository[Book](session)
	ctx := context.Background()

	for _, title := range []string{"Dune", "Emma", "Dracula"} {
		_, err := repo.Save(ctx, &Book{Title: title})
		require.NoError(t, err)
	}

	books, err := repo.Query().
		Where(clause.Like{Column: clause.Column{Name: "title"}, Value: "D%"}).
		OrderBy(clause.OrderByColumn{Column: clause.Column{Name: "title"}}).
		Find(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Dracula", books[0].Title)

	first, err := repo.Query().First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dune", first.Title)

	count, err := repo.Query().
		Where(clause.Like{Column: clause.Column{Name: "title"}, Value: "D%"}).
		OrderBy(clause.OrderByColumn{Column: clause.Column{Name: "title"}}).
		Limit(1).
		Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = repo.Query().
		Where(clause.Eq{Column: clause.Column{Name: "title"}, Value: "Ulysses"}).
		Take(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
