package store_test

import (
	"context"
	"testing"

	"github.com/arllen133/recipes/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreload(t *testing.T) {
	session := setupTestDB(t)
	shelves := store.NewRepository[Shelf](session)
	books := store.NewRepository[Book](session)
	ctx := context.Background()

	full, err := shelves.Save(ctx, &Shelf{Label: "full"})
	require.NoError(t, err)
	empty, err := shelves.Save(ctx, &Shelf{Label: "empty"})
	require.NoError(t, err)

	for _, title := range []string{"one", "two"} {
		_, err := books.Save(ctx, &Book{Title: title, ShelfID: int64Ptr(full.ID)})
		require.NoError(t, err)
	}
	_, err = books.Save(ctx, &Book{Title: "loose"})
	require.NoError(t, err)

	t.Run("HasMany", func(t *testing.T) {
		all, err := shelves.FindAll(ctx, store.Preload(shelfBooks))
		require.NoError(t, err)
		require.Len(t, all, 2)

		require.Len(t, all[0].Books, 2)
		assert.Equal(t, "one", all[0].Books[0].Title)
		assert.Equal(t, "two", all[0].Books[1].Title)

		assert.Equal(t, empty.ID, all[1].ID)
		assert.NotNil(t, all[1].Books)
		assert.Empty(t, all[1].Books)
	})

	t.Run("BelongsTo", func(t *testing.T) {
		all, err := books.FindAll(ctx, store.Preload(bookShelf))
		require.NoError(t, err)
		require.Len(t, all, 3)

		require.NotNil(t, all[0].Shelf)
		assert.Equal(t, "full", all[0].Shelf.Label)
		assert.Same(t, all[0].Shelf, all[1].Shelf)
		assert.Nil(t, all[2].Shelf)
	})

	t.Run("Load on fetched rows", func(t *testing.T) {
		book, err := books.FindOne(ctx, 1)
		require.NoError(t, err)
		require.NoError(t, store.Load(ctx, session, []*Book{book}, store.Preload(bookShelf)))
		require.NotNil(t, book.Shelf)
		assert.Equal(t, full.ID, book.Shelf.ID)
	})
}
