package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arllen133/recipes/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollback(t *testing.T) {
	session := setupTestDB(t)
	repo := store.NewRepository[Shelf](session)
	ctx := context.Background()

	boom := errors.New("boom")
	err := session.Transaction(ctx, func(tx *store.Session) error {
		assert.True(t, tx.InTransaction())
		if _, err := repo.WithSession(tx).Save(ctx, &Shelf{Label: "lost"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransactionPanicRollsBack(t *testing.T) {
	session := setupTestDB(t)
	repo := store.NewRepository[Shelf](session)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = session.Transaction(ctx, func(tx *store.Session) error {
			_, _ = repo.WithSession(tx).Save(ctx, &Shelf{Label: "lost"})
			panic("kaboom")
		})
	})

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	session := setupTestDB(t)
	repo := store.NewRepository[Shelf](session)
	ctx := context.Background()

	err := session.Transaction(ctx, func(outer *store.Session) error {
		return outer.Transaction(ctx, func(inner *store.Session) error {
			assert.Same(t, outer, inner)
			_, err := repo.WithSession(inner).Save(ctx, &Shelf{Label: "nested"})
			return err
		})
	})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	session := setupTestDB(t)
	repo := store.NewRepository[Shelf](session)
	ctx := context.Background()

	_, err := repo.Save(ctx, &Shelf{Label: "kept"})
	require.NoError(t, err)

	err = session.ReadOnly(ctx, func(ro *store.Session) error {
		assert.True(t, ro.IsReadOnly())

		all, err := repo.WithSession(ro).FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		_, err = repo.WithSession(ro).Save(ctx, &Shelf{Label: "rejected"})
		assert.ErrorIs(t, err, store.ErrReadOnly)

		// a write transaction cannot be opened from inside a read-only one
		return ro.Transaction(ctx, func(*store.Session) error { return nil })
	})
	require.ErrorIs(t, err, store.ErrReadOnly)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCommitOutsideTransaction(t *testing.T) {
	session := setupTestDB(t)
	assert.False(t, session.InTransaction())
	assert.Error(t, session.Commit())
	assert.Error(t, session.Rollback())
	assert.NoError(t, session.Ping(context.Background()))
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver    string
		want      store.Dialect
		returning bool
		wantErr   bool
	}{
		{driver: "sqlite3", want: store.SQLite},
		{driver: "sqlite", want: store.SQLite},
		{driver: "mysql", want: store.MySQL},
		{driver: "postgres", want: store.PostgreSQL, returning: true},
		{driver: "oracle", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got, err := store.DialectFor(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.returning, got.Returning())
		})
	}
}

func TestAfterCommit(t *testing.T) {
	session := setupTestDB(t)
	ctx := context.Background()

	t.Run("runs immediately outside a transaction", func(t *testing.T) {
		ran := false
		session.AfterCommit(func() { ran = true })
		assert.True(t, ran)
	})

	t.Run("runs once after commit", func(t *testing.T) {
		calls := 0
		err := session.Transaction(ctx, func(tx *store.Session) error {
			tx.AfterCommit(func() { calls++ })
			return tx.Transaction(ctx, func(inner *store.Session) error {
				inner.AfterCommit(func() { calls++ })
				assert.Zero(t, calls)
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("discarded on rollback", func(t *testing.T) {
		ran := false
		err := session.Transaction(ctx, func(tx *store.Session) error {
			tx.AfterCommit(func() { ran = true })
			return errors.New("boom")
		})
		require.Error(t, err)
		assert.False(t, ran)
	})
}
