package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arllen133/recipes/clause"
	"github.com/arllen133/recipes/field"
	"github.com/arllen133/recipes/store"
)

func BenchmarkSaveInsert(b *testing.B) {
	session := setupTestDB(b)
	repo := store.NewRepository[Shelf](session)
	ctx := context.Background()

	i := 0
	for b.Loop() {
		if _, err := repo.Save(ctx, &Shelf{Label: fmt.Sprintf("shelf-%d", i)}); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
		i++
	}
}

func BenchmarkFindOne(b *testing.B) {
	for _, cached := range []bool{false, true} {
		b.Run(fmt.Sprintf("cached=%t", cached), func(b *testing.B) {
			session := setupTestDB(b)
			var opts []store.RepositoryOption[Shelf]
			if cached {
				opts = append(opts, store.WithCache[Shelf](store.NewMemoryCache[Shelf](16)))
			}
			repo := store.NewRepository[Shelf](session, opts...)
			ctx := context.Background()

			saved, err := repo.Save(ctx, &Shelf{Label: "find-me"})
			if err != nil {
				b.Fatalf("Failed to seed shelf: %v", err)
			}

			for b.Loop() {
				if _, err := repo.FindOne(ctx, saved.ID); err != nil {
					b.Fatalf("FindOne failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkFindPageWithPreload(b *testing.B) {
	session := setupTestDB(b)
	shelves := store.NewRepository[Shelf](session)
	books := store.NewRepository[Book](session)
	ctx := context.Background()

	for i := range 50 {
		shelf, err := shelves.Save(ctx, &Shelf{Label: fmt.Sprintf("shelf-%02d", i)})
		if err != nil {
			b.Fatalf("Failed to seed shelf: %v", err)
		}
		for j := range 4 {
			if _, err := books.Save(ctx, &Book{Title: fmt.Sprintf("book-%d", j), ShelfID: &shelf.ID}); err != nil {
				b.Fatalf("Failed to seed book: %v", err)
			}
		}
	}

	pageable := store.Pageable{Page: 1, Size: 20}
	for b.Loop() {
		if _, err := shelves.FindPage(ctx, pageable, store.Preload(shelfBooks)); err != nil {
			b.Fatalf("FindPage failed: %v", err)
		}
	}
}

func BenchmarkResolveColumnNames(b *testing.B) {
	title := field.NewString("book", "title")
	args := []clause.Columnar{clause.Column{Name: "id"}, title, clause.Column{Name: "shelf_id"}}
	for b.Loop() {
		_ = store.ResolveColumnNames(args)
	}
}
