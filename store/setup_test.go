package store_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/arllen133/recipes/clause"
	"github.com/arllen133/recipes/store"
	_ "github.com/mattn/go-sqlite3"
)

// Shelf and Book form a minimal one-to-many pair used across the store tests.
type Shelf struct {
	ID    int64   `db:"id,primaryKey,autoIncrement"`
	Label string  `db:"label"`
	Books []*Book `db:"-"`
}

type Book struct {
	ID      int64  `db:"id,primaryKey,autoIncrement"`
	Title   string `db:"title"`
	ShelfID *int64 `db:"shelf_id"`
	Shelf   *Shelf `db:"-"`
}

type shelfSchema struct{}

func (shelfSchema) TableName() string       { return "shelf" }
func (shelfSchema) SelectColumns() []string { return []string{"id", "label"} }
func (shelfSchema) InsertRow(m *Shelf) ([]string, []any) {
	return []string{"label"}, []any{m.Label}
}
func (shelfSchema) UpdateMap(m *Shelf) map[string]any {
	return map[string]any{"label": m.Label}
}
func (shelfSchema) PK(m *Shelf) store.PK {
	var val any
	if m != nil {
		val = m.ID
	}
	return store.PK{Column: clause.Column{Name: "id"}, Value: val}
}
func (shelfSchema) SetPK(m *Shelf, val int64) { m.ID = val }
func (shelfSchema) AutoIncrement() bool       { return true }

type bookSchema struct{}

func (bookSchema) TableName() string       { return "book" }
func (bookSchema) SelectColumns() []string { return []string{"id", "title", "shelf_id"} }
func (bookSchema) InsertRow(m *Book) ([]string, []any) {
	return []string{"title", "shelf_id"}, []any{m.Title, m.ShelfID}
}
func (bookSchema) UpdateMap(m *Book) map[string]any {
	return map[string]any{"title": m.Title, "shelf_id": m.ShelfID}
}
func (bookSchema) PK(m *Book) store.PK {
	var val any
	if m != nil {
		val = m.ID
	}
	return store.PK{Column: clause.Column{Name: "id"}, Value: val}
}
func (bookSchema) SetPK(m *Book, val int64) { m.ID = val }
func (bookSchema) AutoIncrement() bool      { return true }

func init() {
	store.RegisterSchema[Shelf](shelfSchema{})
	store.RegisterSchema[Book](bookSchema{})
}

var (
	shelfBooks = store.HasMany[Shelf, Book](
		clause.Column{Name: "shelf_id"},
		func(s *Shelf, books []*Book) { s.Books = books },
		func(s *Shelf) any { return s.ID },
	)
	bookShelf = store.BelongsTo[Book, Shelf](
		clause.Column{Name: "id"},
		func(b *Book, s *Shelf) { b.Shelf = s },
		func(b *Book) any {
			if b.ShelfID == nil {
				return nil
			}
			return *b.ShelfID
		},
	)
)

func int64Ptr(v int64) *int64 { return &v }

func setupTestDB(t testing.TB, opts ...store.SessionOption) *store.Session {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	createTables(t, db)
	return store.NewSession(db, store.SQLite, opts...)
}

// setupFileDB opens a WAL database file so a reader on one connection sees
// the committed state while another connection holds an open transaction.
func setupFileDB(t testing.TB, opts ...store.SessionOption) *store.Session {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "store.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	createTables(t, db)
	return store.NewSession(db, store.SQLite, opts...)
}

func createTables(t testing.TB, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(`CREATE TABLE shelf (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL
	)`)
	if err == nil {
		_, err = db.Exec(`CREATE TABLE book (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			shelf_id INTEGER REFERENCES shelf(id)
		)`)
	}
	if err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}
}
