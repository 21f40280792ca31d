// Package store is the persistence kernel of the recipes service: a session
// over database/sql and sqlx, SQL dialects, a schema registry, and a generic
// Repository[T] providing identity-based CRUD with paging.
//
// Every entity type registers a Schema[T] once; after that
//
//	repo := store.NewRepository[domain.Recipe](session)
//	saved, err := repo.Save(ctx, recipe) // insert or update by identity
//	found, err := repo.FindOne(ctx, saved.ID)
//	page, err := repo.FindPage(ctx, store.Pageable{Page: 0, Size: 20})
//	err = repo.Delete(ctx, saved.ID)
package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/recipes/clause"
)

// Repository manages all CRUD operations for model T.
//
// A Repository is immutable after construction; WithSession returns a copy
// bound to another session (typically a transaction) sharing the same cache.
type Repository[T any] struct {
	session *Session
	schema  Schema[T]
	cache   Cache[T]
}

// RepositoryOption configures a Repository.
type RepositoryOption[T any] func(*Repository[T])

// WithCache enables a read-through identity cache for FindOne.
func WithCache[T any](cache Cache[T]) RepositoryOption[T] {
	return func(r *Repository[T]) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// NewRepository creates a new Repository instance.
// Model T must be registered via RegisterSchema[T](), otherwise this panics.
func NewRepository[T any](session *Session, opts ...RepositoryOption[T]) *Repository[T] {
	r := &Repository[T]{
		session: session,
		schema:  LoadSchema[T](),
		cache:   noCache[T]{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithSession returns a copy of the repository bound to session.
func (r *Repository[T]) WithSession(session *Session) *Repository[T] {
	newRepo := *r
	newRepo.session = session
	return &newRepo
}

// Session returns the session the repository executes on.
func (r *Repository[T]) Session() *Session { return r.session }

// Create inserts a new record and backfills the generated primary key.
//
// Operation flow:
//  1. Trigger BeforeCreate hook (if model implements BeforeCreator)
//  2. Extract insert data from model (via schema.InsertRow)
//  3. Execute INSERT (with RETURNING on dialects that need it)
//  4. Backfill the generated ID
//  5. Trigger AfterCreate hook (if model implements AfterCreator)
func (r *Repository[T]) Create(ctx context.Context, model *T) error {
	if err := runHook(ctx, stageBeforeCreate, model); err != nil {
		return err
	}

	cols, vals := r.schema.InsertRow(model)
	builder := sq.Insert(r.schema.TableName()).
		Columns(cols...).
		Values(vals...).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat())

	if r.schema.AutoIncrement() && r.session.dialect.Returning() {
		if r.session.readOnly {
			return ErrReadOnly
		}
		builder = builder.Suffix("RETURNING " + r.schema.PK(nil).Column.Name)
		query, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		var id int64
		if err := r.session.Get(ctx, &id, query, args...); err != nil {
			return fmt.Errorf("store: insert into %s failed: %w", r.schema.TableName(), err)
		}
		r.schema.SetPK(model, id)
		return runHook(ctx, stageAfterCreate, model)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	result, err := r.session.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store: insert into %s failed: %w", r.schema.TableName(), err)
	}

	if r.schema.AutoIncrement() {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("store: reading generated id of %s: %w", r.schema.TableName(), err)
		}
		r.schema.SetPK(model, id)
	}

	return runHook(ctx, stageAfterCreate, model)
}

// Update updates a record in the database, located by the model's primary key.
// All updatable columns are written; there is no partial update.
func (r *Repository[T]) Update(ctx context.Context, model *T) error {
	if err := runHook(ctx, stageBeforeUpdate, model); err != nil {
		return err
	}

	setMap := r.schema.UpdateMap(model)
	pk := r.schema.PK(model)

	query, args, err := sq.Update(r.schema.TableName()).
		SetMap(setMap).
		Where(sq.Eq{pk.Column.Name: pk.Value}).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.session.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("store: update of %s failed: %w", r.schema.TableName(), err)
	}
	r.evict(toInt64(pk.Value))

	return runHook(ctx, stageAfterUpdate, model)
}

// Save inserts model when it has no identity, otherwise updates the row with
// the same identity. It returns the persisted model, with the generated ID
// backfilled on insert. Updating an identity that does not exist returns
// ErrNotFound.
func (r *Repository[T]) Save(ctx context.Context, model *T) (*T, error) {
	id := toInt64(r.schema.PK(model).Value)
	if id == 0 {
		if err := r.Create(ctx, model); err != nil {
			return nil, err
		}
		return model, nil
	}

	exists, err := r.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s with id %d", ErrNotFound, r.schema.TableName(), id)
	}

	if err := r.Update(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

// Delete deletes a record by primary key. Deleting an id that does not
// exist is a no-op.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	pkMeta := r.schema.PK(nil)

	query, args, err := sq.Delete(r.schema.TableName()).
		Where(sq.Eq{pkMeta.Column.Name: id}).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.session.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("store: delete from %s failed: %w", r.schema.TableName(), err)
	}
	r.evict(id)
	return nil
}

// evict drops id from the cache now and again once the transaction commits.
func (r *Repository[T]) evict(id int64) {
	r.cache.Invalidate(id)
	r.session.AfterCommit(func() { r.cache.Invalidate(id) })
}

// Query returns a QueryBuilder for building complex queries.
func (r *Repository[T]) Query() *QueryBuilder[T] {
	return Query[T](r.session)
}

// FindOne queries a single record by primary key.
// Returns ErrNotFound when the record does not exist.
func (r *Repository[T]) FindOne(ctx context.Context, id int64) (*T, error) {
	cached, token, ok := r.cache.Get(id)
	if ok {
		return cached, nil
	}

	pkMeta := r.schema.PK(nil)
	model, err := r.Query().Where(clause.Eq{Column: pkMeta.Column, Value: id}).Take(ctx)
	if err != nil {
		return nil, err
	}

	// rows read inside a writable transaction may still roll back
	if !r.session.InTransaction() || r.session.readOnly {
		r.cache.Put(id, model, token)
	}
	return model, nil
}

// Exists reports whether a record with the given primary key exists.
func (r *Repository[T]) Exists(ctx context.Context, id int64) (bool, error) {
	pkMeta := r.schema.PK(nil)
	count, err := r.Query().Where(clause.Eq{Column: pkMeta.Column, Value: id}).Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of rows in the table.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	return r.Query().Count(ctx)
}

// FindAll returns every record ordered by primary key.
func (r *Repository[T]) FindAll(ctx context.Context, preloads ...Preloader[T]) ([]*T, error) {
	return r.Query().
		OrderBy(clause.OrderByColumn{Column: r.schema.PK(nil).Column}).
		WithPreload(preloads...).
		Find(ctx)
}

// FindPage returns one page of records together with the total row count.
// Without an explicit sort the page is ordered by primary key.
func (r *Repository[T]) FindPage(ctx context.Context, pageable Pageable, preloads ...Preloader[T]) (*Page[T], error) {
	pageable = pageable.Normalized()

	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	sort := pageable.Sort
	if len(sort) == 0 {
		sort = []clause.OrderByColumn{{Column: r.schema.PK(nil).Column}}
	}

	content, err := r.Query().
		OrderBy(sort...).
		Limit(uint64(pageable.Size)).
		Offset(pageable.Offset()).
		WithPreload(preloads...).
		Find(ctx)
	if err != nil {
		return nil, err
	}
	return &Page[T]{
		Content: content,
		Total:   total,
		Number:  pageable.Page,
		Size:    pageable.Size,
	}, nil
}
