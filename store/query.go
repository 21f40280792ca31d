package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/recipes/clause"
)

// ErrNotFound indicates that no record was found.
// Returned when Take(), First(), FindOne() and Save() find no matching record.
var ErrNotFound = errors.New("store: record not found")

// QueryBuilder is a generic SQL query builder for model T.
//
// Ordering, limit and offset are kept apart from the underlying select
// builder so that Count always runs against the bare filtered set.
//
// Usage example:
//
//	recipes, err := recipeRepo.Query().
//	    Where(domain.RecipeFields.Title.Like("%soup%")).
//	    OrderBy(domain.RecipeFields.ID.Desc()).
//	    Limit(10).
//	    Find(ctx)
type QueryBuilder[T any] struct {
	session  *Session
	schema   Schema[T]
	builder  sq.SelectBuilder
	table    string
	columns  []string
	orders   []string
	limit    *uint64
	offset   *uint64
	preloads []Preloader[T]
	err      error
}

// Query creates a new QueryBuilder instance, usually called via Repository.Query().
func Query[T any](session *Session) *QueryBuilder[T] {
	schema := LoadSchema[T]()
	table := schema.TableName()

	sb := sq.Select().
		From(table).
		PlaceholderFormat(session.dialect.PlaceholderFormat())

	return &QueryBuilder[T]{
		session: session,
		schema:  schema,
		builder: sb,
		table:   table,
	}
}

// Where adds WHERE condition to the query.
// Multiple calls to Where() will connect all conditions with AND.
func (q *QueryBuilder[T]) Where(expr clause.Expression) *QueryBuilder[T] {
	q.builder = q.builder.Where(expr)
	return q
}

// OrderBy adds ORDER BY clause to the query.
// Multiple calls will append sort columns.
func (q *QueryBuilder[T]) OrderBy(orders ...clause.OrderByColumn) *QueryBuilder[T] {
	if q.err != nil {
		return q
	}
	for _, order := range orders {
		sql, _, err := order.ToSql()
		if err != nil {
			q.err = err
			return q
		}
		q.orders = append(q.orders, sql)
	}
	return q
}

// Limit limits the number of records returned by the query.
func (q *QueryBuilder[T]) Limit(n uint64) *QueryBuilder[T] {
	q.limit = &n
	return q
}

// Offset sets the offset for query results.
func (q *QueryBuilder[T]) Offset(n uint64) *QueryBuilder[T] {
	q.offset = &n
	return q
}

// Select restricts the selected columns. Without it the schema's
// SelectColumns are used.
func (q *QueryBuilder[T]) Select(columns ...clause.Columnar) *QueryBuilder[T] {
	q.columns = ResolveColumnNames(columns)
	return q
}

// WithPreload registers a relation loader executed after the main query.
func (q *QueryBuilder[T]) WithPreload(preloads ...Preloader[T]) *QueryBuilder[T] {
	q.preloads = append(q.preloads, preloads...)
	return q
}

// Find executes the query and returns all matching records, then runs the
// registered preloads in the order they were added.
func (q *QueryBuilder[T]) Find(ctx context.Context) ([]*T, error) {
	query, args, err := q.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("store: failed to build sql: %w", err)
	}

	results := []*T{}
	if err := q.session.Select(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("store: query %s failed: %w", q.table, err)
	}

	if err := Load(ctx, q.session, results, q.preloads...); err != nil {
		return nil, err
	}
	return results, nil
}

// Take executes the query and returns a single record without any ordering.
// Returns ErrNotFound if no record matches the query conditions.
func (q *QueryBuilder[T]) Take(ctx context.Context) (*T, error) {
	results, err := q.Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0], nil
}

// First executes the query and returns the first record ordered by primary key ascending.
// Returns ErrNotFound if no record matches the query conditions.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	pk := q.schema.PK(nil).Column
	return q.OrderBy(clause.OrderByColumn{Column: pk}).Take(ctx)
}

// Count returns the number of records matching the query conditions.
// Ordering, limit and offset are ignored and preloads are not executed.
func (q *QueryBuilder[T]) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	query, args, err := q.builder.Columns("COUNT(*)").ToSql()
	if err != nil {
		return 0, fmt.Errorf("store: failed to build count sql: %w", err)
	}

	var count int64
	if err := q.session.Get(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("store: count %s failed: %w", q.table, err)
	}
	return count, nil
}

// ToSQL returns the SQL string and arguments without executing the query.
func (q *QueryBuilder[T]) ToSQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	b := q.builder.Columns(q.resolveColumns()...)
	if len(q.orders) > 0 {
		b = b.OrderBy(q.orders...)
	}
	if q.limit != nil {
		b = b.Limit(*q.limit)
	}
	if q.offset != nil {
		b = b.Offset(*q.offset)
	}
	return b.ToSql()
}

func (q *QueryBuilder[T]) resolveColumns() []string {
	if len(q.columns) > 0 {
		return q.columns
	}
	return q.schema.SelectColumns()
}
