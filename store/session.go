package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/jmoiron/sqlx"
)

// ErrReadOnly is returned by Exec when the session belongs to a read-only transaction.
var ErrReadOnly = errors.New("store: write attempted in read-only transaction")

// Executor defines the common database operations for both DB and Tx
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// Session manages the database connection and current transaction
type Session struct {
	db       *sqlx.DB // Underlying DB for starting transactions
	executor Executor // Current executor (DB or Tx)
	dialect  Dialect
	obs      *observability
	readOnly bool
	commit   *commitHooks // nil outside a transaction
}

// commitHooks collects work deferred until a transaction commits. Sessions
// joining the same transaction share one instance.
type commitHooks struct {
	mu    sync.Mutex
	funcs []func()
}

func NewSession(db *sql.DB, dialect Dialect, opts ...SessionOption) *Session {
	xdb := sqlx.NewDb(db, dialect.Name())
	s := &Session{
		db:       xdb,
		executor: xdb,
		dialect:  dialect,
		obs:      &observability{slowThreshold: defaultSlowQueryThreshold},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the SQL dialect of the session.
func (s *Session) Dialect() Dialect { return s.dialect }

// InTransaction reports whether the session is bound to a transaction.
func (s *Session) InTransaction() bool {
	_, ok := s.executor.(*sqlx.Tx)
	return ok
}

// IsReadOnly reports whether writes are rejected on this session.
func (s *Session) IsReadOnly() bool { return s.readOnly }

// Ping verifies the underlying database is reachable.
func (s *Session) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Session) Close() error {
	return s.db.Close()
}

func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx, st := s.instrument(ctx, "query", query)
	rows, err := s.executor.QueryContext(ctx, query, args...)
	st.done(ctx, err)
	return rows, err
}

func (s *Session) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	ctx, st := s.instrument(ctx, "query_row", query)
	row := s.executor.QueryRowContext(ctx, query, args...)
	st.done(ctx, row.Err())
	return row
}

func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.readOnly {
		return nil, ErrReadOnly
	}
	ctx, st := s.instrument(ctx, "exec", query)
	result, err := s.executor.ExecContext(ctx, query, args...)
	st.done(ctx, err)
	return result, err
}

func (s *Session) Select(ctx context.Context, dest any, query string, args ...any) error {
	ctx, st := s.instrument(ctx, "select", query)
	err := s.executor.SelectContext(ctx, dest, query, args...)
	st.done(ctx, err)
	return err
}

func (s *Session) Get(ctx context.Context, dest any, query string, args ...any) error {
	ctx, st := s.instrument(ctx, "get", query)
	err := s.executor.GetContext(ctx, dest, query, args...)
	st.done(ctx, err)
	return err
}

// Begin starts a transaction and returns a session bound to it.
// opts may be nil.
func (s *Session) Begin(ctx context.Context, opts *sql.TxOptions) (*Session, error) {
	tx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return nil, err
	}
	// Return new Session where executor is the transaction
	return &Session{
		db:       s.db,
		executor: tx,
		dialect:  s.dialect,
		obs:      s.obs,
		readOnly: opts != nil && opts.ReadOnly,
		commit:   &commitHooks{},
	}, nil
}

// AfterCommit defers fn until the session's transaction commits. Outside a
// transaction fn runs immediately; a rollback discards it.
func (s *Session) AfterCommit(fn func()) {
	if s.commit == nil {
		fn()
		return
	}
	s.commit.mu.Lock()
	defer s.commit.mu.Unlock()
	s.commit.funcs = append(s.commit.funcs, fn)
}

// Commit commits the transaction and then runs the AfterCommit callbacks.
func (s *Session) Commit() error {
	tx, ok := s.executor.(*sqlx.Tx)
	if !ok {
		return sql.ErrTxDone
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if s.commit != nil {
		s.commit.mu.Lock()
		funcs := s.commit.funcs
		s.commit.funcs = nil
		s.commit.mu.Unlock()
		for _, fn := range funcs {
			fn()
		}
	}
	return nil
}

func (s *Session) Rollback() error {
	if tx, ok := s.executor.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return sql.ErrTxDone
}

// Transaction executes a function within a transaction.
// The transaction commits when fn returns nil and rolls back on error or panic.
func (s *Session) Transaction(ctx context.Context, fn func(txSession *Session) error) (err error) {
	// Check if already in transaction
	if s.InTransaction() {
		if s.readOnly {
			return ErrReadOnly
		}
		return fn(s)
	}

	txSession, err := s.Begin(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = txSession.Rollback()
			panic(p)
		} else if err != nil {
			_ = txSession.Rollback()
		}
	}()

	err = fn(txSession)
	if err != nil {
		return err
	}

	return txSession.Commit()
}

// ReadOnly executes fn within a read-only transaction. Exec on the session
// handed to fn fails with ErrReadOnly. The transaction is always rolled back.
func (s *Session) ReadOnly(ctx context.Context, fn func(txSession *Session) error) error {
	if s.InTransaction() {
		ro := *s
		ro.readOnly = true
		return fn(&ro)
	}

	txSession, err := s.Begin(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer func() { _ = txSession.Rollback() }()

	return fn(txSession)
}
