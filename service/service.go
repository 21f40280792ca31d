// Package service holds the transactional seam between the REST resources and
// the repositories.
package service

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/arllen133/recipes/errors"
	"github.com/arllen133/recipes/store"
)

// CRUD is the operation set every entity service offers.
type CRUD[T any] interface {
	// Save inserts or updates entity and returns the persisted representation.
	Save(ctx context.Context, entity *T) (*T, error)
	FindAll(ctx context.Context) ([]*T, error)
	FindPage(ctx context.Context, pageable store.Pageable) (*store.Page[T], error)
	// FindOne returns a NOT_FOUND StructuredError when id is unknown.
	FindOne(ctx context.Context, id int64) (*T, error)
	// Delete removes the entity; unknown ids are ignored.
	Delete(ctx context.Context, id int64) error
}

// Service implements CRUD on top of a Repository. Writes run in a
// transaction, reads in a read-only transaction.
type Service[T any] struct {
	name     string
	session  *store.Session
	repo     *store.Repository[T]
	preloads []store.Preloader[T]
	logger   *slog.Logger
}

// Option configures a Service.
type Option[T any] func(*Service[T])

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(s *Service[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPreload adds relations loaded on every read.
func WithPreload[T any](preloads ...store.Preloader[T]) Option[T] {
	return func(s *Service[T]) {
		s.preloads = append(s.preloads, preloads...)
	}
}

// WithRepositoryOptions passes options, such as a cache, to the repository.
func WithRepositoryOptions[T any](opts ...store.RepositoryOption[T]) Option[T] {
	return func(s *Service[T]) {
		s.repo = store.NewRepository[T](s.session, opts...)
	}
}

// New creates a Service named after its entity, e.g. "recipe".
func New[T any](name string, session *store.Session, opts ...Option[T]) *Service[T] {
	s := &Service[T]{
		name:    name,
		session: session,
		repo:    store.NewRepository[T](session),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ CRUD[struct{}] = (*Service[struct{}])(nil)

func (s *Service[T]) Save(ctx context.Context, entity *T) (*T, error) {
	s.logger.DebugContext(ctx, "request to save "+s.name, "entity", entity)

	var saved *T
	err := s.session.Transaction(ctx, func(tx *store.Session) error {
		var err error
		saved, err = s.repo.WithSession(tx).Save(ctx, entity)
		return err
	})
	if err != nil {
		return nil, s.translate(err, "failed to save "+s.name, store.Identity(entity))
	}
	return saved, nil
}

func (s *Service[T]) FindAll(ctx context.Context) ([]*T, error) {
	s.logger.DebugContext(ctx, "request to get all "+s.name+"s")

	var all []*T
	err := s.session.ReadOnly(ctx, func(tx *store.Session) error {
		var err error
		all, err = s.repo.WithSession(tx).FindAll(ctx, s.preloads...)
		return err
	})
	if err != nil {
		return nil, s.translate(err, "failed to list "+s.name+"s", 0)
	}
	return all, nil
}

func (s *Service[T]) FindPage(ctx context.Context, pageable store.Pageable) (*store.Page[T], error) {
	s.logger.DebugContext(ctx, "request to get a page of "+s.name+"s",
		"page", pageable.Page, "size", pageable.Size)

	var page *store.Page[T]
	err := s.session.ReadOnly(ctx, func(tx *store.Session) error {
		var err error
		page, err = s.repo.WithSession(tx).FindPage(ctx, pageable, s.preloads...)
		return err
	})
	if err != nil {
		return nil, s.translate(err, "failed to list "+s.name+"s", 0)
	}
	return page, nil
}

func (s *Service[T]) FindOne(ctx context.Context, id int64) (*T, error) {
	s.logger.DebugContext(ctx, "request to get "+s.name, "id", id)

	var found *T
	err := s.session.ReadOnly(ctx, func(tx *store.Session) error {
		repo := s.repo.WithSession(tx)
		entity, err := repo.FindOne(ctx, id)
		if err != nil {
			return err
		}
		if err := store.Load(ctx, tx, []*T{entity}, s.preloads...); err != nil {
			return err
		}
		found = entity
		return nil
	})
	if err != nil {
		return nil, s.translate(err, "failed to get "+s.name, id)
	}
	return found, nil
}

func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	s.logger.DebugContext(ctx, "request to delete "+s.name, "id", id)

	err := s.session.Transaction(ctx, func(tx *store.Session) error {
		return s.repo.WithSession(tx).Delete(ctx, id)
	})
	if err != nil {
		return s.translate(err, "failed to delete "+s.name, id)
	}
	return nil
}

func (s *Service[T]) translate(err error, message string, id int64) error {
	ctx := map[string]any{"entityName": s.name}
	if id != 0 {
		ctx["id"] = id
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.WrapWithContext(apperrors.ErrCodeNotFound, s.name+" not found", err, ctx)
	}
	return apperrors.WrapWithContext(apperrors.ErrCodeInternal, message, err, ctx)
}
