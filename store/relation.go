package store

import (
	"context"
	"fmt"

	"github.com/arllen133/recipes/clause"
)

// RelationType defines the type of relationship
type RelationType int

const (
	// RelationHasMany indicates a 1:N relationship (parent has many children)
	RelationHasMany RelationType = iota
	// RelationBelongsTo indicates an N:1 relationship (parent holds the foreign key)
	RelationBelongsTo
)

// Relation defines a relationship between parent model P and related model C.
//
// The persisted link always lives in a single foreign key column. For
// HasMany it sits on C; for BelongsTo it sits on P. Either way the loader
// queries C where MatchKey IN (local key values of the parents).
type Relation[P, C any] struct {
	// Type is the relationship type (HasMany or BelongsTo)
	Type RelationType

	// MatchKey is the column on C matched against the parents' local key values.
	// HasMany: the child's foreign key. BelongsTo: the related model's primary key.
	MatchKey clause.Column

	// Setter sets the loaded models on the parent.
	// For BelongsTo the slice has 0 or 1 element.
	Setter func(parent *P, related []*C)

	// GetLocalKeyValue extracts the key value of a parent.
	// HasMany: the parent's primary key. BelongsTo: the parent's foreign key,
	// or nil when the reference is empty.
	GetLocalKeyValue func(parent *P) any
}

// Preloader loads associated data for a batch of already fetched models.
type Preloader[T any] func(ctx context.Context, session *Session, results []*T) error

// HasMany creates a HasMany relation definition
func HasMany[P, C any](
	foreignKey clause.Column,
	setter func(*P, []*C),
	getLocalKey func(*P) any,
) Relation[P, C] {
	return Relation[P, C]{
		Type:             RelationHasMany,
		MatchKey:         foreignKey,
		Setter:           setter,
		GetLocalKeyValue: getLocalKey,
	}
}

// BelongsTo creates a BelongsTo relation definition. primaryKey is the
// related model's primary key column.
func BelongsTo[P, C any](
	primaryKey clause.Column,
	setter func(*P, *C),
	getForeignKey func(*P) any,
) Relation[P, C] {
	return Relation[P, C]{
		Type:     RelationBelongsTo,
		MatchKey: primaryKey,
		Setter: func(p *P, related []*C) {
			if len(related) > 0 {
				setter(p, related[0])
				return
			}
			setter(p, nil)
		},
		GetLocalKeyValue: getForeignKey,
	}
}

// Preload creates a preload executor for the given relation.
func Preload[P, C any](rel Relation[P, C]) Preloader[P] {
	return func(ctx context.Context, session *Session, parents []*P) error {
		if len(parents) == 0 {
			return nil
		}

		keys := make([]any, 0, len(parents))
		seen := make(map[int64]struct{}, len(parents))
		for _, p := range parents {
			key := rel.GetLocalKeyValue(p)
			if key == nil {
				continue
			}
			normalized := toInt64(key)
			if _, ok := seen[normalized]; ok {
				continue
			}
			seen[normalized] = struct{}{}
			keys = append(keys, normalized)
		}

		related := map[int64][]*C{}
		if len(keys) > 0 {
			children, err := Query[C](session).
				Where(clause.IN{Column: rel.MatchKey, Values: keys}).
				OrderBy(clause.OrderByColumn{Column: LoadSchema[C]().PK(nil).Column}).
				Find(ctx)
			if err != nil {
				return err
			}
			for _, child := range children {
				k := toInt64(columnValue(child, rel.MatchKey.Name))
				related[k] = append(related[k], child)
			}
		}

		for _, p := range parents {
			key := rel.GetLocalKeyValue(p)
			if key == nil {
				if rel.Type == RelationHasMany {
					rel.Setter(p, []*C{})
				} else {
					rel.Setter(p, nil)
				}
				continue
			}
			children, ok := related[toInt64(key)]
			if !ok && rel.Type == RelationHasMany {
				// Empty slice rather than nil for HasMany
				children = []*C{}
			}
			rel.Setter(p, children)
		}
		return nil
	}
}

// Load runs preloads against results fetched elsewhere, e.g. from a cache.
func Load[T any](ctx context.Context, session *Session, results []*T, preloads ...Preloader[T]) error {
	for _, preload := range preloads {
		if err := preload(ctx, session, results); err != nil {
			return fmt.Errorf("store: preload failed: %w", err)
		}
	}
	return nil
}
