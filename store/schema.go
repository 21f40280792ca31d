package store

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/arllen133/recipes/clause"
)

type PK = clause.Eq

// Schema defines how to map a model to a table and back
type Schema[T any] interface {
	// Table Metadata
	TableName() string

	// Read Operations
	SelectColumns() []string

	// Write Operations
	InsertRow(*T) ([]string, []any)

	// Update Operations
	UpdateMap(*T) map[string]any

	// Primary Key
	PK(*T) PK
	SetPK(m *T, val int64)
	AutoIncrement() bool
}

var (
	schemasMu sync.RWMutex
	schemas   = make(map[reflect.Type]any)
)

func RegisterSchema[T any](schema Schema[T]) {
	typ := reflect.TypeFor[T]()
	schemasMu.Lock()
	defer schemasMu.Unlock()
	schemas[typ] = schema
}

func LoadSchema[T any]() Schema[T] {
	typ := reflect.TypeFor[T]()
	schemasMu.RLock()
	s, ok := schemas[typ]
	schemasMu.RUnlock()
	if ok {
		return s.(Schema[T])
	}
	panic(fmt.Sprintf("store: schema not registered for type %v", typ))
}

// Identity returns the primary key of m as int64, zero when m is transient.
func Identity[T any](m *T) int64 {
	if m == nil {
		return 0
	}
	return toInt64(LoadSchema[T]().PK(m).Value)
}
