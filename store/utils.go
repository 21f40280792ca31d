package store

import (
	"reflect"
	"strings"

	"github.com/arllen133/recipes/clause"
	"github.com/jmoiron/sqlx/reflectx"
)

// mapper resolves column names the same way sqlx scans rows: the db tag
// name, or the lowercased field name when untagged.
var mapper = reflectx.NewMapperFunc("db", strings.ToLower)

// ResolveColumnNames extracts column names from a slice of types implementing clause.Columnar.
func ResolveColumnNames(args []clause.Columnar) []string {
	if len(args) == 0 {
		return nil
	}

	cols := make([]string, len(args))
	for i, arg := range args {
		cols[i] = arg.ColumnName()
	}
	return cols
}

// columnValue reads the field mapped to column from a struct or a pointer to
// one. It returns nil when v is nil or has no such column.
func columnValue(v any, column string) any {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	fi, ok := mapper.TypeMap(val.Type()).Names[column]
	if !ok {
		return nil
	}
	return reflectx.FieldByIndexesReadOnly(val, fi.Index).Interface()
}

// toInt64 converts integer and float values, and pointers to them, to int64
// so keys of different Go types compare equal. nil and non-numeric values
// yield 0.
func toInt64(v any) int64 {
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return 0
		}
		val = val.Elem()
	}
	switch {
	case val.CanInt():
		return val.Int()
	case val.CanUint():
		return int64(val.Uint())
	case val.CanFloat():
		return int64(val.Float())
	}
	return 0
}
