package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT for every exported field of model that carries
// a db tag. Tag options after the first comma are ignored.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	b := InsertInto(table).Suffix(suffix)

	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct")
	}

	var cols []string
	var vals []any
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col := columnFromTag(field.Tag.Get("db"))
		if col == "" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model has no db columns")
	}

	return b.Columns(cols...).Values(vals...).ToSQL()
}

// columnFromTag resolves a db struct tag to a column name, or "" when the
// field should be skipped.
func columnFromTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || tag == "-" {
		return ""
	}
	col, _, _ := strings.Cut(tag, ",")
	col = strings.TrimSpace(col)
	if col == "-" {
		return ""
	}
	return col
}
