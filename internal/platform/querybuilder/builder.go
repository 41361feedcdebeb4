// Package querybuilder assembles parameterized Postgres statements. It only
// covers the handful of query shapes the repositories actually build.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// writer accumulates statement text alongside its positional arguments.
type writer struct {
	sql  strings.Builder
	args []any
	next int
}

func newWriter() *writer {
	return &writer{next: 1}
}

func (w *writer) raw(s string) {
	w.sql.WriteString(s)
}

// arg emits the next $n placeholder and records its value.
func (w *writer) arg(v any) {
	w.sql.WriteString("$")
	w.sql.WriteString(strconv.Itoa(w.next))
	w.args = append(w.args, v)
	w.next++
}

// expand copies expr into the statement, replacing each ? with the next
// positional placeholder. Extra ? markers beyond the supplied args are kept
// verbatim.
func (w *writer) expand(expr string, exprArgs []any) {
	if len(exprArgs) == 0 {
		w.raw(expr)
		return
	}

	used := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && used < len(exprArgs) {
			w.arg(exprArgs[used])
			used++
			continue
		}
		w.sql.WriteByte(expr[i])
	}
}

func (w *writer) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.raw(" WHERE ")
	for i, cond := range conditions {
		if i > 0 {
			w.raw(" AND ")
		}
		cond(w)
	}
}

// Condition renders a single WHERE predicate. Conditions combine with AND.
type Condition func(w *writer)

func Eq(column string, value any) Condition {
	return func(w *writer) {
		w.raw(column)
		w.raw(" = ")
		w.arg(value)
	}
}

// In matches the column against the given values. An empty value set renders
// a predicate that matches nothing.
func In(column string, values []any) Condition {
	return func(w *writer) {
		if len(values) == 0 {
			w.raw("1=0")
			return
		}
		w.raw(column)
		w.raw(" IN (")
		for i, v := range values {
			if i > 0 {
				w.raw(", ")
			}
			w.arg(v)
		}
		w.raw(")")
	}
}

func IsNull(column string) Condition {
	return func(w *writer) {
		w.raw(column)
		w.raw(" IS NULL")
	}
}

// Expr embeds a raw SQL fragment, rewriting ? markers to $n placeholders.
func Expr(expr string, args ...any) Condition {
	return func(w *writer) {
		w.expand(expr, args)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	w := newWriter()
	w.raw("SELECT ")
	w.raw(strings.Join(b.columns, ", "))
	w.raw(" FROM ")
	w.raw(b.table)
	w.where(b.where)
	if len(b.groupBy) > 0 {
		w.raw(" GROUP BY ")
		w.raw(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		w.raw(" ORDER BY ")
		w.raw(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.raw(" LIMIT ")
		w.raw(strconv.Itoa(b.limit))
	}

	return w.sql.String(), w.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends a trailing fragment such as an ON CONFLICT clause or
// RETURNING list. ? markers in the fragment are rewritten to placeholders.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	w := newWriter()
	w.raw("INSERT INTO ")
	w.raw(b.table)
	w.raw(" (")
	w.raw(strings.Join(b.columns, ", "))
	w.raw(") VALUES ")

	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.raw(", ")
		}
		w.raw("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				w.raw(", ")
			}
			w.arg(value)
		}
		w.raw(")")
	}

	if b.suffix != "" {
		w.raw(" ")
		w.expand(b.suffix, nil)
	}

	return w.sql.String(), w.args, nil
}

type setClause struct {
	column   string
	value    any
	expr     string
	exprArgs []any
	isExpr   bool
}

type UpdateBuilder struct {
	table string
	sets  []setClause
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

// SetExpr assigns the column from a raw SQL expression, with ? markers
// rewritten to placeholders.
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, expr: expr, exprArgs: args, isExpr: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	w := newWriter()
	w.raw("UPDATE ")
	w.raw(b.table)
	w.raw(" SET ")

	for i, set := range b.sets {
		if i > 0 {
			w.raw(", ")
		}
		w.raw(set.column)
		w.raw(" = ")
		if set.isExpr {
			w.expand(set.expr, set.exprArgs)
			continue
		}
		w.arg(set.value)
	}

	w.where(b.where)

	return w.sql.String(), w.args, nil
}
