package sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/syssam/aggregen/dialect"
)

// Quote quotes an identifier for the dialect. Qualified identifiers
// (alias.column) are quoted part by part.
func Quote(d, ident string) string {
	q := `"`
	if d == dialect.MySQL {
		q = "`"
	}
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = q + strings.ReplaceAll(p, q, q+q) + q
	}
	return strings.Join(parts, ".")
}

func quoteAll(d string, idents []string) string {
	qs := make([]string, len(idents))
	for i := range idents {
		qs[i] = Quote(d, idents[i])
	}
	return strings.Join(qs, ", ")
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// EQ returns a "column = ?" predicate with the column quoted for the dialect.
func EQ(d, column string) string {
	return Quote(d, column) + " = ?"
}

// Qualify prefixes every column with the table alias.
func Qualify(alias string, columns []string) []string {
	qs := make([]string, len(columns))
	for i, c := range columns {
		qs[i] = alias + "." + c
	}
	return qs
}

// In returns a "column IN (?, ...)" predicate for n values. An empty set
// yields a predicate that matches nothing.
func In(column string, n int) string {
	if n == 0 {
		return "1=0"
	}
	return column + " IN (" + placeholders(n) + ")"
}

// NotIn returns a "column NOT IN (?, ...)" predicate for n values. An empty
// set yields a predicate that matches everything.
func NotIn(column string, n int) string {
	if n == 0 {
		return "1=1"
	}
	return column + " NOT IN (" + placeholders(n) + ")"
}

// And joins non-empty predicates with AND.
func And(preds ...string) string {
	var ps []string
	for _, p := range preds {
		if p = strings.TrimSpace(p); p != "" {
			ps = append(ps, "("+p+")")
		}
	}
	return strings.Join(ps, " AND ")
}

// Args converts a typed slice into statement arguments.
func Args[T any](vs []T) []any {
	args := make([]any, len(vs))
	for i := range vs {
		args[i] = vs[i]
	}
	return args
}

// Insert inserts one row and returns the generated value of the key column
// when key is not empty. PostgreSQL reads it with RETURNING, the other
// dialects use LastInsertId.
func Insert(ctx context.Context, ex Executor, table string, columns []string, values []any, key string) (int64, error) {
	if len(columns) != len(values) {
		return 0, fmt.Errorf("dialect/sql: insert %s: %d columns and %d values", table, len(columns), len(values))
	}
	d := ex.Dialect()
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(Quote(d, table))
	switch {
	case len(columns) > 0:
		fmt.Fprintf(&b, " (%s) VALUES (%s)", quoteAll(d, columns), placeholders(len(values)))
	case d == dialect.MySQL:
		b.WriteString(" () VALUES ()")
	default:
		b.WriteString(" DEFAULT VALUES")
	}
	if key != "" && d == dialect.Postgres {
		b.WriteString(" RETURNING ")
		b.WriteString(Quote(d, key))
		rows, err := ex.QueryContext(ctx, b.String(), values...)
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		var id int64
		if rows.Next() {
			if err := rows.Scan(&id); err != nil {
				return 0, err
			}
		}
		return id, rows.Err()
	}
	res, err := ex.ExecContext(ctx, b.String(), values...)
	if err != nil {
		return 0, err
	}
	if key == "" {
		return 0, nil
	}
	return res.LastInsertId()
}

// Update sets columns on the rows matching where and returns the number
// of affected rows. Updating no columns is a no-op.
func Update(ctx context.Context, ex Executor, table string, columns []string, values []any, where string, args ...any) (int64, error) {
	if len(columns) != len(values) {
		return 0, fmt.Errorf("dialect/sql: update %s: %d columns and %d values", table, len(columns), len(values))
	}
	if len(columns) == 0 {
		return 0, nil
	}
	d := ex.Dialect()
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = Quote(d, c) + " = ?"
	}
	query := "UPDATE " + Quote(d, table) + " SET " + strings.Join(sets, ", ")
	if where != "" {
		query += " WHERE " + where
	}
	return affected(ex.ExecContext(ctx, query, append(append(make([]any, 0, len(values)+len(args)), values...), args...)...))
}

// Delete removes the rows matching where and returns the number of
// affected rows. An empty where clause is rejected.
func Delete(ctx context.Context, ex Executor, table, where string, args ...any) (int64, error) {
	if strings.TrimSpace(where) == "" {
		return 0, fmt.Errorf("dialect/sql: delete %s: missing where clause", table)
	}
	query := "DELETE FROM " + Quote(ex.Dialect(), table) + " WHERE " + where
	return affected(ex.ExecContext(ctx, query, args...))
}

func affected(res Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SelectSpec describes a single-table read with an optional join.
type SelectSpec struct {
	Table   string
	Alias   string
	Columns []string
	// Join is appended verbatim after the FROM clause.
	Join    string
	Where   string
	Args    []any
	OrderBy string
}

// Query renders the SELECT statement for the dialect.
func (s SelectSpec) Query(d string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(s.Columns) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(quoteAll(d, s.Columns))
	}
	b.WriteString(" FROM ")
	b.WriteString(Quote(d, s.Table))
	if s.Alias != "" {
		b.WriteString(" AS ")
		b.WriteString(Quote(d, s.Alias))
	}
	if s.Join != "" {
		b.WriteString(" ")
		b.WriteString(s.Join)
	}
	if s.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(s.Where)
	}
	if s.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(s.OrderBy)
	}
	return b.String()
}

// Select runs the query described by spec and calls scan once per row.
func Select(ctx context.Context, ex Executor, spec SelectSpec, scan func(Scanner) error) error {
	rows, err := ex.QueryContext(ctx, spec.Query(ex.Dialect()), spec.Args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// IsUnset reports whether a key field holds no value: it is nil or points
// to the zero value of its type.
func IsUnset[T comparable](v *T) bool {
	if v == nil {
		return true
	}
	var zero T
	return *v == zero
}

// Number is the set of numeric key types ConvertKey converts between.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ConvertKey converts a numeric key value held by one column type into the
// type of another column. A nil input yields nil.
func ConvertKey[To, From Number](v *From) *To {
	if v == nil {
		return nil
	}
	c := To(*v)
	return &c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
