// Package query builds the filtered, paginated workout history queries.
//
// Filters are collected as tagged clauses over a closed set of predicate
// kinds, then rendered to SQL as a final step. This keeps composition
// logic independent of the store: the builder can be unit-tested by
// inspecting the rendered text and bound arguments, without a database.
package query

import (
	"strings"
	"time"
)

// Kind tags a predicate clause. Clauses are always rendered in Kind
// order (runner, created-from, created-to, status) no matter the order
// they were added in.
type Kind int

const (
	KindRunner Kind = iota
	KindCreatedFrom
	KindCreatedTo
	KindStatus
)

// clause is one predicate: a SQL fragment with exactly one bound argument.
type clause struct {
	kind Kind
	expr string
	arg  any
}

// Query is a rendered statement plus its bound arguments.
type Query struct {
	SQL  string
	Args []any
}

// HistoryBuilder accumulates workout history filters. The zero value has
// no filters and no pagination; use NewHistory.
type HistoryBuilder struct {
	clauses []clause
	page    int
	limit   int
}

// NewHistory returns an empty builder.
func NewHistory() *HistoryBuilder {
	return &HistoryBuilder{}
}

// Runner restricts results to one runner by exact ID match.
func (b *HistoryBuilder) Runner(id string) *HistoryBuilder {
	b.clauses = append(b.clauses, clause{KindRunner, "wl.runner_id = ?", id})
	return b
}

// CreatedFrom keeps logs created at or after t.
func (b *HistoryBuilder) CreatedFrom(t time.Time) *HistoryBuilder {
	b.clauses = append(b.clauses, clause{KindCreatedFrom, "wl.created_at >= ?", t})
	return b
}

// CreatedTo keeps logs created at or before t.
func (b *HistoryBuilder) CreatedTo(t time.Time) *HistoryBuilder {
	b.clauses = append(b.clauses, clause{KindCreatedTo, "wl.created_at <= ?", t})
	return b
}

// Status restricts results to one workout status.
func (b *HistoryBuilder) Status(status string) *HistoryBuilder {
	b.clauses = append(b.clauses, clause{KindStatus, "wl.status = ?", status})
	return b
}

// Paginate sets the page window. The caller validates page and limit
// before the builder is involved.
func (b *HistoryBuilder) Paginate(page, limit int) *HistoryBuilder {
	b.page = page
	b.limit = limit
	return b
}

// where renders the conjunction of all clauses in Kind order. Returns an
// empty string when no filter was added.
func (b *HistoryBuilder) where() (string, []any) {
	if len(b.clauses) == 0 {
		return "", nil
	}

	ordered := make([]clause, 0, len(b.clauses))
	for _, k := range []Kind{KindRunner, KindCreatedFrom, KindCreatedTo, KindStatus} {
		for _, c := range b.clauses {
			if c.kind == k {
				ordered = append(ordered, c)
			}
		}
	}

	exprs := make([]string, len(ordered))
	args := make([]any, len(ordered))
	for i, c := range ordered {
		exprs[i] = c.expr
		args[i] = c.arg
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

// Build renders the data query: the given SELECT, the filter conjunction,
// newest-first ordering, and the page window (offset = (page-1)*limit).
func (b *HistoryBuilder) Build(selectFrom string) Query {
	where, args := b.where()
	sql := selectFrom + where + " ORDER BY wl.created_at DESC"
	if b.limit > 0 {
		sql += " LIMIT ? OFFSET ?"
		args = append(args, b.limit, (b.page-1)*b.limit)
	}
	return Query{SQL: sql, Args: args}
}

// BuildCount renders the matching count query: structurally identical
// WHERE clause, no ordering and no page window.
func (b *HistoryBuilder) BuildCount(countFrom string) Query {
	where, args := b.where()
	return Query{SQL: countFrom + where, Args: args}
}
