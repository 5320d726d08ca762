package expression

import (
	"fmt"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// Subquery wraps an analyzed sub-query used as an expression. Its type
// is the type of the sub-query's sole target entry, not of the row
// set. Subqueries must be resolved or flattened before the predicate
// classification and rewriting passes run; those passes report an
// unsupported-operation error if they reach one.
type Subquery struct {
	typ   sql.Type
	query *sql.Query
}

var _ sql.Expression = (*Subquery)(nil)

// NewSubquery creates a subquery expression from an analyzed query
// with exactly one target entry.
func NewSubquery(query *sql.Query) (*Subquery, error) {
	tlist := query.TargetList()
	if len(tlist) != 1 {
		return nil, sql.ErrUnsupportedExpr.New(query)
	}
	// A subquery may produce no rows, so the result admits NULL
	// regardless of the target column's nullability.
	return &Subquery{typ: tlist[0].Expr().Type().AsNullable(), query: query}, nil
}

// NewExistsSubquery wraps a sub-query used only for a row-existence
// test, where the target list shape does not matter.
func NewExistsSubquery(query *sql.Query) *Subquery {
	typ := sql.Boolean.NotNull()
	if tlist := query.TargetList(); len(tlist) == 1 {
		typ = tlist[0].Expr().Type().AsNullable()
	}
	return &Subquery{typ: typ, query: query}
}

// Query returns the analyzed sub-query.
func (s *Subquery) Query() *sql.Query { return s.query }

// Type implements the sql.Expression interface.
func (s *Subquery) Type() sql.Type { return s.typ }

// ContainsAgg implements the sql.Expression interface. Aggregates
// inside the sub-query belong to the sub-query, not to the enclosing
// expression.
func (s *Subquery) ContainsAgg() bool { return false }

// Children implements the sql.Expression interface.
func (s *Subquery) Children() []sql.Expression { return nil }

func (s *Subquery) String() string {
	return fmt.Sprintf("subquery<%s>", s.typ)
}
