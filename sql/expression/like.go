package expression

import (
	"fmt"
	"strings"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// Like is the LIKE/ILIKE predicate. A "simple" pattern fits
// `%literal%` with no interior wildcards, which lets the execution
// engine use a substring search instead of general pattern matching.
type Like struct {
	arg         sql.Expression
	pattern     sql.Expression
	escape      sql.Expression // nil when no ESCAPE clause
	ilike       bool
	simple      bool
	containsAgg bool
}

var _ sql.Expression = (*Like)(nil)

// NewLike creates a LIKE predicate. escape may be nil.
func NewLike(arg, pattern, escape sql.Expression, ilike, simple bool) (*Like, error) {
	if !arg.Type().IsString() {
		return nil, sql.ErrInvalidCast.New(arg.Type(), "string")
	}
	if !pattern.Type().IsString() {
		return nil, sql.ErrInvalidCast.New(pattern.Type(), "string")
	}
	return &Like{
		arg:         arg,
		pattern:     pattern,
		escape:      escape,
		ilike:       ilike,
		simple:      simple,
		containsAgg: sql.ExpressionsContainAgg(arg, pattern, escape),
	}, nil
}

// IsSimplePattern reports whether a LIKE pattern fits `%literal%`,
// `%literal`, `literal%` or a bare literal with no interior wildcards.
func IsSimplePattern(pattern string) bool {
	inner := strings.TrimPrefix(pattern, "%")
	inner = strings.TrimSuffix(inner, "%")
	return !strings.ContainsAny(inner, "%_[]")
}

// Arg returns the matched expression.
func (l *Like) Arg() sql.Expression { return l.arg }

// Pattern returns the pattern expression.
func (l *Like) Pattern() sql.Expression { return l.pattern }

// Escape returns the escape expression, or nil.
func (l *Like) Escape() sql.Expression { return l.escape }

// IsILike reports whether matching is case-insensitive.
func (l *Like) IsILike() bool { return l.ilike }

// IsSimple reports whether the fast substring path applies.
func (l *Like) IsSimple() bool { return l.simple }

// Type implements the sql.Expression interface.
func (l *Like) Type() sql.Type {
	return sql.Boolean.WithNullable(l.arg.Type().Nullable)
}

// ContainsAgg implements the sql.Expression interface.
func (l *Like) ContainsAgg() bool { return l.containsAgg }

// Children implements the sql.Expression interface.
func (l *Like) Children() []sql.Expression {
	children := []sql.Expression{l.arg, l.pattern}
	if l.escape != nil {
		children = append(children, l.escape)
	}
	return children
}

func (l *Like) String() string {
	op := "LIKE"
	if l.ilike {
		op = "ILIKE"
	}
	if l.escape != nil {
		return fmt.Sprintf("(%s %s %s ESCAPE %s)", l.arg, op, l.pattern, l.escape)
	}
	return fmt.Sprintf("(%s %s %s)", l.arg, op, l.pattern)
}
