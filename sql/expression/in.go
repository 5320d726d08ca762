package expression

import (
	"fmt"
	"strings"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// InValues is the predicate `arg IN (v1, v2, ...)`. The result type is
// a non-nullable boolean; whether a NULL in the value list should make
// the predicate NULL under three-valued logic is an engine policy and
// is not reflected in the type flag.
type InValues struct {
	arg         sql.Expression
	values      []sql.Expression
	containsAgg bool
}

var _ sql.Expression = (*InValues)(nil)

// NewInValues creates an IN-list predicate. The caller is expected to
// have promoted the probe and value expressions to a common type.
func NewInValues(arg sql.Expression, values []sql.Expression) *InValues {
	return &InValues{
		arg:         arg,
		values:      values,
		containsAgg: sql.ExpressionsContainAgg(append([]sql.Expression{arg}, values...)...),
	}
}

// Arg returns the probe expression left of IN.
func (in *InValues) Arg() sql.Expression { return in.arg }

// Values returns the ordered list of value expressions.
func (in *InValues) Values() []sql.Expression { return in.values }

// Type implements the sql.Expression interface.
func (in *InValues) Type() sql.Type { return sql.Boolean.NotNull() }

// ContainsAgg implements the sql.Expression interface.
func (in *InValues) ContainsAgg() bool { return in.containsAgg }

// Children implements the sql.Expression interface.
func (in *InValues) Children() []sql.Expression {
	return append([]sql.Expression{in.arg}, in.values...)
}

func (in *InValues) String() string {
	vals := make([]string, len(in.values))
	for i, v := range in.values {
		vals[i] = v.String()
	}
	return fmt.Sprintf("(%s IN (%s))", in.arg, strings.Join(vals, ", "))
}
