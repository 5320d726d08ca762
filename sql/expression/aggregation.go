package expression

import (
	"fmt"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// AggExpr is a builtin aggregate call. The argument is nil for
// COUNT(*).
type AggExpr struct {
	typ        sql.Type
	kind       sql.AggKind
	arg        sql.Expression
	isDistinct bool
}

var _ sql.Expression = (*AggExpr)(nil)

// NewAggExpr creates an aggregate call, computing its result type from
// the kind and the argument. arg is nil only for COUNT(*).
func NewAggExpr(kind sql.AggKind, arg sql.Expression, isDistinct bool) (*AggExpr, error) {
	typ, err := aggResultType(kind, arg)
	if err != nil {
		return nil, err
	}
	return &AggExpr{typ: typ, kind: kind, arg: arg, isDistinct: isDistinct}, nil
}

func newAggWithType(typ sql.Type, kind sql.AggKind, arg sql.Expression, isDistinct bool) *AggExpr {
	return &AggExpr{typ: typ, kind: kind, arg: arg, isDistinct: isDistinct}
}

func aggResultType(kind sql.AggKind, arg sql.Expression) (sql.Type, error) {
	switch kind {
	case sql.AggCount:
		if arg == nil {
			return sql.BigInt.NotNull(), nil
		}
		return sql.BigInt.WithNullable(arg.Type().Nullable), nil

	case sql.AggAvg:
		if arg == nil || !arg.Type().IsNumeric() {
			return sql.Type{}, sql.ErrUnsupportedExpr.New(kind)
		}
		return sql.Double.WithNullable(arg.Type().Nullable), nil

	case sql.AggMin, sql.AggMax:
		if arg == nil {
			return sql.Type{}, sql.ErrUnsupportedExpr.New(kind)
		}
		return arg.Type(), nil

	case sql.AggSum:
		if arg == nil || !arg.Type().IsNumeric() {
			return sql.Type{}, sql.ErrUnsupportedExpr.New(kind)
		}
		// Integer sums widen to avoid overflow on wide scans.
		t := arg.Type()
		if t.IsInteger() {
			return sql.BigInt.WithNullable(t.Nullable), nil
		}
		return t, nil
	}
	return sql.Type{}, sql.ErrUnsupportedExpr.New(kind)
}

// Kind returns the aggregate kind.
func (a *AggExpr) Kind() sql.AggKind { return a.kind }

// Arg returns the owned argument, nil for COUNT(*).
func (a *AggExpr) Arg() sql.Expression { return a.arg }

// IsDistinct reports whether the call aggregates distinct values only.
func (a *AggExpr) IsDistinct() bool { return a.isDistinct }

// Type implements the sql.Expression interface.
func (a *AggExpr) Type() sql.Type { return a.typ }

// ContainsAgg implements the sql.Expression interface. An aggregate
// node always reports itself.
func (a *AggExpr) ContainsAgg() bool { return true }

// Children implements the sql.Expression interface.
func (a *AggExpr) Children() []sql.Expression {
	if a.arg == nil {
		return nil
	}
	return []sql.Expression{a.arg}
}

func (a *AggExpr) String() string {
	arg := "*"
	if a.arg != nil {
		arg = a.arg.String()
	}
	if a.isDistinct {
		return fmt.Sprintf("%s(DISTINCT %s)", a.kind, arg)
	}
	return fmt.Sprintf("%s(%s)", a.kind, arg)
}
