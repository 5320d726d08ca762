package expression

import (
	"fmt"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// UnaryExpr is a unary operator node: unary minus, IS NULL, EXISTS,
// NOT or CAST. A CAST node carries its target type as the node's own
// type descriptor.
type UnaryExpr struct {
	typ         sql.Type
	op          sql.Op
	operand     sql.Expression
	containsAgg bool
}

var _ sql.Expression = (*UnaryExpr)(nil)

// NewUnaryExpr creates a unary operator node, computing its type from
// the operator and the operand. Use NewCast for CAST nodes.
func NewUnaryExpr(op sql.Op, operand sql.Expression) (*UnaryExpr, error) {
	var typ sql.Type
	switch op {
	case sql.OpIsNull, sql.OpExists:
		// IS NULL and EXISTS never yield NULL themselves.
		typ = sql.Boolean.NotNull()
	case sql.OpNot:
		if !operand.Type().IsBoolean() && !operand.Type().IsNull() {
			return nil, sql.ErrInvalidCast.New(operand.Type(), sql.Boolean)
		}
		typ = sql.Boolean.WithNullable(operand.Type().Nullable)
	case sql.OpUnaryMinus:
		if !operand.Type().IsNumeric() {
			return nil, sql.ErrInvalidCast.New(operand.Type(), "numeric")
		}
		typ = operand.Type()
	default:
		return nil, sql.ErrUnsupportedExpr.New(op)
	}

	return &UnaryExpr{
		typ:         typ,
		op:          op,
		operand:     operand,
		containsAgg: operand.ContainsAgg(),
	}, nil
}

// NewCast creates a CAST node to the given target type. Family
// compatibility is checked by AddCast; this constructor trusts its
// caller.
func NewCast(operand sql.Expression, target sql.Type) *UnaryExpr {
	return &UnaryExpr{
		typ:         target,
		op:          sql.OpCast,
		operand:     operand,
		containsAgg: operand.ContainsAgg(),
	}
}

func newUnaryWithType(typ sql.Type, op sql.Op, operand sql.Expression) *UnaryExpr {
	return &UnaryExpr{typ: typ, op: op, operand: operand, containsAgg: operand.ContainsAgg()}
}

// Op returns the operator tag.
func (u *UnaryExpr) Op() sql.Op { return u.op }

// Operand returns the owned operand expression.
func (u *UnaryExpr) Operand() sql.Expression { return u.operand }

// Type implements the sql.Expression interface.
func (u *UnaryExpr) Type() sql.Type { return u.typ }

// ContainsAgg implements the sql.Expression interface.
func (u *UnaryExpr) ContainsAgg() bool { return u.containsAgg }

// Children implements the sql.Expression interface.
func (u *UnaryExpr) Children() []sql.Expression { return []sql.Expression{u.operand} }

func (u *UnaryExpr) String() string {
	switch u.op {
	case sql.OpIsNull:
		return fmt.Sprintf("(%s IS NULL)", u.operand)
	case sql.OpExists:
		return fmt.Sprintf("EXISTS (%s)", u.operand)
	case sql.OpCast:
		return fmt.Sprintf("CAST(%s AS %s)", u.operand, u.typ)
	case sql.OpNot:
		return fmt.Sprintf("NOT (%s)", u.operand)
	}
	return fmt.Sprintf("%s(%s)", u.op, u.operand)
}
