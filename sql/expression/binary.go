package expression

import (
	"fmt"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// BinaryExpr is a binary operator node covering comparison, arithmetic
// and boolean operators. The qualifier is only meaningful when the
// right operand is a subquery.
type BinaryExpr struct {
	typ         sql.Type
	op          sql.Op
	qualifier   sql.Qualifier
	left        sql.Expression
	right       sql.Expression
	containsAgg bool
}

var _ sql.Expression = (*BinaryExpr)(nil)

// NewBinaryExpr creates a binary operator node. Operand types are
// promoted to their common type and wrapped in implicit casts before
// the node is built; a comparison between incompatible families fails
// unless one side is a constant that re-parses exactly into the other
// side's type.
func NewBinaryExpr(op sql.Op, qualifier sql.Qualifier, left, right sql.Expression) (sql.Expression, error) {
	resultType, leftType, rightType, err := AnalyzeBinaryTypes(op, left.Type(), right.Type())
	if err != nil {
		// Cross-family comparisons admit exactly one escape hatch:
		// a literal re-parsed into the other side's type.
		left, right, resultType, leftType, rightType, err = reparseLiteral(op, left, right, err)
		if err != nil {
			return nil, err
		}
	}

	if left, err = castOperand(left, leftType); err != nil {
		return nil, err
	}
	if right, err = castOperand(right, rightType); err != nil {
		return nil, err
	}

	return &BinaryExpr{
		typ:         resultType,
		op:          op,
		qualifier:   qualifier,
		left:        left,
		right:       right,
		containsAgg: sql.ExpressionsContainAgg(left, right),
	}, nil
}

// NewAnd builds a boolean conjunction of two predicates.
func NewAnd(left, right sql.Expression) (sql.Expression, error) {
	return NewBinaryExpr(sql.OpAnd, sql.QualOne, left, right)
}

// NewOr builds a boolean disjunction of two predicates.
func NewOr(left, right sql.Expression) (sql.Expression, error) {
	return NewBinaryExpr(sql.OpOr, sql.QualOne, left, right)
}

// newBinaryWithType rebuilds a node whose operand types were already
// analyzed, used by the copy and rewrite passes.
func newBinaryWithType(typ sql.Type, op sql.Op, qualifier sql.Qualifier, left, right sql.Expression) *BinaryExpr {
	return &BinaryExpr{
		typ:         typ,
		op:          op,
		qualifier:   qualifier,
		left:        left,
		right:       right,
		containsAgg: sql.ExpressionsContainAgg(left, right),
	}
}

// AnalyzeBinaryTypes computes the result type of a binary operator and
// the types both operands must be cast to. The result's nullability is
// the disjunction of the operand nullabilities: a NULL operand
// propagates NULL.
func AnalyzeBinaryTypes(op sql.Op, leftType, rightType sql.Type) (resultType, newLeft, newRight sql.Type, err error) {
	nullable := leftType.Nullable || rightType.Nullable

	switch {
	case op.IsLogic():
		if !leftType.IsBoolean() && !leftType.IsNull() {
			return resultType, newLeft, newRight, sql.ErrInvalidCast.New(leftType, sql.Boolean)
		}
		if !rightType.IsBoolean() && !rightType.IsNull() {
			return resultType, newLeft, newRight, sql.ErrInvalidCast.New(rightType, sql.Boolean)
		}
		b := sql.Boolean.WithNullable(nullable)
		return b, leftType, rightType, nil

	case op.IsComparison():
		if leftType.IsString() != rightType.IsString() && !leftType.IsNull() && !rightType.IsNull() {
			// No implicit cross-family coercion for comparisons.
			return resultType, newLeft, newRight, sql.ErrNoCommonType.New(leftType, rightType)
		}
		common, cerr := sql.CommonType(leftType, rightType)
		if cerr != nil {
			return resultType, newLeft, newRight, cerr
		}
		resultType = sql.Boolean.WithNullable(nullable)
		return resultType,
			common.WithNullable(leftType.Nullable),
			common.WithNullable(rightType.Nullable),
			nil

	case op.IsArithmetic():
		if !leftType.IsNumeric() && !leftType.IsNull() {
			return resultType, newLeft, newRight, sql.ErrNoCommonType.New(leftType, rightType)
		}
		if !rightType.IsNumeric() && !rightType.IsNull() {
			return resultType, newLeft, newRight, sql.ErrNoCommonType.New(leftType, rightType)
		}
		common, cerr := sql.CommonType(leftType, rightType)
		if cerr != nil {
			return resultType, newLeft, newRight, cerr
		}
		resultType = common.WithNullable(nullable)
		return resultType,
			common.WithNullable(leftType.Nullable),
			common.WithNullable(rightType.Nullable),
			nil
	}

	return resultType, newLeft, newRight, sql.ErrUnsupportedExpr.New(op)
}

// reparseLiteral retries a failed type analysis by converting a
// literal operand into the other side's type when that conversion is
// exact.
func reparseLiteral(op sql.Op, left, right sql.Expression, analyzeErr error) (sql.Expression, sql.Expression, sql.Type, sql.Type, sql.Type, error) {
	var zero sql.Type
	if !op.IsComparison() {
		return nil, nil, zero, zero, zero, analyzeErr
	}

	if lit, ok := left.(*Literal); ok {
		if conv, err := lit.cast(right.Type().WithNullable(lit.Type().Nullable)); err == nil {
			rt, lt, rr, aerr := AnalyzeBinaryTypes(op, conv.Type(), right.Type())
			if aerr == nil {
				return conv, right, rt, lt, rr, nil
			}
		}
	}
	if lit, ok := right.(*Literal); ok {
		if conv, err := lit.cast(left.Type().WithNullable(lit.Type().Nullable)); err == nil {
			rt, lt, rr, aerr := AnalyzeBinaryTypes(op, left.Type(), conv.Type())
			if aerr == nil {
				return left, conv, rt, lt, rr, nil
			}
		}
	}

	return nil, nil, zero, zero, zero, analyzeErr
}

func castOperand(e sql.Expression, target sql.Type) (sql.Expression, error) {
	if e.Type().Equals(target) || e.Type().IsNull() {
		return e, nil
	}
	return AddCast(e, target)
}

// Op returns the operator tag.
func (b *BinaryExpr) Op() sql.Op { return b.op }

// Qualifier returns the subquery quantifier (ANY, ALL or ONE).
func (b *BinaryExpr) Qualifier() sql.Qualifier { return b.qualifier }

// Left returns the owned left operand.
func (b *BinaryExpr) Left() sql.Expression { return b.left }

// Right returns the owned right operand.
func (b *BinaryExpr) Right() sql.Expression { return b.right }

// Type implements the sql.Expression interface.
func (b *BinaryExpr) Type() sql.Type { return b.typ }

// ContainsAgg implements the sql.Expression interface.
func (b *BinaryExpr) ContainsAgg() bool { return b.containsAgg }

// Children implements the sql.Expression interface.
func (b *BinaryExpr) Children() []sql.Expression {
	return []sql.Expression{b.left, b.right}
}

func (b *BinaryExpr) String() string {
	if q := b.qualifier.String(); q != "" {
		return fmt.Sprintf("(%s %s %s (%s))", b.left, b.op, q, b.right)
	}
	return fmt.Sprintf("(%s %s %s)", b.left, b.op, b.right)
}
