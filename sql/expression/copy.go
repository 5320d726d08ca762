package expression

import (
	"github.com/quillondb/go-sql-analyzer/sql"
)

// DeepCopy returns a fully independent copy of an expression tree.
// Rewriting passes must assume subtrees can be shared between parents,
// so they always copy instead of mutating in place.
func DeepCopy(e sql.Expression) sql.Expression {
	switch e := e.(type) {
	case nil:
		return nil

	case *Var:
		v := *e
		return &v

	case *ColumnRef:
		c := *e
		return &c

	case *Literal:
		l := *e
		return &l

	case *UnaryExpr:
		return newUnaryWithType(e.typ, e.op, DeepCopy(e.operand))

	case *BinaryExpr:
		return newBinaryWithType(e.typ, e.op, e.qualifier, DeepCopy(e.left), DeepCopy(e.right))

	case *Subquery:
		// The analyzed sub-query is read-only at this stage and is
		// shared between copies.
		s := *e
		return &s

	case *InValues:
		values := make([]sql.Expression, len(e.values))
		for i, v := range e.values {
			values[i] = DeepCopy(v)
		}
		return NewInValues(DeepCopy(e.arg), values)

	case *CharLength:
		return &CharLength{arg: DeepCopy(e.arg), calcEncodedLength: e.calcEncodedLength}

	case *Like:
		return &Like{
			arg:         DeepCopy(e.arg),
			pattern:     DeepCopy(e.pattern),
			escape:      DeepCopy(e.escape),
			ilike:       e.ilike,
			simple:      e.simple,
			containsAgg: e.containsAgg,
		}

	case *AggExpr:
		return newAggWithType(e.typ, e.kind, DeepCopy(e.arg), e.isDistinct)

	case *Case:
		branches := make([]WhenThen, len(e.branches))
		for i, b := range e.branches {
			branches[i] = WhenThen{When: DeepCopy(b.When), Then: DeepCopy(b.Then)}
		}
		return newCaseWithType(e.typ, branches, DeepCopy(e.elseResult))

	case *Extract:
		return &Extract{field: e.field, from: DeepCopy(e.from)}

	case *DateTrunc:
		return &DateTrunc{field: e.field, from: DeepCopy(e.from)}
	}
	return e
}
