package expression

import (
	"time"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// Equals reports structural value equality: same variant, same scalar
// fields and pairwise-equal child subtrees. There is no implicit type
// coercion; a ColumnRef never equals a Var even when both point at the
// same column. Subqueries compare by identity because their analyzed
// queries are never rebuilt once constructed.
func Equals(a, b sql.Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case *Var:
		bv, ok := b.(*Var)
		return ok &&
			a.tableID == bv.tableID &&
			a.columnID == bv.columnID &&
			a.rteIdx == bv.rteIdx &&
			a.whichRow == bv.whichRow &&
			a.varNo == bv.varNo

	case *ColumnRef:
		bc, ok := b.(*ColumnRef)
		return ok &&
			a.tableID == bc.tableID &&
			a.columnID == bc.columnID &&
			a.rteIdx == bc.rteIdx

	case *Literal:
		bl, ok := b.(*Literal)
		if !ok || a.typ.Base != bl.typ.Base || a.typ.Scale != bl.typ.Scale || a.isNull != bl.isNull {
			return false
		}
		if a.isNull {
			return true
		}
		return literalValueEquals(a.value, bl.value)

	case *UnaryExpr:
		bu, ok := b.(*UnaryExpr)
		return ok && a.op == bu.op &&
			(a.op != sql.OpCast || a.typ.Equals(bu.typ)) &&
			Equals(a.operand, bu.operand)

	case *BinaryExpr:
		bb, ok := b.(*BinaryExpr)
		return ok && a.op == bb.op && a.qualifier == bb.qualifier &&
			Equals(a.left, bb.left) && Equals(a.right, bb.right)

	case *Subquery:
		bs, ok := b.(*Subquery)
		return ok && a.query == bs.query

	case *InValues:
		bi, ok := b.(*InValues)
		if !ok || !Equals(a.arg, bi.arg) || len(a.values) != len(bi.values) {
			return false
		}
		for i := range a.values {
			if !Equals(a.values[i], bi.values[i]) {
				return false
			}
		}
		return true

	case *CharLength:
		bc, ok := b.(*CharLength)
		return ok && a.calcEncodedLength == bc.calcEncodedLength && Equals(a.arg, bc.arg)

	case *Like:
		bl, ok := b.(*Like)
		return ok && a.ilike == bl.ilike && a.simple == bl.simple &&
			Equals(a.arg, bl.arg) && Equals(a.pattern, bl.pattern) && Equals(a.escape, bl.escape)

	case *AggExpr:
		ba, ok := b.(*AggExpr)
		return ok && a.kind == ba.kind && a.isDistinct == ba.isDistinct && Equals(a.arg, ba.arg)

	case *Case:
		bc, ok := b.(*Case)
		if !ok || len(a.branches) != len(bc.branches) {
			return false
		}
		for i := range a.branches {
			if !Equals(a.branches[i].When, bc.branches[i].When) ||
				!Equals(a.branches[i].Then, bc.branches[i].Then) {
				return false
			}
		}
		return Equals(a.elseResult, bc.elseResult)

	case *Extract:
		be, ok := b.(*Extract)
		return ok && a.field == be.field && Equals(a.from, be.from)

	case *DateTrunc:
		bd, ok := b.(*DateTrunc)
		return ok && a.field == bd.field && Equals(a.from, bd.from)
	}

	return false
}

func literalValueEquals(a, b interface{}) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return a == b
}

// AddUnique appends e to list unless a structurally equal expression is
// already present, returning the possibly extended list.
func AddUnique(list []sql.Expression, e sql.Expression) []sql.Expression {
	for _, x := range list {
		if Equals(x, e) {
			return list
		}
	}
	return append(list, e)
}

// FindExpr collects the outermost subexpressions of e matching pred, in
// depth-first order and deduplicated structurally. Children of a
// matching node are not searched.
func FindExpr(e sql.Expression, pred func(sql.Expression) bool) []sql.Expression {
	var found []sql.Expression
	var walk func(sql.Expression)
	walk = func(e sql.Expression) {
		if e == nil {
			return
		}
		if pred(e) {
			found = AddUnique(found, e)
			return
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(e)
	return found
}
