package expression

import (
	"sort"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// VarRangeIndex is the sentinel range-table index reported by Var
// nodes, which reference plan-node rows rather than base table scans.
const VarRangeIndex = -1

// CollectRangeIndices returns the sorted set of range-table indices
// referenced by an expression. Var nodes contribute the VarRangeIndex
// sentinel. Subqueries are opaque: their column references belong to
// the sub-query's own range table and are not reported.
func CollectRangeIndices(e sql.Expression) []int {
	seen := map[int]struct{}{}
	sql.Inspect(e, func(e sql.Expression) bool {
		switch e := e.(type) {
		case *Var:
			seen[VarRangeIndex] = struct{}{}
		case *ColumnRef:
			seen[e.rteIdx] = struct{}{}
		case *Subquery:
			return false
		}
		return true
	})

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// SplitConjunction flattens a tree of AND nodes into its conjuncts, in
// left-to-right order. A non-AND expression is returned as the sole
// conjunct.
func SplitConjunction(e sql.Expression) []sql.Expression {
	b, ok := e.(*BinaryExpr)
	if !ok || b.op != sql.OpAnd {
		return []sql.Expression{e}
	}
	return append(SplitConjunction(b.left), SplitConjunction(b.right)...)
}

// PredicateClasses is the result of classifying a predicate's
// conjuncts by the plan stage that can evaluate them earliest.
type PredicateClasses struct {
	// Const holds conjuncts referencing no table at all. They can be
	// evaluated once, independent of any row.
	Const []sql.Expression
	// Scan holds conjuncts referencing exactly one table, keyed by its
	// range-table index. They are pushable below a join.
	Scan map[int][]sql.Expression
	// Join holds conjuncts referencing two or more tables. They must
	// run at or above the join combining those tables.
	Join []sql.Expression
}

// GroupPredicates splits a predicate into conjuncts and classifies
// each by the set of range-table indices it references. Subqueries
// must have been resolved or flattened before this runs; finding one
// is an internal error.
func GroupPredicates(pred sql.Expression) (*PredicateClasses, error) {
	classes := &PredicateClasses{Scan: map[int][]sql.Expression{}}
	for _, conjunct := range SplitConjunction(pred) {
		if err := classes.add(conjunct); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

func (pc *PredicateClasses) add(conjunct sql.Expression) error {
	var subquery bool
	sql.Inspect(conjunct, func(e sql.Expression) bool {
		if _, ok := e.(*Subquery); ok {
			subquery = true
			return false
		}
		return true
	})
	if subquery {
		return sql.ErrUnsupportedExpr.New(conjunct)
	}

	indices := CollectRangeIndices(conjunct)
	switch len(indices) {
	case 0:
		pc.Const = append(pc.Const, conjunct)
	case 1:
		pc.Scan[indices[0]] = append(pc.Scan[indices[0]], conjunct)
	default:
		pc.Join = append(pc.Join, conjunct)
	}
	return nil
}

// NormalizeSimplePredicate canonicalizes a comparison between a bare
// base-table column and a column-free expression: the column is forced
// to the left-hand side, flipping the operator when it started on the
// right. It returns the canonical copy and the column's range-table
// index, or ok=false for any other shape, including comparisons
// between two columns.
func NormalizeSimplePredicate(e sql.Expression) (norm sql.Expression, rteIdx int, ok bool) {
	b, isBinary := e.(*BinaryExpr)
	if !isBinary || !b.op.IsComparison() || b.qualifier != sql.QualOne {
		return nil, VarRangeIndex, false
	}

	leftCol, leftIsCol := bareColumn(b.left)
	rightCol, rightIsCol := bareColumn(b.right)

	switch {
	case leftIsCol && !rightIsCol && columnFree(b.right):
		norm = newBinaryWithType(b.typ, b.op, b.qualifier, DeepCopy(b.left), DeepCopy(b.right))
		return norm, leftCol.rteIdx, true

	case rightIsCol && !leftIsCol && columnFree(b.left):
		norm = newBinaryWithType(b.typ, b.op.Flip(), b.qualifier, DeepCopy(b.right), DeepCopy(b.left))
		return norm, rightCol.rteIdx, true
	}
	return nil, VarRangeIndex, false
}

func bareColumn(e sql.Expression) (*ColumnRef, bool) {
	if _, isVar := e.(*Var); isVar {
		return nil, false
	}
	c, ok := e.(*ColumnRef)
	return c, ok
}

func columnFree(e sql.Expression) bool {
	free := true
	sql.Inspect(e, func(e sql.Expression) bool {
		switch e.(type) {
		case *ColumnRef, *Var, *Subquery:
			free = false
			return false
		}
		return true
	})
	return free
}
