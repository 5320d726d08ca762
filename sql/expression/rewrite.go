package expression

import (
	"github.com/quillondb/go-sql-analyzer/sql"
)

// The three rewriting passes share one recursive skeleton: deep-copy
// every node but replace column references with Vars pointing into a
// target list. They differ in which row the Var is tagged with and in
// whether aggregate calls are themselves replaced.
type rewriteMode byte

const (
	// column references become OUTPUT Vars into the node's own target
	// list; used when wrapping a plan node with a further projection.
	rewriteOutput rewriteMode = iota
	// column references become OUTER-input Vars into a child plan
	// node's target list.
	rewriteChild
	// like rewriteOutput, but aggregate calls are replaced by OUTPUT
	// Vars at the slot where their result is materialized.
	rewriteAggToVar
)

// RewriteWithTargetList replaces every column reference matching an
// output column of tlist with a Var tagged OUTPUT at that slot.
func RewriteWithTargetList(e sql.Expression, tlist []*sql.TargetEntry) (sql.Expression, error) {
	return rewrite(e, tlist, rewriteOutput)
}

// RewriteWithChildTargetList replaces every column reference matching
// an entry of a child plan node's target list with a Var tagged as
// outer input at that slot.
func RewriteWithChildTargetList(e sql.Expression, tlist []*sql.TargetEntry) (sql.Expression, error) {
	return rewrite(e, tlist, rewriteChild)
}

// RewriteAggToVar performs the same column substitution as
// RewriteWithTargetList and additionally replaces every aggregate call
// with a Var tagged OUTPUT at the slot holding the aggregate's
// materialized result.
func RewriteAggToVar(e sql.Expression, tlist []*sql.TargetEntry) (sql.Expression, error) {
	return rewrite(e, tlist, rewriteAggToVar)
}

func rewrite(e sql.Expression, tlist []*sql.TargetEntry, mode rewriteMode) (sql.Expression, error) {
	switch e := e.(type) {
	case nil:
		return nil, nil

	case *Var:
		// Vars already point into a plan node's row; only the
		// agg-to-var pass re-resolves them against the target list.
		if mode == rewriteAggToVar {
			for i, tle := range tlist {
				if Equals(tle.Expr(), e) {
					return NewSyntheticVar(e.typ, sql.OutputRow, i+1), nil
				}
			}
			return nil, sql.ErrColumnNotInTargetList.New(e.tableID, e.columnID)
		}
		return DeepCopy(e), nil

	case *ColumnRef:
		return rewriteColumn(e, tlist, mode)

	case *Literal:
		return DeepCopy(e), nil

	case *UnaryExpr:
		operand, err := rewrite(e.operand, tlist, mode)
		if err != nil {
			return nil, err
		}
		return newUnaryWithType(e.typ, e.op, operand), nil

	case *BinaryExpr:
		left, err := rewrite(e.left, tlist, mode)
		if err != nil {
			return nil, err
		}
		right, err := rewrite(e.right, tlist, mode)
		if err != nil {
			return nil, err
		}
		return newBinaryWithType(e.typ, e.op, e.qualifier, left, right), nil

	case *Subquery:
		// Subqueries must be resolved or flattened before any plan
		// rewriting runs.
		return nil, sql.ErrUnsupportedExpr.New(e)

	case *InValues:
		arg, err := rewrite(e.arg, tlist, mode)
		if err != nil {
			return nil, err
		}
		values := make([]sql.Expression, len(e.values))
		for i, v := range e.values {
			if values[i], err = rewrite(v, tlist, mode); err != nil {
				return nil, err
			}
		}
		return NewInValues(arg, values), nil

	case *CharLength:
		arg, err := rewrite(e.arg, tlist, mode)
		if err != nil {
			return nil, err
		}
		return &CharLength{arg: arg, calcEncodedLength: e.calcEncodedLength}, nil

	case *Like:
		arg, err := rewrite(e.arg, tlist, mode)
		if err != nil {
			return nil, err
		}
		pattern, err := rewrite(e.pattern, tlist, mode)
		if err != nil {
			return nil, err
		}
		escape, err := rewrite(e.escape, tlist, mode)
		if err != nil {
			return nil, err
		}
		return &Like{
			arg:         arg,
			pattern:     pattern,
			escape:      escape,
			ilike:       e.ilike,
			simple:      e.simple,
			containsAgg: sql.ExpressionsContainAgg(arg, pattern, escape),
		}, nil

	case *AggExpr:
		if mode == rewriteAggToVar {
			for i, tle := range tlist {
				if Equals(tle.Expr(), e) {
					return NewSyntheticVar(e.typ, sql.OutputRow, i+1), nil
				}
			}
			return nil, sql.ErrAggNotInTargetList.New(e)
		}
		arg, err := rewrite(e.arg, tlist, mode)
		if err != nil {
			return nil, err
		}
		return newAggWithType(e.typ, e.kind, arg, e.isDistinct), nil

	case *Case:
		branches := make([]WhenThen, len(e.branches))
		for i, b := range e.branches {
			when, err := rewrite(b.When, tlist, mode)
			if err != nil {
				return nil, err
			}
			then, err := rewrite(b.Then, tlist, mode)
			if err != nil {
				return nil, err
			}
			branches[i] = WhenThen{When: when, Then: then}
		}
		elseResult, err := rewrite(e.elseResult, tlist, mode)
		if err != nil {
			return nil, err
		}
		return newCaseWithType(e.typ, branches, elseResult), nil

	case *Extract:
		from, err := rewrite(e.from, tlist, mode)
		if err != nil {
			return nil, err
		}
		return &Extract{field: e.field, from: from}, nil

	case *DateTrunc:
		from, err := rewrite(e.from, tlist, mode)
		if err != nil {
			return nil, err
		}
		return &DateTrunc{field: e.field, from: from}, nil
	}

	return nil, sql.ErrUnsupportedExpr.New(e)
}

func rewriteColumn(c *ColumnRef, tlist []*sql.TargetEntry, mode rewriteMode) (sql.Expression, error) {
	whichRow := sql.OutputRow
	if mode == rewriteChild {
		whichRow = sql.OuterRow
	}
	if slot := findColumnSlot(tlist, c.tableID, c.columnID); slot >= 0 {
		return NewVar(c.typ, c.tableID, c.columnID, c.rteIdx, whichRow, slot+1), nil
	}
	return nil, sql.ErrColumnNotInTargetList.New(c.tableID, c.columnID)
}

func findColumnSlot(tlist []*sql.TargetEntry, tableID, columnID int32) int {
	for i, tle := range tlist {
		switch te := tle.Expr().(type) {
		case *Var:
			if te.tableID == tableID && te.columnID == columnID {
				return i
			}
		case *ColumnRef:
			if te.tableID == tableID && te.columnID == columnID {
				return i
			}
		}
	}
	return -1
}
