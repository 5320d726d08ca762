package sql

import "fmt"

// TargetEntry is one slot of a projection list: an output name, the
// owned expression producing the value, and a flag for projecting a
// collection-typed value by flattening it.
type TargetEntry struct {
	resName string
	expr    Expression
	unnest  bool
}

// NewTargetEntry creates a target list entry.
func NewTargetEntry(resName string, expr Expression, unnest bool) *TargetEntry {
	return &TargetEntry{resName: resName, expr: expr, unnest: unnest}
}

// ResName returns the output alias of the entry.
func (te *TargetEntry) ResName() string { return te.resName }

// SetResName renames the entry's output column.
func (te *TargetEntry) SetResName(name string) { te.resName = name }

// Expr returns the owned expression.
func (te *TargetEntry) Expr() Expression { return te.expr }

// Unnest reports whether the projected value is flattened.
func (te *TargetEntry) Unnest() bool { return te.unnest }

// WithExpr returns a copy of the entry with a substituted expression
// and the same name and unnest flag. Used by the rewriting passes.
func (te *TargetEntry) WithExpr(expr Expression) *TargetEntry {
	return &TargetEntry{resName: te.resName, expr: expr, unnest: te.unnest}
}

func (te *TargetEntry) String() string {
	if te.resName == "" {
		return te.expr.String()
	}
	return fmt.Sprintf("%s AS %s", te.expr, te.resName)
}

// OrderEntry is one ORDER BY key: a 1-based target list position, the
// direction and the null ordering. The position must be a valid index
// into the owning query's target list.
type OrderEntry struct {
	TleNo      int // 1-based target list entry number
	Desc       bool
	NullsFirst bool
}

func (oe OrderEntry) String() string {
	s := fmt.Sprintf("%d", oe.TleNo)
	if oe.Desc {
		s += " DESC"
	} else {
		s += " ASC"
	}
	if oe.NullsFirst {
		s += " NULLS FIRST"
	}
	return s
}
