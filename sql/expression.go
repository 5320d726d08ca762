package sql

import "fmt"

// Expression is the contract every analyzed expression node
// implements. Nodes are immutable once constructed: the type
// descriptor is fixed at construction time and every transformation
// allocates new nodes.
type Expression interface {
	fmt.Stringer
	// Type returns the node's type descriptor.
	Type() Type
	// ContainsAgg reports whether the node transitively contains an
	// aggregate call.
	ContainsAgg() bool
	// Children returns the node's owned child expressions in a fixed
	// order.
	Children() []Expression
}

// Inspect traverses an expression tree in depth-first order, calling f
// on every node. If f returns false for a node its children are
// skipped.
func Inspect(e Expression, f func(Expression) bool) {
	if e == nil {
		return
	}
	if !f(e) {
		return
	}
	for _, c := range e.Children() {
		Inspect(c, f)
	}
}

// ExpressionsContainAgg reports whether any of the given expressions
// transitively contains an aggregate. Constructors use it to set the
// aggregate flag on composite nodes.
func ExpressionsContainAgg(exprs ...Expression) bool {
	for _, e := range exprs {
		if e != nil && e.ContainsAgg() {
			return true
		}
	}
	return false
}
