package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrNoCommonType is returned when no common type exists for the
	// operands of an operator or the branches of a CASE.
	ErrNoCommonType = errors.NewKind("no common type for %s and %s")

	// ErrInvalidCast is returned when a cast is requested between
	// incompatible type families.
	ErrInvalidCast = errors.NewKind("cannot cast %s to %s")

	// ErrLossyCast is returned when a constant cannot be represented
	// exactly in the requested type.
	ErrLossyCast = errors.NewKind("value %v does not fit type %s")

	// ErrTableNotFound is returned when a table or view name cannot be
	// resolved against the catalog.
	ErrTableNotFound = errors.NewKind("table not found: %s")

	// ErrColumnNotFound is returned when a column name cannot be
	// resolved against a table.
	ErrColumnNotFound = errors.NewKind("table %q does not have column %q")

	// ErrColumnNotInScope is returned when a column reference matches
	// no range table entry in scope.
	ErrColumnNotInScope = errors.NewKind("column %q could not be found in any table in scope")

	// ErrAmbiguousColumn is returned when an unqualified column name
	// matches more than one range table entry.
	ErrAmbiguousColumn = errors.NewKind("ambiguous column name %q")

	// ErrRangeVarNotFound is returned when a range variable alias is
	// referenced outside its scope.
	ErrRangeVarNotFound = errors.NewKind("range variable %q is not in scope")

	// ErrNotGroupedColumn is the semantic error for a non-aggregated
	// column that is not a GROUP BY key where one is required.
	ErrNotGroupedColumn = errors.NewKind("column %s must appear in the GROUP BY clause or be used in an aggregate function")

	// ErrAggNotAllowed is the semantic error for an aggregate call in a
	// clause that cannot contain one, such as WHERE or a GROUP BY key.
	ErrAggNotAllowed = errors.NewKind("aggregate function %s is not allowed in %s")

	// ErrInvalidOrderBy is returned when an ORDER BY position is not a
	// valid target list index.
	ErrInvalidOrderBy = errors.NewKind("ORDER BY position %d is not in the select list")

	// ErrColumnNotInTargetList is returned by the rewriting passes when
	// a referenced column has no slot in the supplied target list.
	ErrColumnNotInTargetList = errors.NewKind("column (%d,%d) not found in target list")

	// ErrAggNotInTargetList is returned when an aggregate result has no
	// materialized slot in the supplied target list.
	ErrAggNotInTargetList = errors.NewKind("aggregate %s not found in target list")

	// ErrUnsupportedExpr is an internal error: an operation was invoked
	// on a node variant that requires prior flattening, notably a
	// subquery reaching predicate classification or a rewriting pass.
	ErrUnsupportedExpr = errors.NewKind("unsupported operation on %T, node must be resolved before this stage")
)
