package expression

import (
	"github.com/quillondb/go-sql-analyzer/sql"
)

// CheckGroupBy validates that every non-aggregated column reference in
// an expression structurally matches one of the GROUP BY key
// expressions. Subtrees that are themselves grouping keys pass as a
// whole; aggregate arguments are exempt because they are consumed
// inside the aggregate, not projected per group.
func CheckGroupBy(e sql.Expression, groupBy []sql.Expression) error {
	if e == nil {
		return nil
	}
	for _, key := range groupBy {
		if Equals(e, key) {
			return nil
		}
	}

	switch e := e.(type) {
	case *Var:
		if e.whichRow == sql.GroupByRow {
			return nil
		}
		return sql.ErrNotGroupedColumn.New(e)

	case *ColumnRef:
		return sql.ErrNotGroupedColumn.New(e)

	case *AggExpr:
		return nil
	}

	for _, c := range e.Children() {
		if err := CheckGroupBy(c, groupBy); err != nil {
			return err
		}
	}
	return nil
}
