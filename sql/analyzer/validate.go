package analyzer

import (
	"github.com/quillondb/go-sql-analyzer/sql"
	"github.com/quillondb/go-sql-analyzer/sql/expression"
)

// validate runs the semantic checks that need the fully assembled
// query: GROUP BY coverage and ORDER BY positions. UNION branches are
// validated along the chain.
func (a *Analyzer) validate(q *sql.Query) error {
	for ; q != nil; q = q.Next() {
		if err := a.validateOne(q); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) validateOne(q *sql.Query) error {
	if len(q.GroupBy()) > 0 || q.NumAggs() > 0 {
		for _, tle := range q.TargetList() {
			if err := expression.CheckGroupBy(tle.Expr(), q.GroupBy()); err != nil {
				return err
			}
		}
		if err := expression.CheckGroupBy(q.Having(), q.GroupBy()); err != nil {
			return err
		}
	}

	for _, oe := range q.OrderBy() {
		if oe.TleNo < 1 || oe.TleNo > len(q.TargetList()) {
			return sql.ErrInvalidOrderBy.New(oe.TleNo)
		}
	}
	return nil
}
