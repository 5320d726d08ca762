package analyzer

import (
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"

	"github.com/quillondb/go-sql-analyzer/sql"
	"github.com/quillondb/go-sql-analyzer/sql/expression"
)

// expandStar replaces `*` or `t.*` with one target entry per column,
// in catalog-defined order. Qualified stars cover one range table
// entry; a bare star covers every entry in FROM order.
func expandStar(sc *scope, q *sql.Query, star *sqlparser.StarExpr) error {
	if !star.TableName.IsEmpty() {
		idx, err := q.ResolveRangeIndex(star.TableName.Name.String())
		if err != nil {
			return err
		}
		return expandTableStar(sc, q, idx)
	}

	for idx := sc.fromOffset; idx < len(q.RangeTable()); idx++ {
		if err := expandTableStar(sc, q, idx); err != nil {
			return err
		}
	}
	return nil
}

func expandTableStar(sc *scope, q *sql.Query, idx int) error {
	rte := q.RangeTblEntry(idx)
	if err := rte.AddAllColumnDescriptors(sc.a.Catalog); err != nil {
		return err
	}

	sc.a.Log("expanding star of table %q into %d columns", rte.RangeVar(), len(rte.ColumnDescs()))
	for _, cd := range rte.ColumnDescs() {
		q.AddTargetEntry(sql.NewTargetEntry(
			cd.Name,
			expression.NewColumnRefFromDescriptor(cd, idx),
			false,
		))
	}
	return nil
}
