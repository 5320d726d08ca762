package expression

import (
	"sort"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// CollectColumnRefs returns the unique column references reachable
// from an expression, ordered by (table id, column id) rather than by
// pointer identity. When includeAggregates is false, aggregate
// argument subtrees are skipped, yielding only the columns visible to
// a wrapping GROUP BY.
func CollectColumnRefs(e sql.Expression, includeAggregates bool) []*ColumnRef {
	type key struct {
		tableID  int32
		columnID int32
	}
	seen := map[key]*ColumnRef{}

	sql.Inspect(e, func(e sql.Expression) bool {
		switch e := e.(type) {
		case *Var:
			// Vars reference plan-node rows, not base-table columns.
		case *ColumnRef:
			k := key{e.tableID, e.columnID}
			if _, ok := seen[k]; !ok {
				seen[k] = e
			}
		case *AggExpr:
			return includeAggregates
		case *Subquery:
			return false
		}
		return true
	})

	refs := make([]*ColumnRef, 0, len(seen))
	for _, c := range seen {
		refs = append(refs, c)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].tableID != refs[j].tableID {
			return refs[i].tableID < refs[j].tableID
		}
		return refs[i].columnID < refs[j].columnID
	})
	return refs
}
