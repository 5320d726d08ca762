package sql

// Query is the top-level analyzed statement. It is assembled by the
// analyzer in a single forward pass through accumulator operations and
// treated as read-mostly afterwards: planner stages derive new trees
// instead of mutating the analyzed one.
//
// For INSERT, UPDATE and DELETE the result table is always range table
// entry 0.
type Query struct {
	isDistinct     bool
	targetList     []*TargetEntry
	rangeTable     []*RangeTblEntry
	wherePredicate Expression
	groupBy        []Expression
	havingPred     Expression
	orderBy        []OrderEntry
	nextQuery      *Query
	isUnionAll     bool
	stmtType       StmtType
	numAggs        int
	resultTableID  int32
	resultColumns  []int32
	limit          int64 // 0 means ALL
	offset         int64 // 0 means no offset
}

// NewQuery returns an empty SELECT query ready for analysis.
func NewQuery() *Query {
	return &Query{stmtType: StmtSelect}
}

// IsDistinct reports whether the statement is SELECT DISTINCT.
func (q *Query) IsDistinct() bool { return q.isDistinct }

// SetDistinct marks the statement as SELECT DISTINCT.
func (q *Query) SetDistinct(d bool) { q.isDistinct = d }

// TargetList returns the ordered projection list.
func (q *Query) TargetList() []*TargetEntry { return q.targetList }

// AddTargetEntry appends a projection slot and returns its 0-based
// position.
func (q *Query) AddTargetEntry(te *TargetEntry) int {
	q.targetList = append(q.targetList, te)
	return len(q.targetList) - 1
}

// RangeTable returns the ordered FROM-clause entries.
func (q *Query) RangeTable() []*RangeTblEntry { return q.rangeTable }

// RangeTblEntry returns the entry at the given 0-based index.
func (q *Query) RangeTblEntry(idx int) *RangeTblEntry { return q.rangeTable[idx] }

// AddRangeTblEntry appends a FROM-clause entry and returns its 0-based
// range table index. Entries are never removed or reordered.
func (q *Query) AddRangeTblEntry(rte *RangeTblEntry) int {
	q.rangeTable = append(q.rangeTable, rte)
	return len(q.rangeTable) - 1
}

// ResolveRangeIndex resolves a range variable alias to its range table
// index, honoring SQL scoping: on conflict the most recently added
// alias wins.
func (q *Query) ResolveRangeIndex(rangeVar string) (int, error) {
	for i := len(q.rangeTable) - 1; i >= 0; i-- {
		if q.rangeTable[i].RangeVar() == rangeVar {
			return i, nil
		}
	}
	return -1, ErrRangeVarNotFound.New(rangeVar)
}

// Where returns the WHERE predicate, or nil.
func (q *Query) Where() Expression { return q.wherePredicate }

// SetWhere sets the WHERE predicate.
func (q *Query) SetWhere(p Expression) { q.wherePredicate = p }

// GroupBy returns the GROUP BY key expressions.
func (q *Query) GroupBy() []Expression { return q.groupBy }

// SetGroupBy sets the GROUP BY key expressions.
func (q *Query) SetGroupBy(g []Expression) { q.groupBy = g }

// Having returns the HAVING predicate, or nil.
func (q *Query) Having() Expression { return q.havingPred }

// SetHaving sets the HAVING predicate.
func (q *Query) SetHaving(p Expression) { q.havingPred = p }

// OrderBy returns the ORDER BY entries, or nil.
func (q *Query) OrderBy() []OrderEntry { return q.orderBy }

// SetOrderBy sets the ORDER BY entries.
func (q *Query) SetOrderBy(o []OrderEntry) { q.orderBy = o }

// Next returns the next query in a UNION chain, or nil.
func (q *Query) Next() *Query { return q.nextQuery }

// SetNext links the next query of a UNION chain.
func (q *Query) SetNext(next *Query) { q.nextQuery = next }

// IsUnionAll reports whether the link to Next is UNION ALL.
func (q *Query) IsUnionAll() bool { return q.isUnionAll }

// SetUnionAll marks the link to Next as UNION ALL.
func (q *Query) SetUnionAll(u bool) { q.isUnionAll = u }

// StmtType returns the statement kind.
func (q *Query) StmtType() StmtType { return q.stmtType }

// SetStmtType sets the statement kind.
func (q *Query) SetStmtType(t StmtType) { q.stmtType = t }

// NumAggs returns the number of aggregate calls in the query.
func (q *Query) NumAggs() int { return q.numAggs }

// SetNumAggs records the number of aggregate calls in the query.
func (q *Query) SetNumAggs(n int) { q.numAggs = n }

// ResultTableID returns the INSERT target table id.
func (q *Query) ResultTableID() int32 { return q.resultTableID }

// SetResultTableID sets the INSERT target table id.
func (q *Query) SetResultTableID(id int32) { q.resultTableID = id }

// ResultColumns returns the INSERT target column ids.
func (q *Query) ResultColumns() []int32 { return q.resultColumns }

// SetResultColumns sets the INSERT target column ids.
func (q *Query) SetResultColumns(cols []int32) { q.resultColumns = cols }

// Limit returns the LIMIT row count; 0 means ALL.
func (q *Query) Limit() int64 { return q.limit }

// SetLimit sets the LIMIT row count.
func (q *Query) SetLimit(l int64) { q.limit = l }

// Offset returns the OFFSET row count; 0 means no offset.
func (q *Query) Offset() int64 { return q.offset }

// SetOffset sets the OFFSET row count.
func (q *Query) SetOffset(o int64) { q.offset = o }
