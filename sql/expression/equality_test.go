package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillondb/go-sql-analyzer/sql"
)

func TestEqualsVariantTags(t *testing.T) {
	require := require.New(t)

	col := NewColumnRef(sql.Int, 1, 2, 0)
	sameCol := NewColumnRef(sql.Int, 1, 2, 0)
	otherCol := NewColumnRef(sql.Int, 1, 3, 0)
	v := NewVar(sql.Int, 1, 2, 0, sql.OutputRow, 1)

	require.True(Equals(col, sameCol))
	require.False(Equals(col, otherCol))

	// same column, different variant
	require.False(Equals(col, v))
	require.False(Equals(v, col))

	require.True(Equals(v, NewVar(sql.Int, 1, 2, 0, sql.OutputRow, 1)))
	require.False(Equals(v, NewVar(sql.Int, 1, 2, 0, sql.OutputRow, 2)))
	require.False(Equals(v, NewVar(sql.Int, 1, 2, 0, sql.OuterRow, 1)))
}

func TestEqualsComposite(t *testing.T) {
	require := require.New(t)

	build := func() sql.Expression {
		e, err := NewBinaryExpr(sql.OpGreater, sql.QualOne,
			NewColumnRef(sql.Int.NotNull(), 1, 1, 0),
			NewLiteral(int64(5), sql.Int.NotNull()))
		require.NoError(err)
		return e
	}

	require.True(Equals(build(), build()))

	lt, err := NewBinaryExpr(sql.OpLess, sql.QualOne,
		NewColumnRef(sql.Int.NotNull(), 1, 1, 0),
		NewLiteral(int64(5), sql.Int.NotNull()))
	require.NoError(err)
	require.False(Equals(build(), lt))
}

func TestEqualsSubqueryIdentity(t *testing.T) {
	require := require.New(t)

	q := sql.NewQuery()
	q.AddTargetEntry(sql.NewTargetEntry("x", NewColumnRef(sql.Int, 1, 1, 0), false))

	a, err := NewSubquery(q)
	require.NoError(err)
	b, err := NewSubquery(q)
	require.NoError(err)
	require.True(Equals(a, b), "same analyzed query")

	q2 := sql.NewQuery()
	q2.AddTargetEntry(sql.NewTargetEntry("x", NewColumnRef(sql.Int, 1, 1, 0), false))
	c, err := NewSubquery(q2)
	require.NoError(err)
	require.False(Equals(a, c), "identity, not structure")
}

func TestDeepCopyIndependence(t *testing.T) {
	require := require.New(t)

	inner, err := NewBinaryExpr(sql.OpPlus, sql.QualOne,
		NewColumnRef(sql.Int.NotNull(), 1, 1, 0),
		NewLiteral(int64(1), sql.Int.NotNull()))
	require.NoError(err)

	agg, err := NewAggExpr(sql.AggSum, inner, false)
	require.NoError(err)

	cp := DeepCopy(agg)
	require.True(Equals(agg, cp))
	require.False(agg == cp)

	// no shared nodes anywhere in the tree
	orig := map[sql.Expression]bool{}
	sql.Inspect(agg, func(e sql.Expression) bool {
		orig[e] = true
		return true
	})
	sql.Inspect(cp, func(e sql.Expression) bool {
		require.False(orig[e], "copied tree shares node %v", e)
		return true
	})
}

func TestAddUnique(t *testing.T) {
	require := require.New(t)

	a := NewColumnRef(sql.Int, 1, 1, 0)
	b := NewColumnRef(sql.Int, 1, 2, 0)

	var list []sql.Expression
	list = AddUnique(list, a)
	list = AddUnique(list, b)
	list = AddUnique(list, NewColumnRef(sql.Int, 1, 1, 0))
	require.Len(list, 2)
}

func TestFindExpr(t *testing.T) {
	require := require.New(t)

	col := NewColumnRef(sql.Int.NotNull(), 1, 1, 0)
	agg, err := NewAggExpr(sql.AggSum, col, false)
	require.NoError(err)

	cmp, err := NewBinaryExpr(sql.OpGreater, sql.QualOne, agg, NewLiteral(int64(10), sql.Int.NotNull()))
	require.NoError(err)

	aggs := FindExpr(cmp, func(e sql.Expression) bool {
		_, ok := e.(*AggExpr)
		return ok
	})
	require.Len(aggs, 1)
	require.True(Equals(agg, aggs[0]))

	// matching stops the descent: the column inside the aggregate is
	// not reported when the aggregate itself matches
	cols := FindExpr(cmp, func(e sql.Expression) bool {
		return e.ContainsAgg()
	})
	require.Len(cols, 1)
	require.True(Equals(cmp, cols[0]))
}

func TestCollectColumnRefs(t *testing.T) {
	require := require.New(t)

	colA := NewColumnRef(sql.Int.NotNull(), 2, 1, 0)
	colB := NewColumnRef(sql.Int.NotNull(), 1, 2, 1)
	agg, err := NewAggExpr(sql.AggSum, colA, false)
	require.NoError(err)

	sum, err := NewBinaryExpr(sql.OpPlus, sql.QualOne, agg, colB)
	require.NoError(err)

	all := CollectColumnRefs(sum, true)
	require.Len(all, 2)
	// ordered by (table id, column id)
	require.Equal(int32(1), all[0].TableID())
	require.Equal(int32(2), all[1].TableID())

	visible := CollectColumnRefs(sum, false)
	require.Len(visible, 1)
	require.Equal(int32(1), visible[0].TableID())
	require.Equal(int32(2), visible[0].ColumnID())

	// Vars reference plan-node rows and never enter the column set
	require.Empty(CollectColumnRefs(NewSyntheticVar(sql.BigInt, sql.OutputRow, 1), true))

	withVar, err := NewBinaryExpr(sql.OpPlus, sql.QualOne,
		NewVar(colB.Type(), 1, 2, 1, sql.OuterRow, 1), DeepCopy(colA))
	require.NoError(err)
	refs := CollectColumnRefs(withVar, true)
	require.Len(refs, 1)
	require.Equal(int32(2), refs[0].TableID())
}
