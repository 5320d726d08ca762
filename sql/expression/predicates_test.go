package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillondb/go-sql-analyzer/sql"
)

func comparison(t *testing.T, op sql.Op, left, right sql.Expression) sql.Expression {
	t.Helper()
	e, err := NewBinaryExpr(op, sql.QualOne, left, right)
	require.NoError(t, err)
	return e
}

func conjunction(t *testing.T, preds ...sql.Expression) sql.Expression {
	t.Helper()
	e := preds[0]
	var err error
	for _, p := range preds[1:] {
		e, err = NewAnd(e, p)
		require.NoError(t, err)
	}
	return e
}

func TestCollectRangeIndices(t *testing.T) {
	require := require.New(t)

	join := comparison(t, sql.OpEquals,
		NewColumnRef(sql.Int.NotNull(), 1, 1, 0),
		NewColumnRef(sql.Int.NotNull(), 2, 1, 1))
	require.Equal([]int{0, 1}, CollectRangeIndices(join))

	v := NewVar(sql.Int, 1, 1, 0, sql.OutputRow, 1)
	require.Equal([]int{VarRangeIndex}, CollectRangeIndices(v))

	require.Empty(CollectRangeIndices(NewLiteral(int64(1), sql.Int.NotNull())))
}

func TestSplitConjunction(t *testing.T) {
	require := require.New(t)

	a := comparison(t, sql.OpGreater, NewColumnRef(sql.Int.NotNull(), 1, 1, 0), NewLiteral(int64(1), sql.Int.NotNull()))
	b := comparison(t, sql.OpLess, NewColumnRef(sql.Int.NotNull(), 1, 2, 0), NewLiteral(int64(9), sql.Int.NotNull()))
	c := comparison(t, sql.OpEquals, NewLiteral(int64(1), sql.Int.NotNull()), NewLiteral(int64(1), sql.Int.NotNull()))

	conjuncts := SplitConjunction(conjunction(t, a, b, c))
	require.Len(conjuncts, 3)
	require.True(Equals(a, conjuncts[0]))
	require.True(Equals(b, conjuncts[1]))
	require.True(Equals(c, conjuncts[2]))

	// OR is not split
	or, err := NewOr(a, b)
	require.NoError(err)
	require.Len(SplitConjunction(or), 1)
}

func TestGroupPredicates(t *testing.T) {
	require := require.New(t)

	// a.x = b.y AND a.z > 5 AND 1 = 1
	joinPred := comparison(t, sql.OpEquals,
		NewColumnRef(sql.Int.NotNull(), 1, 1, 0),
		NewColumnRef(sql.Int.NotNull(), 2, 1, 1))
	scanPred := comparison(t, sql.OpGreater,
		NewColumnRef(sql.Int.NotNull(), 1, 2, 0),
		NewLiteral(int64(5), sql.Int.NotNull()))
	constPred := comparison(t, sql.OpEquals,
		NewLiteral(int64(1), sql.Int.NotNull()),
		NewLiteral(int64(1), sql.Int.NotNull()))

	classes, err := GroupPredicates(conjunction(t, joinPred, scanPred, constPred))
	require.NoError(err)

	require.Len(classes.Join, 1)
	require.True(Equals(joinPred, classes.Join[0]))

	require.Len(classes.Scan, 1)
	require.Len(classes.Scan[0], 1)
	require.True(Equals(scanPred, classes.Scan[0][0]))

	require.Len(classes.Const, 1)
	require.True(Equals(constPred, classes.Const[0]))
}

func TestGroupPredicatesRejectsSubquery(t *testing.T) {
	require := require.New(t)

	q := sql.NewQuery()
	q.AddTargetEntry(sql.NewTargetEntry("x", NewColumnRef(sql.Int, 1, 1, 0), false))
	sub, err := NewSubquery(q)
	require.NoError(err)

	pred := comparison(t, sql.OpEquals, NewColumnRef(sql.Int.NotNull(), 2, 1, 0), sub)

	_, err = GroupPredicates(pred)
	require.Error(err)
	require.True(sql.ErrUnsupportedExpr.Is(err))
}

func TestNormalizeSimplePredicate(t *testing.T) {
	require := require.New(t)

	col := NewColumnRef(sql.Int.NotNull(), 1, 1, 2)
	lit := NewLiteral(int64(5), sql.Int.NotNull())

	// column already left: kept as is
	norm, idx, ok := NormalizeSimplePredicate(comparison(t, sql.OpLess, col, lit))
	require.True(ok)
	require.Equal(2, idx)
	b := norm.(*BinaryExpr)
	require.Equal(sql.OpLess, b.Op())
	require.True(Equals(col, b.Left()))

	// column on the right: swapped, operator flipped
	norm, idx, ok = NormalizeSimplePredicate(comparison(t, sql.OpLess, lit, col))
	require.True(ok)
	require.Equal(2, idx)
	b = norm.(*BinaryExpr)
	require.Equal(sql.OpGreater, b.Op())
	require.True(Equals(col, b.Left()))
	require.True(Equals(lit, b.Right()))

	// two columns: not applicable
	_, _, ok = NormalizeSimplePredicate(comparison(t, sql.OpEquals, col, NewColumnRef(sql.Int.NotNull(), 1, 2, 2)))
	require.False(ok)

	// not a comparison: not applicable
	and, err := NewAnd(
		comparison(t, sql.OpLess, col, lit),
		comparison(t, sql.OpGreater, DeepCopy(col), NewLiteral(int64(0), sql.Int.NotNull())))
	require.NoError(err)
	_, _, ok = NormalizeSimplePredicate(and)
	require.False(ok)
}
