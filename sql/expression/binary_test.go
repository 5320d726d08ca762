package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillondb/go-sql-analyzer/sql"
)

func TestBinaryArithmeticPromotion(t *testing.T) {
	require := require.New(t)

	left := NewColumnRef(sql.Int.NotNull(), 1, 1, 0)
	right := NewColumnRef(sql.Double.NotNull(), 1, 2, 0)

	e, err := NewBinaryExpr(sql.OpPlus, sql.QualOne, left, right)
	require.NoError(err)

	b := e.(*BinaryExpr)
	require.Equal(sql.Double.NotNull(), b.Type())

	// the narrower operand got an implicit cast
	cast, ok := b.Left().(*UnaryExpr)
	require.True(ok)
	require.Equal(sql.OpCast, cast.Op())
	require.Equal(sql.KindDouble, cast.Type().Base)

	// the wider one did not
	require.True(Equals(right, b.Right()))
}

func TestBinaryComparisonType(t *testing.T) {
	require := require.New(t)

	left := NewColumnRef(sql.Int, 1, 1, 0)
	right := NewLiteral(int64(5), sql.BigInt.NotNull())

	e, err := NewBinaryExpr(sql.OpLess, sql.QualOne, left, right)
	require.NoError(err)
	require.Equal(sql.KindBoolean, e.Type().Base)
	require.True(e.Type().Nullable, "nullable operand propagates")
}

func TestBinaryComparisonCrossFamily(t *testing.T) {
	require := require.New(t)

	col := NewColumnRef(sql.Int.NotNull(), 1, 1, 0)

	// a string literal re-parses into the column's type
	e, err := NewBinaryExpr(sql.OpEquals, sql.QualOne, col, NewLiteral("7", sql.Text.NotNull()))
	require.NoError(err)
	lit, ok := e.(*BinaryExpr).Right().(*Literal)
	require.True(ok)
	require.Equal(int64(7), lit.Value())
	require.True(lit.Type().IsInteger())

	// a non-numeric literal does not
	_, err = NewBinaryExpr(sql.OpEquals, sql.QualOne, col, NewLiteral("abc", sql.Text.NotNull()))
	require.Error(err)
	require.True(sql.ErrNoCommonType.Is(err))

	// and neither does a string column
	_, err = NewBinaryExpr(sql.OpEquals, sql.QualOne, col, NewColumnRef(sql.Text, 1, 2, 0))
	require.Error(err)
	require.True(sql.ErrNoCommonType.Is(err))
}

func TestBinaryLogicRequiresBoolean(t *testing.T) {
	require := require.New(t)

	boolCol := NewColumnRef(sql.Boolean.NotNull(), 1, 1, 0)

	e, err := NewAnd(boolCol, NewLiteral(true, sql.Boolean.NotNull()))
	require.NoError(err)
	require.Equal(sql.Boolean.NotNull(), e.Type())

	_, err = NewAnd(boolCol, NewColumnRef(sql.Int, 1, 2, 0))
	require.Error(err)
	require.True(sql.ErrInvalidCast.Is(err))
}

func TestUnaryTypes(t *testing.T) {
	require := require.New(t)

	col := NewColumnRef(sql.Int, 1, 1, 0)

	isNull, err := NewUnaryExpr(sql.OpIsNull, col)
	require.NoError(err)
	require.Equal(sql.Boolean.NotNull(), isNull.Type(), "IS NULL never yields NULL")

	neg, err := NewUnaryExpr(sql.OpUnaryMinus, col)
	require.NoError(err)
	require.Equal(col.Type(), neg.Type())

	_, err = NewUnaryExpr(sql.OpUnaryMinus, NewColumnRef(sql.Text, 1, 2, 0))
	require.Error(err)

	_, err = NewUnaryExpr(sql.OpNot, col)
	require.Error(err)
}

func TestAggExprTypes(t *testing.T) {
	require := require.New(t)

	col := NewColumnRef(sql.Int, 1, 1, 0)

	count, err := NewAggExpr(sql.AggCount, nil, false)
	require.NoError(err)
	require.Equal(sql.BigInt.NotNull(), count.Type(), "COUNT(*) is never NULL")
	require.True(count.ContainsAgg())

	avg, err := NewAggExpr(sql.AggAvg, col, false)
	require.NoError(err)
	require.Equal(sql.Double, avg.Type())

	sum, err := NewAggExpr(sql.AggSum, col, true)
	require.NoError(err)
	require.Equal(sql.BigInt, sum.Type())
	require.True(sum.IsDistinct())

	max, err := NewAggExpr(sql.AggMax, col, false)
	require.NoError(err)
	require.Equal(col.Type(), max.Type())

	_, err = NewAggExpr(sql.AggAvg, NewColumnRef(sql.Text, 1, 2, 0), false)
	require.Error(err)
}

func TestCaseCommonType(t *testing.T) {
	require := require.New(t)

	cond, err := NewBinaryExpr(sql.OpGreater, sql.QualOne,
		NewColumnRef(sql.Int.NotNull(), 1, 1, 0),
		NewLiteral(int64(0), sql.Int.NotNull()))
	require.NoError(err)

	c, err := NewCase(
		[]WhenThen{{When: cond, Then: NewLiteral(int64(1), sql.Int.NotNull())}},
		NewLiteral(2.5, sql.Double.NotNull()),
	)
	require.NoError(err)
	require.Equal(sql.KindDouble, c.Type().Base)

	// a missing ELSE makes the result nullable
	c, err = NewCase(
		[]WhenThen{{When: DeepCopy(cond), Then: NewLiteral(int64(1), sql.Int.NotNull())}},
		nil,
	)
	require.NoError(err)
	require.True(c.Type().Nullable)
}

func TestLikeAndCharLength(t *testing.T) {
	require := require.New(t)

	col := NewColumnRef(sql.Text, 1, 1, 0)

	like, err := NewLike(col, NewLiteral("%foo%", sql.Text.NotNull()), nil, false, true)
	require.NoError(err)
	require.Equal(sql.KindBoolean, like.Type().Base)
	require.True(like.Type().Nullable)
	require.True(like.IsSimple())

	_, err = NewLike(NewColumnRef(sql.Int, 1, 2, 0), NewLiteral("%x%", sql.Text.NotNull()), nil, false, false)
	require.Error(err)

	length, err := NewCharLength(col, false)
	require.NoError(err)
	require.Equal(sql.Int, length.Type())

	_, err = NewCharLength(NewColumnRef(sql.Int, 1, 2, 0), false)
	require.Error(err)
}

func TestIsSimplePattern(t *testing.T) {
	require := require.New(t)

	require.True(IsSimplePattern("%foo%"))
	require.True(IsSimplePattern("foo%"))
	require.True(IsSimplePattern("%foo"))
	require.True(IsSimplePattern("foo"))
	require.False(IsSimplePattern("%f_o%"))
	require.False(IsSimplePattern("f%o"))
}
