package expression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillondb/go-sql-analyzer/sql"
)

func TestAddCastLiteralInteger(t *testing.T) {
	require := require.New(t)

	e, err := AddCast(NewLiteral(int64(42), sql.BigInt.NotNull()), sql.SmallInt.NotNull())
	require.NoError(err)
	lit, ok := e.(*Literal)
	require.True(ok, "constants convert in place, no CAST node")
	require.Equal(sql.SmallInt.NotNull(), lit.Type())
	require.Equal(int64(42), lit.Value())

	_, err = AddCast(NewLiteral(int64(40000), sql.BigInt.NotNull()), sql.SmallInt.NotNull())
	require.Error(err)
	require.True(sql.ErrLossyCast.Is(err))
}

func TestAddCastLiteralString(t *testing.T) {
	require := require.New(t)

	e, err := AddCast(NewLiteral("123", sql.Text.NotNull()), sql.Int.NotNull())
	require.NoError(err)
	require.Equal(int64(123), e.(*Literal).Value())

	_, err = AddCast(NewLiteral("abc", sql.Text.NotNull()), sql.Int.NotNull())
	require.Error(err)
	require.True(sql.ErrLossyCast.Is(err))

	e, err = AddCast(NewLiteral("2024-05-06", sql.Text.NotNull()), sql.Date.NotNull())
	require.NoError(err)
	ts, ok := e.(*Literal).Value().(time.Time)
	require.True(ok)
	require.Equal(2024, ts.Year())
	require.Equal(time.May, ts.Month())
}

func TestAddCastLiteralFloat(t *testing.T) {
	require := require.New(t)

	e, err := AddCast(NewLiteral(float64(2), sql.Double.NotNull()), sql.Int.NotNull())
	require.NoError(err)
	require.Equal(int64(2), e.(*Literal).Value())

	_, err = AddCast(NewLiteral(1.5, sql.Double.NotNull()), sql.Int.NotNull())
	require.Error(err)
	require.True(sql.ErrLossyCast.Is(err))
}

func TestAddCastLiteralDecimal(t *testing.T) {
	require := require.New(t)

	// 1.50 rescaled to three fractional digits
	e, err := AddCast(NewLiteral(int64(150), sql.DecimalType(10, 2).NotNull()), sql.DecimalType(10, 3).NotNull())
	require.NoError(err)
	require.Equal(int64(1500), e.(*Literal).Value())

	// 2.00 narrows to an integer exactly
	e, err = AddCast(NewLiteral(int64(200), sql.DecimalType(10, 2).NotNull()), sql.Int.NotNull())
	require.NoError(err)
	require.Equal(int64(2), e.(*Literal).Value())

	// 1.50 does not
	_, err = AddCast(NewLiteral(int64(150), sql.DecimalType(10, 2).NotNull()), sql.Int.NotNull())
	require.Error(err)
	require.True(sql.ErrLossyCast.Is(err))
}

func TestAddCastWrapsNonConstants(t *testing.T) {
	require := require.New(t)

	col := NewColumnRef(sql.Int, 1, 1, 0)
	e, err := AddCast(col, sql.Double)
	require.NoError(err)

	cast, ok := e.(*UnaryExpr)
	require.True(ok)
	require.Equal(sql.OpCast, cast.Op())
	require.Equal(sql.Double, cast.Type())
	require.True(Equals(col, cast.Operand()))
}

func TestAddCastDistributesIntoCase(t *testing.T) {
	require := require.New(t)

	cond, err := NewBinaryExpr(sql.OpGreater, sql.QualOne,
		NewColumnRef(sql.Int.NotNull(), 1, 1, 0),
		NewLiteral(int64(0), sql.Int.NotNull()))
	require.NoError(err)

	c, err := NewCase(
		[]WhenThen{{When: cond, Then: NewLiteral(int64(1), sql.Int.NotNull())}},
		NewLiteral(int64(2), sql.Int.NotNull()),
	)
	require.NoError(err)

	e, err := AddCast(c, sql.Double.NotNull())
	require.NoError(err)

	distributed, ok := e.(*Case)
	require.True(ok, "casting a CASE distributes into its branches")
	require.Equal(sql.Double.NotNull(), distributed.Type())

	then := distributed.Branches()[0].Then.(*Literal)
	require.Equal(sql.KindDouble, then.Type().Base)
	require.Equal(float64(1), then.Value())

	elseLit := distributed.Else().(*Literal)
	require.Equal(float64(2), elseLit.Value())
}

func TestAddCastIncompatibleFamilies(t *testing.T) {
	require := require.New(t)

	_, err := AddCast(NewColumnRef(sql.Date, 1, 1, 0), sql.Boolean)
	require.Error(err)
	require.True(sql.ErrInvalidCast.Is(err))
}

func TestDecompress(t *testing.T) {
	require := require.New(t)

	plain := NewColumnRef(sql.Text, 1, 1, 0)
	require.Equal(sql.Expression(plain), Decompress(plain))

	encoded := sql.Text
	encoded.Encoding = sql.EncodingDict
	col := NewColumnRef(encoded, 1, 2, 0)

	e := Decompress(col)
	cast, ok := e.(*UnaryExpr)
	require.True(ok)
	require.Equal(sql.OpCast, cast.Op())
	require.Equal(sql.EncodingNone, cast.Type().Encoding)
	require.Equal(sql.Text, cast.Type())
}
