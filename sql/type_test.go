package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonTypeNumeric(t *testing.T) {
	testCases := []struct {
		name     string
		left     Type
		right    Type
		expected Type
	}{
		{"smallint and int", SmallInt, Int, Int},
		{"int and bigint", Int, BigInt, BigInt},
		{"bigint and float", BigInt, Float, Float},
		{"int and double", Int, Double, Double},
		{"float and double", Float, Double, Double},
		{"decimal and float", DecimalType(10, 2), Float, Double},
		{"decimal and decimal", DecimalType(10, 2), DecimalType(6, 4), DecimalType(12, 4)},
		{"int and decimal", Int, DecimalType(10, 2), DecimalType(12, 2)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			got, err := CommonType(tt.left, tt.right)
			require.NoError(err)
			require.Equal(tt.expected, got)

			// promotion is symmetric
			got, err = CommonType(tt.right, tt.left)
			require.NoError(err)
			require.Equal(tt.expected, got)
		})
	}
}

func TestCommonTypeStrings(t *testing.T) {
	require := require.New(t)

	got, err := CommonType(CharType(8), Text)
	require.NoError(err)
	require.Equal(Text, got)

	got, err = CommonType(CharType(8), CharType(8))
	require.NoError(err)
	require.Equal(CharType(8), got)

	got, err = CommonType(CharType(8), CharType(16))
	require.NoError(err)
	require.Equal(VarCharType(16), got)

	got, err = CommonType(CharType(8), VarCharType(4))
	require.NoError(err)
	require.Equal(VarCharType(8), got)
}

func TestCommonTypeDateTime(t *testing.T) {
	require := require.New(t)

	got, err := CommonType(Date, Timestamp)
	require.NoError(err)
	require.Equal(Timestamp, got)

	_, err = CommonType(Time, Date)
	require.Error(err)
	require.True(ErrNoCommonType.Is(err))
}

func TestCommonTypeNullability(t *testing.T) {
	require := require.New(t)

	got, err := CommonType(Int.NotNull(), BigInt.NotNull())
	require.NoError(err)
	require.False(got.Nullable)

	got, err = CommonType(Int.NotNull(), BigInt)
	require.NoError(err)
	require.True(got.Nullable)

	// NULL unifies with anything
	got, err = CommonType(Null, Int.NotNull())
	require.NoError(err)
	require.Equal(Int, got)
}

func TestCommonTypeIncompatible(t *testing.T) {
	require := require.New(t)

	_, err := CommonType(Int, Text)
	require.Error(err)
	require.True(ErrNoCommonType.Is(err))

	_, err = CommonType(Boolean, Timestamp)
	require.Error(err)
	require.True(ErrNoCommonType.Is(err))
}
