package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"

	"github.com/quillondb/go-sql-analyzer/sql"
)

func TestParse(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	stmt, err := Parse(ctx, "SELECT a FROM t;")
	require.NoError(err)
	_, ok := stmt.(*sqlparser.Select)
	require.True(ok)

	stmt, err = Parse(ctx, "SELECT a FROM t UNION SELECT b FROM u")
	require.NoError(err)
	_, ok = stmt.(*sqlparser.Union)
	require.True(ok)

	stmt, err = Parse(ctx, "INSERT INTO t (a) VALUES (1)")
	require.NoError(err)
	_, ok = stmt.(*sqlparser.Insert)
	require.True(ok)

	_, err = Parse(ctx, "SHOW TABLES")
	require.Error(err)
	require.True(ErrUnsupportedSyntax.Is(err))

	_, err = Parse(ctx, "not sql at all")
	require.Error(err)
}

func TestParseEmptyStatement(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	_, err := Parse(ctx, "   ;")
	require.Error(err)
	require.True(ErrEmptyStatement.Is(err))

	_, err = Parse(ctx, "-- just a comment\n")
	require.Error(err)
	require.True(ErrEmptyStatement.Is(err))
}

func TestRemoveComments(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"SELECT 1 -- trailing", "SELECT 1 "},
		{"SELECT /* inline */ 1", "SELECT  1"},
		{"SELECT '-- not a comment'", "SELECT '-- not a comment'"},
		{"SELECT \"/* kept */\"", "SELECT \"/* kept */\""},
		{"SELECT 1-2", "SELECT 1-2"},
	}

	for _, tt := range testCases {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.expected, removeComments(tt.in))
		})
	}
}

func TestParseExpr(t *testing.T) {
	require := require.New(t)

	e, err := ParseExpr("a + 1")
	require.NoError(err)
	_, ok := e.(*sqlparser.BinaryExpr)
	require.True(ok)

	_, err = ParseExpr("")
	require.Error(err)
}
