package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillondb/go-sql-analyzer/sql"
)

func TestCatalogRegistration(t *testing.T) {
	require := require.New(t)

	c := NewCatalog()
	td, err := c.AddTable("Emp", []Column{
		{Name: "EmpNo", Type: sql.Int.NotNull()},
		{Name: "ename", Type: sql.Text},
	})
	require.NoError(err)
	require.Equal(int32(1), td.ID)
	require.Equal("emp", td.Name)

	// lookups are case-insensitive
	got, err := c.Table("EMP")
	require.NoError(err)
	require.Equal(td, got)

	cd, err := c.Column(td.ID, "empno")
	require.NoError(err)
	require.Equal(int32(1), cd.ColumnID)
	require.Equal(sql.Int.NotNull(), cd.Type)

	_, err = c.Column(td.ID, "nope")
	require.Error(err)
	require.True(sql.ErrColumnNotFound.Is(err))

	cds, err := c.Columns(td.ID)
	require.NoError(err)
	require.Len(cds, 2)

	_, err = c.AddTable("emp", nil)
	require.Error(err)
	require.True(ErrTableAlreadyExists.Is(err))

	_, err = c.Table("missing")
	require.Error(err)
	require.True(sql.ErrTableNotFound.Is(err))
}

func TestCatalogViews(t *testing.T) {
	require := require.New(t)

	c := NewCatalog()
	td, err := c.AddView("v", "SELECT 1", []Column{{Name: "x", Type: sql.Int}})
	require.NoError(err)
	require.True(td.IsView)
	require.Equal("SELECT 1", td.ViewSQL)
}

func TestLoadSchema(t *testing.T) {
	require := require.New(t)

	doc := []byte(`
tables:
  - name: emp
    columns:
      - name: empno
        type: int
        nullable: false
      - name: ename
        type: varchar(32)
        encoding: dict
      - name: sal
        type: decimal(10,2)
  - name: dept
    columns:
      - name: deptno
        type: int
views:
  - name: hr
    query: SELECT empno, ename FROM emp
    columns:
      - name: empno
        type: int
        nullable: false
      - name: ename
        type: varchar(32)
`)

	c := NewCatalog()
	require.NoError(c.LoadSchema(doc))

	emp, err := c.Table("emp")
	require.NoError(err)

	cd, err := c.Column(emp.ID, "empno")
	require.NoError(err)
	require.False(cd.Type.Nullable)
	require.Equal(sql.KindInt, cd.Type.Base)

	cd, err = c.Column(emp.ID, "ename")
	require.NoError(err)
	require.Equal(sql.KindVarChar, cd.Type.Base)
	require.Equal(32, cd.Type.Length)
	require.Equal(sql.EncodingDict, cd.Type.Encoding)

	cd, err = c.Column(emp.ID, "sal")
	require.NoError(err)
	require.Equal(sql.DecimalType(10, 2), cd.Type)

	hr, err := c.Table("hr")
	require.NoError(err)
	require.True(hr.IsView)
	require.Equal("SELECT empno, ename FROM emp", hr.ViewSQL)
}

func TestLoadSchemaErrors(t *testing.T) {
	require := require.New(t)

	c := NewCatalog()
	require.Error(c.LoadSchema([]byte("tables: {")))

	err := c.LoadSchema([]byte(`
tables:
  - name: t
    columns:
      - name: x
        type: whatever
`))
	require.Error(err)
	require.True(ErrUnknownType.Is(err))
}

func TestParseType(t *testing.T) {
	testCases := []struct {
		in       string
		expected sql.Type
	}{
		{"int", sql.Int},
		{"BIGINT", sql.BigInt},
		{"double precision", sql.Double},
		{"decimal(12, 3)", sql.DecimalType(12, 3)},
		{"char(8)", sql.CharType(8)},
		{"varchar(255)", sql.VarCharType(255)},
		{"text", sql.Text},
		{"timestamp", sql.Timestamp},
		{"bool", sql.Boolean},
	}

	for _, tt := range testCases {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseType("blob")
	require.Error(t, err)
}
