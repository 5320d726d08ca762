package sql

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExpr struct {
	name string
	typ  Type
}

func (f *fakeExpr) Type() Type            { return f.typ }
func (f *fakeExpr) ContainsAgg() bool     { return false }
func (f *fakeExpr) Children() []Expression { return nil }
func (f *fakeExpr) String() string        { return f.name }

type fakeCatalog struct {
	tables  map[string]*TableDescriptor
	columns map[int32][]*ColumnDescriptor
	lookups int
}

func (c *fakeCatalog) Table(name string) (*TableDescriptor, error) {
	td, ok := c.tables[name]
	if !ok {
		return nil, ErrTableNotFound.New(name)
	}
	return td, nil
}

func (c *fakeCatalog) Column(tableID int32, name string) (*ColumnDescriptor, error) {
	c.lookups++
	for _, cd := range c.columns[tableID] {
		if cd.Name == name {
			return cd, nil
		}
	}
	return nil, ErrColumnNotFound.New(fmt.Sprint(tableID), name)
}

func (c *fakeCatalog) Columns(tableID int32) ([]*ColumnDescriptor, error) {
	return c.columns[tableID], nil
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tables: map[string]*TableDescriptor{
			"emp": {ID: 1, Name: "emp"},
		},
		columns: map[int32][]*ColumnDescriptor{
			1: {
				{TableID: 1, ColumnID: 1, Name: "empno", Type: Int.NotNull()},
				{TableID: 1, ColumnID: 2, Name: "ename", Type: Text},
				{TableID: 1, ColumnID: 3, Name: "sal", Type: DecimalType(10, 2)},
			},
		},
	}
}

func TestQueryAccumulators(t *testing.T) {
	require := require.New(t)

	q := NewQuery()
	require.Equal(StmtSelect, q.StmtType())

	catalog := newFakeCatalog()
	td, err := catalog.Table("emp")
	require.NoError(err)

	idx := q.AddRangeTblEntry(NewRangeTblEntry("e", td, nil))
	require.Equal(0, idx)
	idx = q.AddRangeTblEntry(NewRangeTblEntry("f", td, nil))
	require.Equal(1, idx)

	slot := q.AddTargetEntry(NewTargetEntry("a", &fakeExpr{name: "a", typ: Int}, false))
	require.Equal(0, slot)
	slot = q.AddTargetEntry(NewTargetEntry("b", &fakeExpr{name: "b", typ: Int}, false))
	require.Equal(1, slot)
	require.Len(q.TargetList(), 2)
}

func TestResolveRangeIndexMostRecentWins(t *testing.T) {
	require := require.New(t)

	catalog := newFakeCatalog()
	td, err := catalog.Table("emp")
	require.NoError(err)

	q := NewQuery()
	q.AddRangeTblEntry(NewRangeTblEntry("e", td, nil))
	q.AddRangeTblEntry(NewRangeTblEntry("f", td, nil))
	q.AddRangeTblEntry(NewRangeTblEntry("e", td, nil))

	idx, err := q.ResolveRangeIndex("e")
	require.NoError(err)
	require.Equal(2, idx)

	idx, err = q.ResolveRangeIndex("f")
	require.NoError(err)
	require.Equal(1, idx)

	_, err = q.ResolveRangeIndex("missing")
	require.Error(err)
	require.True(ErrRangeVarNotFound.Is(err))
}

func TestRangeTblEntryColumnCache(t *testing.T) {
	require := require.New(t)

	catalog := newFakeCatalog()
	td, err := catalog.Table("emp")
	require.NoError(err)
	rte := NewRangeTblEntry("e", td, nil)

	cd, err := rte.ResolveColumn(catalog, "ename")
	require.NoError(err)
	require.Equal(int32(2), cd.ColumnID)
	require.Equal(1, catalog.lookups)

	// second resolution hits the cache, not the catalog
	cd2, err := rte.ResolveColumn(catalog, "ename")
	require.NoError(err)
	require.True(cd == cd2)
	require.Equal(1, catalog.lookups)

	// a failed lookup leaves the cache untouched
	_, err = rte.ResolveColumn(catalog, "nope")
	require.Error(err)
	require.True(ErrColumnNotFound.Is(err))
	require.Len(rte.ColumnDescs(), 1)
}

func TestAddAllColumnDescriptors(t *testing.T) {
	require := require.New(t)

	catalog := newFakeCatalog()
	td, err := catalog.Table("emp")
	require.NoError(err)
	rte := NewRangeTblEntry("e", td, nil)

	// pre-resolve one column, then add the rest without duplicating it
	_, err = rte.ResolveColumn(catalog, "sal")
	require.NoError(err)

	require.NoError(rte.AddAllColumnDescriptors(catalog))
	require.Len(rte.ColumnDescs(), 3)
}

func TestFingerprintStability(t *testing.T) {
	require := require.New(t)

	build := func() *Query {
		q := NewQuery()
		q.AddTargetEntry(NewTargetEntry("a", &fakeExpr{name: "a", typ: Int}, false))
		q.SetWhere(&fakeExpr{name: "a > 1", typ: Boolean})
		q.SetLimit(10)
		return q
	}

	h1, err := Fingerprint(build())
	require.NoError(err)
	h2, err := Fingerprint(build())
	require.NoError(err)
	require.Equal(h1, h2)

	other := build()
	other.SetLimit(20)
	h3, err := Fingerprint(other)
	require.NoError(err)
	require.NotEqual(h1, h3)
}
