package sql

// RangeTblEntry is one FROM-clause participant: a range variable
// alias, the catalog table or view it names, the analyzed sub-query
// for views, and a lazily populated cache of resolved column
// descriptors.
//
// The cache is append-only within one analysis: a miss triggers a
// catalog lookup and a cache insert; a failed lookup does not mutate
// the cache. It is owned by the single thread constructing the
// enclosing Query and must be fully populated before the Query is
// shared.
type RangeTblEntry struct {
	rangeVar    string
	tableDesc   *TableDescriptor
	viewQuery   *Query
	columnDescs []*ColumnDescriptor
}

// NewRangeTblEntry creates a range table entry for a table or view.
// viewQuery is nil for base tables.
func NewRangeTblEntry(rangeVar string, tableDesc *TableDescriptor, viewQuery *Query) *RangeTblEntry {
	return &RangeTblEntry{
		rangeVar:  rangeVar,
		tableDesc: tableDesc,
		viewQuery: viewQuery,
	}
}

// RangeVar returns the range variable alias, e.g. "e" in "FROM emp e".
func (rte *RangeTblEntry) RangeVar() string { return rte.rangeVar }

// TableID returns the catalog id of the referenced table.
func (rte *RangeTblEntry) TableID() int32 { return rte.tableDesc.ID }

// TableName returns the catalog name of the referenced table.
func (rte *RangeTblEntry) TableName() string { return rte.tableDesc.Name }

// TableDesc returns the catalog descriptor. Owned by the catalog.
func (rte *RangeTblEntry) TableDesc() *TableDescriptor { return rte.tableDesc }

// ViewQuery returns the analyzed query of a view reference, or nil.
func (rte *RangeTblEntry) ViewQuery() *Query { return rte.viewQuery }

// ColumnDescs returns the descriptors resolved so far, in resolution
// order.
func (rte *RangeTblEntry) ColumnDescs() []*ColumnDescriptor { return rte.columnDescs }

// ResolveColumn returns the descriptor for the named column, checking
// the cache first and falling back to a catalog lookup on a miss. The
// descriptor is cached on success; a failed lookup leaves the cache
// untouched.
func (rte *RangeTblEntry) ResolveColumn(catalog Catalog, name string) (*ColumnDescriptor, error) {
	for _, cd := range rte.columnDescs {
		if cd.Name == name {
			return cd, nil
		}
	}

	cd, err := catalog.Column(rte.tableDesc.ID, name)
	if err != nil {
		return nil, err
	}

	rte.columnDescs = append(rte.columnDescs, cd)
	return cd, nil
}

// AddAllColumnDescriptors eagerly populates the cache with every
// column of the table, in catalog-defined order. Used when the whole
// row is needed downstream.
func (rte *RangeTblEntry) AddAllColumnDescriptors(catalog Catalog) error {
	cds, err := catalog.Columns(rte.tableDesc.ID)
	if err != nil {
		return err
	}

	for _, cd := range cds {
		cached := false
		for _, have := range rte.columnDescs {
			if have.ColumnID == cd.ColumnID {
				cached = true
				break
			}
		}
		if !cached {
			rte.columnDescs = append(rte.columnDescs, cd)
		}
	}

	return nil
}
