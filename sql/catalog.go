package sql

// TableDescriptor identifies a table or view in the catalog. Owned by
// the catalog; range table entries hold references, never copies.
type TableDescriptor struct {
	ID      int32
	Name    string
	IsView  bool
	ViewSQL string
}

// ColumnDescriptor carries the stable column id and type of one column
// of a catalog table.
type ColumnDescriptor struct {
	TableID  int32
	ColumnID int32
	Name     string
	Type     Type
}

// Catalog is the read-only schema store the analyzer resolves names
// against. Lookups are synchronous; a failed lookup returns one of the
// resolution error kinds.
type Catalog interface {
	// Table resolves a table or view by name.
	Table(name string) (*TableDescriptor, error)
	// Column resolves one column of a table by name.
	Column(tableID int32, name string) (*ColumnDescriptor, error)
	// Columns returns all columns of a table in catalog-defined order.
	Columns(tableID int32) ([]*ColumnDescriptor, error)
}
