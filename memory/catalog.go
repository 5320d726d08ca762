package memory

import (
	"strings"
	"sync"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// ErrTableAlreadyExists is returned when registering a duplicate table
// or view name.
var ErrTableAlreadyExists = errors.NewKind("table %q already exists")

// Column declares one column when registering a table.
type Column struct {
	Name string
	Type sql.Type
}

// Catalog is an in-memory sql.Catalog. Registration assigns stable
// ids; lookups are case-insensitive and safe for concurrent use.
type Catalog struct {
	mu          sync.RWMutex
	tables      map[string]*sql.TableDescriptor
	columns     map[int32][]*sql.ColumnDescriptor
	nextTableID int32
}

var _ sql.Catalog = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tables:      map[string]*sql.TableDescriptor{},
		columns:     map[int32][]*sql.ColumnDescriptor{},
		nextTableID: 1,
	}
}

// AddTable registers a base table with its columns and returns its
// descriptor.
func (c *Catalog) AddTable(name string, columns []Column) (*sql.TableDescriptor, error) {
	return c.add(&sql.TableDescriptor{Name: strings.ToLower(name)}, columns)
}

// AddView registers a view with its defining query and output columns.
func (c *Catalog) AddView(name, viewSQL string, columns []Column) (*sql.TableDescriptor, error) {
	return c.add(&sql.TableDescriptor{
		Name:    strings.ToLower(name),
		IsView:  true,
		ViewSQL: viewSQL,
	}, columns)
}

func (c *Catalog) add(td *sql.TableDescriptor, columns []Column) (*sql.TableDescriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tables[td.Name]; ok {
		return nil, ErrTableAlreadyExists.New(td.Name)
	}

	td.ID = c.nextTableID
	c.nextTableID++

	cds := make([]*sql.ColumnDescriptor, len(columns))
	for i, col := range columns {
		cds[i] = &sql.ColumnDescriptor{
			TableID:  td.ID,
			ColumnID: int32(i + 1),
			Name:     strings.ToLower(col.Name),
			Type:     col.Type,
		}
	}

	c.tables[td.Name] = td
	c.columns[td.ID] = cds
	return td, nil
}

// Table implements the sql.Catalog interface.
func (c *Catalog) Table(name string) (*sql.TableDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	td, ok := c.tables[strings.ToLower(name)]
	if !ok {
		return nil, sql.ErrTableNotFound.New(name)
	}
	return td, nil
}

// Column implements the sql.Catalog interface.
func (c *Catalog) Column(tableID int32, name string) (*sql.ColumnDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name = strings.ToLower(name)
	for _, cd := range c.columns[tableID] {
		if cd.Name == name {
			return cd, nil
		}
	}
	return nil, sql.ErrColumnNotFound.New(c.tableName(tableID), name)
}

// Columns implements the sql.Catalog interface.
func (c *Catalog) Columns(tableID int32) ([]*sql.ColumnDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cds, ok := c.columns[tableID]
	if !ok {
		return nil, sql.ErrTableNotFound.New(tableID)
	}
	return cds, nil
}

func (c *Catalog) tableName(tableID int32) string {
	for _, td := range c.tables {
		if td.ID == tableID {
			return td.Name
		}
	}
	return "?"
}
