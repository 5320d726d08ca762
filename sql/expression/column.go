package expression

import (
	"fmt"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// ColumnRef references a stored column of a base table scan: the
// catalog table and column ids plus the 0-based index of the table's
// range table entry in the owning query.
type ColumnRef struct {
	typ      sql.Type
	tableID  int32
	columnID int32
	rteIdx   int
}

var _ sql.Expression = (*ColumnRef)(nil)

// NewColumnRef creates a base table column reference.
func NewColumnRef(typ sql.Type, tableID, columnID int32, rteIdx int) *ColumnRef {
	return &ColumnRef{typ: typ, tableID: tableID, columnID: columnID, rteIdx: rteIdx}
}

// NewColumnRefFromDescriptor creates a column reference from a catalog
// descriptor.
func NewColumnRefFromDescriptor(cd *sql.ColumnDescriptor, rteIdx int) *ColumnRef {
	return NewColumnRef(cd.Type, cd.TableID, cd.ColumnID, rteIdx)
}

// TableID returns the catalog table id.
func (c *ColumnRef) TableID() int32 { return c.tableID }

// ColumnID returns the catalog column id.
func (c *ColumnRef) ColumnID() int32 { return c.columnID }

// RangeTableIndex returns the 0-based range table index.
func (c *ColumnRef) RangeTableIndex() int { return c.rteIdx }

// Type implements the sql.Expression interface.
func (c *ColumnRef) Type() sql.Type { return c.typ }

// ContainsAgg implements the sql.Expression interface.
func (c *ColumnRef) ContainsAgg() bool { return false }

// Children implements the sql.Expression interface.
func (c *ColumnRef) Children() []sql.Expression { return nil }

func (c *ColumnRef) String() string {
	return fmt.Sprintf("column(%d.%d)@%d", c.tableID, c.columnID, c.rteIdx)
}

// Var references a column produced by a plan node's output row rather
// than a base table scan. It refines ColumnRef to keep track of the
// column's lineage through the plan; the table id is 0 when the value
// does not correspond to an original column.
type Var struct {
	ColumnRef
	whichRow sql.WhichRow
	varNo    int // 1-based slot in the producing row
}

var _ sql.Expression = (*Var)(nil)

// NewVar creates a Var that still remembers its base column lineage.
func NewVar(typ sql.Type, tableID, columnID int32, rteIdx int, whichRow sql.WhichRow, varNo int) *Var {
	return &Var{
		ColumnRef: ColumnRef{typ: typ, tableID: tableID, columnID: columnID, rteIdx: rteIdx},
		whichRow:  whichRow,
		varNo:     varNo,
	}
}

// NewSyntheticVar creates a Var for a value with no base column
// lineage, e.g. a materialized aggregate result.
func NewSyntheticVar(typ sql.Type, whichRow sql.WhichRow, varNo int) *Var {
	return NewVar(typ, 0, 0, -1, whichRow, varNo)
}

// WhichRow returns the tag of the row this Var projects from.
func (v *Var) WhichRow() sql.WhichRow { return v.whichRow }

// VarNo returns the 1-based slot number in the producing row.
func (v *Var) VarNo() int { return v.varNo }

func (v *Var) String() string {
	return fmt.Sprintf("var(%s:%d)", v.whichRow, v.varNo)
}
