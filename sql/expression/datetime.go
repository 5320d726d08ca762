package expression

import (
	"fmt"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// Extract is `EXTRACT(field FROM source)`. The source must be a
// date/time type; the result is a big integer so EPOCH extraction
// never overflows.
type Extract struct {
	field sql.DateField
	from  sql.Expression
}

var _ sql.Expression = (*Extract)(nil)

// NewExtract creates an EXTRACT call over a date/time expression.
func NewExtract(field sql.DateField, from sql.Expression) (*Extract, error) {
	if !from.Type().IsDateTime() {
		return nil, sql.ErrInvalidCast.New(from.Type(), "datetime")
	}
	return &Extract{field: field, from: from}, nil
}

// Field returns the extracted component.
func (e *Extract) Field() sql.DateField { return e.field }

// From returns the source expression.
func (e *Extract) From() sql.Expression { return e.from }

// Type implements the sql.Expression interface.
func (e *Extract) Type() sql.Type {
	return sql.BigInt.WithNullable(e.from.Type().Nullable)
}

// ContainsAgg implements the sql.Expression interface.
func (e *Extract) ContainsAgg() bool { return e.from.ContainsAgg() }

// Children implements the sql.Expression interface.
func (e *Extract) Children() []sql.Expression { return []sql.Expression{e.from} }

func (e *Extract) String() string {
	return fmt.Sprintf("EXTRACT(%s FROM %s)", e.field, e.from)
}

// DateTrunc is `DATE_TRUNC(field, source)`: it truncates a date/time
// value down to the given unit and keeps the source's type.
type DateTrunc struct {
	field sql.DateField
	from  sql.Expression
}

var _ sql.Expression = (*DateTrunc)(nil)

// NewDateTrunc creates a DATE_TRUNC call over a date/time expression.
func NewDateTrunc(field sql.DateField, from sql.Expression) (*DateTrunc, error) {
	if !from.Type().IsDateTime() {
		return nil, sql.ErrInvalidCast.New(from.Type(), "datetime")
	}
	return &DateTrunc{field: field, from: from}, nil
}

// Field returns the truncation unit.
func (d *DateTrunc) Field() sql.DateField { return d.field }

// From returns the source expression.
func (d *DateTrunc) From() sql.Expression { return d.from }

// Type implements the sql.Expression interface.
func (d *DateTrunc) Type() sql.Type { return d.from.Type() }

// ContainsAgg implements the sql.Expression interface.
func (d *DateTrunc) ContainsAgg() bool { return d.from.ContainsAgg() }

// Children implements the sql.Expression interface.
func (d *DateTrunc) Children() []sql.Expression { return []sql.Expression{d.from} }

func (d *DateTrunc) String() string {
	return fmt.Sprintf("DATE_TRUNC(%s, %s)", d.field, d.from)
}
