package expression

import (
	"fmt"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// CharLength is CHAR_LENGTH or LENGTH over a string expression. When
// calcEncodedLength is set the function counts encoded bytes instead
// of characters.
type CharLength struct {
	arg               sql.Expression
	calcEncodedLength bool
}

var _ sql.Expression = (*CharLength)(nil)

// NewCharLength creates a string length call. The argument must be of
// a string type.
func NewCharLength(arg sql.Expression, calcEncodedLength bool) (*CharLength, error) {
	if !arg.Type().IsString() {
		return nil, sql.ErrInvalidCast.New(arg.Type(), "string")
	}
	return &CharLength{arg: arg, calcEncodedLength: calcEncodedLength}, nil
}

// Arg returns the string operand.
func (c *CharLength) Arg() sql.Expression { return c.arg }

// CalcEncodedLength reports whether the call counts bytes rather than
// characters.
func (c *CharLength) CalcEncodedLength() bool { return c.calcEncodedLength }

// Type implements the sql.Expression interface.
func (c *CharLength) Type() sql.Type {
	return sql.Int.WithNullable(c.arg.Type().Nullable)
}

// ContainsAgg implements the sql.Expression interface.
func (c *CharLength) ContainsAgg() bool { return c.arg.ContainsAgg() }

// Children implements the sql.Expression interface.
func (c *CharLength) Children() []sql.Expression { return []sql.Expression{c.arg} }

func (c *CharLength) String() string {
	if c.calcEncodedLength {
		return fmt.Sprintf("LENGTH(%s)", c.arg)
	}
	return fmt.Sprintf("CHAR_LENGTH(%s)", c.arg)
}
