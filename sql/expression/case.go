package expression

import (
	"fmt"
	"strings"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// WhenThen is one branch of a CASE expression.
type WhenThen struct {
	When sql.Expression
	Then sql.Expression
}

// Case is a searched CASE expression. All result expressions share a
// common promoted type computed at construction; branches whose result
// type differs are wrapped in implicit casts.
type Case struct {
	typ         sql.Type
	branches    []WhenThen
	elseResult  sql.Expression // nil when no ELSE clause
	containsAgg bool
}

var _ sql.Expression = (*Case)(nil)

// NewCase creates a CASE expression from at least one WHEN/THEN branch
// and an optional ELSE result.
func NewCase(branches []WhenThen, elseResult sql.Expression) (*Case, error) {
	if len(branches) == 0 {
		return nil, sql.ErrUnsupportedExpr.New("CASE without branches")
	}

	typ := branches[0].Then.Type()
	for _, b := range branches {
		if !b.When.Type().IsBoolean() && !b.When.Type().IsNull() {
			return nil, sql.ErrInvalidCast.New(b.When.Type(), sql.Boolean)
		}
	}
	for _, b := range branches[1:] {
		common, err := sql.CommonType(typ, b.Then.Type())
		if err != nil {
			return nil, err
		}
		typ = common
	}
	if elseResult != nil {
		common, err := sql.CommonType(typ, elseResult.Type())
		if err != nil {
			return nil, err
		}
		typ = common
	} else {
		// A missing ELSE yields NULL when no branch fires.
		typ = typ.AsNullable()
	}

	cast := make([]WhenThen, len(branches))
	for i, b := range branches {
		then, err := castOperand(b.Then, typ.WithNullable(b.Then.Type().Nullable))
		if err != nil {
			return nil, err
		}
		cast[i] = WhenThen{When: b.When, Then: then}
	}
	if elseResult != nil {
		var err error
		elseResult, err = castOperand(elseResult, typ.WithNullable(elseResult.Type().Nullable))
		if err != nil {
			return nil, err
		}
	}

	return newCaseWithType(typ, cast, elseResult), nil
}

func newCaseWithType(typ sql.Type, branches []WhenThen, elseResult sql.Expression) *Case {
	children := make([]sql.Expression, 0, len(branches)*2+1)
	for _, b := range branches {
		children = append(children, b.When, b.Then)
	}
	children = append(children, elseResult)
	return &Case{
		typ:         typ,
		branches:    branches,
		elseResult:  elseResult,
		containsAgg: sql.ExpressionsContainAgg(children...),
	}
}

// Branches returns the ordered WHEN/THEN pairs.
func (c *Case) Branches() []WhenThen { return c.branches }

// Else returns the ELSE result, or nil.
func (c *Case) Else() sql.Expression { return c.elseResult }

// Type implements the sql.Expression interface.
func (c *Case) Type() sql.Type { return c.typ }

// ContainsAgg implements the sql.Expression interface.
func (c *Case) ContainsAgg() bool { return c.containsAgg }

// Children implements the sql.Expression interface. Branch conditions
// and results alternate, with the ELSE result last when present.
func (c *Case) Children() []sql.Expression {
	children := make([]sql.Expression, 0, len(c.branches)*2+1)
	for _, b := range c.branches {
		children = append(children, b.When, b.Then)
	}
	if c.elseResult != nil {
		children = append(children, c.elseResult)
	}
	return children
}

func (c *Case) String() string {
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, b := range c.branches {
		fmt.Fprintf(&sb, " WHEN %s THEN %s", b.When, b.Then)
	}
	if c.elseResult != nil {
		fmt.Fprintf(&sb, " ELSE %s", c.elseResult)
	}
	sb.WriteString(" END")
	return sb.String()
}
