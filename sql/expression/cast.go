package expression

import (
	"github.com/quillondb/go-sql-analyzer/sql"
)

// AddCast returns an expression of the target type equivalent to e.
// Constants are converted at the value level, failing when the
// conversion would be lossy. CASE expressions distribute the cast into
// every branch result so the execution engine never casts a CASE
// output as a whole. Every other variant is wrapped in a CAST node.
func AddCast(e sql.Expression, target sql.Type) (sql.Expression, error) {
	if e.Type().Equals(target) {
		return e, nil
	}
	if !castable(e.Type(), target) {
		return nil, sql.ErrInvalidCast.New(e.Type(), target)
	}

	switch e := e.(type) {
	case *Literal:
		return e.cast(target)

	case *Case:
		branches := make([]WhenThen, len(e.branches))
		for i, b := range e.branches {
			then, err := AddCast(b.Then, target)
			if err != nil {
				return nil, err
			}
			branches[i] = WhenThen{When: b.When, Then: then}
		}
		elseResult := e.elseResult
		if elseResult != nil {
			var err error
			elseResult, err = AddCast(elseResult, target)
			if err != nil {
				return nil, err
			}
		}
		return newCaseWithType(target, branches, elseResult), nil
	}

	return NewCast(e, target), nil
}

// castable reports whether an implicit or explicit cast between the
// two type families is defined at all. Value-range checks happen at
// execution time, except for constants which are checked at analysis.
func castable(from, to sql.Type) bool {
	switch {
	case from.IsNull():
		return true
	case from.IsNumeric():
		return to.IsNumeric() || to.IsString() || to.IsBoolean()
	case from.IsString():
		return true
	case from.IsDateTime():
		return to.IsDateTime() || to.IsString() || to.IsInteger()
	case from.IsBoolean():
		return to.IsBoolean() || to.IsNumeric() || to.IsString()
	}
	return false
}

// Decompress rewrites an expression whose type carries a storage
// encoding into one producing the plain decoded type, wrapping it in a
// CAST when needed. Expressions without an encoding pass through
// unchanged.
func Decompress(e sql.Expression) sql.Expression {
	if e.Type().Encoding == sql.EncodingNone {
		return e
	}
	return NewCast(e, e.Type().Decoded())
}
