package sql

// Op is the operator tag shared by unary and binary operator nodes.
type Op byte

const (
	OpNone Op = iota

	// comparison operators
	OpEquals
	OpNotEquals
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq

	// logical operators
	OpAnd
	OpOr
	OpNot

	// arithmetic operators
	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpModulo

	// unary operators
	OpUnaryMinus
	OpIsNull
	OpExists
	OpCast
)

// IsComparison reports whether op is a comparison operator.
func (op Op) IsComparison() bool {
	return op >= OpEquals && op <= OpGreaterEq
}

// IsLogic reports whether op is a boolean connective.
func (op Op) IsLogic() bool {
	return op == OpAnd || op == OpOr || op == OpNot
}

// IsArithmetic reports whether op is an arithmetic operator.
func (op Op) IsArithmetic() bool {
	return op >= OpPlus && op <= OpModulo
}

// Flip returns the comparison operator with its operands swapped, e.g.
// a < b becomes b > a. Non-comparison operators are returned as-is.
func (op Op) Flip() Op {
	switch op {
	case OpLess:
		return OpGreater
	case OpGreater:
		return OpLess
	case OpLessEq:
		return OpGreaterEq
	case OpGreaterEq:
		return OpLessEq
	}
	return op
}

func (op Op) String() string {
	switch op {
	case OpEquals:
		return "="
	case OpNotEquals:
		return "<>"
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpUnaryMinus:
		return "-"
	case OpIsNull:
		return "IS NULL"
	case OpExists:
		return "EXISTS"
	case OpCast:
		return "CAST"
	}
	return "?"
}

// Qualifier modifies a comparison whose right operand is a subquery.
type Qualifier byte

const (
	QualOne Qualifier = iota
	QualAny
	QualAll
)

func (q Qualifier) String() string {
	switch q {
	case QualAny:
		return "ANY"
	case QualAll:
		return "ALL"
	}
	return ""
}

// AggKind identifies a builtin SQL aggregate.
type AggKind byte

const (
	AggAvg AggKind = iota
	AggMin
	AggMax
	AggSum
	AggCount
)

func (a AggKind) String() string {
	switch a {
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	case AggSum:
		return "SUM"
	case AggCount:
		return "COUNT"
	}
	return "?"
}

// DateField names a component for EXTRACT and a truncation unit for
// DATE_TRUNC.
type DateField byte

const (
	FieldYear DateField = iota
	FieldQuarter
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
	FieldMillennium
	FieldCentury
	FieldDecade
	FieldWeek
	FieldDayOfWeek
	FieldDayOfYear
	FieldEpoch
)

func (f DateField) String() string {
	switch f {
	case FieldYear:
		return "YEAR"
	case FieldQuarter:
		return "QUARTER"
	case FieldMonth:
		return "MONTH"
	case FieldDay:
		return "DAY"
	case FieldHour:
		return "HOUR"
	case FieldMinute:
		return "MINUTE"
	case FieldSecond:
		return "SECOND"
	case FieldMillennium:
		return "MILLENNIUM"
	case FieldCentury:
		return "CENTURY"
	case FieldDecade:
		return "DECADE"
	case FieldWeek:
		return "WEEK"
	case FieldDayOfWeek:
		return "DOW"
	case FieldDayOfYear:
		return "DOY"
	case FieldEpoch:
		return "EPOCH"
	}
	return "?"
}

// ParseDateField resolves a field name as spelled in a query.
func ParseDateField(name string) (DateField, bool) {
	switch name {
	case "year":
		return FieldYear, true
	case "quarter":
		return FieldQuarter, true
	case "month":
		return FieldMonth, true
	case "day":
		return FieldDay, true
	case "hour":
		return FieldHour, true
	case "minute":
		return FieldMinute, true
	case "second":
		return FieldSecond, true
	case "millennium":
		return FieldMillennium, true
	case "century":
		return FieldCentury, true
	case "decade":
		return FieldDecade, true
	case "week":
		return FieldWeek, true
	case "dow":
		return FieldDayOfWeek, true
	case "doy":
		return FieldDayOfYear, true
	case "epoch":
		return FieldEpoch, true
	}
	return 0, false
}

// StmtType is the statement kind of an analyzed query.
type StmtType byte

const (
	StmtSelect StmtType = iota
	StmtInsert
	StmtUpdate
	StmtDelete
)

func (s StmtType) String() string {
	switch s {
	case StmtSelect:
		return "SELECT"
	case StmtInsert:
		return "INSERT"
	case StmtUpdate:
		return "UPDATE"
	case StmtDelete:
		return "DELETE"
	}
	return "?"
}

// WhichRow tags a Var with the plan-node row it projects from.
type WhichRow byte

const (
	OuterRow WhichRow = iota
	InnerRow
	OutputRow
	GroupByRow
)

func (w WhichRow) String() string {
	switch w {
	case OuterRow:
		return "outer"
	case InnerRow:
		return "inner"
	case OutputRow:
		return "output"
	case GroupByRow:
		return "groupby"
	}
	return "?"
}
