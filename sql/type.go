package sql

import "fmt"

// BaseType enumerates the SQL base types understood by the analyzer.
type BaseType byte

const (
	KindNull BaseType = iota
	KindBoolean
	KindSmallInt
	KindInt
	KindBigInt
	KindFloat
	KindDouble
	KindDecimal
	KindChar
	KindVarChar
	KindText
	KindTime
	KindDate
	KindTimestamp
)

// Encoding is the physical encoding tag carried by a type descriptor.
// The analyzer only needs to know whether a value is encoded; the
// concrete dictionaries live in the storage layer.
type Encoding byte

const (
	EncodingNone Encoding = iota
	EncodingDict
	EncodingFixed
)

// Type is the descriptor attached to every expression node: a SQL base
// type plus dimensions, nullability and encoding. It is an immutable
// value compared by structural equality.
type Type struct {
	Base      BaseType
	Precision int // decimal precision; fractional digits for timestamps
	Scale     int // decimal scale
	Length    int // char/varchar length, 0 means unbounded
	Nullable  bool
	Encoding  Encoding
}

// Common nullable type values. Use NotNull to derive the non-nullable
// variant.
var (
	Null      = Type{Base: KindNull, Nullable: true}
	Boolean   = Type{Base: KindBoolean, Nullable: true}
	SmallInt  = Type{Base: KindSmallInt, Nullable: true}
	Int       = Type{Base: KindInt, Nullable: true}
	BigInt    = Type{Base: KindBigInt, Nullable: true}
	Float     = Type{Base: KindFloat, Nullable: true}
	Double    = Type{Base: KindDouble, Nullable: true}
	Text      = Type{Base: KindText, Nullable: true}
	Time      = Type{Base: KindTime, Nullable: true}
	Date      = Type{Base: KindDate, Nullable: true}
	Timestamp = Type{Base: KindTimestamp, Nullable: true}
)

// DecimalType returns a nullable fixed-point type with the given
// precision and scale.
func DecimalType(precision, scale int) Type {
	return Type{Base: KindDecimal, Precision: precision, Scale: scale, Nullable: true}
}

// CharType returns a nullable fixed-width string type.
func CharType(length int) Type {
	return Type{Base: KindChar, Length: length, Nullable: true}
}

// VarCharType returns a nullable variable-width string type.
func VarCharType(length int) Type {
	return Type{Base: KindVarChar, Length: length, Nullable: true}
}

// NotNull returns a copy of t with nullability removed.
func (t Type) NotNull() Type {
	t.Nullable = false
	return t
}

// AsNullable returns a copy of t that admits NULL.
func (t Type) AsNullable() Type {
	t.Nullable = true
	return t
}

// WithNullable returns a copy of t with the given nullability.
func (t Type) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

// Decoded returns a copy of t with the encoding tag cleared.
func (t Type) Decoded() Type {
	t.Encoding = EncodingNone
	return t
}

// Equals reports structural equality of two type descriptors.
func (t Type) Equals(other Type) bool {
	return t == other
}

// IsInteger reports whether t is one of the integer types.
func (t Type) IsInteger() bool {
	switch t.Base {
	case KindSmallInt, KindInt, KindBigInt:
		return true
	}
	return false
}

// IsFloat reports whether t is a floating point type.
func (t Type) IsFloat() bool {
	return t.Base == KindFloat || t.Base == KindDouble
}

// IsDecimal reports whether t is a fixed-point decimal type.
func (t Type) IsDecimal() bool {
	return t.Base == KindDecimal
}

// IsNumeric reports whether t belongs to the numeric family.
func (t Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat() || t.IsDecimal()
}

// IsString reports whether t belongs to the string family.
func (t Type) IsString() bool {
	switch t.Base {
	case KindChar, KindVarChar, KindText:
		return true
	}
	return false
}

// IsDateTime reports whether t belongs to the time family.
func (t Type) IsDateTime() bool {
	switch t.Base {
	case KindTime, KindDate, KindTimestamp:
		return true
	}
	return false
}

// IsBoolean reports whether t is the boolean type.
func (t Type) IsBoolean() bool {
	return t.Base == KindBoolean
}

// IsNull reports whether t is the NULL literal type.
func (t Type) IsNull() bool {
	return t.Base == KindNull
}

func (t Type) String() string {
	var s string
	switch t.Base {
	case KindNull:
		s = "NULL"
	case KindBoolean:
		s = "BOOLEAN"
	case KindSmallInt:
		s = "SMALLINT"
	case KindInt:
		s = "INT"
	case KindBigInt:
		s = "BIGINT"
	case KindFloat:
		s = "FLOAT"
	case KindDouble:
		s = "DOUBLE"
	case KindDecimal:
		s = fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case KindChar:
		s = fmt.Sprintf("CHAR(%d)", t.Length)
	case KindVarChar:
		s = fmt.Sprintf("VARCHAR(%d)", t.Length)
	case KindText:
		s = "TEXT"
	case KindTime:
		s = "TIME"
	case KindDate:
		s = "DATE"
	case KindTimestamp:
		s = "TIMESTAMP"
	default:
		s = fmt.Sprintf("UNKNOWN(%d)", t.Base)
	}
	if !t.Nullable {
		s += " NOT NULL"
	}
	return s
}

// integer widths on the promotion lattice, in bytes.
func integerRank(b BaseType) int {
	switch b {
	case KindSmallInt:
		return 2
	case KindInt:
		return 4
	case KindBigInt:
		return 8
	}
	return 0
}

// digits returns the decimal digits an integer type can always hold,
// used when widening an integer into a fixed-point type.
func integerDigits(b BaseType) int {
	switch b {
	case KindSmallInt:
		return 5
	case KindInt:
		return 10
	case KindBigInt:
		return 19
	}
	return 0
}

// CommonType computes the least upper bound of two type descriptors
// for arithmetic, comparison and union contexts. The result is
// nullable if either input is. It fails with ErrNoCommonType when the
// two types belong to incompatible families.
func CommonType(a, b Type) (Type, error) {
	nullable := a.Nullable || b.Nullable

	switch {
	case a.IsNull():
		return b.AsNullable(), nil
	case b.IsNull():
		return a.AsNullable(), nil
	case a.Base == b.Base && a == b.WithNullable(a.Nullable):
		return a.WithNullable(nullable), nil
	case a.IsNumeric() && b.IsNumeric():
		return commonNumericType(a, b).WithNullable(nullable), nil
	case a.IsString() && b.IsString():
		return commonStringType(a, b).WithNullable(nullable), nil
	case a.IsBoolean() && b.IsBoolean():
		return Boolean.WithNullable(nullable), nil
	case a.IsDateTime() && b.IsDateTime():
		t, err := commonDateTimeType(a, b)
		if err != nil {
			return Type{}, err
		}
		return t.WithNullable(nullable), nil
	}

	return Type{}, ErrNoCommonType.New(a, b)
}

// commonNumericType widens along the fixed promotion lattice:
// integer widths, then floating point, with fixed-point decimals
// combined by taking the larger scale and enough integral digits for
// both sides.
func commonNumericType(a, b Type) Type {
	if a.Base == b.Base && !a.IsDecimal() {
		return a
	}

	// floating point dominates everything except a decimal paired
	// with a float, which escapes to double to avoid silent scale
	// loss.
	if a.IsFloat() || b.IsFloat() {
		if a.Base == KindDouble || b.Base == KindDouble || a.IsDecimal() || b.IsDecimal() {
			return Double
		}
		return Float
	}

	if a.IsDecimal() || b.IsDecimal() {
		intDigitsA, scaleA := decimalDims(a)
		intDigitsB, scaleB := decimalDims(b)
		intDigits := intDigitsA
		if intDigitsB > intDigits {
			intDigits = intDigitsB
		}
		scale := scaleA
		if scaleB > scale {
			scale = scaleB
		}
		return DecimalType(intDigits+scale, scale)
	}

	if integerRank(a.Base) >= integerRank(b.Base) {
		return a
	}
	return b
}

// decimalDims returns the integral digit count and scale of a numeric
// type when viewed as a fixed-point value.
func decimalDims(t Type) (intDigits, scale int) {
	if t.IsDecimal() {
		return t.Precision - t.Scale, t.Scale
	}
	return integerDigits(t.Base), 0
}

// commonStringType unifies the string family: any unbounded side wins,
// equal fixed-width types are preserved, and everything else promotes
// to a variable-width type wide enough for both sides.
func commonStringType(a, b Type) Type {
	encoding := EncodingNone
	if a.Encoding == b.Encoding {
		encoding = a.Encoding
	}

	if a.Base == KindText || b.Base == KindText {
		t := Text
		t.Encoding = encoding
		return t
	}

	length := a.Length
	if b.Length > length {
		length = b.Length
	}

	var t Type
	if a.Base == KindChar && b.Base == KindChar && a.Length == b.Length {
		t = CharType(length)
	} else {
		t = VarCharType(length)
	}
	t.Encoding = encoding
	return t
}

func commonDateTimeType(a, b Type) (Type, error) {
	if a.Base == b.Base {
		if a.Precision >= b.Precision {
			return a, nil
		}
		return b, nil
	}
	// date and timestamp unify to timestamp; time stands alone.
	if (a.Base == KindDate && b.Base == KindTimestamp) ||
		(a.Base == KindTimestamp && b.Base == KindDate) {
		if a.Base == KindTimestamp {
			return a, nil
		}
		return b, nil
	}
	return Type{}, ErrNoCommonType.New(a, b)
}
