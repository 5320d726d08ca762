package expression

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// Literal is a constant value. The Go representation depends on the
// type descriptor: int64 for the integer types and for fixed-point
// decimals (scaled by the type's scale), float64 for the float types,
// string for the string family, bool for booleans and time.Time for
// the time family.
type Literal struct {
	typ    sql.Type
	value  interface{}
	isNull bool
}

var _ sql.Expression = (*Literal)(nil)

// NewLiteral creates a non-null constant of the given type.
func NewLiteral(value interface{}, typ sql.Type) *Literal {
	return &Literal{typ: typ, value: value}
}

// NewNullLiteral creates a NULL constant of the given type.
func NewNullLiteral(typ sql.Type) *Literal {
	return &Literal{typ: typ.AsNullable(), isNull: true}
}

// Value returns the constant value; nil when the constant is NULL.
func (l *Literal) Value() interface{} {
	if l.isNull {
		return nil
	}
	return l.value
}

// IsNull reports whether the constant is NULL.
func (l *Literal) IsNull() bool { return l.isNull }

// Type implements the sql.Expression interface.
func (l *Literal) Type() sql.Type { return l.typ }

// ContainsAgg implements the sql.Expression interface.
func (l *Literal) ContainsAgg() bool { return false }

// Children implements the sql.Expression interface.
func (l *Literal) Children() []sql.Expression { return nil }

func (l *Literal) String() string {
	if l.isNull {
		return "NULL"
	}
	switch v := l.value.(type) {
	case string:
		return fmt.Sprintf("'%s'", v)
	case time.Time:
		return fmt.Sprintf("'%s'", v.Format(time.RFC3339))
	case int64:
		if l.typ.IsDecimal() {
			return formatDecimal(v, l.typ.Scale)
		}
		return strconv.FormatInt(v, 10)
	}
	return fmt.Sprint(l.value)
}

func formatDecimal(scaled int64, scale int) string {
	if scale == 0 {
		return strconv.FormatInt(scaled, 10)
	}
	neg := scaled < 0
	if neg {
		scaled = -scaled
	}
	pow := pow10(scale)
	s := fmt.Sprintf("%d.%0*d", scaled/pow, scale, scaled%pow)
	if neg {
		return "-" + s
	}
	return s
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// cast converts the literal's value itself into the target type,
// returning a new constant. It fails when the conversion is lossy or
// undefined for the value.
func (l *Literal) cast(target sql.Type) (*Literal, error) {
	if l.isNull {
		return NewNullLiteral(target), nil
	}
	if l.typ.Base == target.Base && l.typ.Scale == target.Scale && l.typ.Length == target.Length {
		return NewLiteral(l.value, target.WithNullable(l.typ.Nullable)), nil
	}

	switch {
	case target.IsInteger():
		v, err := l.toInt64()
		if err != nil {
			return nil, err
		}
		if !fitsInteger(v, target.Base) {
			return nil, sql.ErrLossyCast.New(l.String(), target)
		}
		return NewLiteral(v, target.WithNullable(l.typ.Nullable)), nil

	case target.IsFloat():
		v, err := l.toFloat64()
		if err != nil {
			return nil, err
		}
		if target.Base == sql.KindFloat && (v > math.MaxFloat32 || v < -math.MaxFloat32) {
			return nil, sql.ErrLossyCast.New(l.String(), target)
		}
		return NewLiteral(v, target.WithNullable(l.typ.Nullable)), nil

	case target.IsDecimal():
		v, err := l.toScaledDecimal(target.Scale)
		if err != nil {
			return nil, err
		}
		if target.Precision > 0 && !fitsPrecision(v, target.Precision) {
			return nil, sql.ErrLossyCast.New(l.String(), target)
		}
		return NewLiteral(v, target.WithNullable(l.typ.Nullable)), nil

	case target.IsString():
		s, err := l.toString()
		if err != nil {
			return nil, err
		}
		if target.Length > 0 && len(s) > target.Length {
			return nil, sql.ErrLossyCast.New(l.String(), target)
		}
		return NewLiteral(s, target.WithNullable(l.typ.Nullable)), nil

	case target.IsDateTime():
		t, err := l.toTime(target.Base)
		if err != nil {
			return nil, err
		}
		return NewLiteral(t, target.WithNullable(l.typ.Nullable)), nil

	case target.IsBoolean():
		b, ok := l.value.(bool)
		if !ok {
			s, isStr := l.value.(string)
			if !isStr {
				return nil, sql.ErrInvalidCast.New(l.typ, target)
			}
			var err error
			b, err = cast.ToBoolE(strings.TrimSpace(s))
			if err != nil {
				return nil, sql.ErrLossyCast.New(l.String(), target)
			}
		}
		return NewLiteral(b, target.WithNullable(l.typ.Nullable)), nil
	}

	return nil, sql.ErrInvalidCast.New(l.typ, target)
}

func (l *Literal) toInt64() (int64, error) {
	switch v := l.value.(type) {
	case int64:
		if l.typ.IsDecimal() {
			pow := pow10(l.typ.Scale)
			if v%pow != 0 {
				return 0, sql.ErrLossyCast.New(l.String(), "integer")
			}
			return v / pow, nil
		}
		return v, nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, sql.ErrLossyCast.New(l.String(), "integer")
		}
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, sql.ErrLossyCast.New(l.String(), "integer")
		}
		return n, nil
	}
	return 0, sql.ErrInvalidCast.New(l.typ, "integer")
}

func (l *Literal) toFloat64() (float64, error) {
	switch v := l.value.(type) {
	case float64:
		return v, nil
	case int64:
		if l.typ.IsDecimal() {
			return float64(v) / float64(pow10(l.typ.Scale)), nil
		}
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, sql.ErrLossyCast.New(l.String(), "float")
		}
		return f, nil
	}
	return 0, sql.ErrInvalidCast.New(l.typ, "float")
}

func (l *Literal) toScaledDecimal(scale int) (int64, error) {
	switch v := l.value.(type) {
	case int64:
		if l.typ.IsDecimal() {
			return rescaleDecimal(v, l.typ.Scale, scale, l)
		}
		return mulCheck(v, pow10(scale), l)
	case float64:
		scaled := v * float64(pow10(scale))
		if scaled != math.Trunc(scaled) {
			return 0, sql.ErrLossyCast.New(l.String(), fmt.Sprintf("decimal scale %d", scale))
		}
		return int64(scaled), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, sql.ErrLossyCast.New(l.String(), "decimal")
		}
		scaled := f * float64(pow10(scale))
		if scaled != math.Trunc(scaled) {
			return 0, sql.ErrLossyCast.New(l.String(), "decimal")
		}
		return int64(scaled), nil
	}
	return 0, sql.ErrInvalidCast.New(l.typ, "decimal")
}

func rescaleDecimal(v int64, from, to int, l *Literal) (int64, error) {
	if from == to {
		return v, nil
	}
	if to > from {
		return mulCheck(v, pow10(to-from), l)
	}
	pow := pow10(from - to)
	if v%pow != 0 {
		return 0, sql.ErrLossyCast.New(l.String(), fmt.Sprintf("decimal scale %d", to))
	}
	return v / pow, nil
}

func mulCheck(v, pow int64, l *Literal) (int64, error) {
	r := v * pow
	if v != 0 && r/v != pow {
		return 0, sql.ErrLossyCast.New(l.String(), "decimal")
	}
	return r, nil
}

func (l *Literal) toString() (string, error) {
	switch v := l.value.(type) {
	case string:
		return v, nil
	case time.Time:
		return v.Format("2006-01-02 15:04:05"), nil
	case int64:
		if l.typ.IsDecimal() {
			return formatDecimal(v, l.typ.Scale), nil
		}
		return strconv.FormatInt(v, 10), nil
	}
	s, err := cast.ToStringE(l.value)
	if err != nil {
		return "", sql.ErrInvalidCast.New(l.typ, "string")
	}
	return s, nil
}

var timeLayouts = map[sql.BaseType][]string{
	sql.KindDate:      {"2006-01-02"},
	sql.KindTime:      {"15:04:05", "15:04"},
	sql.KindTimestamp: {"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"},
}

func (l *Literal) toTime(base sql.BaseType) (time.Time, error) {
	switch v := l.value.(type) {
	case time.Time:
		if base == sql.KindDate {
			y, m, d := v.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
		return v, nil
	case string:
		for _, layout := range timeLayouts[base] {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t, nil
			}
		}
		return time.Time{}, sql.ErrLossyCast.New(l.String(), base)
	}
	return time.Time{}, sql.ErrInvalidCast.New(l.typ, base)
}

func fitsInteger(v int64, base sql.BaseType) bool {
	switch base {
	case sql.KindSmallInt:
		return v >= math.MinInt16 && v <= math.MaxInt16
	case sql.KindInt:
		return v >= math.MinInt32 && v <= math.MaxInt32
	}
	return true
}

func fitsPrecision(scaled int64, precision int) bool {
	if scaled < 0 {
		scaled = -scaled
	}
	if precision >= 19 {
		return true
	}
	return scaled < pow10(precision)
}
