package analyzer

import (
	"strconv"
	"strings"

	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"

	"github.com/quillondb/go-sql-analyzer/sql"
	"github.com/quillondb/go-sql-analyzer/sql/expression"
	"github.com/quillondb/go-sql-analyzer/sql/parse"
)

// scope is the name resolution environment of one query under
// analysis.
type scope struct {
	a         *Analyzer
	ctx       *sql.Context
	q         *sql.Query
	viewDepth int
	// first range table index visible to unqualified names; skips the
	// result table of an INSERT.
	fromOffset int
}

func (sc *scope) convertExpr(e sqlparser.Expr) (sql.Expression, error) {
	switch v := e.(type) {
	case *sqlparser.ColName:
		return sc.resolveColumn(v)

	case *sqlparser.SQLVal:
		return convertVal(v)

	case *sqlparser.NullVal:
		return expression.NewNullLiteral(sql.Null), nil

	case sqlparser.BoolVal:
		return expression.NewLiteral(bool(v), sql.Boolean.NotNull()), nil

	case *sqlparser.ParenExpr:
		return sc.convertExpr(v.Expr)

	case *sqlparser.AndExpr:
		lhs, rhs, err := sc.convertPair(v.Left, v.Right)
		if err != nil {
			return nil, err
		}
		return expression.NewAnd(lhs, rhs)

	case *sqlparser.OrExpr:
		lhs, rhs, err := sc.convertPair(v.Left, v.Right)
		if err != nil {
			return nil, err
		}
		return expression.NewOr(lhs, rhs)

	case *sqlparser.NotExpr:
		c, err := sc.convertExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return expression.NewUnaryExpr(sql.OpNot, c)

	case *sqlparser.IsExpr:
		return sc.convertIs(v)

	case *sqlparser.ComparisonExpr:
		return sc.convertComparison(v)

	case *sqlparser.RangeCond:
		return sc.convertBetween(v)

	case *sqlparser.BinaryExpr:
		return sc.convertArithmetic(v)

	case *sqlparser.UnaryExpr:
		return sc.convertUnary(v)

	case *sqlparser.FuncExpr:
		return sc.convertFunc(v)

	case *sqlparser.CaseExpr:
		return sc.convertCase(v)

	case *sqlparser.ConvertExpr:
		return sc.convertCast(v)

	case *sqlparser.Subquery:
		sub, err := sc.a.analyzeSelectStatement(sc.ctx, v.Select, sc.viewDepth)
		if err != nil {
			return nil, err
		}
		return expression.NewSubquery(sub)

	case *sqlparser.ExistsExpr:
		sub, err := sc.a.analyzeSelectStatement(sc.ctx, v.Subquery.Select, sc.viewDepth)
		if err != nil {
			return nil, err
		}
		return expression.NewUnaryExpr(sql.OpExists, expression.NewExistsSubquery(sub))
	}

	return nil, parse.ErrUnsupportedSyntax.New(e)
}

func (sc *scope) convertPair(l, r sqlparser.Expr) (sql.Expression, sql.Expression, error) {
	lhs, err := sc.convertExpr(l)
	if err != nil {
		return nil, nil, err
	}
	rhs, err := sc.convertExpr(r)
	if err != nil {
		return nil, nil, err
	}
	return lhs, rhs, nil
}

// resolveColumn finds the range table entry a column name refers to
// and returns a reference carrying the catalog ids and the entry's
// index. Unqualified names must match exactly one entry in scope.
func (sc *scope) resolveColumn(col *sqlparser.ColName) (sql.Expression, error) {
	name := col.Name.Lowered()

	if !col.Qualifier.IsEmpty() {
		idx, err := sc.q.ResolveRangeIndex(col.Qualifier.Name.String())
		if err != nil {
			return nil, err
		}
		cd, err := sc.q.RangeTblEntry(idx).ResolveColumn(sc.a.Catalog, name)
		if err != nil {
			return nil, err
		}
		return expression.NewColumnRefFromDescriptor(cd, idx), nil
	}

	found := -1
	var foundCd *sql.ColumnDescriptor
	rt := sc.q.RangeTable()
	for idx := sc.fromOffset; idx < len(rt); idx++ {
		cd, err := rt[idx].ResolveColumn(sc.a.Catalog, name)
		if sql.ErrColumnNotFound.Is(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if found >= 0 {
			return nil, sql.ErrAmbiguousColumn.New(name)
		}
		found, foundCd = idx, cd
	}
	if found < 0 {
		return nil, sql.ErrColumnNotInScope.New(name)
	}
	return expression.NewColumnRefFromDescriptor(foundCd, found), nil
}

func convertVal(v *sqlparser.SQLVal) (sql.Expression, error) {
	switch v.Type {
	case sqlparser.StrVal:
		return expression.NewLiteral(string(v.Val), sql.Text.NotNull()), nil

	case sqlparser.IntVal:
		val, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return nil, err
		}
		return expression.NewLiteral(val, sql.BigInt.NotNull()), nil

	case sqlparser.FloatVal:
		val, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, err
		}
		return expression.NewLiteral(val, sql.Double.NotNull()), nil

	case sqlparser.HexNum:
		s := strings.TrimPrefix(strings.ToLower(string(v.Val)), "0x")
		val, err := strconv.ParseInt(s, 16, 64)
		if err != nil {
			return nil, err
		}
		return expression.NewLiteral(val, sql.BigInt.NotNull()), nil
	}

	return nil, parse.ErrUnsupportedSyntax.New(v)
}

func (sc *scope) convertIs(v *sqlparser.IsExpr) (sql.Expression, error) {
	e, err := sc.convertExpr(v.Expr)
	if err != nil {
		return nil, err
	}

	switch v.Operator {
	case sqlparser.IsNullStr:
		return expression.NewUnaryExpr(sql.OpIsNull, e)
	case sqlparser.IsNotNullStr:
		isNull, err := expression.NewUnaryExpr(sql.OpIsNull, e)
		if err != nil {
			return nil, err
		}
		return expression.NewUnaryExpr(sql.OpNot, isNull)
	}
	return nil, parse.ErrUnsupportedSyntax.New(v)
}

var comparisonOps = map[string]sql.Op{
	sqlparser.EqualStr:        sql.OpEquals,
	sqlparser.NotEqualStr:     sql.OpNotEquals,
	sqlparser.LessThanStr:     sql.OpLess,
	sqlparser.LessEqualStr:    sql.OpLessEq,
	sqlparser.GreaterThanStr:  sql.OpGreater,
	sqlparser.GreaterEqualStr: sql.OpGreaterEq,
}

func (sc *scope) convertComparison(c *sqlparser.ComparisonExpr) (sql.Expression, error) {
	if op, ok := comparisonOps[c.Operator]; ok {
		left, right, err := sc.convertPair(c.Left, c.Right)
		if err != nil {
			return nil, err
		}
		// A comparison against a scalar subquery defaults to the ONE
		// quantifier.
		return expression.NewBinaryExpr(op, sql.QualOne, left, right)
	}

	switch c.Operator {
	case sqlparser.InStr:
		return sc.convertIn(c.Left, c.Right, false)
	case sqlparser.NotInStr:
		return sc.convertIn(c.Left, c.Right, true)
	case sqlparser.LikeStr:
		return sc.convertLike(c, false)
	case sqlparser.NotLikeStr:
		return sc.convertLike(c, true)
	}
	return nil, ErrUnsupportedFeature.New(c.Operator)
}

// convertIn builds an IN-list predicate with the probe and all values
// promoted to their common type.
func (sc *scope) convertIn(left, right sqlparser.Expr, negated bool) (sql.Expression, error) {
	arg, err := sc.convertExpr(left)
	if err != nil {
		return nil, err
	}

	tuple, ok := right.(sqlparser.ValTuple)
	if !ok {
		return nil, ErrUnsupportedFeature.New("IN with non-list right-hand side")
	}

	values := make([]sql.Expression, len(tuple))
	common := arg.Type()
	for i, e := range tuple {
		if values[i], err = sc.convertExpr(e); err != nil {
			return nil, err
		}
		if common, err = sql.CommonType(common, values[i].Type()); err != nil {
			return nil, err
		}
	}

	if arg, err = expression.AddCast(arg, common.WithNullable(arg.Type().Nullable)); err != nil {
		return nil, err
	}
	for i, v := range values {
		if values[i], err = expression.AddCast(v, common.WithNullable(v.Type().Nullable)); err != nil {
			return nil, err
		}
	}

	var result sql.Expression = expression.NewInValues(arg, values)
	if negated {
		return expression.NewUnaryExpr(sql.OpNot, result)
	}
	return result, nil
}

func (sc *scope) convertLike(c *sqlparser.ComparisonExpr, negated bool) (sql.Expression, error) {
	arg, pattern, err := sc.convertPair(c.Left, c.Right)
	if err != nil {
		return nil, err
	}

	var escape sql.Expression
	if c.Escape != nil {
		if escape, err = sc.convertExpr(c.Escape); err != nil {
			return nil, err
		}
	}

	simple := false
	if lit, ok := pattern.(*expression.Literal); ok && !lit.IsNull() && escape == nil {
		if s, ok := lit.Value().(string); ok {
			simple = expression.IsSimplePattern(s)
		}
	}

	like, err := expression.NewLike(arg, pattern, escape, false, simple)
	if err != nil {
		return nil, err
	}
	if negated {
		return expression.NewUnaryExpr(sql.OpNot, like)
	}
	return like, nil
}

func (sc *scope) convertBetween(v *sqlparser.RangeCond) (sql.Expression, error) {
	val, err := sc.convertExpr(v.Left)
	if err != nil {
		return nil, err
	}
	lower, err := sc.convertExpr(v.From)
	if err != nil {
		return nil, err
	}
	upper, err := sc.convertExpr(v.To)
	if err != nil {
		return nil, err
	}

	ge, err := expression.NewBinaryExpr(sql.OpGreaterEq, sql.QualOne, val, lower)
	if err != nil {
		return nil, err
	}
	le, err := expression.NewBinaryExpr(sql.OpLessEq, sql.QualOne, expression.DeepCopy(val), upper)
	if err != nil {
		return nil, err
	}
	rng, err := expression.NewAnd(ge, le)
	if err != nil {
		return nil, err
	}

	switch v.Operator {
	case sqlparser.BetweenStr:
		return rng, nil
	case sqlparser.NotBetweenStr:
		return expression.NewUnaryExpr(sql.OpNot, rng)
	}
	return nil, parse.ErrUnsupportedSyntax.New(v)
}

var arithmeticOps = map[string]sql.Op{
	sqlparser.PlusStr:  sql.OpPlus,
	sqlparser.MinusStr: sql.OpMinus,
	sqlparser.MultStr:  sql.OpMultiply,
	sqlparser.DivStr:   sql.OpDivide,
	sqlparser.ModStr:   sql.OpModulo,
}

func (sc *scope) convertArithmetic(be *sqlparser.BinaryExpr) (sql.Expression, error) {
	op, ok := arithmeticOps[be.Operator]
	if !ok {
		return nil, ErrUnsupportedFeature.New(be.Operator)
	}

	l, r, err := sc.convertPair(be.Left, be.Right)
	if err != nil {
		return nil, err
	}
	return expression.NewBinaryExpr(op, sql.QualOne, l, r)
}

func (sc *scope) convertUnary(v *sqlparser.UnaryExpr) (sql.Expression, error) {
	if v.Operator != sqlparser.UMinusStr {
		return nil, ErrUnsupportedFeature.New(v.Operator)
	}

	c, err := sc.convertExpr(v.Expr)
	if err != nil {
		return nil, err
	}

	// Negative literals fold at analysis time.
	if lit, ok := c.(*expression.Literal); ok && !lit.IsNull() {
		switch val := lit.Value().(type) {
		case int64:
			return expression.NewLiteral(-val, lit.Type()), nil
		case float64:
			return expression.NewLiteral(-val, lit.Type()), nil
		}
	}
	return expression.NewUnaryExpr(sql.OpUnaryMinus, c)
}

var aggKinds = map[string]sql.AggKind{
	"avg":   sql.AggAvg,
	"min":   sql.AggMin,
	"max":   sql.AggMax,
	"sum":   sql.AggSum,
	"count": sql.AggCount,
}

var extractFields = map[string]sql.DateField{
	"year":      sql.FieldYear,
	"quarter":   sql.FieldQuarter,
	"month":     sql.FieldMonth,
	"day":       sql.FieldDay,
	"hour":      sql.FieldHour,
	"minute":    sql.FieldMinute,
	"second":    sql.FieldSecond,
	"week":      sql.FieldWeek,
	"dayofweek": sql.FieldDayOfWeek,
	"dayofyear": sql.FieldDayOfYear,
}

func (sc *scope) convertFunc(v *sqlparser.FuncExpr) (sql.Expression, error) {
	name := v.Name.Lowered()

	if kind, ok := aggKinds[name]; ok {
		return sc.convertAgg(kind, v)
	}

	if field, ok := extractFields[name]; ok {
		arg, err := sc.funcArg(v, 0, 1)
		if err != nil {
			return nil, err
		}
		return expression.NewExtract(field, arg)
	}

	switch name {
	case "char_length", "character_length":
		arg, err := sc.funcArg(v, 0, 1)
		if err != nil {
			return nil, err
		}
		return expression.NewCharLength(arg, false)

	case "length", "octet_length":
		arg, err := sc.funcArg(v, 0, 1)
		if err != nil {
			return nil, err
		}
		return expression.NewCharLength(arg, true)

	case "extract":
		field, err := sc.funcFieldArg(v)
		if err != nil {
			return nil, err
		}
		arg, err := sc.funcArg(v, 1, 2)
		if err != nil {
			return nil, err
		}
		return expression.NewExtract(field, arg)

	case "date_trunc":
		field, err := sc.funcFieldArg(v)
		if err != nil {
			return nil, err
		}
		arg, err := sc.funcArg(v, 1, 2)
		if err != nil {
			return nil, err
		}
		return expression.NewDateTrunc(field, arg)
	}

	return nil, ErrUnsupportedFeature.New(name)
}

func (sc *scope) convertAgg(kind sql.AggKind, v *sqlparser.FuncExpr) (sql.Expression, error) {
	if len(v.Exprs) != 1 {
		return nil, ErrUnsupportedFeature.New("aggregate with multiple arguments")
	}

	if _, ok := v.Exprs[0].(*sqlparser.StarExpr); ok {
		if kind != sql.AggCount {
			return nil, ErrUnsupportedFeature.New(kind.String() + "(*)")
		}
		return expression.NewAggExpr(sql.AggCount, nil, v.Distinct)
	}

	arg, err := sc.funcArg(v, 0, 1)
	if err != nil {
		return nil, err
	}
	return expression.NewAggExpr(kind, arg, v.Distinct)
}

func (sc *scope) funcArg(v *sqlparser.FuncExpr, idx, want int) (sql.Expression, error) {
	if len(v.Exprs) != want {
		return nil, ErrUnsupportedFeature.New(v.Name.Lowered() + " with wrong argument count")
	}
	aliased, ok := v.Exprs[idx].(*sqlparser.AliasedExpr)
	if !ok {
		return nil, parse.ErrUnsupportedSyntax.New(v.Exprs[idx])
	}
	return sc.convertExpr(aliased.Expr)
}

// funcFieldArg reads a date field name given as the first argument,
// either as a string literal or a bare identifier.
func (sc *scope) funcFieldArg(v *sqlparser.FuncExpr) (sql.DateField, error) {
	if len(v.Exprs) == 0 {
		return 0, ErrUnsupportedFeature.New(v.Name.Lowered() + " without arguments")
	}
	aliased, ok := v.Exprs[0].(*sqlparser.AliasedExpr)
	if !ok {
		return 0, parse.ErrUnsupportedSyntax.New(v.Exprs[0])
	}

	var name string
	switch f := aliased.Expr.(type) {
	case *sqlparser.SQLVal:
		if f.Type != sqlparser.StrVal {
			return 0, parse.ErrUnsupportedSyntax.New(f)
		}
		name = strings.ToLower(string(f.Val))
	case *sqlparser.ColName:
		name = f.Name.Lowered()
	default:
		return 0, parse.ErrUnsupportedSyntax.New(aliased.Expr)
	}

	field, ok := sql.ParseDateField(name)
	if !ok {
		if field, ok = extractFields[name]; !ok {
			return 0, ErrUnsupportedFeature.New("date field " + name)
		}
	}
	return field, nil
}

func (sc *scope) convertCase(v *sqlparser.CaseExpr) (sql.Expression, error) {
	// Simple CASE desugars into searched CASE over equality tests.
	var operand sql.Expression
	var err error
	if v.Expr != nil {
		if operand, err = sc.convertExpr(v.Expr); err != nil {
			return nil, err
		}
	}

	branches := make([]expression.WhenThen, len(v.Whens))
	for i, w := range v.Whens {
		cond, err := sc.convertExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		if operand != nil {
			cond, err = expression.NewBinaryExpr(
				sql.OpEquals, sql.QualOne, expression.DeepCopy(operand), cond)
			if err != nil {
				return nil, err
			}
		}
		then, err := sc.convertExpr(w.Val)
		if err != nil {
			return nil, err
		}
		branches[i] = expression.WhenThen{When: cond, Then: then}
	}

	var elseResult sql.Expression
	if v.Else != nil {
		if elseResult, err = sc.convertExpr(v.Else); err != nil {
			return nil, err
		}
	}
	return expression.NewCase(branches, elseResult)
}

func (sc *scope) convertCast(v *sqlparser.ConvertExpr) (sql.Expression, error) {
	e, err := sc.convertExpr(v.Expr)
	if err != nil {
		return nil, err
	}

	target, err := convertType(v.Type)
	if err != nil {
		return nil, err
	}
	return expression.AddCast(e, target.WithNullable(e.Type().Nullable))
}

func convertType(t *sqlparser.ConvertType) (sql.Type, error) {
	switch strings.ToLower(t.Type) {
	case "signed", "signed integer", "bigint":
		return sql.BigInt, nil
	case "integer", "int":
		return sql.Int, nil
	case "smallint":
		return sql.SmallInt, nil
	case "float":
		return sql.Float, nil
	case "double":
		return sql.Double, nil
	case "decimal":
		precision, scale := 0, 0
		if t.Length != nil {
			precision, _ = strconv.Atoi(string(t.Length.Val))
		}
		if t.Scale != nil {
			scale, _ = strconv.Atoi(string(t.Scale.Val))
		}
		return sql.DecimalType(precision, scale), nil
	case "char", "nchar":
		length := 0
		if t.Length != nil {
			length, _ = strconv.Atoi(string(t.Length.Val))
		}
		return sql.CharType(length), nil
	case "varchar", "nvarchar":
		length := 0
		if t.Length != nil {
			length, _ = strconv.Atoi(string(t.Length.Val))
		}
		return sql.VarCharType(length), nil
	case "text":
		return sql.Text, nil
	case "date":
		return sql.Date, nil
	case "time":
		return sql.Time, nil
	case "datetime", "timestamp":
		return sql.Timestamp, nil
	}
	return sql.Type{}, ErrUnsupportedFeature.New("cast to " + t.Type)
}
