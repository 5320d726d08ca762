package analyzer

import (
	"strconv"

	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"

	"github.com/quillondb/go-sql-analyzer/sql"
	"github.com/quillondb/go-sql-analyzer/sql/expression"
	"github.com/quillondb/go-sql-analyzer/sql/parse"
)

func (a *Analyzer) analyzeSelect(ctx *sql.Context, s *sqlparser.Select, viewDepth int) (*sql.Query, error) {
	q := sql.NewQuery()
	if err := a.analyzeSelectInto(ctx, q, s, viewDepth); err != nil {
		return nil, err
	}
	return q, nil
}

// analyzeSelectInto fills an existing query from a SELECT statement.
// INSERT ... SELECT reuses it with the result table already in the
// range table.
func (a *Analyzer) analyzeSelectInto(ctx *sql.Context, q *sql.Query, s *sqlparser.Select, viewDepth int) error {
	// Entries already present (the INSERT result table) are not part
	// of the SELECT's name resolution scope.
	fromOffset := len(q.RangeTable())

	joinConds, err := a.analyzeFrom(ctx, q, s.From, viewDepth)
	if err != nil {
		return err
	}

	sc := &scope{a: a, ctx: ctx, q: q, viewDepth: viewDepth, fromOffset: fromOffset}

	where, err := conjoin(sc, joinConds, s.Where)
	if err != nil {
		return err
	}
	q.SetWhere(where)

	if err := a.analyzeProjection(sc, q, s.SelectExprs); err != nil {
		return err
	}

	q.SetDistinct(s.Distinct != "")

	if len(s.GroupBy) > 0 {
		groupBy := make([]sql.Expression, len(s.GroupBy))
		for i, g := range s.GroupBy {
			if groupBy[i], err = sc.convertExpr(g); err != nil {
				return err
			}
			if groupBy[i].ContainsAgg() {
				return sql.ErrAggNotAllowed.New(groupBy[i], "GROUP BY")
			}
		}
		q.SetGroupBy(groupBy)
	}

	if s.Having != nil {
		having, err := sc.convertExpr(s.Having.Expr)
		if err != nil {
			return err
		}
		if !having.Type().IsBoolean() && !having.Type().IsNull() {
			return sql.ErrInvalidCast.New(having.Type(), sql.Boolean)
		}
		q.SetHaving(having)
	}

	if err := a.analyzeOrderBy(sc, q, s.OrderBy); err != nil {
		return err
	}

	if err := analyzeLimit(q, s.Limit); err != nil {
		return err
	}

	q.SetNumAggs(countAggs(q))
	return nil
}

func (a *Analyzer) analyzeUnion(ctx *sql.Context, u *sqlparser.Union, viewDepth int) (*sql.Query, error) {
	head, err := a.analyzeSelectStatement(ctx, u.Left, viewDepth)
	if err != nil {
		return nil, err
	}

	next, err := a.analyzeSelectStatement(ctx, u.Right, viewDepth)
	if err != nil {
		return nil, err
	}

	if len(head.TargetList()) != len(next.TargetList()) {
		return nil, ErrUnsupportedFeature.New("UNION branches with different column counts")
	}

	// Chain the new branch after the last existing one; vitess builds
	// left-deep union trees.
	tail := head
	for tail.Next() != nil {
		tail = tail.Next()
	}
	tail.SetNext(next)
	tail.SetUnionAll(u.Type == sqlparser.UnionAllStr)

	sc := &scope{a: a, ctx: ctx, q: head, viewDepth: viewDepth}
	if err := a.analyzeOrderBy(sc, head, u.OrderBy); err != nil {
		return nil, err
	}
	if err := analyzeLimit(head, u.Limit); err != nil {
		return nil, err
	}
	return head, nil
}

func (a *Analyzer) analyzeSelectStatement(ctx *sql.Context, s sqlparser.SelectStatement, viewDepth int) (*sql.Query, error) {
	switch s := s.(type) {
	case *sqlparser.Select:
		return a.analyzeSelect(ctx, s, viewDepth)
	case *sqlparser.Union:
		return a.analyzeUnion(ctx, s, viewDepth)
	case *sqlparser.ParenSelect:
		return a.analyzeSelectStatement(ctx, s.Select, viewDepth)
	}
	return nil, parse.ErrUnsupportedSyntax.New(s)
}

// analyzeFrom appends one range table entry per FROM participant and
// returns the ON conditions of explicit joins, to be conjoined with
// the WHERE predicate.
func (a *Analyzer) analyzeFrom(ctx *sql.Context, q *sql.Query, from sqlparser.TableExprs, viewDepth int) ([]sqlparser.Expr, error) {
	var joinConds []sqlparser.Expr
	for _, te := range from {
		conds, err := a.analyzeTableExpr(ctx, q, te, viewDepth)
		if err != nil {
			return nil, err
		}
		joinConds = append(joinConds, conds...)
	}
	return joinConds, nil
}

func (a *Analyzer) analyzeTableExpr(ctx *sql.Context, q *sql.Query, te sqlparser.TableExpr, viewDepth int) ([]sqlparser.Expr, error) {
	switch t := te.(type) {
	case *sqlparser.AliasedTableExpr:
		name, ok := t.Expr.(sqlparser.TableName)
		if !ok {
			return nil, ErrUnsupportedFeature.New("subquery in FROM")
		}
		alias := t.As.String()
		if alias == "" {
			alias = name.Name.String()
		}
		if err := a.addTable(ctx, q, name.Name.String(), alias, viewDepth); err != nil {
			return nil, err
		}
		return nil, nil

	case *sqlparser.JoinTableExpr:
		if t.Join != sqlparser.JoinStr {
			return nil, ErrUnsupportedFeature.New(t.Join)
		}
		if len(t.Condition.Using) > 0 {
			return nil, ErrUnsupportedFeature.New("using clause on join")
		}

		left, err := a.analyzeTableExpr(ctx, q, t.LeftExpr, viewDepth)
		if err != nil {
			return nil, err
		}
		right, err := a.analyzeTableExpr(ctx, q, t.RightExpr, viewDepth)
		if err != nil {
			return nil, err
		}

		conds := append(left, right...)
		if t.Condition.On != nil {
			conds = append(conds, t.Condition.On)
		}
		return conds, nil

	case *sqlparser.ParenTableExpr:
		var conds []sqlparser.Expr
		for _, e := range t.Exprs {
			c, err := a.analyzeTableExpr(ctx, q, e, viewDepth)
			if err != nil {
				return nil, err
			}
			conds = append(conds, c...)
		}
		return conds, nil
	}
	return nil, parse.ErrUnsupportedSyntax.New(te)
}

// addTable appends a range table entry for a base table or a view.
// Views are parsed and analyzed recursively, depth-limited to catch
// reference cycles.
func (a *Analyzer) addTable(ctx *sql.Context, q *sql.Query, name, alias string, viewDepth int) error {
	td, err := a.Catalog.Table(name)
	if err != nil {
		return err
	}

	var viewQuery *sql.Query
	if td.IsView {
		if viewDepth >= a.maxViewDepth {
			return ErrMaxViewDepth.New(a.maxViewDepth)
		}
		a.Log("expanding view %q", name)

		stmt, err := parse.Parse(ctx, td.ViewSQL)
		if err != nil {
			return err
		}
		switch stmt := stmt.(type) {
		case *sqlparser.Select:
			viewQuery, err = a.analyzeSelect(ctx, stmt, viewDepth+1)
		case *sqlparser.Union:
			viewQuery, err = a.analyzeUnion(ctx, stmt, viewDepth+1)
		default:
			err = ErrUnsupportedFeature.New("non-SELECT view definition")
		}
		if err != nil {
			return err
		}
	}

	q.AddRangeTblEntry(sql.NewRangeTblEntry(alias, td, viewQuery))
	return nil
}

// conjoin converts the WHERE clause and ANDs it with the join
// conditions pulled out of the FROM clause.
func conjoin(sc *scope, joinConds []sqlparser.Expr, where *sqlparser.Where) (sql.Expression, error) {
	var pred sql.Expression
	add := func(e sqlparser.Expr) error {
		conv, err := sc.convertExpr(e)
		if err != nil {
			return err
		}
		if !conv.Type().IsBoolean() && !conv.Type().IsNull() {
			return sql.ErrInvalidCast.New(conv.Type(), sql.Boolean)
		}
		if conv.ContainsAgg() {
			return sql.ErrAggNotAllowed.New(conv, "WHERE")
		}
		if pred == nil {
			pred = conv
			return nil
		}
		pred, err = expression.NewAnd(pred, conv)
		return err
	}

	for _, c := range joinConds {
		if err := add(c); err != nil {
			return nil, err
		}
	}
	if where != nil {
		if err := add(where.Expr); err != nil {
			return nil, err
		}
	}
	return pred, nil
}

func (a *Analyzer) analyzeProjection(sc *scope, q *sql.Query, se sqlparser.SelectExprs) error {
	for _, e := range se {
		switch e := e.(type) {
		case *sqlparser.StarExpr:
			if err := expandStar(sc, q, e); err != nil {
				return err
			}

		case *sqlparser.AliasedExpr:
			conv, err := sc.convertExpr(e.Expr)
			if err != nil {
				return err
			}
			name := e.As.String()
			if name == "" {
				name = targetName(e.Expr, conv)
			}
			q.AddTargetEntry(sql.NewTargetEntry(name, conv, false))

		default:
			return parse.ErrUnsupportedSyntax.New(e)
		}
	}
	return nil
}

// targetName derives the output name of an unaliased projection: the
// column name when the expression is a bare column, its printed form
// otherwise.
func targetName(e sqlparser.Expr, conv sql.Expression) string {
	if col, ok := e.(*sqlparser.ColName); ok {
		return col.Name.String()
	}
	return conv.String()
}

// analyzeOrderBy resolves each ORDER BY key to a 1-based target list
// position: an integer literal is a position, a name matches an output
// alias, and any other expression is matched structurally against the
// target list, getting a hidden slot appended when absent.
func (a *Analyzer) analyzeOrderBy(sc *scope, q *sql.Query, orderBy sqlparser.OrderBy) error {
	if len(orderBy) == 0 {
		return nil
	}

	entries := make([]sql.OrderEntry, len(orderBy))
	for i, o := range orderBy {
		tleNo, err := a.resolveOrderKey(sc, q, o.Expr)
		if err != nil {
			return err
		}
		entries[i] = sql.OrderEntry{
			TleNo:      tleNo,
			Desc:       o.Direction == sqlparser.DescScr,
			NullsFirst: o.Direction == sqlparser.DescScr,
		}
	}
	q.SetOrderBy(entries)
	return nil
}

func (a *Analyzer) resolveOrderKey(sc *scope, q *sql.Query, e sqlparser.Expr) (int, error) {
	tlist := q.TargetList()

	if v, ok := e.(*sqlparser.SQLVal); ok && v.Type == sqlparser.IntVal {
		pos, err := strconv.Atoi(string(v.Val))
		if err != nil || pos < 1 || pos > len(tlist) {
			return 0, sql.ErrInvalidOrderBy.New(pos)
		}
		return pos, nil
	}

	if col, ok := e.(*sqlparser.ColName); ok && col.Qualifier.IsEmpty() {
		for i, tle := range tlist {
			if tle.ResName() == col.Name.String() {
				return i + 1, nil
			}
		}
	}

	conv, err := sc.convertExpr(e)
	if err != nil {
		return 0, err
	}
	for i, tle := range tlist {
		if expression.Equals(tle.Expr(), conv) {
			return i + 1, nil
		}
	}

	// Hidden sort key: projected but not named in the output.
	return q.AddTargetEntry(sql.NewTargetEntry("", conv, false)) + 1, nil
}

func analyzeLimit(q *sql.Query, limit *sqlparser.Limit) error {
	if limit == nil {
		return nil
	}

	n, err := limitValue(limit.Rowcount)
	if err != nil {
		return err
	}
	q.SetLimit(n)

	if limit.Offset != nil {
		o, err := limitValue(limit.Offset)
		if err != nil {
			return err
		}
		q.SetOffset(o)
	}
	return nil
}

func limitValue(e sqlparser.Expr) (int64, error) {
	v, ok := e.(*sqlparser.SQLVal)
	if !ok || v.Type != sqlparser.IntVal {
		return 0, ErrUnsupportedFeature.New("LIMIT with non-integer literal")
	}
	return strconv.ParseInt(string(v.Val), 10, 64)
}

func countAggs(q *sql.Query) int {
	count := func(e sql.Expression) (n int) {
		sql.Inspect(e, func(e sql.Expression) bool {
			if _, ok := e.(*expression.AggExpr); ok {
				n++
			}
			return true
		})
		return n
	}

	var n int
	for _, tle := range q.TargetList() {
		n += count(tle.Expr())
	}
	n += count(q.Having())
	return n
}
