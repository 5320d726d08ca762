package analyzer

import (
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"

	"github.com/quillondb/go-sql-analyzer/sql"
	"github.com/quillondb/go-sql-analyzer/sql/expression"
	"github.com/quillondb/go-sql-analyzer/sql/parse"
)

// analyzeInsert builds the analyzed form of INSERT ... VALUES and
// INSERT ... SELECT. The result table is always range table entry 0;
// every projected value is cast to its target column's type.
func (a *Analyzer) analyzeInsert(ctx *sql.Context, ins *sqlparser.Insert) (*sql.Query, error) {
	if ins.Action != sqlparser.InsertStr {
		return nil, ErrUnsupportedFeature.New(ins.Action)
	}
	if len(ins.OnDup) > 0 {
		return nil, ErrUnsupportedFeature.New("ON DUPLICATE KEY")
	}

	td, err := a.Catalog.Table(ins.Table.Name.String())
	if err != nil {
		return nil, err
	}
	if td.IsView {
		return nil, ErrUnsupportedFeature.New("INSERT into a view")
	}

	q := sql.NewQuery()
	q.SetStmtType(sql.StmtInsert)
	q.SetResultTableID(td.ID)

	rte := sql.NewRangeTblEntry(td.Name, td, nil)
	q.AddRangeTblEntry(rte)

	cols, err := a.resolveInsertColumns(rte, ins.Columns)
	if err != nil {
		return nil, err
	}

	ids := make([]int32, len(cols))
	for i, cd := range cols {
		ids[i] = cd.ColumnID
	}
	q.SetResultColumns(ids)

	switch rows := ins.Rows.(type) {
	case sqlparser.Values:
		if err := a.analyzeInsertValues(ctx, q, cols, rows); err != nil {
			return nil, err
		}
	case *sqlparser.Select:
		if err := a.analyzeSelectInto(ctx, q, rows, 0); err != nil {
			return nil, err
		}
		if err := castTargetsToColumns(q, cols); err != nil {
			return nil, err
		}
	default:
		return nil, parse.ErrUnsupportedSyntax.New(ins.Rows)
	}

	return q, nil
}

func (a *Analyzer) resolveInsertColumns(rte *sql.RangeTblEntry, columns sqlparser.Columns) ([]*sql.ColumnDescriptor, error) {
	if len(columns) == 0 {
		if err := rte.AddAllColumnDescriptors(a.Catalog); err != nil {
			return nil, err
		}
		return rte.ColumnDescs(), nil
	}

	cols := make([]*sql.ColumnDescriptor, len(columns))
	for i, c := range columns {
		cd, err := rte.ResolveColumn(a.Catalog, c.Lowered())
		if err != nil {
			return nil, err
		}
		cols[i] = cd
	}
	return cols, nil
}

func (a *Analyzer) analyzeInsertValues(ctx *sql.Context, q *sql.Query, cols []*sql.ColumnDescriptor, values sqlparser.Values) error {
	if len(values) != 1 {
		return ErrUnsupportedFeature.New("multi-row INSERT")
	}

	row := values[0]
	if len(row) != len(cols) {
		return ErrUnsupportedFeature.New("INSERT value count does not match column count")
	}

	sc := &scope{a: a, ctx: ctx, q: q}
	for i, e := range row {
		conv, err := sc.convertExpr(e)
		if err != nil {
			return err
		}
		if conv, err = expression.AddCast(conv, cols[i].Type); err != nil {
			return err
		}
		q.AddTargetEntry(sql.NewTargetEntry(cols[i].Name, conv, false))
	}
	return nil
}

func castTargetsToColumns(q *sql.Query, cols []*sql.ColumnDescriptor) error {
	tlist := q.TargetList()
	if len(tlist) != len(cols) {
		return ErrUnsupportedFeature.New("INSERT SELECT column count does not match")
	}

	for i, tle := range tlist {
		e, err := expression.AddCast(tle.Expr(), cols[i].Type.WithNullable(tle.Expr().Type().Nullable))
		if err != nil {
			return err
		}
		tlist[i] = tle.WithExpr(e)
	}
	return nil
}
