package analyzer

import (
	"os"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"

	"github.com/quillondb/go-sql-analyzer/sql"
	"github.com/quillondb/go-sql-analyzer/sql/parse"
)

const debugAnalyzerKey = "DEBUG_ANALYZER"

const defaultMaxViewDepth = 8

// ErrMaxViewDepth is thrown when view references nest deeper than the
// configured limit, which usually means a reference cycle.
var ErrMaxViewDepth = errors.NewKind("view nesting exceeds %d levels")

// ErrUnsupportedFeature is thrown when a statement uses a feature the
// analyzer does not support.
var ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")

// Builder provides an easy way to generate Analyzers with custom options.
type Builder struct {
	catalog      sql.Catalog
	debug        bool
	maxViewDepth int
}

// NewBuilder creates a new Builder from a specific catalog.
func NewBuilder(c sql.Catalog) *Builder {
	return &Builder{catalog: c, maxViewDepth: defaultMaxViewDepth}
}

// WithDebug activates debug on the Analyzer.
func (ab *Builder) WithDebug() *Builder {
	ab.debug = true
	return ab
}

// WithMaxViewDepth sets the view nesting limit.
func (ab *Builder) WithMaxViewDepth(depth int) *Builder {
	ab.maxViewDepth = depth
	return ab
}

// Build creates a new Analyzer using all data set on the Builder.
func (ab *Builder) Build() *Analyzer {
	_, debug := os.LookupEnv(debugAnalyzerKey)
	return &Analyzer{
		Debug:        debug || ab.debug,
		Catalog:      ab.catalog,
		maxViewDepth: ab.maxViewDepth,
	}
}

// Analyzer turns parsed statements into analyzed queries: names are
// resolved against the catalog, types are computed and every clause is
// converted into its analyzed form.
type Analyzer struct {
	// Whether to log various debugging messages.
	Debug bool
	// Catalog to resolve table and column names against.
	Catalog sql.Catalog

	maxViewDepth int
	debugCtx     []string
}

// NewDefault creates an Analyzer with the default configuration. To
// customize it, use the Builder.
func NewDefault(c sql.Catalog) *Analyzer {
	return NewBuilder(c).Build()
}

// Log prints an INFO message with the given message and args if the
// analyzer is in debug mode.
func (a *Analyzer) Log(msg string, args ...interface{}) {
	if a != nil && a.Debug {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			logrus.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			logrus.Infof(msg, args...)
		}
	}
}

// PushDebugContext pushes the given context string onto the context
// stack, to use when logging debug messages.
func (a *Analyzer) PushDebugContext(msg string) {
	if a != nil {
		a.debugCtx = append(a.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (a *Analyzer) PopDebugContext() {
	if a != nil && len(a.debugCtx) > 0 {
		a.debugCtx = a.debugCtx[:len(a.debugCtx)-1]
	}
}

// Analyze parses and analyzes a SQL statement, returning the analyzed
// query.
func (a *Analyzer) Analyze(ctx *sql.Context, query string) (*sql.Query, error) {
	span, ctx := ctx.Span("analyze", opentracing.Tag{Key: "query", Value: query})
	defer span.Finish()

	stmt, err := parse.Parse(ctx, query)
	if err != nil {
		return nil, err
	}

	return a.AnalyzeStatement(ctx, stmt)
}

// AnalyzeStatement analyzes an already parsed statement.
func (a *Analyzer) AnalyzeStatement(ctx *sql.Context, stmt sqlparser.Statement) (*sql.Query, error) {
	a.Log("starting analysis of statement of type %T", stmt)

	var q *sql.Query
	var err error
	switch stmt := stmt.(type) {
	case *sqlparser.Select:
		q, err = a.analyzeSelect(ctx, stmt, 0)
	case *sqlparser.Union:
		q, err = a.analyzeUnion(ctx, stmt, 0)
	case *sqlparser.Insert:
		q, err = a.analyzeInsert(ctx, stmt)
	default:
		err = parse.ErrUnsupportedSyntax.New(stmt)
	}
	if err != nil {
		return nil, err
	}

	if err := a.validate(q); err != nil {
		return nil, err
	}
	return q, nil
}
