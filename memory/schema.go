package memory

import (
	"io/ioutil"
	"regexp"
	"strconv"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"

	"github.com/quillondb/go-sql-analyzer/sql"
)

// ErrInvalidSchema is returned when a schema document cannot be turned
// into catalog entries.
var ErrInvalidSchema = errors.NewKind("invalid schema: %s")

// ErrUnknownType is returned for a column type name the schema loader
// does not recognize.
var ErrUnknownType = errors.NewKind("unknown column type %q")

type schemaFile struct {
	Tables []tableDecl `yaml:"tables"`
	Views  []viewDecl  `yaml:"views"`
}

type tableDecl struct {
	Name    string       `yaml:"name"`
	Columns []columnDecl `yaml:"columns"`
}

type viewDecl struct {
	Name    string       `yaml:"name"`
	Query   string       `yaml:"query"`
	Columns []columnDecl `yaml:"columns"`
}

type columnDecl struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable *bool  `yaml:"nullable"`
	Encoding string `yaml:"encoding"`
}

// LoadSchema registers the tables and views declared in a YAML
// document into the catalog.
func (c *Catalog) LoadSchema(data []byte) error {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ErrInvalidSchema.New(err)
	}

	for _, t := range file.Tables {
		columns, err := declColumns(t.Columns)
		if err != nil {
			return err
		}
		if _, err := c.AddTable(t.Name, columns); err != nil {
			return err
		}
	}

	for _, v := range file.Views {
		columns, err := declColumns(v.Columns)
		if err != nil {
			return err
		}
		if _, err := c.AddView(v.Name, v.Query, columns); err != nil {
			return err
		}
	}
	return nil
}

// LoadSchemaFile reads and registers a YAML schema file.
func (c *Catalog) LoadSchemaFile(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	return c.LoadSchema(data)
}

func declColumns(decls []columnDecl) ([]Column, error) {
	columns := make([]Column, len(decls))
	for i, d := range decls {
		typ, err := ParseType(d.Type)
		if err != nil {
			return nil, err
		}
		if d.Nullable != nil {
			typ = typ.WithNullable(*d.Nullable)
		}
		switch strings.ToLower(d.Encoding) {
		case "":
		case "dict":
			typ.Encoding = sql.EncodingDict
		case "fixed":
			typ.Encoding = sql.EncodingFixed
		default:
			return nil, ErrInvalidSchema.New("unknown encoding " + d.Encoding)
		}
		columns[i] = Column{Name: d.Name, Type: typ}
	}
	return columns, nil
}

var typeArgsRe = regexp.MustCompile(`^([a-z ]+?)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?$`)

// ParseType resolves a column type name as written in a schema
// document, e.g. "int", "decimal(10,2)" or "varchar(32)". All types
// parse as nullable.
func ParseType(s string) (sql.Type, error) {
	m := typeArgsRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return sql.Type{}, ErrUnknownType.New(s)
	}

	arg := func(i int) int {
		if m[i] == "" {
			return 0
		}
		n, _ := strconv.Atoi(m[i])
		return n
	}

	switch m[1] {
	case "boolean", "bool":
		return sql.Boolean, nil
	case "smallint":
		return sql.SmallInt, nil
	case "int", "integer":
		return sql.Int, nil
	case "bigint":
		return sql.BigInt, nil
	case "float", "real":
		return sql.Float, nil
	case "double", "double precision":
		return sql.Double, nil
	case "decimal", "numeric":
		return sql.DecimalType(arg(2), arg(3)), nil
	case "char":
		return sql.CharType(arg(2)), nil
	case "varchar":
		return sql.VarCharType(arg(2)), nil
	case "text", "string":
		return sql.Text, nil
	case "date":
		return sql.Date, nil
	case "time":
		return sql.Time, nil
	case "timestamp", "datetime":
		return sql.Timestamp, nil
	}
	return sql.Type{}, ErrUnknownType.New(s)
}
