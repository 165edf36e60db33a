package load

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/aggregen/compiler/gen"
	"github.com/syssam/aggregen/dialect"
)

// InspectOptions selects what Inspect reads from the database.
type InspectOptions struct {
	// Schema is the schema to inspect. Empty means the connected one.
	Schema string
	// Tables limits inspection to the given tables.
	Tables []string
	// Exclude holds glob patterns of excluded tables.
	Exclude []string
}

// Inspect reads the table descriptors of a live database.
func Inspect(ctx context.Context, db *stdsql.DB, name string, opts InspectOptions) ([]*gen.Table, error) {
	d, err := dialect.Normalize(name)
	if err != nil {
		return nil, err
	}
	drv, err := inspector(d, db)
	if err != nil {
		return nil, fmt.Errorf("load: opening %s inspector: %w", d, err)
	}
	s, err := drv.InspectSchema(ctx, opts.Schema, &schema.InspectOptions{
		Mode:    schema.InspectTables,
		Tables:  opts.Tables,
		Exclude: opts.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("load: inspecting schema: %w", err)
	}
	tables := make([]*gen.Table, 0, len(s.Tables))
	for _, t := range s.Tables {
		tables = append(tables, convertTable(d, t))
	}
	return tables, nil
}

func inspector(d string, db *stdsql.DB) (migrate.Driver, error) {
	switch d {
	case dialect.MySQL:
		return mysql.Open(db)
	case dialect.Postgres:
		return postgres.Open(db)
	default:
		return sqlite.Open(db)
	}
}

// convertTable maps an inspected table to its descriptor.
func convertTable(d string, t *schema.Table) *gen.Table {
	keys := make(map[*schema.Column]bool)
	if t.PrimaryKey != nil {
		for _, p := range t.PrimaryKey.Parts {
			if p.C != nil {
				keys[p.C] = true
			}
		}
	}
	out := &gen.Table{Name: t.Name, Columns: make([]*gen.Column, 0, len(t.Columns))}
	for _, c := range t.Columns {
		typ := columnType(d, c.Type)
		out.Columns = append(out.Columns, &gen.Column{
			Name:          c.Name,
			Type:          typ,
			Nullable:      c.Type != nil && c.Type.Null,
			Primary:       keys[c],
			AutoIncrement: autoIncrement(d, c, keys[c] && len(keys) == 1),
			Comment:       comment(c.Attrs),
		})
	}
	return out
}

// columnType maps an inspected column type to its semantic type. Types
// without a mapping are read as strings.
func columnType(d string, ct *schema.ColumnType) gen.ColumnType {
	if ct == nil {
		return gen.TypeString
	}
	switch t := ct.Type.(type) {
	case *schema.BoolType:
		return gen.TypeBool
	case *schema.IntegerType:
		return integerType(d, t.T, t.Unsigned)
	case *postgres.SerialType:
		return integerType(d, t.T, false)
	case *schema.FloatType:
		if d != dialect.SQLite && (t.T == "float" || t.T == "real" || t.T == "float4") {
			return gen.TypeFloat32
		}
		return gen.TypeFloat64
	case *schema.DecimalType:
		return gen.TypeDecimal
	case *schema.StringType, *schema.EnumType:
		return gen.TypeString
	case *schema.TimeType:
		if strings.EqualFold(t.T, "date") {
			return gen.TypeDate
		}
		return gen.TypeTime
	case *schema.UUIDType:
		return gen.TypeUUID
	case *schema.BinaryType:
		return gen.TypeBytes
	case *schema.JSONType:
		return gen.TypeJSON
	}
	if t := gen.ParseColumnType(ct.Raw); t.Valid() {
		return t
	}
	return gen.TypeString
}

func integerType(d, name string, unsigned bool) gen.ColumnType {
	var t gen.ColumnType
	switch strings.ToLower(name) {
	case "tinyint":
		t = gen.TypeInt8
	case "smallint", "int2", "smallserial", "serial2":
		t = gen.TypeInt16
	case "int", "integer", "mediumint", "int4", "serial", "serial4":
		// INTEGER columns of SQLite hold 64-bit values.
		if d == dialect.SQLite {
			t = gen.TypeInt64
		} else {
			t = gen.TypeInt32
		}
	default:
		t = gen.TypeInt64
	}
	if unsigned {
		// Unsigned kinds follow their signed counterparts.
		t += gen.TypeUint - gen.TypeInt
	}
	return t
}

// autoIncrement reports whether the database assigns the column value.
// A single INTEGER primary key of SQLite aliases the rowid.
func autoIncrement(d string, c *schema.Column, soleKey bool) bool {
	for _, a := range c.Attrs {
		switch a.(type) {
		case *mysql.AutoIncrement, *sqlite.AutoIncrement, *postgres.Identity:
			return true
		}
	}
	if c.Type == nil {
		return false
	}
	switch t := c.Type.Type.(type) {
	case *postgres.SerialType:
		return true
	case *schema.IntegerType:
		return d == dialect.SQLite && soleKey && strings.EqualFold(t.T, "integer")
	}
	return false
}

func comment(attrs []schema.Attr) string {
	for _, a := range attrs {
		if c, ok := a.(*schema.Comment); ok {
			return c.Text
		}
	}
	return ""
}
