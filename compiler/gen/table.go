package gen

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Table describes a database table and the names its generated code uses.
type Table struct {
	// Name is the table name as stored in the database.
	Name string `yaml:"name" msgpack:"name"`
	// Columns holds the table columns in declaration order.
	Columns []*Column `yaml:"columns" msgpack:"columns"`
	// PrimaryKeys holds the configured primary key column names. When set,
	// they override the keys detected from the schema.
	PrimaryKeys []string `yaml:"primary_keys,omitempty" msgpack:"primary_keys"`
	// TypeName overrides the generated Go type name.
	TypeName string `yaml:"type_name,omitempty" msgpack:"-"`
	// Handler overrides the identifier used in aggregate field names.
	Handler string `yaml:"handler,omitempty" msgpack:"-"`
	// Tree configures the self-referencing adjacency of the table.
	Tree *TreeConfig `yaml:"tree,omitempty" msgpack:"-"`

	naming *Naming
}

// TreeConfig describes a table that references itself through a parent column.
type TreeConfig struct {
	// ParentField is the column holding the parent key.
	ParentField string `yaml:"parent_field"`
	// RootValue is the parent value that marks a root row. A NULL parent
	// always marks a root.
	RootValue string `yaml:"root_value,omitempty"`
}

// StructName returns the Go type name generated for the table.
func (t *Table) StructName() string {
	if t.TypeName != "" {
		return t.TypeName
	}
	return t.naming.Pascal(t.Name)
}

// HandlerName returns the snake_case identifier of the table used for
// aggregate field names.
func (t *Table) HandlerName() string {
	if t.Handler != "" {
		return snake(t.Handler)
	}
	return snake(t.Name)
}

// TableConst returns the name of the generated table name constant.
func (t *Table) TableConst() string {
	return t.StructName() + "Table"
}

// ColumnsVar returns the name of the generated column list variable.
func (t *Table) ColumnsVar() string {
	return t.StructName() + "Columns"
}

// FileName returns the base name of the generated entity file.
func (t *Table) FileName() string {
	return snake(t.StructName())
}

// Column returns the column with the given name. Names are matched
// exactly first and then case-insensitively.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	folder := cases.Fold()
	name = folder.String(name)
	for _, c := range t.Columns {
		if folder.String(c.Name) == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryKey returns the single primary key column of the table. Configured
// keys take precedence over the schema flags. Tables without exactly one key
// column, or whose key type cannot be compared, return an error.
func (t *Table) PrimaryKey() (*Column, error) {
	if len(t.PrimaryKeys) > 0 {
		if len(t.PrimaryKeys) != 1 {
			return nil, fmt.Errorf("composite primary key (%s) is not supported", strings.Join(t.PrimaryKeys, ", "))
		}
		c, ok := t.Column(t.PrimaryKeys[0])
		if !ok {
			return nil, fmt.Errorf("configured primary key %q does not exist", t.PrimaryKeys[0])
		}
		return keyColumn(c)
	}
	var keys []*Column
	for _, c := range t.Columns {
		if c.Primary {
			keys = append(keys, c)
		}
	}
	switch len(keys) {
	case 0:
		return nil, fmt.Errorf("no primary key")
	case 1:
		return keyColumn(keys[0])
	default:
		names := make([]string, len(keys))
		for i, c := range keys {
			names[i] = c.Name
		}
		return nil, fmt.Errorf("composite primary key (%s) is not supported", strings.Join(names, ", "))
	}
}

func keyColumn(c *Column) (*Column, error) {
	if !c.Type.Keyable() {
		return nil, fmt.Errorf("primary key %q has unsupported type %s", c.Name, c.Type)
	}
	return c, nil
}

// HasKey reports whether the table has a usable primary key.
func (t *Table) HasKey() bool {
	_, err := t.PrimaryKey()
	return err == nil
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// TreeParent returns the parent column of a tree table.
func (t *Table) TreeParent() (*Column, error) {
	if t.Tree == nil || t.Tree.ParentField == "" {
		return nil, fmt.Errorf("table %q has no tree parent field", t.Name)
	}
	c, ok := t.Column(t.Tree.ParentField)
	if !ok {
		return nil, fmt.Errorf("tree parent field %q does not exist", t.Tree.ParentField)
	}
	key, err := t.PrimaryKey()
	if err != nil {
		return nil, err
	}
	if !compatible(c.Type, key.Type) {
		return nil, fmt.Errorf("tree parent field %q (%s) does not match key %q (%s)", c.Name, c.Type, key.Name, key.Type)
	}
	return c, nil
}

// compatible reports whether values of type a can be assigned to columns
// of type b, possibly through a numeric conversion.
func compatible(a, b ColumnType) bool {
	if a == b {
		return a.Keyable()
	}
	return a.Integer() && b.Integer()
}
