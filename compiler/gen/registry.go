package gen

import (
	"slices"
	"strings"
)

// Registry indexes the table descriptors of a schema. It performs no I/O
// and is safe for concurrent reads once built.
type Registry struct {
	naming *Naming
	tables map[string]*Table
	folded map[string]*Table
	order  []*Table
}

// NewRegistry indexes the given tables. Table names must be unique.
func NewRegistry(tables ...*Table) (*Registry, error) {
	return NewRegistryWithNaming(nil, tables...)
}

// NewRegistryWithNaming indexes the given tables and names their generated
// types and fields with n. A table belongs to the last registry indexing it.
func NewRegistryWithNaming(n *Naming, tables ...*Table) (*Registry, error) {
	r := &Registry{
		naming: n,
		tables: make(map[string]*Table, len(tables)),
		folded: make(map[string]*Table, len(tables)),
	}
	for _, t := range tables {
		if err := r.add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(t *Table) error {
	switch {
	case t == nil:
		return NewSchemaError("", "", "nil table descriptor", nil)
	case t.Name == "":
		return NewSchemaError("", "", "table without name", nil)
	case r.tables[t.Name] != nil:
		return NewSchemaError(t.Name, "", "duplicate table", nil)
	}
	seen := make(map[string]bool, len(t.Columns))
	fields := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		if c == nil || c.Name == "" {
			return NewSchemaError(t.Name, "", "column without name", nil)
		}
		if seen[c.Name] {
			return NewSchemaError(t.Name, c.Name, "duplicate column", nil)
		}
		c.naming = r.naming
		if !c.Type.Valid() {
			return NewSchemaError(t.Name, c.Name, "unknown column type", nil)
		}
		f := c.StructField()
		if other, ok := fields[f]; ok {
			return NewSchemaError(t.Name, c.Name, "struct field "+f+" collides with column "+other, nil)
		}
		if slices.Contains(entityMethods, f) {
			return NewSchemaError(t.Name, c.Name, "struct field "+f+" collides with a generated method", nil)
		}
		seen[c.Name] = true
		fields[f] = c.Name
	}
	t.naming = r.naming
	r.tables[t.Name] = t
	r.folded[strings.ToLower(t.Name)] = t
	r.order = append(r.order, t)
	return nil
}

// entityMethods are the exported methods generated on every row type.
var entityMethods = []string{"Insert", "UpdateSelective", "Remove", "RefineCreate", "RefineUpdate"}

// Lookup returns the table with the given name. Names are matched exactly
// first and then case-insensitively.
func (r *Registry) Lookup(name string) (*Table, bool) {
	if t, ok := r.tables[name]; ok {
		return t, true
	}
	t, ok := r.folded[strings.ToLower(name)]
	return t, ok
}

// Tables returns the registered tables in registration order.
func (r *Registry) Tables() []*Table {
	return slices.Clone(r.order)
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.order)
}
