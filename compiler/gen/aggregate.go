package gen

// Aggregate is a resolved RelationSpec: the major table and the relations
// that survived resolution, in declaration order.
type Aggregate struct {
	Spec      *RelationSpec
	Name      string
	Major     *Table
	MajorKey  *Column
	OneToOne  []*Relation
	OneToMany []*Relation
	// Fields holds the synthesized fields of the generated type.
	Fields []*AggregateField
	// MajorField is the field nesting the major row when the aggregate
	// does not extend the major table.
	MajorField *AggregateField
}

// FieldKind identifies the role of an aggregate field.
type FieldKind uint8

// Aggregate field kinds.
const (
	// FieldColumn is a major column copied into an extended aggregate.
	FieldColumn FieldKind = iota + 1
	// FieldMajor nests the major row.
	FieldMajor
	// FieldAttachment is the optional []string presentation field.
	FieldAttachment
	// FieldOne holds a one-to-one child.
	FieldOne
	// FieldMany holds a child collection.
	FieldMany
	// FieldDeleted holds the tombstones of a child collection.
	FieldDeleted
)

// AggregateField is a field of the generated aggregate type.
type AggregateField struct {
	Name     string
	JSON     string
	Kind     FieldKind
	Column   *Column
	Table    *Table
	Relation *Relation
}

// Extended reports whether the major columns are embedded in the aggregate.
func (a *Aggregate) Extended() bool {
	return a.Spec.ExtendMajor
}

// Relations returns the one-to-one relations followed by the one-to-many
// and many-to-many relations, in declaration order.
func (a *Aggregate) Relations() []*Relation {
	rels := make([]*Relation, 0, len(a.OneToOne)+len(a.OneToMany))
	rels = append(rels, a.OneToOne...)
	return append(rels, a.OneToMany...)
}

// Tables returns every table the aggregate reads or writes: the major
// table, relation targets and junction tables.
func (a *Aggregate) Tables() []*Table {
	seen := map[*Table]bool{a.Major: true}
	tables := []*Table{a.Major}
	for _, r := range a.Relations() {
		for _, t := range []*Table{r.Target, r.Junction} {
			if t != nil && !seen[t] {
				seen[t] = true
				tables = append(tables, t)
			}
		}
	}
	return tables
}

// FileName returns the base name of the generated aggregate files.
func (a *Aggregate) FileName() string {
	return snake(a.Name)
}

// FromMajorFunc returns the name of the major-to-aggregate conversion.
func (a *Aggregate) FromMajorFunc() string { return a.Name + "FromMajor" }

// LoadFunc returns the name of the single load function.
func (a *Aggregate) LoadFunc() string { return "Load" + a.Name }

// LoadManyFunc returns the name of the batch load function.
func (a *Aggregate) LoadManyFunc() string { return "Load" + plural(a.Name) }

// RemoveFunc returns the name of the remove-by-key function.
func (a *Aggregate) RemoveFunc() string { return "Remove" + a.Name }

// RemoveManyFunc returns the name of the batch remove function.
func (a *Aggregate) RemoveManyFunc() string { return "Remove" + plural(a.Name) }

// methodNames are the exported methods generated on every aggregate type.
var methodNames = []string{"ToMajor", "Refine", "Save", "Remove"}

// Synthesize builds the field list of the aggregate type. Relations whose
// field names collide with an earlier field are dropped from the aggregate
// and reported as warnings. A collision between major columns is an error.
func Synthesize(a *Aggregate) ([]*RelationError, error) {
	var (
		warnings []*RelationError
		names    = make(map[string]bool)
		jsons    = make(map[string]bool)
	)
	for _, m := range methodNames {
		names[m] = true
	}
	free := func(fs ...*AggregateField) bool {
		for _, f := range fs {
			if names[f.Name] || jsons[f.JSON] {
				return false
			}
		}
		for _, f := range fs {
			names[f.Name] = true
			jsons[f.JSON] = true
		}
		return true
	}
	a.Fields, a.MajorField = nil, nil
	if a.Extended() {
		for _, c := range a.Major.Columns {
			f := &AggregateField{Name: c.StructField(), JSON: c.Name, Kind: FieldColumn, Column: c, Table: a.Major}
			if !free(f) {
				return nil, NewSchemaError(a.Major.Name, c.Name, "column name collides with another aggregate field", nil)
			}
			a.Fields = append(a.Fields, f)
		}
		if name := a.Spec.AttachmentField; name != "" {
			f := &AggregateField{Name: a.Major.naming.Pascal(name), JSON: snake(name), Kind: FieldAttachment}
			if free(f) {
				a.Fields = append(a.Fields, f)
			} else {
				warnings = append(warnings, NewRelationError(a.Name, name, a.Major.Name, "", "attachment field name collides with another aggregate field", nil))
			}
		}
	} else {
		h := a.Major.HandlerName()
		a.MajorField = &AggregateField{Name: a.Major.naming.Pascal(h), JSON: h, Kind: FieldMajor, Table: a.Major}
		if !free(a.MajorField) {
			return nil, NewSchemaError(a.Major.Name, "", "major handler collides with a generated method", nil)
		}
		a.Fields = append(a.Fields, a.MajorField)
	}

	keep := func(rels []*Relation) []*Relation {
		kept := rels[:0]
		for _, r := range rels {
			h := r.Handler()
			r.Field, r.Deleted = nil, nil
			if r.Unique() {
				f := &AggregateField{Name: a.Major.naming.Pascal(h), JSON: h, Kind: FieldOne, Table: r.Target, Relation: r}
				if !free(f) {
					warnings = append(warnings, NewRelationError(a.Name, r.Target.Name, r.Target.Name, "", "field "+f.Name+" collides with another aggregate field", nil))
					continue
				}
				r.Field = f
				a.Fields = append(a.Fields, f)
			} else {
				f := &AggregateField{Name: a.Major.naming.Pascal(h) + "s", JSON: h + "s", Kind: FieldMany, Table: r.Target, Relation: r}
				d := &AggregateField{Name: a.Major.naming.Pascal(h) + "sDeleted", JSON: h + "s_deleted", Kind: FieldDeleted, Table: r.Target, Relation: r}
				if !free(f, d) {
					warnings = append(warnings, NewRelationError(a.Name, r.Target.Name, r.Target.Name, "", "field "+f.Name+" collides with another aggregate field", nil))
					continue
				}
				r.Field, r.Deleted = f, d
				a.Fields = append(a.Fields, f, d)
			}
			kept = append(kept, r)
		}
		return kept
	}
	a.OneToOne = keep(a.OneToOne)
	a.OneToMany = keep(a.OneToMany)
	return warnings, nil
}
