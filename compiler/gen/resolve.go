package gen

import (
	"fmt"
)

// Resolve resolves the relations of spec against the registry. Relations
// whose tables or columns cannot be resolved are left out of the returned
// aggregate and reported as warnings. Only a major table that cannot be
// resolved fails the spec as a whole.
func Resolve(reg *Registry, spec *RelationSpec) (*Aggregate, []*RelationError, error) {
	if spec == nil || spec.MajorTable == "" {
		return nil, nil, NewConfigError("major_table", nil, "relation spec without major table")
	}
	major, ok := reg.Lookup(spec.MajorTable)
	if !ok {
		return nil, nil, NewConfigError("major_table", spec.MajorTable, "unknown table")
	}
	key, err := major.PrimaryKey()
	if err != nil {
		return nil, nil, NewSchemaError(major.Name, "", "major table has no usable primary key", err)
	}
	a := &Aggregate{
		Spec:     spec,
		Name:     spec.Aggregate,
		Major:    major,
		MajorKey: key,
	}
	if a.Name == "" {
		a.Name = major.StructName() + "Aggregate"
	}
	r := &resolver{reg: reg, agg: a}
	for _, o := range spec.OneToOne {
		if rel := r.direct(O2O, o.Table, o.JoinField, o.MajorField, o.Readonly); rel != nil {
			a.OneToOne = append(a.OneToOne, rel)
		}
	}
	for _, o := range spec.OneToMany {
		var rel *Relation
		if o.IsManyToMany() {
			rel = r.junction(o)
		} else {
			rel = r.direct(O2M, o.Table, o.JoinField, o.MajorField, o.Readonly)
		}
		if rel != nil {
			a.OneToMany = append(a.OneToMany, rel)
		}
	}
	return a, r.warnings, nil
}

type resolver struct {
	reg      *Registry
	agg      *Aggregate
	warnings []*RelationError
}

func (r *resolver) warn(relation, table, column, reason string, cause error) {
	r.warnings = append(r.warnings, NewRelationError(r.agg.Name, relation, table, column, reason, cause))
}

// target resolves the related table and its primary key.
func (r *resolver) target(name string) (*Table, *Column, bool) {
	t, ok := r.reg.Lookup(name)
	if !ok {
		r.warn(name, name, "", "unknown table", nil)
		return nil, nil, false
	}
	key, err := t.PrimaryKey()
	if err != nil {
		r.warn(name, t.Name, "", "target has no single primary key", err)
		return nil, nil, false
	}
	return t, key, true
}

// direct resolves a one-to-one or one-to-many relation whose target holds
// the foreign key.
func (r *resolver) direct(kind RelationKind, table, join, majorField string, readonly bool) *Relation {
	target, tkey, ok := r.target(table)
	if !ok {
		return nil
	}
	major := r.agg.Major
	src := r.agg.MajorKey
	if majorField != "" {
		if src, ok = major.Column(majorField); !ok {
			r.warn(table, major.Name, majorField, "unknown major field", nil)
			return nil
		}
	}
	if join == "" {
		join = snake(major.Name) + "_" + src.Name
	}
	jc, ok := target.Column(join)
	if !ok {
		r.warn(table, target.Name, join, "unknown join field", nil)
		return nil
	}
	if !compatible(src.Type, jc.Type) {
		r.warn(table, target.Name, jc.Name, fmt.Sprintf("join field type %s does not match major field %s.%s (%s)", jc.Type, major.Name, src.Name, src.Type), nil)
		return nil
	}
	return &Relation{
		Kind:      kind,
		Target:    target,
		TargetKey: tkey,
		Source:    src,
		Join:      jc,
		Readonly:  readonly,
	}
}

// junction resolves a many-to-many relation through its middle table.
func (r *resolver) junction(o OneToMany) *Relation {
	target, tkey, ok := r.target(o.Table)
	if !ok {
		return nil
	}
	mid, ok := r.reg.Lookup(o.MiddleTable)
	if !ok {
		r.warn(o.Table, o.MiddleTable, "", "unknown junction table", nil)
		return nil
	}
	major, mkey := r.agg.Major, r.agg.MajorKey
	majorCol := o.MajorField
	if majorCol == "" {
		majorCol = snake(major.Name) + "_" + mkey.Name
	}
	jm, ok := mid.Column(majorCol)
	if !ok {
		r.warn(o.Table, mid.Name, majorCol, "unknown junction major field", nil)
		return nil
	}
	joinCol := o.JoinField
	if joinCol == "" {
		joinCol = snake(target.Name) + "_" + tkey.Name
	}
	jt, ok := mid.Column(joinCol)
	if !ok {
		r.warn(o.Table, mid.Name, joinCol, "unknown junction join field", nil)
		return nil
	}
	switch {
	case !compatible(mkey.Type, jm.Type):
		r.warn(o.Table, mid.Name, jm.Name, fmt.Sprintf("junction field type %s does not match major key %s", jm.Type, mkey.Type), nil)
		return nil
	case !compatible(tkey.Type, jt.Type):
		r.warn(o.Table, mid.Name, jt.Name, fmt.Sprintf("junction field type %s does not match target key %s", jt.Type, tkey.Type), nil)
		return nil
	case jm == jt:
		r.warn(o.Table, mid.Name, jm.Name, "junction major and join fields are the same column", nil)
		return nil
	}
	return &Relation{
		Kind:          M2M,
		Target:        target,
		TargetKey:     tkey,
		Source:        mkey,
		Join:          jt,
		Junction:      mid,
		JunctionMajor: jm,
		Readonly:      o.Readonly,
	}
}
