package gen

// RelationSpec declares an aggregate: a major table bundled with its
// one-to-one, one-to-many and many-to-many related tables.
type RelationSpec struct {
	// MajorTable is the root table of the aggregate.
	MajorTable string
	// Aggregate is the generated type name. Defaults to <Major>Aggregate.
	Aggregate string
	// ExtendMajor embeds the major columns into the aggregate instead of
	// nesting the major row as a single field.
	ExtendMajor bool
	// AttachmentField adds a []string field to an extended aggregate.
	AttachmentField string
	// GenerateSelect, GenerateSave and GenerateDelete select the cascades
	// emitted for the aggregate.
	GenerateSelect bool
	GenerateSave   bool
	GenerateDelete bool
	// DeletedByRelation switches child reconciliation on save to tombstone
	// mode: only the rows listed in the <handler>s_deleted collections are
	// deleted. When false, stored children missing from the aggregate are
	// deleted.
	DeletedByRelation bool
	// OneToOne and OneToMany hold the relations in declaration order.
	OneToOne  []OneToOne
	OneToMany []OneToMany
}

// OneToOne declares a single child row referencing the major row.
type OneToOne struct {
	// Table is the child table.
	Table string `yaml:"table"`
	// JoinField is the column on the child holding the major value.
	// Defaults to <major>_<major field>.
	JoinField string `yaml:"join_field,omitempty"`
	// MajorField is the major column whose value the child references.
	// Defaults to the major primary key.
	MajorField string `yaml:"major_field,omitempty"`
	// Readonly relations are loaded but never saved or removed.
	Readonly bool `yaml:"readonly,omitempty"`
}

// OneToMany declares a child collection. When MiddleTable is set the
// relation is many-to-many through that junction table.
type OneToMany struct {
	// Table is the child (or target) table.
	Table string `yaml:"table"`
	// JoinField is the foreign key on the child. For many-to-many it is the
	// junction column holding the target key and defaults to
	// <target>_<target key>.
	JoinField string `yaml:"join_field,omitempty"`
	// MajorField is the major column the children reference. For
	// many-to-many it is the junction column holding the major key and
	// defaults to <major>_<major key>.
	MajorField string `yaml:"major_field,omitempty"`
	// MiddleTable is the junction table of a many-to-many relation.
	MiddleTable string `yaml:"middle_table,omitempty"`
	// Readonly relations are loaded but never saved or removed.
	Readonly bool `yaml:"readonly,omitempty"`
}

// IsManyToMany reports whether the relation goes through a junction table.
func (o OneToMany) IsManyToMany() bool {
	return o.MiddleTable != ""
}

// RelationKind is the cardinality of a resolved relation.
type RelationKind uint8

// Relation kinds.
const (
	O2O RelationKind = iota + 1
	O2M
	M2M
)

// String returns the relation kind name.
func (k RelationKind) String() string {
	switch k {
	case O2O:
		return "O2O"
	case O2M:
		return "O2M"
	case M2M:
		return "M2M"
	default:
		return "invalid"
	}
}

// Relation is a relation of an aggregate with all of its tables and columns
// resolved against the registry.
type Relation struct {
	Kind RelationKind
	// Target is the related table and TargetKey its primary key.
	Target    *Table
	TargetKey *Column
	// Source is the major column whose value the relation propagates. For
	// many-to-many it is always the major primary key.
	Source *Column
	// Join is the column receiving the source value: the foreign key on
	// the target, or for many-to-many the junction column referencing the
	// target key.
	Join *Column
	// Junction is the middle table of a many-to-many relation and
	// JunctionMajor its column referencing the major key.
	Junction      *Table
	JunctionMajor *Column
	Readonly      bool
	// Field is the aggregate field holding the relation and Deleted its
	// tombstone collection (nil for one-to-one).
	Field   *AggregateField
	Deleted *AggregateField
}

// Unique reports whether the relation holds a single row.
func (r *Relation) Unique() bool {
	return r.Kind == O2O
}

// Handler returns the handler name of the relation target.
func (r *Relation) Handler() string {
	return r.Target.HandlerName()
}
