package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/aggregen/compiler/gen"
)

// Dialect implements the gen dialect interfaces for SQL databases.
// The generated code runs on MySQL, PostgreSQL and SQLite through the
// dialect/sql runtime package, which quotes identifiers and rebinds
// placeholders for the executor's dialect.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new SQL dialect generator.
// The helper parameter should be a *gen.JenniferGenerator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "sql"
}

// GenEntity generates the row file ({table}.go).
// Includes: table constants, row struct, Insert, UpdateSelective, Remove,
// Find, Query, Select, DeleteWhere and the refine methods.
func (d *Dialect) GenEntity(t *gen.Table) *jen.File {
	return genEntity(d.helper, t)
}

// GenTree generates the tree file ({table}_tree.go).
func (d *Dialect) GenTree(t *gen.Table) *jen.File {
	return genTree(d.helper, t)
}

// GenAggregate generates the aggregate file ({aggregate}.go).
// Includes: aggregate type, FromMajor, ToMajor and Refine.
func (d *Dialect) GenAggregate(a *gen.Aggregate) *jen.File {
	return genAggregate(d.helper, a)
}

// GenSave generates the cascading save ({aggregate}_save.go).
func (d *Dialect) GenSave(a *gen.Aggregate) *jen.File {
	return genSave(d.helper, a)
}

// GenLoad generates the cascading loads ({aggregate}_load.go).
func (d *Dialect) GenLoad(a *gen.Aggregate) *jen.File {
	return genLoad(d.helper, a)
}

// GenDelete generates the cascading removals ({aggregate}_delete.go).
func (d *Dialect) GenDelete(a *gen.Aggregate) *jen.File {
	return genDelete(d.helper, a)
}

// Compile-time checks.
var (
	_ gen.MinimalDialect = (*Dialect)(nil)
	_ gen.TreeGenerator  = (*Dialect)(nil)
)
