package gen

import "github.com/dave/jennifer/jen"

// EntityGenerator generates per-table code.
// Each method is called once per table used by an aggregate.
type EntityGenerator interface {
	// GenEntity generates the row struct and its statements ({table}.go).
	GenEntity(t *Table) *jen.File
}

// AggregateGenerator generates per-aggregate code.
// Each method is called once per resolved aggregate.
type AggregateGenerator interface {
	// GenAggregate generates the aggregate type, its conversions and
	// refinement ({aggregate}.go).
	GenAggregate(a *Aggregate) *jen.File
	// GenSave generates the cascading save ({aggregate}_save.go).
	GenSave(a *Aggregate) *jen.File
	// GenLoad generates the cascading loads ({aggregate}_load.go).
	GenLoad(a *Aggregate) *jen.File
	// GenDelete generates the cascading removals ({aggregate}_delete.go).
	GenDelete(a *Aggregate) *jen.File
}

// TreeGenerator generates the tree builder of self-referencing tables.
// It is optional; dialects without it skip tree tables.
type TreeGenerator interface {
	// GenTree generates {table}_tree.go.
	GenTree(t *Table) *jen.File
}

// MinimalDialect is the minimum interface a dialect must implement.
type MinimalDialect interface {
	// Name returns the dialect name (e.g. "sql").
	Name() string
	EntityGenerator
	AggregateGenerator
}

// GeneratorHelper provides helper methods for dialect implementations.
// JenniferGenerator implements this interface, allowing dialect packages
// to use the configuration without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the configured header comment.
	NewFile() *jen.File

	// Pkg returns the output package name.
	Pkg() string

	// Config returns the generation config.
	Config() *Config

	// GoType returns the Go type of a column value.
	GoType(c *Column) jen.Code

	// StructTags returns the struct tags of a column field.
	StructTags(c *Column) map[string]string

	// RuntimePkg returns the import path of the aggregen runtime package.
	RuntimePkg() string

	// SQLPkg returns the import path of the dialect/sql package.
	SQLPkg() string

	// Injections returns the audit and tenancy injections of a table for
	// the given branch. principal and now are the expressions holding the
	// caller and the current time.
	Injections(t *Table, op Op, principal, now jen.Code) []Injection
}
