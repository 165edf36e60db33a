// Package gen generates relational aggregate code from table metadata.
//
// An aggregate bundles a major table with its one-to-one, one-to-many and
// many-to-many related tables. The package resolves the declared relations
// against the table registry and renders Go code for the resulting
// aggregates with Jennifer.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Table metadata (config, snapshot or inspected database)
//	        ↓
//	   Registry (tables by name, field collisions checked)
//	        ↓
//	   RelationSpec → Resolve → Aggregate
//	        ↓
//	   MinimalDialect (database-specific code)
//	        ↓
//	   Generated package
//
// # Key Types
//
//   - Table, Column: the metadata of a table
//   - Registry: all known tables, looked up by name
//   - RelationSpec: a declared aggregate and its relations
//   - Aggregate, Relation: a resolved aggregate and its relations
//   - Config: global configuration for code generation
//   - Report: the aggregates, files and problems of a run
//
// # Interface Hierarchy
//
//	MinimalDialect
//	├── Name() string
//	├── EntityGenerator (row struct, statements, refine methods)
//	└── AggregateGenerator (aggregate, save, load, delete)
//
//	TreeGenerator (optional, tree builder of tree tables)
//
// A dialect implementing TreeGenerator gets one extra file per table
// configured as a tree.
//
// # Error Handling
//
//   - SchemaError: invalid table metadata or name collisions
//   - ConfigError: invalid configuration
//   - RelationError: a relation that could not be resolved
//   - GenerationError: code generation errors
//
// A relation that cannot be resolved is skipped with a warning unless
// strict mode is enabled:
//
//	report, err := g.Generate(ctx, specs)
//	if gen.IsRelationError(err) {
//	    // strict mode: nothing was written
//	}
//	for _, w := range report.Warnings {
//	    log.Println(w)
//	}
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./model"),
//	    gen.WithDialect("mysql"),
//	    gen.WithMultiTenancy(true),
//	)
//
// # Code Organization
//
//   - column.go, table.go: table metadata
//   - registry.go: the table registry
//   - func.go: identifier naming and the configured acronyms
//   - relation.go, resolve.go: relation specs and their resolution
//   - aggregate.go: aggregates and their field synthesis
//   - audit.go: audit and tenancy injection rules
//   - generate.go, writer.go: the Jennifer generator
//   - errors.go: structured error types
package gen
