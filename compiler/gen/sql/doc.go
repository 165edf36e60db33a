// Package sql generates the SQL dialect code of aggregates with Jennifer.
//
// Usage:
//
//	import (
//	    "github.com/syssam/aggregen/compiler/gen"
//	    "github.com/syssam/aggregen/compiler/gen/sql"
//	)
//
//	generator := gen.NewJenniferGenerator(cfg, registry)
//	generator.WithDialect(sql.NewDialect(generator))
//	report, err := generator.Generate(ctx, specs)
//
// Generated code structure:
//
//	{output}/
//	├── {table}.go            # Row struct, statements, refine methods
//	├── {table}_tree.go       # Tree builder (tree tables only)
//	├── {aggregate}.go        # Aggregate type, conversions, Refine
//	├── {aggregate}_save.go   # Cascading Save
//	├── {aggregate}_load.go   # Load and batch load
//	└── {aggregate}_delete.go # Remove, remove by key and batch remove
//
// Generated code takes a caller-supplied sql.Executor, usually a
// transaction, and never begins or commits one.
package sql
