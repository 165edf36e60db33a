// Package compiler runs the generator end to end: it reads the config
// file, loads the schema, resolves the declared aggregates and writes the
// generated package.
package compiler

import (
	"context"
	"fmt"

	"github.com/syssam/aggregen/compiler/gen"
	"github.com/syssam/aggregen/compiler/gen/sql"
	"github.com/syssam/aggregen/compiler/load"
)

// Generate generates the package described by the config file at path.
// Options are applied after the options of the config file.
func Generate(ctx context.Context, path string, opts ...gen.Option) (*gen.Report, error) {
	cfg, g, err := prepare(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, cfg.Specs())
}

// Check resolves the aggregates of the config file at path without
// writing any file. In strict mode any problem is returned as an error.
func Check(ctx context.Context, path string, opts ...gen.Option) (*gen.Report, error) {
	cfg, g, err := prepare(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	report := g.Resolve(cfg.Specs())
	if g.Config().Strict && report.Problems() > 0 {
		return report, gen.NewGenerationError("resolve", "", fmt.Sprintf("%d relation problem(s) in strict mode", report.Problems()), report.Err())
	}
	return report, nil
}

// Snapshot inspects the database of the config file at path and writes
// its schema to out, or to the configured snapshot file when out is
// empty. It returns the written path.
func Snapshot(ctx context.Context, path, out string) (string, error) {
	cfg, err := load.LoadConfig(path)
	if err != nil {
		return "", err
	}
	src := cfg.Schema
	if src.DSN == "" {
		return "", gen.NewConfigError("schema.dsn", nil, "snapshot requires a database to inspect")
	}
	if out == "" {
		out = cfg.Path(src.Snapshot)
	}
	if out == "" {
		return "", gen.NewConfigError("schema.snapshot", nil, "missing snapshot path")
	}
	tables, err := load.InspectDSN(ctx, cfg.DialectName(), src.DSN, load.InspectOptions{
		Schema:  src.Name,
		Tables:  src.Include,
		Exclude: src.Exclude,
	})
	if err != nil {
		return "", err
	}
	if err := load.WriteSnapshot(out, cfg.DialectName(), tables); err != nil {
		return "", err
	}
	return out, nil
}

func prepare(ctx context.Context, path string, opts []gen.Option) (*load.Config, *gen.JenniferGenerator, error) {
	cfg, err := load.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	gc, err := gen.NewConfig(append(cfg.Options(), opts...)...)
	if err != nil {
		return nil, nil, err
	}
	tables, err := load.Schema(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	reg, err := gen.NewRegistryWithNaming(gc.Naming(), tables...)
	if err != nil {
		return nil, nil, err
	}
	g := gen.NewJenniferGenerator(gc, reg)
	g.WithDialect(sql.NewDialect(g))
	return cfg, g, nil
}
