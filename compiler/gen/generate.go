package gen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

// Import paths of the runtime packages referenced by generated code.
const (
	RuntimePkgPath = "github.com/syssam/aggregen"
	SQLPkgPath     = "github.com/syssam/aggregen/dialect/sql"
)

// Report summarizes a generation run.
type Report struct {
	// Aggregates holds the aggregates that were resolved and emitted.
	Aggregates []*Aggregate
	// Warnings holds the relations that were skipped.
	Warnings []*RelationError
	// Failed holds the specs (and tree tables) that were skipped as a
	// whole, e.g. because their major table is unknown.
	Failed []error
	// Files holds the paths of the written files, relative to the target.
	Files []string
}

// Problems returns the number of warnings and failures of the run.
func (r *Report) Problems() int {
	return len(r.Warnings) + len(r.Failed)
}

// Err joins the warnings and failures of the run into a single error.
func (r *Report) Err() error {
	errs := make([]error, 0, r.Problems())
	for _, w := range r.Warnings {
		errs = append(errs, w)
	}
	errs = append(errs, r.Failed...)
	return errors.Join(errs...)
}

// JenniferGenerator resolves relation specs against a schema registry and
// writes the code emitted by its dialect, rendering files in parallel.
type JenniferGenerator struct {
	cfg *Config
	reg *Registry

	// Dialect generator for database-specific code.
	dialect MinimalDialect
	// Optional interface implementations detected at runtime.
	treeGen TreeGenerator
}

// NewJenniferGenerator creates a new generator.
// You must call WithDialect() to set a dialect before calling Generate().
//
// Example:
//
//	import "github.com/syssam/aggregen/compiler/gen/sql"
//
//	g := gen.NewJenniferGenerator(cfg, reg)
//	g.WithDialect(sql.NewDialect(g))
//	report, err := g.Generate(ctx, specs)
func NewJenniferGenerator(cfg *Config, reg *Registry) *JenniferGenerator {
	if cfg == nil {
		cfg = &Config{}
	}
	return &JenniferGenerator{cfg: cfg, reg: reg}
}

// WithDialect sets the dialect generator. Optional capabilities are
// detected via TreeGenerator.
func (g *JenniferGenerator) WithDialect(d MinimalDialect) *JenniferGenerator {
	if d != nil {
		g.dialect = d
		if tg, ok := d.(TreeGenerator); ok {
			g.treeGen = tg
		}
	}
	return g
}

// Resolve resolves and synthesizes every spec without writing files.
// Specs that fail as a whole are recorded in Report.Failed and skipped
// relations in Report.Warnings. Each problem is logged at Warn.
func (g *JenniferGenerator) Resolve(specs []*RelationSpec) *Report {
	var (
		log    = g.cfg.Log()
		report = &Report{}
		names  = make(map[string]bool)
	)
	warn := func(ws []*RelationError) {
		for _, w := range ws {
			log.Warn("relation skipped", "aggregate", w.Aggregate, "relation", w.Relation, "table", w.Table, "reason", w.Reason)
		}
		report.Warnings = append(report.Warnings, ws...)
	}
	fail := func(err error) {
		log.Warn("aggregate skipped", "error", err)
		report.Failed = append(report.Failed, err)
	}
	for _, t := range g.reg.Tables() {
		names[t.StructName()] = true
	}
	for _, spec := range specs {
		a, warnings, err := Resolve(g.reg, spec)
		warn(warnings)
		if err != nil {
			fail(err)
			continue
		}
		if names[a.Name] {
			fail(NewConfigError("aggregate", a.Name, "type name is already used by a table or another aggregate"))
			continue
		}
		warnings, err = Synthesize(a)
		warn(warnings)
		if err != nil {
			fail(err)
			continue
		}
		names[a.Name] = true
		report.Aggregates = append(report.Aggregates, a)
	}
	return report
}

// file is a single output file.
type file struct {
	name string
	gen  func() *jen.File
}

// Generate resolves the specs and writes the generated files to the
// target directory. In strict mode any skipped relation or spec fails the
// run before a file is written. Write failures are joined into one error.
func (g *JenniferGenerator) Generate(ctx context.Context, specs []*RelationSpec) (*Report, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Generate()")
	}
	if g.cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory")
	}
	report := g.Resolve(specs)
	if g.cfg.Strict && report.Problems() > 0 {
		return report, NewGenerationError("resolve", "", fmt.Sprintf("%d relation problem(s) in strict mode", report.Problems()), report.Err())
	}
	files := g.files(report)
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return report, NewGenerationError("write", g.cfg.Target, "create target directory", err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.WorkerCount())
	for _, f := range files {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := g.writeFile(f.gen(), f.name); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return report, err
	}
	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}
	for _, f := range files {
		report.Files = append(report.Files, f.name)
	}
	return report, nil
}

// files lists the output files of the resolved aggregates: one entity file
// per table they touch, tree files for tree tables and the aggregate files
// selected by each spec.
func (g *JenniferGenerator) files(report *Report) []file {
	var (
		files []file
		seen  = make(map[*Table]bool)
	)
	entity := func(t *Table) {
		if !seen[t] {
			seen[t] = true
			files = append(files, file{name: t.FileName() + ".go", gen: func() *jen.File { return g.dialect.GenEntity(t) }})
		}
	}
	for _, a := range report.Aggregates {
		for _, t := range a.Tables() {
			entity(t)
		}
	}
	if g.treeGen != nil {
		for _, t := range g.reg.Tables() {
			if t.Tree == nil {
				continue
			}
			if _, err := t.TreeParent(); err != nil {
				err = NewSchemaError(t.Name, t.Tree.ParentField, "invalid tree configuration", err)
				g.cfg.Log().Warn("tree skipped", "table", t.Name, "error", err)
				report.Failed = append(report.Failed, err)
				continue
			}
			entity(t)
			files = append(files, file{name: t.FileName() + "_tree.go", gen: func() *jen.File { return g.treeGen.GenTree(t) }})
		}
	}
	for _, a := range report.Aggregates {
		base := a.FileName()
		files = append(files, file{name: base + ".go", gen: func() *jen.File { return g.dialect.GenAggregate(a) }})
		if a.Spec.GenerateSave {
			files = append(files, file{name: base + "_save.go", gen: func() *jen.File { return g.dialect.GenSave(a) }})
		}
		if a.Spec.GenerateSelect {
			files = append(files, file{name: base + "_load.go", gen: func() *jen.File { return g.dialect.GenLoad(a) }})
		}
		if a.Spec.GenerateDelete {
			files = append(files, file{name: base + "_delete.go", gen: func() *jen.File { return g.dialect.GenDelete(a) }})
		}
	}
	return files
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// NewFile creates a new Jennifer file with the header comment.
func (g *JenniferGenerator) NewFile() *jen.File {
	var f *jen.File
	if g.cfg.Package != "" {
		f = jen.NewFilePathName(g.cfg.Package, g.Pkg())
	} else {
		f = jen.NewFile(g.Pkg())
	}
	f.HeaderComment(g.cfg.HeaderComment())
	f.ImportName(RuntimePkgPath, "aggregen")
	f.ImportName(SQLPkgPath, "sql")
	return f
}

// Pkg returns the output package name.
func (g *JenniferGenerator) Pkg() string {
	return g.cfg.PackageName()
}

// Config returns the generation config.
func (g *JenniferGenerator) Config() *Config {
	return g.cfg
}

// GoType returns the Go type of a column value.
func (g *JenniferGenerator) GoType(c *Column) jen.Code {
	switch c.Type {
	case TypeBool:
		return jen.Bool()
	case TypeInt:
		return jen.Int()
	case TypeInt8:
		return jen.Int8()
	case TypeInt16:
		return jen.Int16()
	case TypeInt32:
		return jen.Int32()
	case TypeInt64:
		return jen.Int64()
	case TypeUint:
		return jen.Uint()
	case TypeUint8:
		return jen.Uint8()
	case TypeUint16:
		return jen.Uint16()
	case TypeUint32:
		return jen.Uint32()
	case TypeUint64:
		return jen.Uint64()
	case TypeFloat32:
		return jen.Float32()
	case TypeFloat64, TypeDecimal:
		return jen.Float64()
	case TypeTime, TypeDate:
		return jen.Qual("time", "Time")
	case TypeUUID:
		return jen.Qual("github.com/google/uuid", "UUID")
	case TypeBytes:
		return jen.Index().Byte()
	case TypeJSON:
		return jen.Qual("encoding/json", "RawMessage")
	default:
		return jen.String()
	}
}

// StructTags returns the struct tags of a column field.
func (g *JenniferGenerator) StructTags(c *Column) map[string]string {
	return map[string]string{
		"db":   c.Name,
		"json": c.Name + ",omitempty",
	}
}

// RuntimePkg returns the import path of the aggregen runtime package.
func (g *JenniferGenerator) RuntimePkg() string {
	return RuntimePkgPath
}

// SQLPkg returns the import path of the dialect/sql package.
func (g *JenniferGenerator) SQLPkg() string {
	return SQLPkgPath
}

// Injections returns the injections of t for the given branch.
func (g *JenniferGenerator) Injections(t *Table, op Op, principal, now jen.Code) []Injection {
	return Injections(t, op, g.cfg.MultiTenancy, g.GoType, principal, now)
}

// Verify JenniferGenerator implements GeneratorHelper at compile time.
var _ GeneratorHelper = (*JenniferGenerator)(nil)
