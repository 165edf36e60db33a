package gen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDialect emits one empty type per file.
type stubDialect struct {
	h GeneratorHelper
	// broken makes the aggregate file unrenderable.
	broken bool
}

func (d *stubDialect) Name() string { return "stub" }

func (d *stubDialect) file(name string) *jen.File {
	f := d.h.NewFile()
	f.Type().Id(name).Struct()
	return f
}

func (d *stubDialect) GenEntity(t *Table) *jen.File { return d.file(t.StructName()) }
func (d *stubDialect) GenSave(a *Aggregate) *jen.File { return d.file(a.Name + "Save") }
func (d *stubDialect) GenLoad(a *Aggregate) *jen.File { return d.file(a.Name + "Load") }
func (d *stubDialect) GenTree(t *Table) *jen.File { return d.file(t.StructName() + "Node") }

func (d *stubDialect) GenDelete(a *Aggregate) *jen.File {
	return d.file(a.Name + "Delete")
}

func (d *stubDialect) GenAggregate(a *Aggregate) *jen.File {
	f := d.file(a.Name)
	if d.broken {
		f.Op("}}")
	}
	return f
}

func newStubGenerator(t *testing.T, opts ...Option) (*JenniferGenerator, *stubDialect) {
	t.Helper()
	cfg, err := NewConfig(append([]Option{
		WithTarget(filepath.Join(t.TempDir(), "model")),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)...)
	require.NoError(t, err)
	g := NewJenniferGenerator(cfg, shopRegistry(t))
	d := &stubDialect{h: g}
	g.WithDialect(d)
	return g, d
}

func orderSpec() *RelationSpec {
	return &RelationSpec{
		MajorTable:     "order",
		GenerateSelect: true,
		GenerateSave:   true,
		GenerateDelete: true,
		OneToMany:      []OneToMany{{Table: "order_line"}, {Table: "tag", MiddleTable: "order_tag"}},
	}
}

func TestReport(t *testing.T) {
	r := &Report{}
	assert.Zero(t, r.Problems())
	assert.NoError(t, r.Err())

	r.Warnings = []*RelationError{NewRelationError("OrderAggregate", "coupon", "coupon", "", "unknown table", nil)}
	r.Failed = []error{NewConfigError("major_table", "nope", "unknown table")}
	assert.Equal(t, 2, r.Problems())
	err := r.Err()
	assert.ErrorIs(t, err, ErrUnresolvedRelation)
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestJenniferGenerator_Resolve(t *testing.T) {
	g, _ := newStubGenerator(t)
	report := g.Resolve([]*RelationSpec{
		orderSpec(),
		{MajorTable: "receipt", OneToOne: []OneToOne{{Table: "coupon"}}},
		{MajorTable: "missing"},
		{MajorTable: "order_line", Aggregate: "Tag"},
		{MajorTable: "order_line", Aggregate: "OrderAggregate"},
	})
	require.Len(t, report.Aggregates, 2)
	assert.Equal(t, "OrderAggregate", report.Aggregates[0].Name)
	assert.Equal(t, "ReceiptAggregate", report.Aggregates[1].Name)
	assert.NotEmpty(t, report.Aggregates[0].Fields, "aggregates are synthesized")

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "coupon", report.Warnings[0].Relation)

	require.Len(t, report.Failed, 3)
	assert.True(t, IsConfigError(report.Failed[0]))
	assert.Contains(t, report.Failed[1].Error(), "already used")
	assert.Contains(t, report.Failed[2].Error(), "already used")
}

func TestJenniferGenerator_Generate(t *testing.T) {
	g, _ := newStubGenerator(t, WithPackage("github.com/acme/shop/model"))
	report, err := g.Generate(context.Background(), []*RelationSpec{orderSpec()})
	require.NoError(t, err)

	files := append([]string(nil), report.Files...)
	sort.Strings(files)
	assert.Equal(t, []string{
		"category.go",
		"category_tree.go",
		"order.go",
		"order_aggregate.go",
		"order_aggregate_delete.go",
		"order_aggregate_load.go",
		"order_aggregate_save.go",
		"order_line.go",
		"order_tag.go",
		"tag.go",
	}, files)

	src, err := os.ReadFile(filepath.Join(g.Config().Target, "order_aggregate.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "// "+DefaultHeader)
	assert.Contains(t, string(src), "package model")
	assert.Contains(t, string(src), "type OrderAggregate struct{}")
}

func TestJenniferGenerator_GenerateSelectedFiles(t *testing.T) {
	g, _ := newStubGenerator(t)
	spec := orderSpec()
	spec.GenerateSave, spec.GenerateDelete = false, false
	report, err := g.Generate(context.Background(), []*RelationSpec{spec})
	require.NoError(t, err)
	assert.Contains(t, report.Files, "order_aggregate_load.go")
	assert.NotContains(t, report.Files, "order_aggregate_save.go")
	assert.NotContains(t, report.Files, "order_aggregate_delete.go")
}

func TestJenniferGenerator_GenerateInvalidTree(t *testing.T) {
	g, _ := newStubGenerator(t)
	cat, ok := g.reg.Lookup("category")
	require.True(t, ok)
	cat.Tree.ParentField = "missing"

	report, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Files)
	require.Len(t, report.Failed, 1)
	assert.True(t, IsSchemaError(report.Failed[0]))
}

func TestJenniferGenerator_GenerateStrict(t *testing.T) {
	g, _ := newStubGenerator(t, WithStrict(true))
	spec := orderSpec()
	spec.OneToOne = []OneToOne{{Table: "coupon"}}
	report, err := g.Generate(context.Background(), []*RelationSpec{spec})
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.ErrorIs(t, err, ErrUnresolvedRelation)
	assert.Len(t, report.Warnings, 1)
	assert.Empty(t, report.Files)

	_, statErr := os.Stat(g.Config().Target)
	assert.True(t, os.IsNotExist(statErr), "strict mode writes nothing")
}

func TestJenniferGenerator_GenerateErrors(t *testing.T) {
	t.Run("no dialect", func(t *testing.T) {
		g := NewJenniferGenerator(&Config{Target: t.TempDir()}, shopRegistry(t))
		_, err := g.Generate(context.Background(), nil)
		assert.True(t, IsConfigError(err))
	})

	t.Run("no target", func(t *testing.T) {
		g := NewJenniferGenerator(&Config{}, shopRegistry(t))
		g.WithDialect(&stubDialect{h: g})
		_, err := g.Generate(context.Background(), nil)
		assert.True(t, IsConfigError(err))
	})

	t.Run("render failure", func(t *testing.T) {
		g, d := newStubGenerator(t)
		d.broken = true
		report, err := g.Generate(context.Background(), []*RelationSpec{orderSpec()})
		require.Error(t, err)
		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, "order_aggregate.go", genErr.File)
		assert.Empty(t, report.Files)
	})

	t.Run("canceled", func(t *testing.T) {
		g, _ := newStubGenerator(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := g.Generate(ctx, []*RelationSpec{orderSpec()})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestJenniferGenerator_GoType(t *testing.T) {
	g := NewJenniferGenerator(nil, nil)
	tests := []struct {
		typ  ColumnType
		want string
	}{
		{TypeInt32, "int32"},
		{TypeDecimal, "float64"},
		{TypeDate, "time.Time"},
		{TypeUUID, "uuid.UUID"},
		{TypeBytes, "[]byte"},
		{TypeJSON, "json.RawMessage"},
		{TypeString, "string"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			code := g.GoType(&Column{Name: "c", Type: tt.typ})
			assert.Equal(t, tt.want, jen.Add(code).GoString())
		})
	}
	assert.Equal(t, map[string]string{"db": "code", "json": "code,omitempty"}, g.StructTags(&Column{Name: "code"}))
}
