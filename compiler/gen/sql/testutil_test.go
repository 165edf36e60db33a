package sql

import (
	"fmt"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/aggregen/compiler/gen"
)

// newTestHelper returns a generator used as the helper of the emitters.
func newTestHelper(t *testing.T, opts ...gen.Option) *gen.JenniferGenerator {
	t.Helper()
	cfg, err := gen.NewConfig(append([]gen.Option{
		gen.WithTarget(t.TempDir()),
		gen.WithPackage("github.com/acme/shop/model"),
	}, opts...)...)
	require.NoError(t, err)
	return gen.NewJenniferGenerator(cfg, newTestRegistry(t))
}

func col(name string, typ gen.ColumnType) *gen.Column {
	return &gen.Column{Name: name, Type: typ, Nullable: true}
}

func autoKey(name string) *gen.Column {
	return &gen.Column{Name: name, Type: gen.TypeInt64, Primary: true, AutoIncrement: true}
}

// testTables returns a small shop schema: orders with items, an invoice,
// tags linked through a junction table and a category tree.
func testTables() []*gen.Table {
	return []*gen.Table{
		{Name: "order", Columns: []*gen.Column{
			autoKey("id"),
			col("code", gen.TypeString),
			col("create_by", gen.TypeInt64),
			col("create_time", gen.TypeTime),
			col("modify_time", gen.TypeTime),
			col("company_id", gen.TypeInt64),
		}},
		{Name: "order_item", Columns: []*gen.Column{
			autoKey("id"),
			col("order_id", gen.TypeInt64),
			col("sku", gen.TypeString),
			col("qty", gen.TypeInt32),
		}},
		{Name: "invoice", Columns: []*gen.Column{
			autoKey("id"),
			col("order_id", gen.TypeInt32),
			col("amount", gen.TypeDecimal),
		}},
		{Name: "shipment", Columns: []*gen.Column{
			{Name: "id", Type: gen.TypeUUID, Primary: true},
			col("order_code", gen.TypeString),
		}},
		{Name: "tag", Columns: []*gen.Column{
			autoKey("id"),
			col("name", gen.TypeString),
		}},
		{Name: "order_tag", Columns: []*gen.Column{
			col("order_id", gen.TypeInt64),
			col("tag_id", gen.TypeInt32),
		}},
		{Name: "category", Tree: &gen.TreeConfig{ParentField: "parent_id", RootValue: "0"}, Columns: []*gen.Column{
			autoKey("id"),
			col("parent_id", gen.TypeInt64),
			col("name", gen.TypeString),
		}},
	}
}

func newTestRegistry(t *testing.T) *gen.Registry {
	t.Helper()
	reg, err := gen.NewRegistry(testTables()...)
	require.NoError(t, err)
	return reg
}

// testSpec returns an order aggregate using every relation kind.
func testSpec() *gen.RelationSpec {
	return &gen.RelationSpec{
		MajorTable:     "order",
		GenerateSelect: true,
		GenerateSave:   true,
		GenerateDelete: true,
		OneToOne: []gen.OneToOne{
			{Table: "invoice"},
			{Table: "shipment", JoinField: "order_code", MajorField: "code"},
		},
		OneToMany: []gen.OneToMany{
			{Table: "order_item"},
			{Table: "tag", MiddleTable: "order_tag"},
		},
	}
}

// testAggregate resolves and synthesizes spec against the test schema.
func testAggregate(t *testing.T, spec *gen.RelationSpec) *gen.Aggregate {
	t.Helper()
	a, warnings, err := gen.Resolve(newTestRegistry(t), spec)
	require.NoError(t, err)
	require.Empty(t, warnings)
	warnings, err = gen.Synthesize(a)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return a
}

// lookup returns a table of the test schema.
func lookup(t *testing.T, name string) *gen.Table {
	t.Helper()
	tbl, ok := newTestRegistry(t).Lookup(name)
	require.True(t, ok)
	return tbl
}

// jenString renders a code fragment.
func jenString(c jen.Code) string {
	return fmt.Sprintf("%#v", c)
}
