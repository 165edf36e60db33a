package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/aggregen/compiler/gen"
)

func TestGenTree(t *testing.T) {
	h := newTestHelper(t)
	code := genTree(h, lookup(t, "category")).GoString()

	assert.Contains(t, code, "type CategoryNode struct {")
	assert.Contains(t, code, "*Category")
	assert.Contains(t, code, "`json:\"children\"`")
	assert.Contains(t, code, "func BuildCategoryTree(rows []*Category) []*CategoryNode {")
	assert.Contains(t, code, "byKey := make(map[int64]*CategoryNode, len(rows))")
	assert.Contains(t, code, "if n.ParentID == nil || *n.ParentID == 0 {")
	assert.Contains(t, code, "p, ok := byKey[*n.ParentID]")
	assert.Contains(t, code, "if !ok || p == n {")
}

func TestGenTree_Invalid(t *testing.T) {
	h := newTestHelper(t)
	tbl := &gen.Table{Name: "node", Tree: &gen.TreeConfig{ParentField: "missing"}, Columns: []*gen.Column{autoKey("id")}}
	assert.NotContains(t, genTree(h, tbl).GoString(), "BuildNodeTree")
}

func TestRootValue(t *testing.T) {
	tests := []struct {
		name  string
		typ   gen.ColumnType
		value string
		want  string
	}{
		{"empty", gen.TypeInt64, "", ""},
		{"integer", gen.TypeInt32, "0", "0"},
		{"bad integer", gen.TypeInt64, "root", ""},
		{"string", gen.TypeString, "root", `"root"`},
		{"uuid", gen.TypeUUID, "00000000-0000-0000-0000-000000000000", `uuid.MustParse("00000000-0000-0000-0000-000000000000")`},
		{"bad uuid", gen.TypeUUID, "x", ""},
		{"unsupported", gen.TypeBool, "true", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rootValue(&gen.Column{Name: "parent_id", Type: tt.typ}, tt.value)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			assert.Contains(t, jenString(got), tt.want)
		})
	}
}
