package gen

import (
	"fmt"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditTable() *Table {
	return &Table{Name: "document", Columns: []*Column{
		key("id", TypeInt64),
		col("create_by", TypeInt32),
		col("modify_by", TypeString),
		col("create_user_id", TypeString),
		col("modify_username", TypeString),
		col("create_username", TypeInt64),
		col("Create_Time", TypeString),
		col("modify_time", TypeTime),
		col("update_date", TypeInt64),
		col("company_id", TypeInt64),
		col("company_code", TypeString),
		col("title", TypeString),
	}}
}

func renderInjections(t *testing.T, op Op, multiTenancy bool) (columns, values []string) {
	t.Helper()
	g := NewJenniferGenerator(nil, nil)
	for _, in := range Injections(auditTable(), op, multiTenancy, g.GoType, jen.Id("p"), jen.Id("now")) {
		require.NotNil(t, in.Column)
		columns = append(columns, in.Column.Name)
		values = append(values, fmt.Sprintf("%#v", in.Value))
	}
	return columns, values
}

func TestInjections(t *testing.T) {
	tests := []struct {
		name         string
		op           Op
		multiTenancy bool
		columns      []string
		values       []string
	}{
		{
			name:    "create",
			op:      OpCreate,
			columns: []string{"create_by", "create_user_id", "Create_Time", "modify_time", "update_date"},
			values: []string{
				"int32(p.ID)",
				"strconv.FormatInt(p.ID, 10)",
				"now.Format(time.DateTime)",
				"now",
				"now.Unix()",
			},
		},
		{
			name:    "update",
			op:      OpUpdate,
			columns: []string{"modify_by", "modify_username", "modify_time", "update_date"},
			values:  []string{"p.Name", "p.Name", "now", "now.Unix()"},
		},
		{
			name:         "update with tenancy",
			op:           OpUpdate,
			multiTenancy: true,
			columns:      []string{"modify_by", "modify_username", "modify_time", "update_date", "company_id", "company_code"},
			values:       []string{"p.Name", "p.Name", "now", "now.Unix()", "p.CompanyID", "p.CompanyCode"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns, values := renderInjections(t, tt.op, tt.multiTenancy)
			assert.Equal(t, tt.columns, columns)
			assert.Equal(t, tt.values, values)
		})
	}
}

func TestInjectionRules(t *testing.T) {
	for name, rule := range InjectionRules {
		assert.NotNil(t, rule.Value, name)
		assert.NotZero(t, rule.Ops, name)
		if rule.Tenant {
			assert.True(t, rule.Principal, "tenant rule %s reads the principal", name)
		}
	}
	assert.True(t, InjectionRules["create_by"].Principal)
	assert.False(t, InjectionRules["create_time"].Principal)
	assert.Equal(t, OpCreate|OpUpdate, InjectionRules["modify_time"].Ops)
}
