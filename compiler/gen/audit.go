package gen

import (
	"github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"
)

// Op is the refinement branch an injection rule applies to.
type Op uint8

// Refinement branches.
const (
	// OpCreate applies to rows whose primary key is unset.
	OpCreate Op = 1 << iota
	// OpUpdate applies to rows whose primary key is set.
	OpUpdate
)

// RuleContext is the input of an injection rule, evaluated once per
// matching column at generation time.
type RuleContext struct {
	// Column is the matched column.
	Column *Column
	// GoType is the Go type of the column value.
	GoType jen.Code
	// Principal is an expression of type *aggregen.Principal.
	Principal jen.Code
	// Now is an expression of type time.Time.
	Now jen.Code
}

// Rule injects a value into a matched column.
type Rule struct {
	// Ops is the set of branches the rule applies to.
	Ops Op
	// Principal rules are skipped when no principal is supplied.
	Principal bool
	// Tenant rules only apply when multi-tenancy is enabled.
	Tenant bool
	// Value returns the injected expression, or nil when the rule cannot
	// produce a value for the column type.
	Value func(RuleContext) jen.Code
}

// InjectionRules maps normalized column names to the audit and tenancy
// rules applied by the generated refine methods.
var InjectionRules = map[string]Rule{
	"create_by":        {Ops: OpCreate, Principal: true, Value: principalAuto},
	"modify_by":        {Ops: OpUpdate, Principal: true, Value: principalAuto},
	"create_user_id":   {Ops: OpCreate, Principal: true, Value: principalID},
	"create_userid":    {Ops: OpCreate, Principal: true, Value: principalID},
	"modify_user_id":   {Ops: OpUpdate, Principal: true, Value: principalID},
	"modify_userid":    {Ops: OpUpdate, Principal: true, Value: principalID},
	"create_username":  {Ops: OpCreate, Principal: true, Value: principalName},
	"create_user_name": {Ops: OpCreate, Principal: true, Value: principalName},
	"modify_username":  {Ops: OpUpdate, Principal: true, Value: principalName},
	"modify_user_name": {Ops: OpUpdate, Principal: true, Value: principalName},
	"create_time":      {Ops: OpCreate, Value: timestamp},
	"create_date":      {Ops: OpCreate, Value: timestamp},
	"modify_time":      {Ops: OpCreate | OpUpdate, Value: timestamp},
	"modify_date":      {Ops: OpCreate | OpUpdate, Value: timestamp},
	"update_time":      {Ops: OpCreate | OpUpdate, Value: timestamp},
	"update_date":      {Ops: OpCreate | OpUpdate, Value: timestamp},
	"company_id":       {Ops: OpCreate | OpUpdate, Principal: true, Tenant: true, Value: tenantID},
	"company_code":     {Ops: OpCreate | OpUpdate, Principal: true, Tenant: true, Value: tenantCode},
}

// Injection is a rule bound to a column of a table.
type Injection struct {
	Column *Column
	Rule   Rule
	// Value is the expression assigned to the column.
	Value jen.Code
}

// Injections returns the rules matching the columns of t for the given
// branch, in column order. goType maps a column to its Go type.
func Injections(t *Table, op Op, multiTenancy bool, goType func(*Column) jen.Code, principal, now jen.Code) []Injection {
	var (
		out    []Injection
		folder = cases.Fold()
	)
	for _, c := range t.Columns {
		rule, ok := InjectionRules[folder.String(c.Name)]
		if !ok || rule.Ops&op == 0 || rule.Tenant && !multiTenancy {
			continue
		}
		v := rule.Value(RuleContext{Column: c, GoType: goType(c), Principal: principal, Now: now})
		if v == nil {
			continue
		}
		out = append(out, Injection{Column: c, Rule: rule, Value: v})
	}
	return out
}

// convert converts an int64 expression to the column type.
func convert(ctx RuleContext, v jen.Code) jen.Code {
	if ctx.Column.Type == TypeInt64 {
		return v
	}
	return jen.Add(ctx.GoType).Call(v)
}

func formatInt(v jen.Code) jen.Code {
	return jen.Qual("strconv", "FormatInt").Call(v, jen.Lit(10))
}

func principalAuto(ctx RuleContext) jen.Code {
	if ctx.Column.Type.Numeric() {
		return principalID(ctx)
	}
	return principalName(ctx)
}

func principalID(ctx RuleContext) jen.Code {
	id := jen.Add(ctx.Principal).Dot("ID")
	switch {
	case ctx.Column.Type.Numeric():
		return convert(ctx, id)
	case ctx.Column.Type == TypeString:
		return formatInt(id)
	default:
		return nil
	}
}

func principalName(ctx RuleContext) jen.Code {
	if ctx.Column.Type != TypeString {
		return nil
	}
	return jen.Add(ctx.Principal).Dot("Name")
}

func timestamp(ctx RuleContext) jen.Code {
	switch t := ctx.Column.Type; {
	case t.Temporal():
		return ctx.Now
	case t == TypeString:
		return jen.Add(ctx.Now).Dot("Format").Call(jen.Qual("time", "DateTime"))
	case t.Integer():
		return convert(ctx, jen.Add(ctx.Now).Dot("Unix").Call())
	default:
		return nil
	}
}

func tenantID(ctx RuleContext) jen.Code {
	id := jen.Add(ctx.Principal).Dot("CompanyID")
	switch {
	case ctx.Column.Type.Numeric():
		return convert(ctx, id)
	case ctx.Column.Type == TypeString:
		return formatInt(id)
	default:
		return nil
	}
}

func tenantCode(ctx RuleContext) jen.Code {
	if ctx.Column.Type != TypeString {
		return nil
	}
	return jen.Add(ctx.Principal).Dot("CompanyCode")
}
