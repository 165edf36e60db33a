package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/aggregen/compiler/gen"
)

// genRefine generates the RefineCreate and RefineUpdate methods of a row.
// Values derived from the principal are only injected when one is given.
func genRefine(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	for _, m := range []struct {
		name string
		op   gen.Op
		doc  string
	}{
		{"RefineCreate", gen.OpCreate, "RefineCreate injects the audit and tenancy values of a new row."},
		{"RefineUpdate", gen.OpUpdate, "RefineUpdate injects the audit and tenancy values of a stored row."},
	} {
		injections := h.Injections(t, m.op, jen.Id("p"), jen.Id("now"))
		f.Comment(m.doc)
		f.Func().Params(jen.Id("m").Op("*").Id(t.StructName())).Id(m.name).Params(
			jen.Id("p").Op("*").Qual(h.RuntimePkg(), "Principal"),
			jen.Id("now").Qual("time", "Time"),
		).BlockFunc(func(grp *jen.Group) {
			var principal []jen.Code
			for _, in := range injections {
				assign := field(jen.Id("m"), in.Column).Op("=").Add(sqlFn(h, "Ptr").Call(in.Value))
				if in.Rule.Principal {
					principal = append(principal, assign)
				} else {
					grp.Add(assign)
				}
			}
			if len(principal) > 0 {
				grp.If(jen.Id("p").Op("!=").Nil()).Block(principal...)
			}
		})
	}
}

// genRefineRow generates the create/update branch refining the row held
// by v with the principal p and the time now.
func genRefineRow(h gen.GeneratorHelper, v jen.Code, key *gen.Column) jen.Code {
	args := []jen.Code{jen.Id("p"), jen.Id("now")}
	return jen.If(isUnset(h, field(v, key))).Block(
		jen.Add(v).Dot("RefineCreate").Call(args...),
	).Else().Block(
		jen.Add(v).Dot("RefineUpdate").Call(args...),
	)
}
