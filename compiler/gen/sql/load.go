package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/aggregen/compiler/gen"
)

// genLoad generates the cascading load file ({aggregate}_load.go).
func genLoad(h gen.GeneratorHelper, a *gen.Aggregate) *jen.File {
	f := h.NewFile()
	genLoadOne(h, f, a)
	genLoadMany(h, f, a)
	return f
}

// genLoadOne generates Load<Aggregate>.
func genLoadOne(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	f.Commentf("%s loads the aggregate of the %s row with the given key.", a.LoadFunc(), a.Major.Name)
	f.Comment("A missing row yields a *aggregen.NotFoundError.")
	f.Func().Id(a.LoadFunc()).Params(ctxParam(), txParam(h), jen.Id("key").Add(h.GoType(a.MajorKey))).Params(
		jen.Op("*").Id(a.Name), jen.Error(),
	).Block(
		jen.List(jen.Id("m"), jen.Id(errID)).Op(":=").Id(findFunc(a.Major)).Call(jen.Id(ctxID), jen.Id(txID), jen.Id("key")),
		errCheck(jen.Nil()),
		jen.If(jen.Id("m").Op("==").Nil()).Block(jen.Return(jen.Nil(), notFound(h, a.Major, jen.Id("key")))),
		jen.Return(jen.Id(loadFunc(a)).Call(jen.Id(ctxID), jen.Id(txID), jen.Id("m"))),
	)
}

// majorsWhere reads the major rows whose key is in keys and that match cond.
func majorsWhere(h gen.GeneratorHelper, a *gen.Aggregate) jen.Code {
	return jen.List(jen.Id("rows"), jen.Id(errID)).Op(":=").Id(queryFunc(a.Major)).Call(
		jen.Id(ctxID), jen.Id(txID),
		sqlFn(h, "And").Call(
			sqlFn(h, "In").Call(quote(h, a.MajorKey.Name), jen.Len(jen.Id("keys"))),
			jen.Id("cond"),
		),
		jen.Append(sqlFn(h, "Args").Call(jen.Id("keys")), jen.Id("args").Op("...")).Op("..."),
	)
}

// genLoadMany generates Load<Aggregate>s.
func genLoadMany(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	f.Commentf("%s loads the aggregates whose key is in keys and whose %s row", a.LoadManyFunc(), a.Major.Name)
	f.Comment("matches cond. An empty cond only filters by key.")
	f.Func().Id(a.LoadManyFunc()).Params(
		ctxParam(), txParam(h), jen.Id("keys").Index().Add(h.GoType(a.MajorKey)), jen.Id("cond").String(), jen.Id("args").Op("...").Any(),
	).Params(
		jen.Index().Op("*").Id(a.Name), jen.Error(),
	).Block(
		jen.If(jen.Len(jen.Id("keys")).Op("==").Lit(0)).Block(
			jen.Return(jen.Index().Op("*").Id(a.Name).Values(), jen.Nil()),
		),
		majorsWhere(h, a),
		errCheck(jen.Nil()),
		jen.Id("aggs").Op(":=").Make(jen.Index().Op("*").Id(a.Name), jen.Lit(0), jen.Len(jen.Id("rows"))),
		jen.For(jen.List(jen.Id("_"), jen.Id("m")).Op(":=").Range().Id("rows")).Block(
			jen.List(jen.Id("agg"), jen.Id(errID)).Op(":=").Id(loadFunc(a)).Call(jen.Id(ctxID), jen.Id(txID), jen.Id("m")),
			errCheck(jen.Nil()),
			jen.Id("aggs").Op("=").Append(jen.Id("aggs"), jen.Id("agg")),
		),
		jen.Return(jen.Id("aggs"), jen.Nil()),
	)
}
