package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/aggregen/compiler/gen"
)

// genDelete generates the cascading delete file ({aggregate}_delete.go).
func genDelete(h gen.GeneratorHelper, a *gen.Aggregate) *jen.File {
	f := h.NewFile()
	genRemove(h, f, a)
	genRemoveByKey(h, f, a)
	genRemoveMany(h, f, a)
	return f
}

// genRemove generates the Remove method. One-to-one children are removed
// individually, collections in batch, and the major row last. Junction rows
// are deleted but many-to-many targets are kept.
func genRemove(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	m := jen.Id("m")
	f.Comment("Remove deletes the aggregate within tx: its one-to-one children, then the")
	f.Comment("children of its collections, then the major row. Linked many-to-many rows")
	f.Comment("are unlinked but kept. Readonly relations are left untouched.")
	f.Func().Params(jen.Id("a").Op("*").Id(a.Name)).Id("Remove").Params(ctxParam(), txParam(h)).Error().BlockFunc(func(grp *jen.Group) {
		grp.Id("m").Op(":=").Id("a").Dot("ToMajor").Call()
		grp.If(jen.Id("m").Op("==").Nil().Op("||").Add(isUnset(h, field(m, a.MajorKey)))).Block(
			jen.Return(notFound(h, a.Major)),
		)
		for _, r := range a.OneToOne {
			if r.Readonly {
				continue
			}
			child := jen.Id("a").Dot(r.Field.Name)
			src := field(m, r.Source)
			grp.If(jen.Add(child).Op("!=").Nil().Op("&&").Op("!").Add(isUnset(h, field(child, r.TargetKey)))).Block(
				callCheck(jen.Add(child).Dot("Remove").Call(ctxTx()...)),
			).Else().If(src.Clone().Op("!=").Nil()).Block(
				callCheckStmt(deleteScoped(h, r, eq(h, r.Join.Name), jen.Op("*").Add(src.Clone()))),
			)
		}
		for _, r := range a.OneToMany {
			if r.Readonly {
				continue
			}
			src := field(m, r.Source)
			grp.If(src.Clone().Op("!=").Nil()).Block(
				callCheckStmt(deleteScoped(h, r, eq(h, joinColumn(r)), jen.Op("*").Add(src.Clone()))),
			)
		}
		grp.Return(jen.Id("m").Dot("Remove").Call(ctxTx()...))
	})
}

// joinColumn returns the column holding the major value of a relation.
func joinColumn(r *gen.Relation) string {
	if r.Kind == gen.M2M {
		return r.JunctionMajor.Name
	}
	return r.Join.Name
}

// deleteScoped deletes the rows of a relation (junction rows for
// many-to-many) matching where.
func deleteScoped(h gen.GeneratorHelper, r *gen.Relation, where jen.Code, args ...jen.Code) jen.Code {
	table := r.Target
	if r.Kind == gen.M2M {
		table = r.Junction
	}
	return jen.List(jen.Id("_"), jen.Id(errID)).Op(":=").Id(deleteWhereFunc(table)).Call(
		append([]jen.Code{jen.Id(ctxID), jen.Id(txID), where}, args...)...,
	)
}

// genRemoveByKey generates Remove<Aggregate>.
func genRemoveByKey(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	f.Commentf("%s loads the aggregate of the %s row with the given key and removes it.", a.RemoveFunc(), a.Major.Name)
	f.Comment("A missing row yields a *aggregen.NotFoundError and nothing is deleted.")
	f.Func().Id(a.RemoveFunc()).Params(ctxParam(), txParam(h), jen.Id("key").Add(h.GoType(a.MajorKey))).Error().Block(
		jen.List(jen.Id("m"), jen.Id(errID)).Op(":=").Id(findFunc(a.Major)).Call(jen.Id(ctxID), jen.Id(txID), jen.Id("key")),
		errCheck(),
		jen.If(jen.Id("m").Op("==").Nil()).Block(jen.Return(notFound(h, a.Major, jen.Id("key")))),
		jen.List(jen.Id("agg"), jen.Id(errID)).Op(":=").Id(loadFunc(a)).Call(jen.Id(ctxID), jen.Id(txID), jen.Id("m")),
		errCheck(),
		jen.Return(jen.Id("agg").Dot("Remove").Call(ctxTx()...)),
	)
}

// genRemoveMany generates Remove<Aggregate>s.
func genRemoveMany(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	// Source columns referenced by the writable relations, in first-use order.
	var sources []*gen.Column
	seen := make(map[*gen.Column]bool)
	for _, r := range a.Relations() {
		if !r.Readonly && !seen[r.Source] {
			seen[r.Source] = true
			sources = append(sources, r.Source)
		}
	}
	values := func(c *gen.Column) string { return "by" + c.StructField() }

	f.Commentf("%s removes the aggregates whose key is in keys and whose %s row", a.RemoveManyFunc(), a.Major.Name)
	f.Comment("matches cond, and returns the number of deleted major rows. The children")
	f.Comment("of the matched rows are deleted in batch before the major rows.")
	f.Func().Id(a.RemoveManyFunc()).Params(
		ctxParam(), txParam(h), jen.Id("keys").Index().Add(h.GoType(a.MajorKey)), jen.Id("cond").String(), jen.Id("args").Op("...").Any(),
	).Params(jen.Int64(), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.If(jen.Len(jen.Id("keys")).Op("==").Lit(0)).Block(jen.Return(jen.Lit(0), jen.Nil()))
		grp.Add(majorsWhere(h, a))
		grp.If(jen.Id(errID).Op("!=").Nil().Op("||").Len(jen.Id("rows")).Op("==").Lit(0)).Block(
			jen.Return(jen.Lit(0), jen.Id(errID)),
		)
		grp.Var().Id("ids").Index().Any()
		for _, c := range sources {
			if c != a.MajorKey {
				grp.Var().Id(values(c)).Index().Any()
			}
		}
		grp.For(jen.List(jen.Id("_"), jen.Id("m")).Op(":=").Range().Id("rows")).BlockFunc(func(body *jen.Group) {
			body.Id("ids").Op("=").Append(jen.Id("ids"), jen.Op("*").Add(field(jen.Id("m"), a.MajorKey)))
			for _, c := range sources {
				if c == a.MajorKey {
					continue
				}
				body.If(field(jen.Id("m"), c).Op("!=").Nil()).Block(
					jen.Id(values(c)).Op("=").Append(jen.Id(values(c)), jen.Op("*").Add(field(jen.Id("m"), c))),
				)
			}
		})
		for _, r := range a.Relations() {
			if r.Readonly {
				continue
			}
			vals := "ids"
			if r.Source != a.MajorKey {
				vals = values(r.Source)
			}
			grp.If(jen.Len(jen.Id(vals)).Op(">").Lit(0)).Block(
				jen.If(deleteScoped(h, r,
					sqlFn(h, "In").Call(quote(h, joinColumn(r)), jen.Len(jen.Id(vals))),
					jen.Id(vals).Op("..."),
				), jen.Id(errID).Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Id(errID))),
			)
		}
		grp.Return(jen.Id(deleteWhereFunc(a.Major)).Call(
			jen.Id(ctxID), jen.Id(txID),
			sqlFn(h, "In").Call(quote(h, a.MajorKey.Name), jen.Len(jen.Id("ids"))),
			jen.Id("ids").Op("..."),
		))
	})
}
