package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/aggregen/compiler/gen"
)

// genSave generates the cascading save file ({aggregate}_save.go).
func genSave(h gen.GeneratorHelper, a *gen.Aggregate) *jen.File {
	f := h.NewFile()
	genSaveMethod(h, f, a)
	for _, r := range a.Relations() {
		if r.Readonly {
			continue
		}
		switch r.Kind {
		case gen.O2O:
			genSaveOne(h, f, a, r)
		case gen.O2M:
			genSaveMany(h, f, a, r)
		case gen.M2M:
			genSaveJunction(h, f, a, r)
		}
	}
	return f
}

// saveFunc returns the name of the unexported save method of a relation.
func saveFunc(r *gen.Relation) string {
	return "save" + r.Field.Name
}

// genSaveMethod generates Save.
func genSaveMethod(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	m := jen.Id("m")
	f.Comment("Save persists the aggregate within tx. The major row is inserted when its")
	f.Comment("key is unset and updated otherwise, then the one-to-one children and the")
	f.Comment("collections are saved in declaration order. Readonly relations are skipped.")
	f.Comment("")
	if a.Spec.DeletedByRelation {
		f.Comment("Only the children listed in the Deleted collections are deleted.")
	} else {
		f.Comment("Stored children missing from a collection are deleted, so every")
		f.Comment("collection must hold the complete set of children of the aggregate.")
	}
	f.Comment("The first failure is returned; rolling back tx is up to the caller.")
	f.Func().Params(jen.Id("a").Op("*").Id(a.Name)).Id("Save").Params(ctxParam(), txParam(h)).Error().BlockFunc(func(grp *jen.Group) {
		grp.Id("m").Op(":=").Id("a").Dot("ToMajor").Call()
		grp.If(jen.Id("m").Op("==").Nil()).Block(jen.Return(notFound(h, a.Major)))
		grp.Add(upsert(h, m, a.MajorKey))
		grp.Id("a").Dot("setMajor").Call(jen.Id("m"))
		for _, r := range a.Relations() {
			if r.Readonly {
				continue
			}
			grp.Add(callCheck(jen.Id("a").Dot(saveFunc(r)).Call(jen.Id(ctxID), jen.Id(txID), jen.Id("m"))))
		}
		grp.Return(jen.Nil())
	})
}

// saveSignature starts the unexported save method of a relation.
func saveSignature(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate, r *gen.Relation) *jen.Statement {
	return f.Func().Params(jen.Id("a").Op("*").Id(a.Name)).Id(saveFunc(r)).Params(
		ctxParam(), txParam(h), jen.Id("m").Op("*").Id(a.Major.StructName()),
	).Error()
}

// genSaveOne saves a one-to-one child: its join field takes the major value.
func genSaveOne(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate, r *gen.Relation) {
	c := jen.Id("c")
	src := field(jen.Id("m"), r.Source)
	f.Commentf("%s links the %s child to m and saves it.", saveFunc(r), r.Target.Name)
	saveSignature(h, f, a, r).Block(
		jen.Id("c").Op(":=").Id("a").Dot(r.Field.Name),
		jen.If(jen.Id("c").Op("==").Nil().Op("||").Add(src.Clone()).Op("==").Nil()).Block(jen.Return(jen.Nil())),
		field(c, r.Join).Op("=").Add(convertPtr(h, r.Source, r.Join, src.Clone())),
		upsert(h, c, r.TargetKey),
		jen.Return(jen.Nil()),
	)
}

// keysOf collects the keys of the non-nil rows of collection into []any.
func keysOf(h gen.GeneratorHelper, name string, collection jen.Code, key *gen.Column) []jen.Code {
	return []jen.Code{
		jen.Var().Id(name).Index().Any(),
		jen.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Add(collection)).Block(
			jen.If(jen.Id("c").Op("!=").Nil().Op("&&").Op("!").Add(isUnset(h, field(jen.Id("c"), key)))).Block(
				jen.Id(name).Op("=").Append(jen.Id(name), jen.Op("*").Add(field(jen.Id("c"), key))),
			),
		),
	}
}

// scopedArgs returns append([]any{*m.<source>}, keys...).
func scopedArgs(src *jen.Statement, keys string) jen.Code {
	return jen.Append(jen.Index().Any().Values(jen.Op("*").Add(src.Clone())), jen.Id(keys).Op("...")).Op("...")
}

// genSaveMany saves a one-to-many collection: stale children are deleted
// first, then every child is linked to m and saved.
func genSaveMany(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate, r *gen.Relation) {
	c := jen.Id("c")
	src := field(jen.Id("m"), r.Source)
	del := func(in string, keys string) jen.Code {
		return jen.List(jen.Id("_"), jen.Id(errID)).Op(":=").Id(deleteWhereFunc(r.Target)).Call(
			jen.Id(ctxID), jen.Id(txID),
			sqlFn(h, "And").Call(
				eq(h, r.Join.Name),
				sqlFn(h, in).Call(quote(h, r.TargetKey.Name), jen.Len(jen.Id(keys))),
			),
			scopedArgs(src, keys),
		)
	}
	if a.Spec.DeletedByRelation {
		f.Commentf("%s deletes the %s children listed in %s, then links", saveFunc(r), r.Target.Name, r.Deleted.Name)
	} else {
		f.Commentf("%s deletes the stored %s children missing from %s, then links", saveFunc(r), r.Target.Name, r.Field.Name)
	}
	f.Comment("the remaining children to m and saves them.")
	saveSignature(h, f, a, r).BlockFunc(func(grp *jen.Group) {
		grp.If(src.Clone().Op("==").Nil()).Block(jen.Return(jen.Nil()))
		if a.Spec.DeletedByRelation {
			for _, s := range keysOf(h, "deleted", jen.Id("a").Dot(r.Deleted.Name), r.TargetKey) {
				grp.Add(s)
			}
			grp.If(jen.Len(jen.Id("deleted")).Op(">").Lit(0)).Block(
				del("In", "deleted"),
				errCheck(),
			)
		} else {
			for _, s := range keysOf(h, "keep", jen.Id("a").Dot(r.Field.Name), r.TargetKey) {
				grp.Add(s)
			}
			grp.Add(callCheckStmt(del("NotIn", "keep")))
		}
		grp.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("a").Dot(r.Field.Name)).Block(
			jen.If(jen.Id("c").Op("==").Nil()).Block(jen.Continue()),
			field(c, r.Join).Op("=").Add(convertPtr(h, r.Source, r.Join, src.Clone())),
			upsert(h, c, r.TargetKey),
		)
		grp.Return(jen.Nil())
	})
}

// callCheckStmt returns "if stmt; err != nil { return err }" for a
// statement assigning err.
func callCheckStmt(stmt jen.Code) jen.Code {
	return jen.If(stmt, jen.Id(errID).Op("!=").Nil()).Block(jen.Return(jen.Id(errID)))
}

// genSaveJunction saves a many-to-many collection. Target rows are saved
// first: inserted when their key is unset, updated otherwise. The junction
// rows of m are then read: stale links are deleted and missing links
// inserted.
func genSaveJunction(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate, r *gen.Relation) {
	var (
		c      = jen.Id("c")
		src    = field(jen.Id("m"), r.Source)
		link   = r.Junction.StructName()
		linkKT = h.GoType(r.Join)
	)
	// linkKey converts the key of the target held by v to the junction type.
	linkKey := func(v jen.Code) jen.Code {
		return convertValue(h, r.TargetKey, r.Join, jen.Op("*").Add(field(v, r.TargetKey)))
	}
	if a.Spec.DeletedByRelation {
		f.Commentf("%s saves the %s rows, unlinks the rows listed in %s", saveFunc(r), r.Target.Name, r.Deleted.Name)
	} else {
		f.Commentf("%s saves the %s rows, unlinks the rows missing from %s", saveFunc(r), r.Target.Name, r.Field.Name)
	}
	f.Commentf("and links the remaining rows to m through %s.", r.Junction.Name)
	saveSignature(h, f, a, r).BlockFunc(func(grp *jen.Group) {
		grp.If(src.Clone().Op("==").Nil()).Block(jen.Return(jen.Nil()))
		grp.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("a").Dot(r.Field.Name)).Block(
			jen.If(jen.Id("c").Op("==").Nil()).Block(jen.Continue()),
			upsert(h, c, r.TargetKey),
		)
		grp.List(jen.Id("links"), jen.Id(errID)).Op(":=").Id(queryFunc(r.Junction)).Call(
			jen.Id(ctxID), jen.Id(txID), eq(h, r.JunctionMajor.Name), jen.Op("*").Add(src.Clone()),
		)
		grp.Add(errCheck())
		grp.Id("linked").Op(":=").Make(jen.Map(linkKT).Bool(), jen.Len(jen.Id("links")))
		grp.For(jen.List(jen.Id("_"), jen.Id("l")).Op(":=").Range().Id("links")).Block(
			jen.If(field(jen.Id("l"), r.Join).Op("!=").Nil()).Block(
				jen.Id("linked").Index(jen.Op("*").Add(field(jen.Id("l"), r.Join))).Op("=").True(),
			),
		)
		grp.Var().Id("stale").Index().Any()
		if a.Spec.DeletedByRelation {
			grp.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("a").Dot(r.Deleted.Name)).Block(
				jen.If(jen.Id("c").Op("==").Nil().Op("||").Add(isUnset(h, field(c, r.TargetKey)))).Block(jen.Continue()),
				jen.If(jen.Id("k").Op(":=").Add(linkKey(c)), jen.Id("linked").Index(jen.Id("k"))).Block(
					jen.Id("stale").Op("=").Append(jen.Id("stale"), jen.Id("k")),
					jen.Delete(jen.Id("linked"), jen.Id("k")),
				),
			)
		} else {
			grp.Id("want").Op(":=").Make(jen.Map(h.GoType(r.Join)).Bool(), jen.Len(jen.Id("a").Dot(r.Field.Name)))
			grp.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("a").Dot(r.Field.Name)).Block(
				jen.If(jen.Id("c").Op("!=").Nil().Op("&&").Op("!").Add(isUnset(h, field(c, r.TargetKey)))).Block(
					jen.Id("want").Index(linkKey(c)).Op("=").True(),
				),
			)
			grp.For(jen.Id("k").Op(":=").Range().Id("linked")).Block(
				jen.If(jen.Op("!").Id("want").Index(jen.Id("k"))).Block(
					jen.Id("stale").Op("=").Append(jen.Id("stale"), jen.Id("k")),
					jen.Delete(jen.Id("linked"), jen.Id("k")),
				),
			)
		}
		grp.If(jen.Len(jen.Id("stale")).Op(">").Lit(0)).Block(
			callCheckStmt(jen.List(jen.Id("_"), jen.Id(errID)).Op(":=").Id(deleteWhereFunc(r.Junction)).Call(
				jen.Id(ctxID), jen.Id(txID),
				sqlFn(h, "And").Call(
					eq(h, r.JunctionMajor.Name),
					sqlFn(h, "In").Call(quote(h, r.Join.Name), jen.Len(jen.Id("stale"))),
				),
				scopedArgs(src, "stale"),
			)),
		)
		grp.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("a").Dot(r.Field.Name)).Block(
			jen.If(jen.Id("c").Op("==").Nil().Op("||").Add(isUnset(h, field(c, r.TargetKey)))).Block(jen.Continue()),
			jen.Id("k").Op(":=").Add(linkKey(c)),
			jen.If(jen.Id("linked").Index(jen.Id("k"))).Block(jen.Continue()),
			jen.Id("linked").Index(jen.Id("k")).Op("=").True(),
			jen.Id("l").Op(":=").Op("&").Id(link).Values(jen.Dict{
				jen.Id(r.JunctionMajor.StructField()): convertPtr(h, r.Source, r.JunctionMajor, src.Clone()),
				jen.Id(r.Join.StructField()):          sqlFn(h, "Ptr").Call(jen.Id("k")),
			}),
			callCheck(jen.Id("l").Dot("Insert").Call(ctxTx()...)),
		)
		grp.Return(jen.Nil())
	})
}
