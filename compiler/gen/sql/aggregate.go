package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/aggregen/compiler/gen"
)

// genAggregate generates the aggregate file ({aggregate}.go): the type,
// its conversions to and from the major row and its refinement.
func genAggregate(h gen.GeneratorHelper, a *gen.Aggregate) *jen.File {
	f := h.NewFile()
	genAggregateStruct(h, f, a)
	genFromMajor(h, f, a)
	genToMajor(h, f, a)
	genSetMajor(h, f, a)
	genAggregateRefine(h, f, a)
	if a.Spec.GenerateSelect || a.Spec.GenerateDelete {
		genAggregateLoad(h, f, a)
	}
	return f
}

// loadFunc returns the name of the unexported hydration function.
func loadFunc(a *gen.Aggregate) string {
	return "load" + a.Name
}

// genAggregateStruct generates the aggregate type.
func genAggregateStruct(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	if a.Extended() {
		f.Commentf("%s is a %s row extended with its related rows.", a.Name, a.Major.Name)
	} else {
		f.Commentf("%s bundles a %s row with its related rows.", a.Name, a.Major.Name)
	}
	f.Type().Id(a.Name).StructFunc(func(grp *jen.Group) {
		for _, fd := range a.Fields {
			switch fd.Kind {
			case gen.FieldColumn:
				grp.Id(fd.Name).Add(ptrType(h, fd.Column)).Tag(h.StructTags(fd.Column))
			case gen.FieldAttachment:
				grp.Id(fd.Name).Index().String().Tag(map[string]string{"json": fd.JSON + ",omitempty"})
			case gen.FieldMajor, gen.FieldOne:
				grp.Id(fd.Name).Op("*").Id(fd.Table.StructName()).Tag(map[string]string{"json": fd.JSON + ",omitempty"})
			case gen.FieldMany:
				grp.Id(fd.Name).Index().Op("*").Id(fd.Table.StructName()).Tag(map[string]string{"json": fd.JSON})
			case gen.FieldDeleted:
				grp.Id(fd.Name).Index().Op("*").Id(fd.Table.StructName()).Tag(map[string]string{"json": fd.JSON + ",omitempty"})
			}
		}
	})
}

// genFromMajor generates <Aggregate>FromMajor.
func genFromMajor(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	major := a.Major.StructName()
	f.Commentf("%s returns the aggregate of m with empty collections.", a.FromMajorFunc())
	f.Func().Id(a.FromMajorFunc()).Params(jen.Id("m").Op("*").Id(major)).Op("*").Id(a.Name).Block(
		jen.If(jen.Id("m").Op("==").Nil()).Block(jen.Return(jen.Nil())),
		jen.Id("a").Op(":=").Op("&").Id(a.Name).Values(jen.DictFunc(func(d jen.Dict) {
			for _, r := range a.OneToMany {
				d[jen.Id(r.Field.Name)] = jen.Index().Op("*").Id(r.Target.StructName()).Values()
			}
		})),
		jen.Id("a").Dot("setMajor").Call(jen.Id("m")),
		jen.Return(jen.Id("a")),
	)
}

// genToMajor generates ToMajor. An extended aggregate takes the major
// value referenced by a one-to-one child from that child when it holds one.
func genToMajor(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	major := a.Major.StructName()
	recv := jen.Id("a").Op("*").Id(a.Name)
	if !a.Extended() {
		f.Commentf("ToMajor returns the %s row of the aggregate.", a.Major.Name)
		f.Func().Params(recv).Id("ToMajor").Params().Op("*").Id(major).Block(
			jen.Return(jen.Id("a").Dot(a.MajorField.Name)),
		)
		return
	}
	f.Commentf("ToMajor returns the %s row of the aggregate.", a.Major.Name)
	f.Func().Params(recv).Id("ToMajor").Params().Op("*").Id(major).BlockFunc(func(grp *jen.Group) {
		grp.Id("m").Op(":=").Op("&").Id(major).Values(jen.DictFunc(func(d jen.Dict) {
			for _, fd := range a.Fields {
				if fd.Kind == gen.FieldColumn {
					d[jen.Id(fd.Name)] = jen.Id("a").Dot(fd.Name)
				}
			}
		}))
		for _, r := range a.OneToOne {
			if r.Source == a.MajorKey {
				continue
			}
			child := jen.Id("a").Dot(r.Field.Name)
			grp.If(jen.Add(child).Op("!=").Nil().Op("&&").Add(field(child, r.Join)).Op("!=").Nil()).Block(
				field(jen.Id("m"), r.Source).Op("=").Add(convertPtr(h, r.Join, r.Source, field(child, r.Join))),
			)
		}
		grp.Return(jen.Id("m"))
	})
}

// genSetMajor generates the unexported setMajor method.
func genSetMajor(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	f.Comment("setMajor stores the major row into the aggregate.")
	f.Func().Params(jen.Id("a").Op("*").Id(a.Name)).Id("setMajor").Params(jen.Id("m").Op("*").Id(a.Major.StructName())).BlockFunc(func(grp *jen.Group) {
		if !a.Extended() {
			grp.Id("a").Dot(a.MajorField.Name).Op("=").Id("m")
			return
		}
		for _, fd := range a.Fields {
			if fd.Kind == gen.FieldColumn {
				grp.Id("a").Dot(fd.Name).Op("=").Id("m").Dot(fd.Name)
			}
		}
	})
}

// genAggregateRefine generates Refine. Each row is refined as a new row
// when its own key is unset and as a stored row otherwise.
func genAggregateRefine(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	f.Comment("Refine injects the audit and tenancy values into every row of the")
	f.Comment("aggregate. Rows with an unset key are refined as new rows.")
	f.Func().Params(jen.Id("a").Op("*").Id(a.Name)).Id("Refine").Params(
		jen.Id("p").Op("*").Qual(h.RuntimePkg(), "Principal"),
	).BlockFunc(func(grp *jen.Group) {
		grp.Id("now").Op(":=").Qual("time", "Now").Call()
		grp.If(jen.Id("m").Op(":=").Id("a").Dot("ToMajor").Call(), jen.Id("m").Op("!=").Nil()).Block(
			genRefineRow(h, jen.Id("m"), a.MajorKey),
			jen.Id("a").Dot("setMajor").Call(jen.Id("m")),
		)
		for _, r := range a.OneToOne {
			if r.Readonly {
				continue
			}
			child := jen.Id("a").Dot(r.Field.Name)
			grp.If(jen.Add(child).Op("!=").Nil()).Block(genRefineRow(h, child, r.TargetKey))
		}
		for _, r := range a.OneToMany {
			if r.Readonly {
				continue
			}
			grp.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("a").Dot(r.Field.Name)).Block(
				jen.If(jen.Id("c").Op("!=").Nil()).Block(genRefineRow(h, jen.Id("c"), r.TargetKey)),
			)
		}
	})
}

// genAggregateLoad generates the hydration of an aggregate from its major
// row, shared by the loads and the removal by key.
func genAggregateLoad(h gen.GeneratorHelper, f *jen.File, a *gen.Aggregate) {
	f.Commentf("%s returns the aggregate of m with its relations read from tx.", loadFunc(a))
	f.Func().Id(loadFunc(a)).Params(ctxParam(), txParam(h), jen.Id("m").Op("*").Id(a.Major.StructName())).Params(
		jen.Op("*").Id(a.Name), jen.Error(),
	).BlockFunc(func(grp *jen.Group) {
		grp.Id("a").Op(":=").Id(a.FromMajorFunc()).Call(jen.Id("m"))
		for _, r := range a.Relations() {
			src := field(jen.Id("m"), r.Source)
			var read jen.Code
			if r.Kind == gen.M2M {
				read = jen.Id(selectFunc(r.Target)).Call(jen.Id(ctxID), jen.Id(txID), sqlFn(h, "SelectSpec").Values(jen.Dict{
					jen.Id("Alias"): jen.Lit("t"),
					jen.Id("Join"):  m2mJoin(h, r),
					jen.Id("Where"): eq(h, "j."+r.JunctionMajor.Name),
					jen.Id("Args"):  jen.Index().Any().Values(jen.Op("*").Add(src.Clone())),
				}))
			} else {
				read = jen.Id(queryFunc(r.Target)).Call(jen.Id(ctxID), jen.Id(txID), eq(h, r.Join.Name), jen.Op("*").Add(src.Clone()))
			}
			assign := jen.Id("a").Dot(r.Field.Name).Op("=").Id("rows")
			if r.Unique() {
				assign = jen.If(jen.Len(jen.Id("rows")).Op(">").Lit(0)).Block(
					jen.Id("a").Dot(r.Field.Name).Op("=").Id("rows").Index(jen.Lit(0)),
				)
			}
			grp.If(src.Clone().Op("!=").Nil()).Block(
				jen.List(jen.Id("rows"), jen.Id(errID)).Op(":=").Add(read),
				errCheck(jen.Nil()),
				assign,
			)
		}
		grp.Return(jen.Id("a"), jen.Nil())
	})
}

// m2mJoin returns the JOIN clause from the target (aliased t) through the
// junction table (aliased j).
func m2mJoin(h gen.GeneratorHelper, r *gen.Relation) jen.Code {
	return jen.Lit("INNER JOIN ").Op("+").
		Add(sqlFn(h, "Quote")).Call(txDialect(), jen.Id(r.Junction.TableConst())).Op("+").
		Lit(" AS j ON ").Op("+").
		Add(quote(h, "j."+r.Join.Name)).Op("+").
		Lit(" = ").Op("+").
		Add(quote(h, "t."+r.TargetKey.Name))
}
