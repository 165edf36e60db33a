package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/aggregen/compiler/gen"
)

// genEntity generates the row file ({table}.go) of a table.
func genEntity(h gen.GeneratorHelper, t *gen.Table) *jen.File {
	f := h.NewFile()
	genEntityStruct(h, f, t)
	genEntityValues(h, f, t)
	genEntityInsert(h, f, t)
	if key := primaryKey(t); key != nil {
		genEntityUpdate(h, f, t, key)
		genEntityRemove(h, f, t, key)
		genEntityFind(h, f, t, key)
	}
	genEntityQuery(h, f, t)
	genEntityDeleteWhere(h, f, t)
	genRefine(h, f, t)
	return f
}

// genEntityStruct generates the table constants and the row struct.
func genEntityStruct(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	name := t.StructName()
	f.Commentf("%s is the name of the %s table.", t.TableConst(), t.Name)
	f.Const().Id(t.TableConst()).Op("=").Lit(t.Name)

	f.Commentf("%s holds the columns of the %s table, in declaration order.", t.ColumnsVar(), t.Name)
	f.Var().Id(t.ColumnsVar()).Op("=").Index().String().ValuesFunc(func(grp *jen.Group) {
		for _, c := range t.Columns {
			grp.Lit(c.Name)
		}
	})

	f.Commentf("%s is a row of the %s table. Nil fields are NULL or not loaded.", name, t.Name)
	f.Type().Id(name).StructFunc(func(grp *jen.Group) {
		for _, c := range t.Columns {
			if c.Comment != "" {
				grp.Comment(c.Comment)
			}
			grp.Id(c.StructField()).Add(ptrType(h, c)).Tag(h.StructTags(c))
		}
	})
}

// genEntityValues generates the scan and bind helpers of the row.
func genEntityValues(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	name := t.StructName()
	key := primaryKey(t)

	f.Comment("scanValues returns the scan destinations of the row columns.")
	f.Func().Params(jen.Id("m").Op("*").Id(name)).Id("scanValues").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(grp *jen.Group) {
			for _, c := range t.Columns {
				grp.Op("&").Add(field(jen.Id("m"), c))
			}
		})),
	)

	f.Comment("values returns the columns and values of the non-nil fields.")
	f.Comment("The key is included only when withKey is set and the key is not unset.")
	f.Func().Params(jen.Id("m").Op("*").Id(name)).Id("values").Params(jen.Id("withKey").Bool()).Params(
		jen.Index().String(), jen.Index().Any(),
	).BlockFunc(func(grp *jen.Group) {
		grp.Var().Defs(
			jen.Id("columns").Index().String(),
			jen.Id("values").Index().Any(),
		)
		for _, c := range t.Columns {
			v := field(jen.Id("m"), c)
			cond := v.Clone().Op("!=").Nil()
			if c == key {
				cond = jen.Id("withKey").Op("&&").Op("!").Add(isUnset(h, field(jen.Id("m"), c)))
			}
			grp.If(cond).Block(
				jen.Id("columns").Op("=").Append(jen.Id("columns"), jen.Lit(c.Name)),
				jen.Id("values").Op("=").Append(jen.Id("values"), jen.Op("*").Add(field(jen.Id("m"), c))),
			)
		}
		grp.Return(jen.Id("columns"), jen.Id("values"))
	})
}

// genEntityInsert generates the Insert method. Auto-increment keys are read
// back after the insert and unset UUID keys are generated before it.
func genEntityInsert(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	key := primaryKey(t)
	insert := func(keyName string) jen.Code {
		return sqlFn(h, "Insert").Call(jen.Id(ctxID), jen.Id(txID), jen.Id(t.TableConst()), jen.Id("columns"), jen.Id("values"), jen.Lit(keyName))
	}
	m := jen.Id("m")

	switch {
	case key != nil && key.AutoKey():
		f.Comment("Insert inserts the row. An unset key is filled with the value generated by the database.")
	case key != nil && key.Type == gen.TypeUUID:
		f.Comment("Insert inserts the row. An unset key is filled with a random UUID.")
	default:
		f.Comment("Insert inserts the row.")
	}
	f.Func().Params(jen.Id("m").Op("*").Id(t.StructName())).Id("Insert").Params(ctxParam(), txParam(h)).Error().BlockFunc(func(grp *jen.Group) {
		if key != nil && key.Type == gen.TypeUUID && !key.AutoIncrement {
			grp.If(isUnset(h, field(m, key))).Block(
				field(m, key).Op("=").Add(sqlFn(h, "Ptr").Call(jen.Qual("github.com/google/uuid", "New").Call())),
			)
		}
		grp.List(jen.Id("columns"), jen.Id("values")).Op(":=").Id("m").Dot("values").Call(jen.True())
		if key == nil || !key.AutoKey() {
			grp.List(jen.Id("_"), jen.Id(errID)).Op(":=").Add(insert(""))
			grp.Return(persistErr(h, "insert", t))
			return
		}
		grp.If(jen.Op("!").Add(isUnset(h, field(m, key)))).Block(
			jen.List(jen.Id("_"), jen.Id(errID)).Op(":=").Add(insert("")),
			jen.Return(persistErr(h, "insert", t)),
		)
		grp.List(jen.Id("id"), jen.Id(errID)).Op(":=").Add(insert(key.Name))
		grp.If(jen.Id(errID).Op("!=").Nil()).Block(jen.Return(persistErr(h, "insert", t)))
		id := jen.Code(jen.Id("id"))
		if key.Type != gen.TypeInt64 {
			id = jen.Add(h.GoType(key)).Call(jen.Id("id"))
		}
		grp.Add(field(m, key)).Op("=").Add(sqlFn(h, "Ptr").Call(id))
		grp.Return(jen.Nil())
	})
}

// genEntityUpdate generates the UpdateSelective method.
func genEntityUpdate(h gen.GeneratorHelper, f *jen.File, t *gen.Table, key *gen.Column) {
	m := jen.Id("m")
	f.Comment("UpdateSelective updates the non-nil fields of the row, matched by its key.")
	f.Func().Params(jen.Id("m").Op("*").Id(t.StructName())).Id("UpdateSelective").Params(ctxParam(), txParam(h)).Error().Block(
		jen.If(isUnset(h, field(m, key))).Block(jen.Return(notFound(h, t))),
		jen.List(jen.Id("columns"), jen.Id("values")).Op(":=").Id("m").Dot("values").Call(jen.False()),
		jen.List(jen.Id("_"), jen.Id(errID)).Op(":=").Add(sqlFn(h, "Update")).Call(
			jen.Id(ctxID), jen.Id(txID), jen.Id(t.TableConst()), jen.Id("columns"), jen.Id("values"),
			eq(h, key.Name), jen.Op("*").Add(field(m, key)),
		),
		jen.Return(persistErr(h, "update", t)),
	)
}

// genEntityRemove generates the Remove method.
func genEntityRemove(h gen.GeneratorHelper, f *jen.File, t *gen.Table, key *gen.Column) {
	m := jen.Id("m")
	f.Comment("Remove deletes the row, matched by its key.")
	f.Func().Params(jen.Id("m").Op("*").Id(t.StructName())).Id("Remove").Params(ctxParam(), txParam(h)).Error().Block(
		jen.If(isUnset(h, field(m, key))).Block(jen.Return(notFound(h, t))),
		jen.List(jen.Id("_"), jen.Id(errID)).Op(":=").Add(sqlFn(h, "Delete")).Call(
			jen.Id(ctxID), jen.Id(txID), jen.Id(t.TableConst()), eq(h, key.Name), jen.Op("*").Add(field(m, key)),
		),
		jen.Return(persistErr(h, "delete", t)),
	)
}

// genEntityFind generates the lookup by key.
func genEntityFind(h gen.GeneratorHelper, f *jen.File, t *gen.Table, key *gen.Column) {
	name := t.StructName()
	f.Commentf("%s returns the %s row with the given key, or nil if it does not exist.", findFunc(t), t.Name)
	f.Func().Id(findFunc(t)).Params(ctxParam(), txParam(h), jen.Id("key").Add(h.GoType(key))).Params(
		jen.Op("*").Id(name), jen.Error(),
	).Block(
		jen.List(jen.Id("rows"), jen.Id(errID)).Op(":=").Id(queryFunc(t)).Call(jen.Id(ctxID), jen.Id(txID), eq(h, key.Name), jen.Id("key")),
		jen.If(jen.Id(errID).Op("!=").Nil().Op("||").Len(jen.Id("rows")).Op("==").Lit(0)).Block(
			jen.Return(jen.Nil(), jen.Id(errID)),
		),
		jen.Return(jen.Id("rows").Index(jen.Lit(0)), jen.Nil()),
	)
}

// genEntityQuery generates the filtered and spec-based reads.
func genEntityQuery(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	name := t.StructName()
	rows := jen.Index().Op("*").Id(name)

	f.Commentf("%s returns the %s rows matching where. An empty where matches every row.", queryFunc(t), t.Name)
	f.Func().Id(queryFunc(t)).Params(ctxParam(), txParam(h), jen.Id("where").String(), jen.Id("args").Op("...").Any()).Params(
		rows.Clone(), jen.Error(),
	).Block(
		jen.Return(jen.Id(selectFunc(t)).Call(jen.Id(ctxID), jen.Id(txID), sqlFn(h, "SelectSpec").Values(jen.Dict{
			jen.Id("Where"): jen.Id("where"),
			jen.Id("Args"):  jen.Id("args"),
		}))),
	)

	f.Commentf("%s runs spec and scans the %s rows it returns. The table and", selectFunc(t), t.Name)
	f.Comment("the column list default to the table's own, qualified by the alias if any.")
	f.Func().Id(selectFunc(t)).Params(ctxParam(), txParam(h), jen.Id("spec").Add(sqlFn(h, "SelectSpec"))).Params(
		rows.Clone(), jen.Error(),
	).Block(
		jen.If(jen.Id("spec").Dot("Table").Op("==").Lit("")).Block(
			jen.Id("spec").Dot("Table").Op("=").Id(t.TableConst()),
		),
		jen.If(jen.Len(jen.Id("spec").Dot("Columns")).Op("==").Lit(0)).Block(
			jen.Id("spec").Dot("Columns").Op("=").Id(t.ColumnsVar()),
			jen.If(jen.Id("spec").Dot("Alias").Op("!=").Lit("")).Block(
				jen.Id("spec").Dot("Columns").Op("=").Add(sqlFn(h, "Qualify")).Call(jen.Id("spec").Dot("Alias"), jen.Id(t.ColumnsVar())),
			),
		),
		jen.Id("rows").Op(":=").Add(rows.Clone()).Values(),
		jen.Id(errID).Op(":=").Add(sqlFn(h, "Select")).Call(jen.Id(ctxID), jen.Id(txID), jen.Id("spec"),
			jen.Func().Params(jen.Id("s").Add(sqlFn(h, "Scanner"))).Error().Block(
				jen.Id("m").Op(":=").Op("&").Id(name).Values(),
				callCheck(jen.Id("s").Dot("Scan").Call(jen.Id("m").Dot("scanValues").Call().Op("..."))),
				jen.Id("rows").Op("=").Append(jen.Id("rows"), jen.Id("m")),
				jen.Return(jen.Nil()),
			),
		),
		jen.If(jen.Id(errID).Op("!=").Nil()).Block(jen.Return(jen.Nil(), persistErr(h, "select", t))),
		jen.Return(jen.Id("rows"), jen.Nil()),
	)
}

// genEntityDeleteWhere generates the filtered delete.
func genEntityDeleteWhere(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	f.Commentf("%s deletes the %s rows matching where and returns their number.", deleteWhereFunc(t), t.Name)
	f.Comment("An empty where is rejected.")
	f.Func().Id(deleteWhereFunc(t)).Params(ctxParam(), txParam(h), jen.Id("where").String(), jen.Id("args").Op("...").Any()).Params(
		jen.Int64(), jen.Error(),
	).Block(
		jen.List(jen.Id("n"), jen.Id(errID)).Op(":=").Add(sqlFn(h, "Delete")).Call(
			jen.Id(ctxID), jen.Id(txID), jen.Id(t.TableConst()), jen.Id("where"), jen.Id("args").Op("..."),
		),
		jen.Return(jen.Id("n"), persistErr(h, "delete", t)),
	)
}
