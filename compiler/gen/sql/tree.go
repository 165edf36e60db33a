package sql

import (
	"strconv"

	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"

	"github.com/syssam/aggregen/compiler/gen"
)

// genTree generates the tree file ({table}_tree.go) of a table referencing
// itself through a parent column. The build is iterative: rows are indexed
// by key once and attached to their parent in a second pass.
func genTree(h gen.GeneratorHelper, t *gen.Table) *jen.File {
	f := h.NewFile()
	key := primaryKey(t)
	parent, err := t.TreeParent()
	if key == nil || err != nil {
		return f
	}
	name := t.StructName()
	node := name + "Node"

	f.Commentf("%s is a %s row with its children.", node, t.Name)
	f.Type().Id(node).Struct(
		jen.Op("*").Id(name),
		jen.Id("Children").Index().Op("*").Id(node).Tag(map[string]string{"json": "children"}),
	)

	isRoot := field(jen.Id("n"), parent).Op("==").Nil()
	if root := rootValue(parent, t.Tree.RootValue); root != nil {
		isRoot = isRoot.Op("||").Op("*").Add(field(jen.Id("n"), parent)).Op("==").Add(root)
	}
	f.Commentf("Build%sTree arranges rows into trees and returns the roots in row order.", name)
	f.Comment("A row is a root when its parent is NULL, the root value, itself or")
	f.Comment("missing from rows. Rows on a parent cycle are not reachable from a root.")
	f.Func().Id("Build"+name+"Tree").Params(jen.Id("rows").Index().Op("*").Id(name)).Index().Op("*").Id(node).Block(
		jen.Id("nodes").Op(":=").Make(jen.Index().Op("*").Id(node), jen.Lit(0), jen.Len(jen.Id("rows"))),
		jen.Id("byKey").Op(":=").Make(jen.Map(h.GoType(key)).Op("*").Id(node), jen.Len(jen.Id("rows"))),
		jen.For(jen.List(jen.Id("_"), jen.Id("m")).Op(":=").Range().Id("rows")).Block(
			jen.If(jen.Id("m").Op("==").Nil()).Block(jen.Continue()),
			jen.Id("n").Op(":=").Op("&").Id(node).Values(jen.Dict{jen.Id(name): jen.Id("m")}),
			jen.Id("nodes").Op("=").Append(jen.Id("nodes"), jen.Id("n")),
			jen.If(field(jen.Id("m"), key).Op("!=").Nil()).Block(
				jen.Id("byKey").Index(jen.Op("*").Add(field(jen.Id("m"), key))).Op("=").Id("n"),
			),
		),
		jen.Var().Id("roots").Index().Op("*").Id(node),
		jen.For(jen.List(jen.Id("_"), jen.Id("n")).Op(":=").Range().Id("nodes")).Block(
			jen.If(isRoot).Block(
				jen.Id("roots").Op("=").Append(jen.Id("roots"), jen.Id("n")),
				jen.Continue(),
			),
			jen.List(jen.Id("p"), jen.Id("ok")).Op(":=").Id("byKey").Index(convertValue(h, parent, key, jen.Op("*").Add(field(jen.Id("n"), parent)))),
			jen.If(jen.Op("!").Id("ok").Op("||").Id("p").Op("==").Id("n")).Block(
				jen.Id("roots").Op("=").Append(jen.Id("roots"), jen.Id("n")),
				jen.Continue(),
			),
			jen.Id("p").Dot("Children").Op("=").Append(jen.Id("p").Dot("Children"), jen.Id("n")),
		),
		jen.Return(jen.Id("roots")),
	)
	return f
}

// rootValue returns the literal of the configured root sentinel in the
// type of the parent column, or nil when none is configured or it cannot
// be represented.
func rootValue(parent *gen.Column, v string) jen.Code {
	if v == "" {
		return nil
	}
	switch {
	case parent.Type.Integer():
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil
		}
		return jen.Lit(int(n))
	case parent.Type == gen.TypeUUID:
		if _, err := uuid.Parse(v); err != nil {
			return nil
		}
		return jen.Qual("github.com/google/uuid", "MustParse").Call(jen.Lit(v))
	case parent.Type == gen.TypeString:
		return jen.Lit(v)
	default:
		return nil
	}
}
