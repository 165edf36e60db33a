package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/aggregen/compiler/gen"
)

// Identifiers shared by the generated functions.
const (
	ctxID = "ctx"
	txID  = "tx"
	errID = "err"
)

// ctxParam returns the "ctx context.Context" parameter.
func ctxParam() jen.Code {
	return jen.Id(ctxID).Qual("context", "Context")
}

// txParam returns the "tx sql.Executor" parameter.
func txParam(h gen.GeneratorHelper) jen.Code {
	return jen.Id(txID).Qual(h.SQLPkg(), "Executor")
}

// ctxTx returns the ctx and tx arguments.
func ctxTx() []jen.Code {
	return []jen.Code{jen.Id(ctxID), jen.Id(txID)}
}

// sqlFn returns a reference to a dialect/sql function.
func sqlFn(h gen.GeneratorHelper, name string) *jen.Statement {
	return jen.Qual(h.SQLPkg(), name)
}

// runtimeFn returns a reference to an aggregen runtime function.
func runtimeFn(h gen.GeneratorHelper, name string) *jen.Statement {
	return jen.Qual(h.RuntimePkg(), name)
}

// txDialect returns tx.Dialect().
func txDialect() *jen.Statement {
	return jen.Id(txID).Dot("Dialect").Call()
}

// eq returns sql.EQ(tx.Dialect(), column).
func eq(h gen.GeneratorHelper, column string) *jen.Statement {
	return sqlFn(h, "EQ").Call(txDialect(), jen.Lit(column))
}

// quote returns sql.Quote(tx.Dialect(), ident).
func quote(h gen.GeneratorHelper, ident string) *jen.Statement {
	return sqlFn(h, "Quote").Call(txDialect(), jen.Lit(ident))
}

// isUnset returns sql.IsUnset(v).
func isUnset(h gen.GeneratorHelper, v jen.Code) *jen.Statement {
	return sqlFn(h, "IsUnset").Call(v)
}

// errCheck returns "if err != nil { return ret..., err }".
func errCheck(ret ...jen.Code) jen.Code {
	return jen.If(jen.Id(errID).Op("!=").Nil()).Block(jen.Return(append(ret, jen.Id(errID))...))
}

// callCheck returns "if err := call; err != nil { return ret..., err }".
func callCheck(call jen.Code, ret ...jen.Code) jen.Code {
	return jen.If(jen.Id(errID).Op(":=").Add(call), jen.Id(errID).Op("!=").Nil()).Block(jen.Return(append(ret, jen.Id(errID))...))
}

// persistErr wraps err into a runtime persistence error of the table.
func persistErr(h gen.GeneratorHelper, op string, t *gen.Table) *jen.Statement {
	return runtimeFn(h, "NewPersistenceError").Call(jen.Lit(op), jen.Id(t.TableConst()), jen.Id(errID))
}

// notFound returns a runtime not-found error of the table.
func notFound(h gen.GeneratorHelper, t *gen.Table, key ...jen.Code) *jen.Statement {
	if len(key) > 0 {
		return runtimeFn(h, "NewNotFoundErrorWithKey").Call(jen.Id(t.TableConst()), key[0])
	}
	return runtimeFn(h, "NewNotFoundError").Call(jen.Id(t.TableConst()))
}

// field returns recv.<column field>.
func field(recv jen.Code, c *gen.Column) *jen.Statement {
	return jen.Add(recv).Dot(c.StructField())
}

// ptrType returns *T for the Go type of the column.
func ptrType(h gen.GeneratorHelper, c *gen.Column) *jen.Statement {
	return jen.Op("*").Add(h.GoType(c))
}

// Generated function names of a table.
func findFunc(t *gen.Table) string        { return "Find" + t.StructName() }
func queryFunc(t *gen.Table) string       { return "Query" + t.StructName() }
func selectFunc(t *gen.Table) string      { return "Select" + t.StructName() }
func deleteWhereFunc(t *gen.Table) string { return "Delete" + t.StructName() + "Where" }

// primaryKey returns the key of a table already checked by the resolver.
func primaryKey(t *gen.Table) *gen.Column {
	key, err := t.PrimaryKey()
	if err != nil {
		return nil
	}
	return key
}

// canonical folds column types sharing a Go type.
func canonical(t gen.ColumnType) gen.ColumnType {
	switch t {
	case gen.TypeDecimal:
		return gen.TypeFloat64
	case gen.TypeDate:
		return gen.TypeTime
	default:
		return t
	}
}

// sameGoType reports whether values of both columns have the same Go type.
func sameGoType(a, b *gen.Column) bool {
	return canonical(a.Type) == canonical(b.Type)
}

// convertValue converts v, a value of column from, to the Go type of to.
func convertValue(h gen.GeneratorHelper, from, to *gen.Column, v jen.Code) jen.Code {
	if sameGoType(from, to) {
		return v
	}
	return jen.Add(h.GoType(to)).Call(v)
}

// convertPtr converts v, a pointer field of column from, to a pointer of
// the Go type of to.
func convertPtr(h gen.GeneratorHelper, from, to *gen.Column, v jen.Code) jen.Code {
	if sameGoType(from, to) {
		return v
	}
	return sqlFn(h, "ConvertKey").Types(h.GoType(to)).Call(v)
}

// upsert saves the row held by v: insert when its key is unset and a
// selective update otherwise.
func upsert(h gen.GeneratorHelper, v jen.Code, key *gen.Column) jen.Code {
	return jen.If(isUnset(h, field(v, key))).Block(
		callCheck(jen.Add(v).Dot("Insert").Call(ctxTx()...)),
	).Else().Block(
		callCheck(jen.Add(v).Dot("UpdateSelective").Call(ctxTx()...)),
	)
}
