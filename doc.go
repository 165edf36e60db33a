// Package aggregen holds the runtime types imported by generated aggregate
// code: the caller Principal carried in a context, and the NotFound and
// Persistence errors returned by the generated Save, Load and Remove
// functions.
//
// Code is generated by the aggregen command:
//
//	go run github.com/syssam/aggregen/cmd/aggregen generate -c aggregen.yaml
//
// Each generated aggregate bundles a major row with its one-to-one,
// one-to-many and many-to-many related rows. Every cascade runs on the
// sql.Executor supplied by the caller, usually a transaction, and never
// begins or commits one itself.
package aggregen
