// Package sql is the runtime support package imported by generated aggregate code.
//
// It wraps database/sql with a dialect-aware connection and provides the small
// set of statement helpers the generated Save, Load and Remove cascades are
// built from. Nothing in this package opens or commits transactions on behalf
// of generated code: every helper takes the caller's Executor.
//
// # Executors
//
// An Executor is anything that can run statements and report its dialect:
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	tx, err := drv.BeginTx(ctx, nil)
//	defer tx.Rollback()
//
//	agg, err := model.LoadOrderAgg(ctx, tx, 42)
//	...
//	err = agg.Save(ctx, tx)
//	err = tx.Commit()
//
// Statements are written with "?" placeholders. Conn rebinds them to "$n" for
// PostgreSQL before they reach the driver.
//
// # Statement Helpers
//
//	sql.Insert(ctx, tx, "order_item", cols, vals, "id")   // returns the generated key
//	sql.Update(ctx, tx, "order_item", cols, vals, "id = ?", 7)
//	sql.Delete(ctx, tx, "order_item", sql.In("id", 3), 1, 2, 3)
//	sql.Select(ctx, tx, sql.SelectSpec{...}, scan)
//
// # Constraint Errors
//
// IsConstraintError, IsUniqueConstraintError and IsForeignKeyConstraintError
// classify driver errors from MySQL, PostgreSQL and SQLite.
package sql
