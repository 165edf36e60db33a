// Package dialect names the database dialects supported by aggregen.
//
// The dialect is chosen once in the generator configuration and carried at
// run time by the transaction handle handed to generated aggregate code, so
// generated statements never consult process-wide state.
//
// # Supported Dialects
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Sub-packages
//
//   - dialect/sql: driver wrapper and statement helpers called by generated code
package dialect
