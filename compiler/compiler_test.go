package compiler

import (
	"context"
	stdsql "database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/aggregen/compiler/gen"
	"github.com/syssam/aggregen/compiler/load"
)

const inlineConfig = `
dialect: mysql
package: github.com/acme/shop/model
target: model
schema:
  tables:
    - name: order
      columns:
        - {name: id, type: bigint, primary: true, auto_increment: true}
        - {name: code, type: varchar}
        - {name: create_time, type: datetime, nullable: true}
    - name: order_line
      columns:
        - {name: id, type: bigint, primary: true, auto_increment: true}
        - {name: order_id, type: bigint}
        - {name: sku, type: varchar}
aggregates:
  - major_table: order
    one_to_many:
      - table: order_line
      - table: coupon
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aggregen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quiet() gen.Option {
	return gen.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGenerate(t *testing.T) {
	path := writeConfig(t, inlineConfig)
	report, err := Generate(context.Background(), path, quiet())
	require.NoError(t, err)

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "coupon", report.Warnings[0].Relation)
	assert.ElementsMatch(t, []string{
		"order.go",
		"order_line.go",
		"order_aggregate.go",
		"order_aggregate_save.go",
		"order_aggregate_load.go",
		"order_aggregate_delete.go",
	}, report.Files)

	src, err := os.ReadFile(filepath.Join(filepath.Dir(path), "model", "order_aggregate.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package model")
	assert.Contains(t, string(src), "type OrderAggregate struct")
}

func TestGenerate_Strict(t *testing.T) {
	path := writeConfig(t, inlineConfig)
	_, err := Generate(context.Background(), path, quiet(), gen.WithStrict(true))
	require.Error(t, err)
	assert.True(t, gen.IsRelationError(err))

	_, statErr := os.Stat(filepath.Join(filepath.Dir(path), "model"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheck(t *testing.T) {
	path := writeConfig(t, inlineConfig)

	report, err := Check(context.Background(), path, quiet())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Problems())
	assert.Empty(t, report.Files)

	report, err = Check(context.Background(), path, quiet(), gen.WithStrict(true))
	require.Error(t, err)
	assert.True(t, gen.IsGenerationError(err))
	assert.Equal(t, 1, report.Problems())
}

func TestPrepare_Errors(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		_, err := Generate(context.Background(), filepath.Join(t.TempDir(), "none.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid schema", func(t *testing.T) {
		path := writeConfig(t, `
target: model
schema:
  tables:
    - name: order
    - name: order
`)
		_, err := Check(context.Background(), path)
		assert.True(t, gen.IsSchemaError(err))
	})
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shop.db")
	db, err := stdsql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE tag (id INTEGER PRIMARY KEY, label TEXT NOT NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	path := filepath.Join(dir, "aggregen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dialect: sqlite
target: model
schema:
  dsn: `+dbPath+`
  snapshot: schema/shop.msgpack
`), 0o644))

	out, err := Snapshot(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "schema", "shop.msgpack"), out)

	s, err := load.ReadSnapshot(out)
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, "tag", s.Tables[0].Name)
	key, err := s.Tables[0].PrimaryKey()
	require.NoError(t, err)
	assert.True(t, key.AutoKey())
}

func TestSnapshot_RequiresDSN(t *testing.T) {
	path := writeConfig(t, "target: model\nschema:\n  snapshot: shop.msgpack\n")
	_, err := Snapshot(context.Background(), path, "")
	assert.True(t, gen.IsConfigError(err))
}
