package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/aggregen/dialect"
)

func TestQuote(t *testing.T) {
	assert.Equal(t, "`order`", Quote(dialect.MySQL, "order"))
	assert.Equal(t, `"order"`, Quote(dialect.Postgres, "order"))
	assert.Equal(t, `"t"."id"`, Quote(dialect.SQLite, "t.id"))
	assert.Equal(t, `"t".*`, Quote(dialect.Postgres, "t.*"))
}

func TestPredicates(t *testing.T) {
	assert.Equal(t, "id IN (?, ?, ?)", In("id", 3))
	assert.Equal(t, "1=0", In("id", 0))
	assert.Equal(t, "id NOT IN (?)", NotIn("id", 1))
	assert.Equal(t, "1=1", NotIn("id", 0))
	assert.Equal(t, "(a = ?) AND (b = ?)", And("a = ?", "", " b = ? "))
	assert.Equal(t, "", And())
	assert.Equal(t, []any{int64(1), int64(2)}, Args([]int64{1, 2}))
	assert.Equal(t, "`order_id` = ?", EQ(dialect.MySQL, "order_id"))
	assert.Equal(t, []string{"t.id", "t.name"}, Qualify("t", []string{"id", "name"}))
}

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("MySQL", func(t *testing.T) {
		drv, mock, _ := newMock(t)
		mock.ExpectExec("INSERT INTO `order` (`name`, `total`) VALUES (?, ?)").
			WithArgs("a", 10).
			WillReturnResult(sqlmock.NewResult(5, 1))
		id, err := Insert(ctx, drv, "order", []string{"name", "total"}, []any{"a", 10}, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Postgres", func(t *testing.T) {
		_, mock, open := newMock(t)
		mock.ExpectQuery(`INSERT INTO "order" ("name") VALUES ($1) RETURNING "id"`).
			WithArgs("a").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		id, err := Insert(ctx, open(dialect.Postgres), "order", []string{"name"}, []any{"a"}, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(9), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoKey", func(t *testing.T) {
		_, mock, open := newMock(t)
		mock.ExpectExec(`INSERT INTO "post_tag" ("post_id", "tag_id") VALUES ($1, $2)`).
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		id, err := Insert(ctx, open(dialect.Postgres), "post_tag", []string{"post_id", "tag_id"}, []any{1, 2}, "")
		require.NoError(t, err)
		assert.Zero(t, id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DefaultValues", func(t *testing.T) {
		_, mock, open := newMock(t)
		mock.ExpectExec(`INSERT INTO "log" DEFAULT VALUES`).WillReturnResult(sqlmock.NewResult(3, 1))
		id, err := Insert(ctx, open(dialect.SQLite), "log", nil, nil, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Mismatch", func(t *testing.T) {
		drv, _, _ := newMock(t)
		_, err := Insert(ctx, drv, "order", []string{"a"}, nil, "")
		assert.Error(t, err)
	})

	t.Run("DriverError", func(t *testing.T) {
		drv, mock, _ := newMock(t)
		mock.ExpectExec("INSERT INTO `order` (`name`) VALUES (?)").WillReturnError(errors.New("Error 1062: Duplicate entry"))
		_, err := Insert(ctx, drv, "order", []string{"name"}, []any{"a"}, "id")
		require.Error(t, err)
		assert.True(t, IsUniqueConstraintError(err))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	drv, mock, _ := newMock(t)

	n, err := Update(ctx, drv, "order", nil, nil, "id = ?", 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	values := []any{"b", 20}
	mock.ExpectExec("UPDATE `order` SET `name` = ?, `total` = ? WHERE id = ?").
		WithArgs("b", 20, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	n, err = Update(ctx, drv, "order", []string{"name", "total"}, values, "id = ?", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, values, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	drv, mock, _ := newMock(t)

	_, err := Delete(ctx, drv, "order", "  ")
	require.Error(t, err)

	mock.ExpectExec("DELETE FROM `order_item` WHERE order_id = ? AND id NOT IN (?, ?)").
		WithArgs(1, 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 4))
	n, err := Delete(ctx, drv, "order_item", "order_id = ? AND "+NotIn("id", 2), 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	_, mock, open := newMock(t)

	spec := SelectSpec{
		Table:   "tag",
		Alias:   "t",
		Columns: []string{"t.id", "t.name"},
		Join:    `INNER JOIN "post_tag" AS "j" ON j.tag_id = t.id`,
		Where:   "j.post_id = ?",
		Args:    []any{7},
		OrderBy: "t.id",
	}
	assert.Equal(t,
		`SELECT "t"."id", "t"."name" FROM "tag" AS "t" INNER JOIN "post_tag" AS "j" ON j.tag_id = t.id WHERE j.post_id = ? ORDER BY t.id`,
		spec.Query(dialect.SQLite))

	mock.ExpectQuery(`SELECT "t"."id", "t"."name" FROM "tag" AS "t" INNER JOIN "post_tag" AS "j" ON j.tag_id = t.id WHERE j.post_id = $1 ORDER BY t.id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "go").AddRow(2, "sql"))

	var names []string
	err := Select(ctx, open(dialect.Postgres), spec, func(s Scanner) error {
		var (
			id   int64
			name string
		)
		if err := s.Scan(&id, &name); err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, names)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, `SELECT * FROM "tag"`, SelectSpec{Table: "tag"}.Query(dialect.Postgres))
}

func TestIsUnset(t *testing.T) {
	assert.True(t, IsUnset[int64](nil))
	assert.True(t, IsUnset(Ptr(int64(0))))
	assert.False(t, IsUnset(Ptr(int64(3))))
	assert.True(t, IsUnset(Ptr("")))
	assert.False(t, IsUnset(Ptr("k")))
	assert.True(t, IsUnset(Ptr(uuid.Nil)))
	assert.False(t, IsUnset(Ptr(uuid.New())))
}

func TestConvertKey(t *testing.T) {
	assert.Nil(t, ConvertKey[int32, int64](nil))
	got := ConvertKey[int32](Ptr(int64(42)))
	require.NotNil(t, got)
	assert.Equal(t, int32(42), *got)
	assert.Equal(t, uint64(7), *ConvertKey[uint64](Ptr(7)))
}
