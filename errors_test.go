package aggregen_test

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/aggregen"
	"github.com/syssam/aggregen/dialect"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := aggregen.NewNotFoundError("order")
		assert.Equal(t, "aggregen: order not found", err.Error())
	})

	t.Run("ErrorWithKey", func(t *testing.T) {
		err := aggregen.NewNotFoundErrorWithKey("order", 42)
		assert.Equal(t, "aggregen: order not found (key=42)", err.Error())
		assert.Equal(t, 42, err.Key())
		assert.Equal(t, "order", err.Label())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := aggregen.NewNotFoundError("order")
		assert.True(t, errors.Is(err, aggregen.ErrNotFound))
		assert.True(t, aggregen.IsNotFound(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, aggregen.IsNotFound(aggregen.ErrNotFound))
		assert.False(t, aggregen.IsNotFound(errors.New("other error")))
		assert.False(t, aggregen.IsNotFound(nil))
	})
}

func TestPersistenceError(t *testing.T) {
	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := aggregen.NewPersistenceError("insert", "order_item", cause)
		require.Error(t, err)
		assert.Equal(t, "aggregen: insert order_item: connection reset", err.Error())
		assert.True(t, errors.Is(err, aggregen.ErrPersistence))
		assert.True(t, errors.Is(err, cause))
		assert.True(t, aggregen.IsPersistence(err))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, aggregen.NewPersistenceError("insert", "order", nil))
	})

	t.Run("NoDoubleWrap", func(t *testing.T) {
		inner := aggregen.NewPersistenceError("update", "order", errors.New("boom"))
		outer := aggregen.NewPersistenceError("save", "order", inner)
		assert.Same(t, inner, outer)
	})

	t.Run("NotFoundPassesThrough", func(t *testing.T) {
		nf := aggregen.NewNotFoundError("order")
		err := aggregen.NewPersistenceError("delete", "order", nf)
		assert.True(t, aggregen.IsNotFound(err))
		assert.False(t, aggregen.IsPersistence(err))
	})
}

func TestPersistenceError_Constraint(t *testing.T) {
	db, err := stdsql.Open(dialect.DriverName(dialect.SQLite), ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE "order" (id INTEGER PRIMARY KEY, code TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO "order" (code) VALUES ('SO-1')`)
	require.NoError(t, err)
	_, cause := db.ExecContext(ctx, `INSERT INTO "order" (code) VALUES ('SO-1')`)
	require.Error(t, cause)

	err = aggregen.NewPersistenceError("insert", "order", cause)
	assert.True(t, aggregen.IsConstraintError(err))
	assert.True(t, aggregen.IsPersistence(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "unique violation on order")

	code, msg := aggregen.Status(err)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "aggregen: constraint failed", msg)

	plain := aggregen.NewPersistenceError("insert", "order", errors.New("connection reset"))
	assert.False(t, aggregen.IsConstraintError(plain))
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", aggregen.NewNotFoundErrorWithKey("order", 1), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", aggregen.NewNotFoundError("order")), http.StatusNotFound},
		{"constraint", aggregen.NewConstraintError("duplicate", errors.New("1062")), http.StatusConflict},
		{"persistence", aggregen.NewPersistenceError("insert", "order", errors.New("secret dsn")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := aggregen.Status(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotContains(t, msg, "secret dsn")
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	_, ok := aggregen.FromContext(context.Background())
	assert.False(t, ok)

	p := &aggregen.Principal{ID: 1, Name: "alice", CompanyID: 7}
	got, ok := aggregen.FromContext(aggregen.NewContext(context.Background(), p))
	require.True(t, ok)
	assert.Same(t, p, got)
}
