package sql

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsExecutor(t *testing.T) {
	ctx := context.Background()
	drv, mock, _ := newMock(t)
	ex := NewStatsExecutor(drv,
		WithSlowThreshold(-1),
		WithStatsLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	mock.ExpectExec("DELETE FROM `t` WHERE id = ?").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT * FROM `t`").WillReturnError(errors.New("boom"))

	_, err := Delete(ctx, ex, "t", "id = ?", 1)
	require.NoError(t, err)
	err = Select(ctx, ex, SelectSpec{Table: "t"}, func(Scanner) error { return nil })
	require.Error(t, err)

	s := ex.QueryStats().Stats()
	assert.Equal(t, int64(1), s.TotalExecs)
	assert.Equal(t, int64(1), s.TotalQueries)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, int64(2), s.SlowQueries)
	assert.Contains(t, s.String(), "queries=1 execs=1")
	assert.Equal(t, drv.Dialect(), ex.Dialect())
	require.NoError(t, mock.ExpectationsWereMet())
}
