package gen

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/aggregen/dialect"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithHeader("Custom header")(c))
		assert.Equal(t, "Custom header", c.HeaderComment())
	})

	t.Run("empty header falls back to default", func(t *testing.T) {
		c := &Config{Header: "existing"}
		require.NoError(t, WithHeader("")(c))
		assert.Equal(t, DefaultHeader, c.HeaderComment())
	})
}

func TestWithDialect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"mysql", "mysql", dialect.MySQL, false},
		{"postgres alias", "postgresql", dialect.Postgres, false},
		{"sqlite3", "sqlite3", dialect.SQLite, false},
		{"invalid", "oracle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithDialect(tt.input)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.DialectName())
		})
	}
}

func TestPathOptions(t *testing.T) {
	c := &Config{}
	assert.Error(t, WithTarget("")(c))
	assert.Error(t, WithPackage("")(c))
	require.NoError(t, WithTarget("./out/model")(c))
	assert.Equal(t, "model", c.PackageName())
	require.NoError(t, WithPackage("github.com/acme/shop/internal/store")(c))
	assert.Equal(t, "store", c.PackageName())
	assert.Equal(t, "model", (&Config{}).PackageName())
}

func TestNewConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewConfig(
		WithTarget("./model"),
		WithDialect("postgres"),
		WithMultiTenancy(true),
		WithStrict(true),
		WithWorkers(2),
		WithLogger(logger),
		WithAcronyms("erp"),
	)
	require.NoError(t, err)
	assert.Equal(t, "ERPCode", c.Naming().Pascal("erp_code"))
	assert.Equal(t, "ErpCode", (&Config{}).Naming().Pascal("erp_code"))
	assert.Equal(t, dialect.Postgres, c.Dialect)
	assert.True(t, c.MultiTenancy)
	assert.True(t, c.Strict)
	assert.Equal(t, 2, c.WorkerCount())
	assert.Same(t, logger, c.Log())

	assert.Equal(t, dialect.MySQL, (&Config{}).DialectName())
	assert.Positive(t, (&Config{}).WorkerCount())
	assert.NotNil(t, (&Config{}).Log())
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithTarget(""), WithWorkers(-1), WithLogger(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Target")
	assert.Contains(t, err.Error(), "Workers")
	assert.Contains(t, err.Error(), "Logger")

	assert.Panics(t, func() { MustNewConfig(WithPackage("")) })
}
