package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"mysql", MySQL},
		{"MySQL", MySQL},
		{"sqlite", SQLite},
		{"sqlite3", SQLite},
		{"postgres", Postgres},
		{"postgresql", Postgres},
		{"pgx", Postgres},
		{" pq ", Postgres},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := Normalize("oracle")
	assert.Error(t, err)
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, "mysql", DriverName(MySQL))
	assert.Equal(t, "sqlite", DriverName(SQLite))
	assert.Equal(t, "postgres", DriverName(Postgres))
}
