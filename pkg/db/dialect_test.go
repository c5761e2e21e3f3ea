package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/factura/internal/config"
)

func TestDialect(t *testing.T) {
	tests := []struct {
		dbType string
		name   string
	}{
		{"postgres", "postgres"},
		{"mysql", "mysql"},
		{"sqlite", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			dialect, err := Dialect(config.Config{
				DBType:     tt.dbType,
				DBHost:     "localhost",
				DBPort:     "5432",
				DBName:     "factura",
				DBUser:     "factura",
				DBPassword: "secret",
				DBSSLMode:  "disable",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.name, dialect.Name())
		})
	}
}

func TestDialect_Unsupported(t *testing.T) {
	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}
