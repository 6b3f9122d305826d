package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "3306", cfg.DBPort)
	require.Equal(t, 168*time.Hour, cfg.JWTTTL)
	require.Equal(t, "localhost:6379", cfg.RedisAddr())
	require.Contains(t, cfg.DSN(), "@tcp(localhost:3306)/kanban")
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "boards")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "postgres", cfg.DBDriver)
	require.Contains(t, cfg.DSN(), "port=5432")
	require.Contains(t, cfg.DSN(), "dbname=boards")
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: " http://a.test , ,http://b.test"}
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}
