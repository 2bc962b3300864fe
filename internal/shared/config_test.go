package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service_directory/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	rq := require.New(t)
	t.Chdir(t.TempDir()) // no stray .env

	c, err := shared.Load()
	rq.NoError(err)
	rq.Equal(":8080", c.HTTPAddr)
	rq.Equal("sqlite", c.Storage.Driver)
	rq.Equal("memory", c.Session.Driver)
	rq.Equal(12*time.Hour, c.Session.TTL)
	rq.Equal(15*time.Second, c.RequestTimeout)
	rq.Empty(c.MetricsAddr)
}

func TestLoad_Overrides(t *testing.T) {
	rq := require.New(t)
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("SESSION_DRIVER", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("RATE_LIMIT_RPS", "0")

	c, err := shared.Load()
	rq.NoError(err)
	rq.Equal("redis", c.Storage.Driver)
	rq.Equal(30*time.Minute, c.Session.TTL)
	rq.Zero(c.RateLimitRPS)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "floppy")

	_, err := shared.Load()
	require.ErrorContains(t, err, "STORAGE_DRIVER")
}
