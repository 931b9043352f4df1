package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithEnvOverride(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("PRICELIST_JWT_SECRET", "s3cret")
	t.Setenv("PRICELIST_DB_DSN", ":memory:")
	t.Setenv("PRICELIST_HTTP_READ_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	Expect(cfg.JWT.Secret).To(Equal("s3cret"))
	Expect(cfg.DB.Driver).To(Equal(DriverSQLite))
	Expect(cfg.DB.DSN).To(Equal(":memory:"))
	Expect(cfg.HTTP.ReadTimeout).To(Equal(3 * time.Second))
	Expect(cfg.HTTP.Addr).To(Equal(":8080"))
	Expect(cfg.JWT.TTL).To(Equal(24 * time.Hour))
	Expect(cfg.IsProduction()).To(BeFalse())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
environment: production
db:
  driver: postgres
  dsn: postgres://localhost/pricelist
jwt:
  secret: from-file
  ttl: 2h
`)

	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	cfg := &AppConfig{DB: DBConfig{Driver: "mysql"}}

	err := cfg.Validate()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "jwt.secret is required")
	assert.Contains(t, err.Error(), `db.driver "mysql" is not supported`)
	assert.Contains(t, err.Error(), "db.dsn is required")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "console"}, "pricelist")
	require.NoError(t, err)

	assert.NotNil(t, logger.Logger)
	assert.NotNil(t, NewNopLogger())
}
