package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_WRITE_HOST", "db")
	t.Setenv("POSTGRES_WRITE_USER", "clinic")
	t.Setenv("POSTGRES_WRITE_DBNAME", "clinic")

	require.NoError(t, Load(""))
	c := Get()

	assert.Equal(t, "dev", c.AppEnv)
	assert.Equal(t, ":8080", c.HttpListenAddr)
	assert.Equal(t, "https://wa.me", c.WhatsAppBaseURL)
	assert.Equal(t, 10*time.Second, c.ClickGuardTTL)
	assert.Equal(t, 200, c.HistoryPageLimit)
	assert.Equal(t, "America/Sao_Paulo", c.ClinicTimezone)

	assert.Equal(t, c.WriteDB(), c.ReadDB())
	assert.Equal(t, "db", c.WriteDB().Host)
	assert.Equal(t, "5432", c.WriteDB().Port)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "POSTGRES_WRITE_HOST=primary\nPOSTGRES_READ_HOST=replica\nCLINIC_NAME=Clínica Sorriso\nCLICK_GUARD_TTL=30s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"POSTGRES_WRITE_HOST", "POSTGRES_READ_HOST", "CLINIC_NAME", "CLICK_GUARD_TTL"} {
			os.Unsetenv(k)
		}
	})

	require.NoError(t, Load(path))
	c := Get()
	assert.Equal(t, "Clínica Sorriso", c.ClinicName)
	assert.Equal(t, 30*time.Second, c.ClickGuardTTL)
	assert.Equal(t, "replica", c.ReadDB().Host)
	assert.Equal(t, "primary", c.WriteDB().Host)
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("POSTGRES_WRITE_HOST", "")
	assert.ErrorContains(t, Load(""), "POSTGRES_WRITE_HOST")

	t.Setenv("POSTGRES_WRITE_HOST", "db")
	t.Setenv("CLINIC_TIMEZONE", "Mars/Olympus")
	assert.ErrorContains(t, Load(""), "CLINIC_TIMEZONE")
}

func TestLocation(t *testing.T) {
	c := &Config{ClinicTimezone: "UTC"}
	assert.Equal(t, time.UTC, c.Location())

	c.ClinicTimezone = "not/a/zone"
	assert.Equal(t, time.UTC, c.Location())
}
