package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("USER_ONKODICOM_HIDDEN", "/tmp/hidden")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/hidden", cfg.HiddenDir)
	assert.Equal(t, "OnkoDICOM.db", cfg.DBFile)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "res/default_segment_regions.csv", cfg.CSVFile)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, 7, cfg.LogCleanupMaxAge)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("GROUPS_DB_DRIVER", "postgres")
	t.Setenv("GROUPS_DB_DSN", "host=db user=onko sslmode=disable")
	t.Setenv("GROUPS_CACHE_SIZE", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "host=db user=onko sslmode=disable", cfg.DBDSN)
	assert.Equal(t, 4, cfg.CacheSize)
}

func TestLoadConfig_BadInt(t *testing.T) {
	t.Setenv("GROUPS_CACHE_SIZE", "many")

	_, err := LoadConfig()
	assert.Error(t, err)
}
