package config

import (
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	HiddenDir        string `envconfig:"USER_ONKODICOM_HIDDEN"`
	DBFile           string `envconfig:"GROUPS_DB_FILE" default:"OnkoDICOM.db"`
	DBDriver         string `envconfig:"GROUPS_DB_DRIVER" default:"sqlite"`
	DBDSN            string `envconfig:"GROUPS_DB_DSN"`
	CSVFile          string `envconfig:"GROUPS_CSV_FILE" default:"res/default_segment_regions.csv"`
	CacheSize        int    `envconfig:"GROUPS_CACHE_SIZE" default:"128"`
	LogPath          string `envconfig:"LOG_PATH" default:"log/segmentation_groups.log"`
	LogCleanupMaxAge int    `envconfig:"LOG_CLEANUP_MAX_AGE" default:"7"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return &cfg, err
}
