package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"segmentation_groups/internal/config"
	"segmentation_groups/internal/model"
)

const (
	TableName        = "DefaultSegmentationsRegions"
	DefaultCSVFile   = "res/default_segment_regions.csv"
	DefaultDBFile    = "OnkoDICOM.db"
	DefaultCacheSize = 128
)

var (
	ErrHiddenDirUnset  = errors.New("USER_ONKODICOM_HIDDEN is not set")
	ErrDSNUnset        = errors.New("GROUPS_DB_DSN is not set")
	ErrMissingColumn   = errors.New("missing required column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrBlankColumn     = errors.New("blank column name")
	ErrEmptyTemplate   = errors.New("default group template is empty")
	ErrSaveFailed      = errors.New("auto segmentation groups did not save")
)

type cacheKey struct {
	userID  int64
	csvFile string
}

// GroupDataStore resolves per-user segmentation groups from the persisted
// store, falling back to the CSV template.
type GroupDataStore struct {
	cfg   *config.Config
	cache *lru.Cache[cacheKey, *model.GroupTable]
	parse func(userID int64, csvFile string) (*model.GroupTable, error)
}

func NewGroupDataStore(cfg *config.Config) (*GroupDataStore, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, *model.GroupTable](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create default group cache: %w", err)
	}
	return &GroupDataStore{cfg: cfg, cache: cache, parse: parseDefaultGroups}, nil
}

// GetGroupData returns the user's persisted groups, or the default template
// stamped with userID when none are stored. An empty csvFile selects the
// configured template.
func (s *GroupDataStore) GetGroupData(ctx context.Context, userID int64, csvFile string) (*model.GroupTable, error) {
	groups, err := s.ReadDatabase(ctx, userID)
	if err != nil {
		return nil, err
	}
	if groups != nil {
		slog.Debug("using persisted groups", "user_id", userID, "rows", groups.Len())
		return groups, nil
	}
	return s.ReadDefaultGroups(userID, csvFile)
}

// PurgeCache drops every memoized default table.
func (s *GroupDataStore) PurgeCache() {
	s.cache.Purge()
}

func (s *GroupDataStore) csvFile(csvFile string) string {
	if csvFile != "" {
		return csvFile
	}
	if s.cfg.CSVFile != "" {
		return s.cfg.CSVFile
	}
	return DefaultCSVFile
}
