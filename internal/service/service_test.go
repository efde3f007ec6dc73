package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"segmentation_groups/internal/config"
	"segmentation_groups/internal/model"
)

const templateCSV = `BodySection, OrganSystem ,Structure,Description
 Thorax ,Respiratory,Lung_L,  Left lung
Pelvis,Urinary,  Bladder ,Urinary bladder
`

func templateRows(userID int64) []model.GroupRow {
	return []model.GroupRow{
		{UserID: userID, BodySection: "Thorax", OrganSystem: "Respiratory", Structure: "Lung_L",
			Extra: map[string]string{"Description": "Left lung"}},
		{UserID: userID, BodySection: "Pelvis", OrganSystem: "Urinary", Structure: "Bladder",
			Extra: map[string]string{"Description": "Urinary bladder"}},
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "default_segment_regions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestStore(t *testing.T) *GroupDataStore {
	t.Helper()
	cfg := &config.Config{
		HiddenDir: t.TempDir(),
		DBFile:    "test.db",
		DBDriver:  config.DriverSQLite,
		CacheSize: DefaultCacheSize,
	}
	store, err := NewGroupDataStore(cfg)
	require.NoError(t, err)
	return store
}

// countParses wraps the store's CSV parser and returns a pointer to the call count.
func countParses(store *GroupDataStore) *int {
	calls := 0
	parse := store.parse
	store.parse = func(userID int64, csvFile string) (*model.GroupTable, error) {
		calls++
		return parse(userID, csvFile)
	}
	return &calls
}
