package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"segmentation_groups/internal/model"
)

// ReadDefaultGroups loads the CSV template for userID. An empty csvFile
// selects the configured template. Parsed tables are memoized per
// (userID, csvFile); each call returns its own copy.
func (s *GroupDataStore) ReadDefaultGroups(userID int64, csvFile string) (*model.GroupTable, error) {
	csvFile = s.csvFile(csvFile)
	key := cacheKey{userID: userID, csvFile: csvFile}
	if groups, ok := s.cache.Get(key); ok {
		return groups.Clone(), nil
	}

	groups, err := s.parse(userID, csvFile)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, groups)
	slog.Debug("loaded default groups", "user_id", userID, "csv_file", csvFile, "rows", groups.Len())
	return groups.Clone(), nil
}

func parseDefaultGroups(userID int64, csvFile string) (*model.GroupTable, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open default groups: %w", err)
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			slog.Error("failed to close default groups file", "err", err)
		}
	}(file)

	groups, err := readGroupsCSV(file, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", csvFile, err)
	}
	return groups, nil
}

func readGroupsCSV(r io.Reader, userID int64) (*model.GroupTable, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse default groups: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTemplate
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			return nil, fmt.Errorf("%w at position %d", ErrBlankColumn, i+1)
		}
		if slices.Contains(header[:i], name) {
			return nil, fmt.Errorf("%w %q", ErrDuplicateColumn, name)
		}
		header[i] = name
	}
	for _, required := range model.KeyColumns {
		if !slices.Contains(header, required) {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, required)
		}
	}

	groups := &model.GroupTable{Columns: header}
	if !slices.Contains(header, model.ColUserID) {
		groups.Columns = append(append([]string(nil), header...), model.ColUserID)
	}

	groups.Rows = make([]model.GroupRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := model.GroupRow{UserID: userID}
		for i, col := range header {
			row.SetValue(col, strings.TrimSpace(record[i]))
		}
		groups.Rows = append(groups.Rows, row)
	}
	return groups, nil
}

// WriteGroupsCSV writes groups with a header row in table column order.
func WriteGroupsCSV(w io.Writer, groups *model.GroupTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(groups.Columns); err != nil {
		return err
	}
	record := make([]string, len(groups.Columns))
	for _, row := range groups.Rows {
		for i, col := range groups.Columns {
			if col == model.ColUserID {
				record[i] = strconv.FormatInt(row.UserID, 10)
				continue
			}
			record[i] = row.Value(col)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
