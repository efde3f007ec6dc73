package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"segmentation_groups/internal/model"
)

// SaveToSQL appends every row of groups to the persisted table in one
// transaction, creating the table or adding missing columns as needed. It
// returns the number of rows written.
func (s *GroupDataStore) SaveToSQL(ctx context.Context, groups *model.GroupTable) (int, error) {
	if groups.Len() == 0 {
		return 0, nil
	}

	engine, err := s.GetDatabaseEngine("")
	if err != nil {
		return 0, err
	}

	columns := saveColumns(groups)
	err = engine.withConnection(ctx, func(db *sqlx.DB) error {
		return saveData(ctx, db, engine.Driver(), columns, groups.Rows)
	})
	if err != nil {
		slog.Error("failed to save auto segmentation groups", "err", err)
		return 0, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	slog.Info("saved auto segmentation groups", "rows", groups.Len())
	return groups.Len(), nil
}

// ImportDefaults stores a persisted copy of the default template for userID.
func (s *GroupDataStore) ImportDefaults(ctx context.Context, userID int64, csvFile string) (int, error) {
	groups, err := s.ReadDefaultGroups(userID, csvFile)
	if err != nil {
		return 0, err
	}
	return s.SaveToSQL(ctx, groups)
}

// saveColumns lists the descriptive columns to write: the table's own order,
// then any key or extra column the rows carry that Columns omits.
func saveColumns(groups *model.GroupTable) []string {
	columns := groups.DescriptiveColumns()
	for _, c := range model.KeyColumns {
		if !slices.Contains(columns, c) {
			columns = append(columns, c)
		}
	}
	var extra []string
	for _, row := range groups.Rows {
		for c := range row.Extra {
			if !slices.Contains(columns, c) && !slices.Contains(extra, c) {
				extra = append(extra, c)
			}
		}
	}
	sort.Strings(extra)
	return append(columns, extra...)
}

func saveData(ctx context.Context, db *sqlx.DB, driver string, columns []string, rows []model.GroupRow) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	rollback := func(err error) error {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("failed to rollback transaction", "err", rbErr)
		}
		return err
	}

	if err = ensureTable(ctx, tx, driver, columns); err != nil {
		return rollback(err)
	}

	quoted := make([]string, 0, len(columns)+1)
	quoted = append(quoted, quoteIdent(model.ColUserID))
	for _, c := range columns {
		quoted = append(quoted, quoteIdent(c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(quoted)), ", ")
	query := tx.Rebind(fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(TableName), strings.Join(quoted, ", "), placeholders))

	args := make([]interface{}, len(quoted))
	for _, row := range rows {
		args[0] = row.UserID
		for i, c := range columns {
			args[i+1] = row.Value(c)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return rollback(err)
		}
	}
	return tx.Commit()
}

func ensureTable(ctx context.Context, tx *sqlx.Tx, driver string, columns []string) error {
	exists, err := tableExists(ctx, tx, driver, TableName)
	if err != nil {
		return err
	}

	if !exists {
		defs := make([]string, 0, len(columns)+1)
		defs = append(defs, quoteIdent(model.ColUserID)+" BIGINT")
		for _, c := range columns {
			defs = append(defs, quoteIdent(c)+" TEXT")
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(TableName), strings.Join(defs, ", ")))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", TableName, err)
		}
		return nil
	}

	existing, err := tableColumns(ctx, tx, TableName)
	if err != nil {
		return err
	}
	wanted := append([]string{model.ColUserID}, columns...)
	for _, c := range wanted {
		if slices.Contains(existing, c) {
			continue
		}
		colType := "TEXT"
		if c == model.ColUserID {
			colType = "BIGINT"
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, quoteIdent(TableName), quoteIdent(c), colType))
		if err != nil {
			return fmt.Errorf("failed to add column %s to %s: %w", c, TableName, err)
		}
		slog.Info("added column to groups table", "table", TableName, "column", c)
	}
	return nil
}
