package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"segmentation_groups/internal/model"
)

// indexColumn is the row-index column older writers stored alongside the
// groups. It carries no group data.
const indexColumn = "index"

// ReadDatabase returns the persisted groups for userID, or nil when the
// table does not exist or holds no rows for that user.
func (s *GroupDataStore) ReadDatabase(ctx context.Context, userID int64) (*model.GroupTable, error) {
	engine, err := s.GetDatabaseEngine("")
	if err != nil {
		return nil, err
	}

	var groups *model.GroupTable
	err = engine.withConnection(ctx, func(db *sqlx.DB) error {
		exists, err := tableExists(ctx, db, engine.Driver(), TableName)
		if err != nil || !exists {
			return err
		}

		query := db.Rebind(fmt.Sprintf(`SELECT * FROM %s WHERE %s = ?`, quoteIdent(TableName), quoteIdent(model.ColUserID)))
		rows, err := db.QueryxContext(ctx, query, userID)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", TableName, err)
		}
		defer func(rows *sqlx.Rows) {
			if err := rows.Close(); err != nil {
				slog.Error("failed to close rows", "err", err)
			}
		}(rows)

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		table := &model.GroupTable{}
		for _, c := range cols {
			if c != indexColumn {
				table.Columns = append(table.Columns, c)
			}
		}

		for rows.Next() {
			values := make(map[string]interface{}, len(cols))
			if err := rows.MapScan(values); err != nil {
				return fmt.Errorf("failed to scan %s row: %w", TableName, err)
			}
			row := model.GroupRow{UserID: userID}
			for _, c := range table.Columns {
				row.SetValue(c, columnString(values[c]))
			}
			table.Rows = append(table.Rows, row)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if table.Len() > 0 {
			groups = table
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func columnString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
