package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"segmentation_groups/internal/config"
)

func init() {
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// Engine opens connections to the persisted group store.
type Engine struct {
	driver string
	dsn    string
}

// GetDatabaseEngine returns an Engine for dbFile inside the hidden data
// directory. An empty dbFile selects the configured database file. With the
// postgres driver the configured DSN is used and dbFile is ignored.
func (s *GroupDataStore) GetDatabaseEngine(dbFile string) (*Engine, error) {
	switch s.cfg.DBDriver {
	case "", config.DriverSQLite:
		if s.cfg.HiddenDir == "" {
			return nil, ErrHiddenDirUnset
		}
		if dbFile == "" {
			dbFile = s.cfg.DBFile
		}
		if dbFile == "" {
			dbFile = DefaultDBFile
		}
		return &Engine{driver: config.DriverSQLite, dsn: filepath.Join(s.cfg.HiddenDir, dbFile)}, nil
	case config.DriverPostgres:
		if s.cfg.DBDSN == "" {
			return nil, ErrDSNUnset
		}
		return &Engine{driver: config.DriverPostgres, dsn: s.cfg.DBDSN}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", s.cfg.DBDriver)
	}
}

func (e *Engine) Driver() string { return e.driver }

func (e *Engine) DSN() string { return e.dsn }

func (e *Engine) Connect(ctx context.Context) (*sqlx.DB, error) {
	return sqlx.ConnectContext(ctx, e.driver, e.dsn)
}

// withConnection runs fn against a fresh connection that is closed before
// returning, whatever fn does.
func (e *Engine) withConnection(ctx context.Context, fn func(db *sqlx.DB) error) error {
	db, err := e.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", e.driver, err)
	}
	defer func(db *sqlx.DB) {
		if err := db.Close(); err != nil {
			slog.Error("db close error", "err", err)
		}
	}(db)
	return fn(db)
}

func tableExists(ctx context.Context, q sqlx.QueryerContext, driver, table string) (bool, error) {
	query := `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	if driver == config.DriverPostgres {
		query = `SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
	}
	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, table); err != nil {
		return false, fmt.Errorf("failed to check for table %s: %w", table, err)
	}
	return n > 0, nil
}

func tableColumns(ctx context.Context, q sqlx.QueryerContext, table string) ([]string, error) {
	rows, err := q.QueryxContext(ctx, fmt.Sprintf(`SELECT * FROM %s WHERE 1 = 0`, quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer func(rows *sqlx.Rows) {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "err", err)
		}
	}(rows)
	return rows.Columns()
}

// quoteIdent keeps mixed-case column names intact on postgres.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
