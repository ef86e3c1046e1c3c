package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

const firstTableQuery = `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name LIMIT 1`

// ReadSQLite reads every row of one table of a SQLite database, opened read-only.
// When table is empty the first user table by name is used. NULL cells are
// absent from their record.
func ReadSQLite(ctx context.Context, path, table string) (models.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return models.Table{}, NewSourceError(path, "sqlite", ErrFileNotFound)
	}
	db, err := sqlx.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return models.Table{}, NewSourceError(path, "sqlite", eris.Wrap(err, "open database"))
	}
	defer db.Close()

	if table == "" {
		if err := db.GetContext(ctx, &table, firstTableQuery); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Table{}, NewSourceError(path, "sqlite", ErrNoTables)
			}
			return models.Table{}, NewSourceError(path, "sqlite", eris.Wrap(err, "find table"))
		}
	}

	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdent(table)))
	if err != nil {
		return models.Table{}, NewSourceError(path, "sqlite", eris.Wrapf(err, "query table %q", table))
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return models.Table{}, NewSourceError(path, "sqlite", eris.Wrap(err, "read columns"))
	}
	t := models.Table{Source: displayName(path) + ":" + table, Headers: cols, Records: []map[string]string{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return models.Table{}, NewSourceError(path, "sqlite", eris.Wrap(err, "scan row"))
		}
		rec := make(map[string]string, len(cols))
		for i, v := range values {
			if s, ok := cellText(v); ok {
				if _, dup := rec[cols[i]]; !dup {
					rec[cols[i]] = s
				}
			}
		}
		t.Records = append(t.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return models.Table{}, NewSourceError(path, "sqlite", eris.Wrap(err, "iterate rows"))
	}
	return t, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// cellText renders a scanned column value as cell text. NULL has no text.
func cellText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case time.Time:
		return t.Format(time.RFC3339), true
	default:
		return fmt.Sprint(t), true
	}
}
