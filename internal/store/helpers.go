package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// getCount runs the given count query, expecting a single integer column.
func (sqlStore *SQLStore) getCount(builder sq.SelectBuilder) (int64, error) {
	var count int64
	err := sqlStore.getBuilder(sqlStore.db, &count, builder)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// tableExists determines if the given table name exists in the database.
func (sqlStore *SQLStore) tableExists(tableName string) (bool, error) {
	var tableExists bool

	switch sqlStore.db.DriverName() {
	case driverSqlite:
		err := sqlStore.get(sqlStore.db, &tableExists,
			"SELECT COUNT(*) == 1 FROM sqlite_master WHERE type='table' AND name=?", tableName,
		)
		if err != nil {
			return false, errors.Wrapf(err, "failed to check if %s table exists", tableName)
		}

	case driverPostgres:
		err := sqlStore.get(sqlStore.db, &tableExists,
			"SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?)",
			strings.ToLower(tableName),
		)
		if err != nil {
			return false, errors.Wrapf(err, "failed to check if %s table exists", tableName)
		}

	default:
		return false, errors.Errorf("unsupported driver %s", sqlStore.db.DriverName())
	}

	return tableExists, nil
}

// IsUniqueConstraintError returns true when the given error is a duplicate key
// violation from either supported driver. Callers use it to recognize a lost
// race against another writer rather than a real failure.
func IsUniqueConstraintError(err error) bool {
	switch cause := errors.Cause(err).(type) {
	case *pq.Error:
		return cause.Code == "23505"
	case sqlite3.Error:
		return cause.ExtendedCode == sqlite3.ErrConstraintUnique ||
			cause.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
