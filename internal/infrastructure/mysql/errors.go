package mysql

import (
	"errors"
	"strings"

	driver "github.com/go-sql-driver/mysql"
)

const (
	errDuplicateEntry  = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// IsDeadlock reports lock conflicts that are worth retrying.
func IsDeadlock(err error) bool {
	var mysqlErr *driver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout
	}
	return false
}

// IsDuplicateKey reports a unique index violation. When key is not empty the
// violated index name must contain it.
func IsDuplicateKey(err error, key string) bool {
	var mysqlErr *driver.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != errDuplicateEntry {
		return false
	}
	return key == "" || strings.Contains(mysqlErr.Message, key)
}
