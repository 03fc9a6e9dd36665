package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsSystemic reports whether err means the store itself is unusable (lost
// connection, finished transaction, cancelled request) rather than that one
// statement was rejected. Systemic errors abort a whole upload.
func IsSystemic(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception, 25P02: in_failed_sql_transaction,
		// 57P01..03: admin shutdown / cannot connect now.
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "25P02" || strings.HasPrefix(pgErr.Code, "57P")
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// 2006 server gone away, 2013 lost connection, 1213 deadlock rolls back the tx.
		return myErr.Number == 2006 || myErr.Number == 2013 || myErr.Number == 1213
	}
	return errors.Is(err, mysql.ErrInvalidConn)
}

// Describe turns a store error into a short message that is safe to show to
// the user who uploaded the row. Unknown errors get a generic message.
func Describe(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "duplicate key"
		case "23503":
			return "foreign key violation"
		case "23502":
			return "missing value for " + pgErr.ColumnName
		case "23514":
			return "check constraint violated"
		case "22001":
			return "value too long"
		case "22P02", "22003":
			return "invalid number"
		}
		return "database rejected row (" + pgErr.Code + ")"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return "duplicate key"
		case 1451, 1452:
			return "foreign key violation"
		case 1048:
			return "missing value"
		case 3819:
			return "check constraint violated"
		case 1406:
			return "value too long"
		case 1264, 1366:
			return "invalid number"
		}
		return "database rejected row"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return "foreign key violation"
	case strings.Contains(msg, "CHECK constraint failed"):
		return "check constraint violated"
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return "duplicate key"
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return "missing value"
	}
	return "database rejected row"
}
