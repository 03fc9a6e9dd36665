package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsSystemic(t *testing.T) {
	systemic := []error{
		driver.ErrBadConn,
		fmt.Errorf("upsert: %w", context.Canceled),
		context.DeadlineExceeded,
		&pgconn.PgError{Code: "08006"},
		&pgconn.PgError{Code: "25P02"},
		&pgconn.PgError{Code: "57P01"},
		&mysql.MySQLError{Number: 2013},
		mysql.ErrInvalidConn,
	}
	for _, err := range systemic {
		assert.True(t, IsSystemic(err), "%v", err)
	}

	rowScoped := []error{
		nil,
		errors.New("FOREIGN KEY constraint failed"),
		&pgconn.PgError{Code: "23503"},
		&mysql.MySQLError{Number: 1452},
	}
	for _, err := range rowScoped {
		assert.False(t, IsSystemic(err), "%v", err)
	}
}

func TestDescribe(t *testing.T) {
	cases := map[error]string{
		&pgconn.PgError{Code: "23503"}:                         "foreign key violation",
		&pgconn.PgError{Code: "22001"}:                         "value too long",
		&pgconn.PgError{Code: "23502", ColumnName: "item_no"}:  "missing value for item_no",
		&pgconn.PgError{Code: "XX000"}:                         "database rejected row (XX000)",
		&mysql.MySQLError{Number: 1452}:                        "foreign key violation",
		&mysql.MySQLError{Number: 1406}:                        "value too long",
		errors.New("CHECK constraint failed: chk_quantity"):    "check constraint violated",
		errors.New("something unexpected with secret details"): "database rejected row",
	}
	for err, want := range cases {
		assert.Equal(t, want, Describe(err), "%v", err)
	}
}
