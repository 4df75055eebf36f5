package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgForeignKeyViolation = "23503"

// IsForeignKeyViolationError reports whether err is a postgres foreign key
// violation, and returns the violated constraint name when it is.
func IsForeignKeyViolationError(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgForeignKeyViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}
