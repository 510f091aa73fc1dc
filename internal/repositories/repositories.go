// Package repositories contains the persistence layer over MySQL.
//
// Writes that must be unique per key (enrollments, lesson completions,
// submissions) rely on the table's composite unique index and surface a
// constraint hit as models.ErrDuplicateEntry, so services never inspect
// driver-specific error shapes.
package repositories

import (
	"errors"
	"fmt"

	"github.com/courseloom/backend/internal/models"
	"github.com/go-sql-driver/mysql"
)

// MySQL error number for a duplicate entry on a unique key
const mysqlErrDuplicateEntry = 1062

// translateInsertError maps a duplicate-key violation to
// models.ErrDuplicateEntry and wraps anything else
func translateInsertError(op string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
		return models.ErrDuplicateEntry
	}
	return fmt.Errorf("%s: %w", op, err)
}
