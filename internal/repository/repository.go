package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/maheshrc27/socialflow/internal/apperror"
)

const uniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...any) error
}

// mapWriteError turns a Postgres unique violation into apperror.ErrConflict.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", apperror.ErrConflict, pqErr.Detail)
	}
	return err
}

func jsonOrEmpty(b []byte) []byte {
	if len(b) == 0 {
		return []byte("{}")
	}
	return b
}
