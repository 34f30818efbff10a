package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GiovaTC/HEXA-IBM/apperr"
)

// storageError tags err as a storage failure, keeping the postgres SQLSTATE
// and detail when the server reported one.
func storageError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := fmt.Sprintf("[%s] %s", pgErr.Code, pgErr.Message)
		if pgErr.Detail != "" {
			msg += " (" + pgErr.Detail + ")"
		}
		return &apperr.Error{Kind: apperr.KindStorage, Op: op, Message: msg, Err: err}
	}
	return apperr.Wrap(apperr.KindStorage, op, err)
}
