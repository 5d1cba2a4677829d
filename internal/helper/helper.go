package helper

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func IsDuplicateConsent(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == "uidx_user_consents_type"
	}
	return false
}
