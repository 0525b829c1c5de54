package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes the server returns when it refuses work for capacity reasons.
const (
	codeTooManyConnections         = "53300"
	codeConfigurationLimitExceeded = "53400"
)

// IsThrottled reports whether err is a PostgreSQL capacity refusal. It matches
// errors from pgx, which gorm uses, and from lib/pq, which the migrator uses.
func IsThrottled(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isThrottleCode(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return isThrottleCode(string(pqErr.Code))
	}

	return false
}

func isThrottleCode(code string) bool {
	return code == codeTooManyConnections || code == codeConfigurationLimitExceeded
}
