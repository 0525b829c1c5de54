package postgres_test

import (
	"errors"
	"fmt"
	"testing"

	"repairshop/internal/adapters/out/postgres"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsThrottled(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx too many connections", err: &pgconn.PgError{Code: "53300"}, want: true},
		{name: "pgx configuration limit", err: &pgconn.PgError{Code: "53400"}, want: true},
		{name: "pgx wrapped", err: fmt.Errorf("query: %w", &pgconn.PgError{Code: "53300"}), want: true},
		{name: "pgx unique violation", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "pq too many connections", err: &pq.Error{Code: "53300"}, want: true},
		{name: "pq syntax error", err: &pq.Error{Code: "42601"}, want: false},
		{name: "plain error", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postgres.IsThrottled(tt.err))
		})
	}
}
