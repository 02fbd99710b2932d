package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_lower_idx"}, want: true},
		{name: "pgx wrapped with constraint", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_lower_idx"}), constraint: "customers_email_lower_idx", want: true},
		{name: "pgx other constraint", err: &pgconn.PgError{Code: "23505", ConstraintName: "other"}, constraint: "customers_email_lower_idx", want: false},
		{name: "pgx foreign key", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "pq unique", err: &pq.Error{Code: "23505", Constraint: "products_name_lower_idx"}, constraint: "products_name_lower_idx", want: true},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: categories.name"), want: true},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tc.want)
			}
		})
	}
}
