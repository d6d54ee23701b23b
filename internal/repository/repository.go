// Package repository is the storage layer. All SQL lives here, written with
// ? placeholders and passed through database.ConvertPlaceholders so the same
// queries run on PostgreSQL, MySQL and SQLite.
package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fisworks/amendtrack/internal/database"
)

// placeholders returns n comma-separated ? markers for an IN clause.
func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = "?"
	}
	return strings.Join(p, ", ")
}

// insertReturningID executes an insert built by database.BuildInsertQuery
// and returns the generated id. PostgreSQL scans it from RETURNING, the
// other drivers report it through LastInsertId.
func insertReturningID(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	query, useLastInsert := database.ConvertReturning(query)
	if !useLastInsert {
		var id int64
		if err := ext.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
