// Package services contains the per-entity query layer. Each service wraps
// the unit of work it was created with; every statement a service issues runs
// on that unit's connection, so a handler can span several service calls with
// one transaction and decide commit or rollback at the end.
package services

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/mertdogan/internhub/internal/db"
)

// psql builds statements with Postgres positional placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// FavouriteNotFound is the sentinel a favourite delete returns when no row
// matched the (student, internship) pair.
const FavouriteNotFound int64 = -1

// existsByID reports whether exactly one row with this primary key exists.
// Exactly one, not at least one: the key is unique, and a count other than
// zero or one would mean the schema is broken.
func existsByID(ctx context.Context, unit *db.Unit, table, idColumn string, id int64) (bool, error) {
	query := psql.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{idColumn: id})

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := unit.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking %s existence: %w", table, err)
	}

	return count == 1, nil
}

// countRows counts the rows a paginated list query would return without
// paging, for the pagination metadata.
func countRows(ctx context.Context, unit *db.Unit, query squirrel.SelectBuilder) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := unit.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting rows: %w", err)
	}

	return count, nil
}

// paginate applies offset/limit to a list query. A non-positive limit leaves
// the query unpaged.
func paginate(query squirrel.SelectBuilder, offset uint64, limit int) squirrel.SelectBuilder {
	if limit <= 0 {
		return query
	}
	return query.Offset(offset).Limit(uint64(limit))
}
