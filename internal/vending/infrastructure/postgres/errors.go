package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/database"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	foreignKeyViolationCode = "23503"
	uniqueViolationCode     = "23505"
)

func hasErrorCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// classifyMiss explains why a version-conditional write on table matched no
// row: either the row is gone or it moved past expected.
func classifyMiss(ctx context.Context, querier database.Querier, table string, id int64, expected domain.Version) error {
	var current int64
	err := querier.QueryRow(ctx, fmt.Sprintf(`SELECT version FROM %s WHERE id = $1`, table), id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(table, id)
		}

		return fmt.Errorf("failed to read %s version: %w", table, err)
	}

	return &domain.VersionConflictError{
		Msg: fmt.Sprintf("%s %d is at version %d, expected %d", entityName(table), id, current, expected),
	}
}

func notFound(table string, id int64) error {
	if table == productsTable {
		return &domain.ProductNotFoundError{Msg: fmt.Sprintf("product %d not found", id)}
	}

	return &domain.UserNotFoundError{Msg: fmt.Sprintf("user %d not found", id)}
}

func entityName(table string) string {
	if table == productsTable {
		return "product"
	}

	return "user"
}
