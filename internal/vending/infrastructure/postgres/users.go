package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/database"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/jackc/pgx/v5"
)

const (
	usersTable  = "users"
	userColumns = `id, username, password_hash, balance, role, version, created_at, updated_at`
)

type UsersRepository struct {
	querier database.QueryExecuter
}

func NewUsersRepository(querier database.QueryExecuter) *UsersRepository {
	return &UsersRepository{
		querier: querier,
	}
}

func (r *UsersRepository) CreateUser(ctx context.Context, newUser domain.NewUser) (domain.User, error) {
	creationSQL := `INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING ` + userColumns

	row := r.querier.QueryRow(ctx, creationSQL, newUser.Username, newUser.PasswordHash, string(newUser.Role))
	user, err := scanUser(row)
	if err != nil {
		if hasErrorCode(err, uniqueViolationCode) {
			return domain.User{}, &domain.UserExistsError{Msg: fmt.Sprintf("username %s is taken", newUser.Username)}
		}

		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *UsersRepository) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	querySQL := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.querier.QueryRow(ctx, querySQL, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, notFound(usersTable, userID)
		}

		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *UsersRepository) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	querySQL := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.querier.QueryRow(ctx, querySQL, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, &domain.UserNotFoundError{Msg: fmt.Sprintf("user %s not found", username)}
		}

		return domain.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UsersRepository) SetBalance(ctx context.Context, userID int64, balance int64, expected domain.Version) (domain.Version, error) {
	return setUserBalance(ctx, r.querier, userID, balance, expected)
}

func setUserBalance(ctx context.Context, querier database.Querier, userID int64, balance int64, expected domain.Version) (domain.Version, error) {
	updateSQL := `UPDATE users SET balance = $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3 RETURNING version`

	var version int64
	err := querier.QueryRow(ctx, updateSQL, balance, userID, int64(expected)).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, classifyMiss(ctx, querier, usersTable, userID, expected)
		}

		return 0, fmt.Errorf("failed to update user balance: %w", err)
	}

	return domain.Version(version), nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user    domain.User
		role    string
		version int64
	)

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Balance, &role, &version, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}

	user.Role = domain.Role(role)
	user.Version = domain.Version(version)

	return user, nil
}
