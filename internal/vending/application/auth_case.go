package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/jwt"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
)

const minPasswordLen = 6

type AuthCase struct {
	users          domain.UserRepository
	passwordHasher domain.PasswordHasher
	tokenIssuer    jwt.TokenIssuer
	secretKey      []byte
	tokenTimeLimit time.Duration
	logger         logging.Logger
}

func NewAuthCase(
	users domain.UserRepository,
	passwordHasher domain.PasswordHasher,
	tokenIssuer jwt.TokenIssuer,
	secretKey string,
	tokenTimeLimit time.Duration,
	logger logging.Logger,
) *AuthCase {
	return &AuthCase{
		users:          users,
		passwordHasher: passwordHasher,
		tokenIssuer:    tokenIssuer,
		secretKey:      []byte(secretKey),
		tokenTimeLimit: tokenTimeLimit,
		logger:         logger,
	}
}

func (ac *AuthCase) Register(ctx context.Context, username, password string, role domain.Role) (domain.User, error) {
	if username == "" {
		return domain.User{}, &domain.InvalidArgumentsError{Msg: "username is required"}
	}

	if len(password) < minPasswordLen {
		return domain.User{}, &domain.InvalidArgumentsError{Msg: fmt.Sprintf("password must be at least %d characters", minPasswordLen)}
	}

	if !role.Valid() {
		return domain.User{}, &domain.InvalidArgumentsError{Msg: fmt.Sprintf("unknown role %q", role)}
	}

	hashedPassword, err := ac.passwordHasher.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := ac.users.CreateUser(ctx, domain.NewUser{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
	})
	if err != nil {
		return domain.User{}, err
	}

	ac.logger.Info("user registered", "user_id", user.ID, "role", string(user.Role))

	return user, nil
}

func (ac *AuthCase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := ac.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, &domain.UserNotFoundError{}) {
			return "", &domain.CredentialsMismatchError{Msg: "username or password is incorrect"}
		}

		return "", err
	}

	valid, err := ac.passwordHasher.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}

	if !valid {
		return "", &domain.CredentialsMismatchError{Msg: "username or password is incorrect"}
	}

	return ac.tokenIssuer.IssueToken(ac.secretKey, user.ID, user.Username, string(user.Role), ac.tokenTimeLimit)
}

func (ac *AuthCase) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return ac.users.GetUser(ctx, userID)
}
