package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Balance      int64
	Role         Role
	Version      Version
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type NewUser struct {
	Username     string
	PasswordHash string
	Role         Role
}

// Caller is the authenticated identity a request acts as.
type Caller struct {
	UserID int64
	Role   Role
}

type UserRepository interface {
	CreateUser(ctx context.Context, user NewUser) (User, error)
	GetUser(ctx context.Context, userID int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	// SetBalance stores balance only if the user is still at expected and
	// returns the version the write produced.
	SetBalance(ctx context.Context, userID int64, balance int64, expected Version) (Version, error)
}
