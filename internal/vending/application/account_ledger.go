package application

import (
	"context"
	"fmt"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
)

type BalanceView struct {
	UserID  int64
	Balance int64
	Version domain.Version
}

type ResetView struct {
	UserID          int64
	PreviousBalance int64
	NewBalance      int64
	Version         domain.Version
}

// AccountLedger owns buyer balance mutations. Every write is conditional on
// the version the caller last observed; conflicts are reported, not retried.
type AccountLedger struct {
	users  domain.UserRepository
	logger logging.Logger
}

func NewAccountLedger(users domain.UserRepository, logger logging.Logger) *AccountLedger {
	return &AccountLedger{
		users:  users,
		logger: logger,
	}
}

func (al *AccountLedger) Read(ctx context.Context, userID int64) (BalanceView, error) {
	user, err := al.users.GetUser(ctx, userID)
	if err != nil {
		return BalanceView{}, err
	}

	return BalanceView{
		UserID:  user.ID,
		Balance: user.Balance,
		Version: user.Version,
	}, nil
}

func (al *AccountLedger) Deposit(ctx context.Context, userID int64, coin int64, expected domain.Version) (BalanceView, error) {
	if !domain.IsValidDenomination(coin) {
		return BalanceView{}, &domain.InvalidCoinError{
			Msg: fmt.Sprintf("coin %d is not accepted, valid coins are %v", coin, domain.ValidDenominations()),
		}
	}

	user, err := al.readAt(ctx, "deposit", userID, expected)
	if err != nil {
		return BalanceView{}, err
	}

	newBalance := user.Balance + coin
	version, err := al.users.SetBalance(ctx, userID, newBalance, expected)
	if err != nil {
		al.logRejected("deposit", userID, err)
		return BalanceView{}, err
	}

	al.logger.Info("deposit accepted", "user_id", userID, "coin", coin, "balance", newBalance, "version", int64(version))

	return BalanceView{
		UserID:  userID,
		Balance: newBalance,
		Version: version,
	}, nil
}

func (al *AccountLedger) Reset(ctx context.Context, userID int64, expected domain.Version) (ResetView, error) {
	user, err := al.readAt(ctx, "reset", userID, expected)
	if err != nil {
		return ResetView{}, err
	}

	version, err := al.users.SetBalance(ctx, userID, 0, expected)
	if err != nil {
		al.logRejected("reset", userID, err)
		return ResetView{}, err
	}

	al.logger.Info("balance reset", "user_id", userID, "previous_balance", user.Balance, "version", int64(version))

	// The write succeeded at the version the balance was read at, so that
	// read is exactly what was cleared.
	return ResetView{
		UserID:          userID,
		PreviousBalance: user.Balance,
		NewBalance:      0,
		Version:         version,
	}, nil
}

func (al *AccountLedger) readAt(ctx context.Context, operation string, userID int64, expected domain.Version) (domain.User, error) {
	user, err := al.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if user.Version != expected {
		err = &domain.VersionConflictError{
			Msg: fmt.Sprintf("user %d is at version %d, expected %d", userID, user.Version, expected),
		}
		al.logRejected(operation, userID, err)
		return domain.User{}, err
	}

	return user, nil
}

func (al *AccountLedger) logRejected(operation string, userID int64, err error) {
	if domain.IsVersionConflict(err) {
		al.logger.Warn("balance write conflicted", "operation", operation, "user_id", userID, "error", err.Error())
	}
}
