package domain

import "errors"

//region UserNotFoundError

type UserNotFoundError struct {
	Msg string
}

func (e *UserNotFoundError) Error() string {
	return e.Msg
}

func (e *UserNotFoundError) Is(target error) bool {
	_, ok := target.(*UserNotFoundError)
	return ok
}

//endregion

//region ProductNotFoundError

type ProductNotFoundError struct {
	Msg string
}

func (e *ProductNotFoundError) Error() string {
	return e.Msg
}

func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

//endregion

//region ForbiddenError

type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string {
	return e.Msg
}

func (e *ForbiddenError) Is(target error) bool {
	_, ok := target.(*ForbiddenError)
	return ok
}

//endregion

//region InvalidCoinError

type InvalidCoinError struct {
	Msg string
}

func (e *InvalidCoinError) Error() string {
	return e.Msg
}

func (e *InvalidCoinError) Is(target error) bool {
	_, ok := target.(*InvalidCoinError)
	return ok
}

//endregion

//region InvalidAmountError

type InvalidAmountError struct {
	Msg string
}

func (e *InvalidAmountError) Error() string {
	return e.Msg
}

func (e *InvalidAmountError) Is(target error) bool {
	_, ok := target.(*InvalidAmountError)
	return ok
}

//endregion

//region InvalidArgumentsError

type InvalidArgumentsError struct {
	Msg string
}

func (e *InvalidArgumentsError) Error() string {
	return e.Msg
}

func (e *InvalidArgumentsError) Is(target error) bool {
	_, ok := target.(*InvalidArgumentsError)
	return ok
}

//endregion

//region InsufficientStockError

type InsufficientStockError struct {
	Msg string
}

func (e *InsufficientStockError) Error() string {
	return e.Msg
}

func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

//endregion

//region InsufficientFundsError

type InsufficientFundsError struct {
	Msg string
}

func (e *InsufficientFundsError) Error() string {
	return e.Msg
}

func (e *InsufficientFundsError) Is(target error) bool {
	_, ok := target.(*InsufficientFundsError)
	return ok
}

//endregion

//region VersionConflictError

type VersionConflictError struct {
	Msg string
}

func (e *VersionConflictError) Error() string {
	return e.Msg
}

func (e *VersionConflictError) Is(target error) bool {
	_, ok := target.(*VersionConflictError)
	return ok
}

//endregion

//region ProductInUseError

type ProductInUseError struct {
	Msg string
}

func (e *ProductInUseError) Error() string {
	return e.Msg
}

func (e *ProductInUseError) Is(target error) bool {
	_, ok := target.(*ProductInUseError)
	return ok
}

//endregion

//region UserExistsError

type UserExistsError struct {
	Msg string
}

func (e *UserExistsError) Error() string {
	return e.Msg
}

func (e *UserExistsError) Is(target error) bool {
	_, ok := target.(*UserExistsError)
	return ok
}

//endregion

//region CredentialsMismatchError

type CredentialsMismatchError struct {
	Msg string
}

func (e *CredentialsMismatchError) Error() string {
	return e.Msg
}

func (e *CredentialsMismatchError) Is(target error) bool {
	_, ok := target.(*CredentialsMismatchError)
	return ok
}

//endregion

// IsVersionConflict reports whether err is an optimistic concurrency failure,
// the only kind a caller may resolve by re-reading and trying again.
func IsVersionConflict(err error) bool {
	return errors.Is(err, &VersionConflictError{})
}

// IsNotFound reports whether err says a user or a product does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, &UserNotFoundError{}) || errors.Is(err, &ProductNotFoundError{})
}
