package errors

import "errors"

var (
	ErrAlreadyExists          = errors.New("already exists")
	ErrNotFound               = errors.New("not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrAmountMismatch         = errors.New("amount does not match order total")
	ErrOrderNotPayable        = errors.New("order is not payable")
	ErrDuplicateActivePayment = errors.New("order already has an active payment")
	ErrInvalidTransition      = errors.New("invalid payment state transition")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrGatewayUnavailable     = errors.New("payment gateway unavailable")
	ErrProductInUse           = errors.New("product is referenced by existing orders")
	ErrAccountInUse           = errors.New("account has existing orders")
)
