package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrInvalidAmount         = errors.Register(ModuleName, 1, "invalid amount")
	ErrOverflow              = errors.Register(ModuleName, 2, "arithmetic overflow")
	ErrInsufficientPrincipal = errors.Register(ModuleName, 3, "withdraw amount exceeds principal")
	ErrLockActive            = errors.Register(ModuleName, 4, "position lock has not expired")
	ErrNothingToClaim        = errors.Register(ModuleName, 5, "no accrued reward to claim")
	ErrUnauthorized          = errors.Register(ModuleName, 6, "unauthorized")
	ErrStalePeriod           = errors.Register(ModuleName, 7, "emission period start is in the past")

	ErrPoolNotFound     = errors.Register(ModuleName, 10, "pool not found")
	ErrPoolExists       = errors.Register(ModuleName, 11, "pool already exists")
	ErrPositionNotFound = errors.Register(ModuleName, 12, "position not found")
	ErrPositionNotEmpty = errors.Register(ModuleName, 13, "position still holds principal or unclaimed reward")
	ErrInvalidLockKind  = errors.Register(ModuleName, 14, "invalid lock kind")
	ErrInvalidDenom     = errors.Register(ModuleName, 15, "invalid denom")
	ErrInvalidLockBonus = errors.Register(ModuleName, 16, "lock bonus out of range")
	ErrInvalidPoolID    = errors.Register(ModuleName, 17, "invalid pool id")
)
