package router

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized     = errors.New("Unauthorized")
	ErrPairNotFound     = errors.New("Pair not found")
	ErrInvalidDenom     = errors.New("Invalid denom")
	ErrInvalidParameter = errors.New("Invalid parameter")
	ErrInvalidAmount    = errors.New("Invalid amount")
)

// MissingFundsError means the call did not carry exactly the coin it asked
// to swap.
type MissingFundsError struct {
	Denom string
}

func (e *MissingFundsError) Error() string {
	return fmt.Sprintf("No %s assets are provided to swap.", e.Denom)
}
