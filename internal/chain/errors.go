package chain

import (
	"errors"
	"fmt"
)

var (
	ErrContractNotFound  = errors.New("contract not found")
	ErrCodeNotFound      = errors.New("code not found")
	ErrDuplicateCode     = errors.New("code already stored")
	ErrDuplicateLabel    = errors.New("label already in use")
	ErrEmptyLabel        = errors.New("label is required")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEmptyCoin         = errors.New("Cannot transfer empty coins amount")
	ErrMaxDepth          = errors.New("max call depth exceeded")
	ErrEmptyMsg          = errors.New("outbound message has no variant set")
	ErrInvalidNonce      = errors.New("invalid nonce")
)

// TxError is returned when a transaction is rolled back. Err is the cause,
// usually the error a contract handler returned.
type TxError struct {
	TxID     string
	Contract string
	Err      error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("tx %s rolled back: %v", e.TxID, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// Cause returns the innermost error message, which is what callers see as
// the failure description.
func Cause(err error) error {
	var te *TxError
	if errors.As(err, &te) {
		return te.Err
	}
	return err
}
