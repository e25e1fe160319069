package asset

import (
	"errors"
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

// Amounts are Uint128 on the wire; math.Uint is 256 bits wide, so every
// arithmetic result is checked against 128 bits here.
const uint128Bits = 128

var (
	ErrOverflow     = errors.New("Cannot perform operation: overflow")
	ErrDivideByZero = errors.New("Cannot devide by zero")
)

func fitUint128(i *big.Int) (math.Uint, error) {
	if i.Sign() < 0 || i.BitLen() > uint128Bits {
		return math.ZeroUint(), ErrOverflow
	}
	return math.NewUintFromBigInt(i), nil
}

func bigOf(u math.Uint) *big.Int {
	if u.IsNil() {
		return new(big.Int)
	}
	return u.BigInt()
}

// CheckedAdd returns a+b or ErrOverflow.
func CheckedAdd(a, b math.Uint) (math.Uint, error) {
	return fitUint128(new(big.Int).Add(bigOf(a), bigOf(b)))
}

// CheckedMul returns a*b or ErrOverflow.
func CheckedMul(a, b math.Uint) (math.Uint, error) {
	return fitUint128(new(big.Int).Mul(bigOf(a), bigOf(b)))
}

// CheckedQuo returns floor(a/b) or ErrDivideByZero.
func CheckedQuo(a, b math.Uint) (math.Uint, error) {
	den := bigOf(b)
	if den.Sign() == 0 {
		return math.ZeroUint(), ErrDivideByZero
	}
	return fitUint128(new(big.Int).Quo(bigOf(a), den))
}

// ParseAmount parses a base-10 Uint128.
func ParseAmount(s string) (math.Uint, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return math.ZeroUint(), fmt.Errorf("invalid amount %q", s)
	}
	u, err := fitUint128(i)
	if err != nil {
		return math.ZeroUint(), fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return u, nil
}

// IsZero treats an uninitialised amount as zero.
func IsZero(u math.Uint) bool {
	return u.IsNil() || u.IsZero()
}
