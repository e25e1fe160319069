package wasm

import (
	"crypto/ed25519"
	"errors"
	"strings"
	"unicode"

	"github.com/mr-tron/base58"
)

var (
	ErrAddrTooShort      = errors.New("Invalid input: human address too short")
	ErrAddrTooLong       = errors.New("Invalid input: human address too long")
	ErrAddrNotNormalized = errors.New("Invalid input: address not normalized")
)

const (
	minAddrLen = 3
	maxAddrLen = 90
)

// API validates account addresses.
type API interface {
	AddrValidate(addr string) error
}

// DefaultAPI accepts lowercase addresses of 3 to 90 printable characters
// and base58 ed25519 public keys, which is what signing accounts use.
type DefaultAPI struct{}

func (DefaultAPI) AddrValidate(addr string) error {
	if len(addr) < minAddrLen {
		return ErrAddrTooShort
	}
	if len(addr) > maxAddrLen {
		return ErrAddrTooLong
	}
	if IsAccountKey(addr) {
		return nil
	}
	if strings.ToLower(addr) != addr {
		return ErrAddrNotNormalized
	}
	for _, r := range addr {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return ErrAddrNotNormalized
		}
	}
	return nil
}

// IsAccountKey reports whether addr is the canonical base58 form of an
// ed25519 public key.
func IsAccountKey(addr string) bool {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return false
	}
	return base58.Encode(raw) == addr
}
