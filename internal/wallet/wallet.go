// Package wallet holds the ed25519 keys accounts sign gateway requests with.
// An account address is the base58 encoding of its public key.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
)

var (
	ErrInvalidAddress   = errors.New("wallet: address is not a base58 ed25519 public key")
	ErrInvalidSignature = errors.New("wallet: invalid signature")
)

type Wallet struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewWallet parses a base58-encoded 64-byte key or a JSON byte array as
// written by solana-keygen.
func NewWallet(privateKey string) (*Wallet, error) {
	if strings.TrimSpace(privateKey) == "" {
		return nil, fmt.Errorf("wallet: PrivateKey is required")
	}
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return fromPrivateKey(priv), nil
}

func NewWalletFromEnv() (*Wallet, error) {
	return NewWallet(os.Getenv("WALLET_PRIVATE_KEY"))
}

// Generate creates a fresh random keypair.
func Generate() (*Wallet, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("wallet: generate key: %w", err)
	}
	return fromPrivateKey(priv), nil
}

func fromPrivateKey(priv ed25519.PrivateKey) *Wallet {
	return &Wallet{priv: priv, pub: priv.Public().(ed25519.PublicKey)}
}

func (w *Wallet) Address() string    { return base58.Encode(w.pub) }
func (w *Wallet) PrivateKey() string { return base58.Encode(w.priv) }

// Sign returns the base58 signature of payload.
func (w *Wallet) Sign(payload []byte) string {
	return base58.Encode(ed25519.Sign(w.priv, payload))
}

// Verify checks a base58 signature of payload against the account address.
func Verify(address string, payload []byte, signature string) error {
	pub, err := base58.Decode(address)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return ErrInvalidAddress
	}
	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), payload, sig) {
		return ErrInvalidSignature
	}
	return nil
}

func parsePrivateKey(s string) (ed25519.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var ints []int
		if err := json.Unmarshal([]byte(s), &ints); err != nil {
			return nil, fmt.Errorf("wallet: invalid JSON private key: %w", err)
		}
		b := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("wallet: invalid byte at %d: %d", i, v)
			}
			b[i] = byte(v)
		}
		if len(b) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("wallet: expected %d bytes, got %d", ed25519.PrivateKeySize, len(b))
		}
		return ed25519.PrivateKey(b), nil
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("wallet: invalid base58 private key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("wallet: expected %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}
