package asset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidInfo = errors.New("asset info must set exactly one of native_token or token")

// Info identifies an asset. Exactly one variant is set: a chain-native
// denom or a token managed by another contract.
type Info struct {
	NativeToken *NativeToken `json:"native_token,omitempty"`
	Token       *Token       `json:"token,omitempty"`
}

type NativeToken struct {
	Denom string `json:"denom"`
}

type Token struct {
	ContractAddr string `json:"contract_addr"`
}

// Native returns the Info for a chain-native denom.
func Native(denom string) Info {
	return Info{NativeToken: &NativeToken{Denom: denom}}
}

// Contract returns the Info for a token contract.
func Contract(addr string) Info {
	return Info{Token: &Token{ContractAddr: addr}}
}

// ParseInfo reads the command-line form: "cw20:<addr>" for a token
// contract, anything else as a native denom.
func ParseInfo(s string) Info {
	s = strings.TrimSpace(s)
	if addr, ok := strings.CutPrefix(s, "cw20:"); ok {
		return Contract(addr)
	}
	return Native(s)
}

func (i Info) IsNative() bool {
	return i.NativeToken != nil && i.Token == nil
}

// Equal compares the whole variant, so a denom never equals a contract
// address with the same text.
func (i Info) Equal(other Info) bool {
	switch {
	case i.NativeToken != nil && other.NativeToken != nil:
		return i.Token == nil && other.Token == nil && i.NativeToken.Denom == other.NativeToken.Denom
	case i.Token != nil && other.Token != nil:
		return i.NativeToken == nil && other.NativeToken == nil && i.Token.ContractAddr == other.Token.ContractAddr
	default:
		return false
	}
}

// String returns the denom or the contract address.
func (i Info) String() string {
	switch {
	case i.NativeToken != nil:
		return i.NativeToken.Denom
	case i.Token != nil:
		return i.Token.ContractAddr
	default:
		return ""
	}
}

// Check verifies the variant is well-formed. Contract addresses go through
// validateAddr.
func (i Info) Check(validateAddr func(string) error) error {
	if (i.NativeToken == nil) == (i.Token == nil) {
		return ErrInvalidInfo
	}
	if i.NativeToken != nil {
		if i.NativeToken.Denom == "" {
			return fmt.Errorf("invalid native token: empty denom")
		}
		return nil
	}
	if validateAddr == nil {
		return nil
	}
	if err := validateAddr(i.Token.ContractAddr); err != nil {
		return fmt.Errorf("invalid token contract %q: %w", i.Token.ContractAddr, err)
	}
	return nil
}

const (
	tagNative   byte = 0x01
	tagContract byte = 0x02
)

// encode is tag || uvarint length || payload.
func (i Info) encode() []byte {
	tag, payload := tagNative, ""
	if i.Token != nil {
		tag, payload = tagContract, i.Token.ContractAddr
	} else if i.NativeToken != nil {
		payload = i.NativeToken.Denom
	}
	out := make([]byte, 0, 1+binary.MaxVarintLen64+len(payload))
	out = append(out, tag)
	out = binary.AppendUvarint(out, uint64(len(payload)))
	return append(out, payload...)
}

// PairKey derives the registry key for a pair of assets. The two encodings
// are sorted first, so PairKey(a, b) == PairKey(b, a).
func PairKey(a, b Info) []byte {
	parts := [][]byte{a.encode(), b.encode()}
	sort.Slice(parts, func(x, y int) bool { return bytes.Compare(parts[x], parts[y]) < 0 })
	return append(parts[0], parts[1]...)
}
