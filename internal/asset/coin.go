package asset

import (
	"fmt"
	"regexp"
	"strings"

	"cosmossdk.io/math"
)

var coinRe = regexp.MustCompile(`^([0-9]+)([a-zA-Z][a-zA-Z0-9/:._-]{2,127})$`)

// Coin is an amount of a chain-native denom.
type Coin struct {
	Denom  string    `json:"denom"`
	Amount math.Uint `json:"amount"`
}

func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: math.NewUint(amount)}
}

// String renders "<amount><denom>", e.g. "100uusd".
func (c Coin) String() string {
	amt := "0"
	if !c.Amount.IsNil() {
		amt = c.Amount.String()
	}
	return amt + c.Denom
}

// ParseCoin parses "<amount><denom>".
func ParseCoin(s string) (Coin, error) {
	m := coinRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Coin{}, fmt.Errorf("invalid coin expression %q", s)
	}
	amt, err := ParseAmount(m[1])
	if err != nil {
		return Coin{}, err
	}
	return Coin{Denom: m[2], Amount: amt}, nil
}

type Coins []Coin

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// FindExact returns the coin matching both denom and amount.
func (cs Coins) FindExact(want Coin) (Coin, bool) {
	for _, c := range cs {
		if c.Denom == want.Denom && !c.Amount.IsNil() && !want.Amount.IsNil() && c.Amount.Equal(want.Amount) {
			return c, true
		}
	}
	return Coin{}, false
}

// ParseCoins parses a comma separated list; empty input yields no coins.
func ParseCoins(s string) (Coins, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out Coins
	for _, part := range strings.Split(s, ",") {
		c, err := ParseCoin(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Asset is an amount of any asset kind.
type Asset struct {
	Info   Info      `json:"info"`
	Amount math.Uint `json:"amount"`
}

func (a Asset) IsNativeToken() bool {
	return a.Info.IsNative()
}

func (a Asset) String() string {
	amt := "0"
	if !a.Amount.IsNil() {
		amt = a.Amount.String()
	}
	return amt + a.Info.String()
}
