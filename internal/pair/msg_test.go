package pair

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
)

type fakeQuerier struct {
	balances map[string]uint64
	smart    map[string]string
}

func (f fakeQuerier) QueryBalance(_ context.Context, addr, denom string) (asset.Coin, error) {
	return asset.NewCoin(denom, f.balances[addr+"/"+denom]), nil
}

func (f fakeQuerier) QuerySmart(_ context.Context, contract string, _ json.RawMessage) (json.RawMessage, error) {
	res, ok := f.smart[contract]
	if !ok {
		return nil, errors.New("no such contract")
	}
	return json.RawMessage(res), nil
}

func TestQueryPool(t *testing.T) {
	ctx := context.Background()
	q := fakeQuerier{
		balances: map[string]uint64{"pool/uusd": 42},
		smart:    map[string]string{"token0": `{"balance":"7"}`},
	}

	got, err := QueryPool(ctx, q, asset.Native("uusd"), "pool")
	require.NoError(t, err)
	assert.Equal(t, "42", got.String())

	got, err = QueryPool(ctx, q, asset.Contract("token0"), "pool")
	require.NoError(t, err)
	assert.Equal(t, "7", got.String())

	// unreachable token contracts read as zero
	got, err = QueryPool(ctx, q, asset.Contract("token9"), "pool")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestSwapMsgEncoding(t *testing.T) {
	spread := math.LegacyNewDecWithPrec(1000, 18)
	to := "addr0000"
	msg := ExecuteMsg{Swap: &SwapMsg{
		OfferAsset: asset.Asset{Info: asset.Native("uusd"), Amount: math.NewUint(10)},
		MaxSpread:  &spread,
		To:         &to,
	}}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"swap":{
		"offer_asset":{"info":{"native_token":{"denom":"uusd"}},"amount":"10"},
		"belief_price":null,
		"max_spread":"0.000000000000001000",
		"to":"addr0000"}}`, string(raw))
}
