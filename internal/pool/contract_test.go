package pool

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/chain"
	"github.com/KryptoniteDAO/swap-extention-old/internal/pair"
	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
)

func setupPool(t *testing.T, price string) (*chain.App, string) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app, err := chain.New(store.NewMemory(), chain.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, app.StoreCode("pool", New()))

	msg := json.RawMessage(`{"asset_infos":[{"native_token":{"denom":"uusd"}},{"native_token":{"denom":"ukrw"}}],"swap_0_to_1_price":"` + price + `"}`)
	res, err := app.Instantiate(context.Background(), chain.InstantiateRequest{
		Code:   "pool",
		Sender: "admin",
		Label:  "uusd-ukrw",
		Msg:    msg,
	})
	require.NoError(t, err)
	return app, res.Contract
}

func mint(t *testing.T, app *chain.App, addr string, coins ...asset.Coin) {
	_, err := app.Mint(context.Background(), addr, coins)
	require.NoError(t, err)
}

func balance(t *testing.T, app *chain.App, addr, denom string) string {
	c, err := app.Balance(context.Background(), addr, denom)
	require.NoError(t, err)
	return c.Amount.String()
}

func swapMsg(denom, amount, to string) json.RawMessage {
	toField := "null"
	if to != "" {
		toField = `"` + to + `"`
	}
	return json.RawMessage(`{"swap":{"offer_asset":{"info":{"native_token":{"denom":"` + denom + `"}},"amount":"` + amount + `"},"belief_price":null,"max_spread":null,"to":` + toField + `}}`)
}

func attr(t *testing.T, res *chain.TxResult, key string) string {
	for _, ev := range res.Events {
		if v, ok := ev.Get(key); ok {
			return v
		}
	}
	t.Fatalf("attribute %q not found", key)
	return ""
}

func TestSwap_Asset0ForAsset1(t *testing.T) {
	app, pool := setupPool(t, "1000000")
	mint(t, app, pool, asset.NewCoin("uusd", 1000), asset.NewCoin("ukrw", 1000))
	mint(t, app, "trader", asset.NewCoin("uusd", 500))

	res, err := app.Execute(context.Background(), "trader", pool, swapMsg("uusd", "500", ""), asset.Coins{asset.NewCoin("uusd", 500)})
	require.NoError(t, err)

	assert.Equal(t, "500", attr(t, res, "return_amount"))
	assert.Equal(t, "ukrw", attr(t, res, "ask_asset"))
	assert.Equal(t, "trader", attr(t, res, "receiver"))
	assert.Equal(t, "0", attr(t, res, "commission_amount"))
	assert.Equal(t, "500", balance(t, app, "trader", "ukrw"))
	assert.Equal(t, "0", balance(t, app, "trader", "uusd"))
	assert.Equal(t, "1500", balance(t, app, pool, "uusd"))
	assert.Equal(t, "500", balance(t, app, pool, "ukrw"))
}

func TestSwap_PaysRedirectRecipient(t *testing.T) {
	app, pool := setupPool(t, "2000000")
	mint(t, app, pool, asset.NewCoin("uusd", 1_000_000))
	mint(t, app, "trader", asset.NewCoin("ukrw", 1_000_000))

	res, err := app.Execute(context.Background(), "trader", pool, swapMsg("ukrw", "1000000", "receiver"), asset.Coins{asset.NewCoin("ukrw", 1_000_000)})
	require.NoError(t, err)
	assert.Equal(t, "500000", attr(t, res, "return_amount"))
	assert.Equal(t, "500000", balance(t, app, "receiver", "uusd"))
	assert.Equal(t, "0", balance(t, app, "trader", "uusd"))
}

func TestSwap_InsufficientLiquidity(t *testing.T) {
	app, pool := setupPool(t, "1000000")
	mint(t, app, pool, asset.NewCoin("ukrw", 1000))
	mint(t, app, "trader", asset.NewCoin("ukrw", 10))

	_, err := app.Execute(context.Background(), "trader", pool, swapMsg("ukrw", "10", ""), asset.Coins{asset.NewCoin("ukrw", 10)})
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
	assert.Equal(t, "10", balance(t, app, "trader", "ukrw"))
}

func TestSwap_OnlyAsset0ReserveIsChecked(t *testing.T) {
	app, pool := setupPool(t, "1000000")
	mint(t, app, pool, asset.NewCoin("uusd", 1000))
	mint(t, app, "trader", asset.NewCoin("uusd", 10))

	// the liquidity check passes with no ukrw in the pool; the payout then
	// fails in the bank and the whole call rolls back
	_, err := app.Execute(context.Background(), "trader", pool, swapMsg("uusd", "10", ""), asset.Coins{asset.NewCoin("uusd", 10)})
	assert.ErrorIs(t, err, chain.ErrInsufficientFunds)
	assert.Equal(t, "10", balance(t, app, "trader", "uusd"))
}

func TestSwap_RejectsTokenOffer(t *testing.T) {
	app, pool := setupPool(t, "1000000")
	mint(t, app, pool, asset.NewCoin("uusd", 1000))

	msg := json.RawMessage(`{"swap":{"offer_asset":{"info":{"token":{"contract_addr":"token0"}},"amount":"10"},"belief_price":null,"max_spread":null,"to":null}}`)
	_, err := app.Execute(context.Background(), "trader", pool, msg, nil)
	assert.ErrorIs(t, err, ErrCw20DirectSwap)
}

func TestSwap_InvalidRecipient(t *testing.T) {
	app, pool := setupPool(t, "1000000")
	mint(t, app, pool, asset.NewCoin("uusd", 1000), asset.NewCoin("ukrw", 1000))
	mint(t, app, "trader", asset.NewCoin("uusd", 10))

	_, err := app.Execute(context.Background(), "trader", pool, swapMsg("uusd", "10", "BAD"), asset.Coins{asset.NewCoin("uusd", 10)})
	assert.Error(t, err)
}

func TestSimulationMatchesSwap(t *testing.T) {
	ctx := context.Background()
	app, pool := setupPool(t, "1234567")
	mint(t, app, pool, asset.NewCoin("uusd", 1_000_000_000), asset.NewCoin("ukrw", 1_000_000_000))
	mint(t, app, "trader", asset.NewCoin("ukrw", 777_777))

	q := json.RawMessage(`{"simulation":{"offer_asset":{"info":{"native_token":{"denom":"ukrw"}},"amount":"777777"}}}`)
	raw, err := app.Query(ctx, pool, q)
	require.NoError(t, err)
	var sim pair.SimulationResponse
	require.NoError(t, json.Unmarshal(raw, &sim))
	assert.True(t, sim.SpreadAmount.IsZero())
	assert.True(t, sim.CommissionAmount.IsZero())

	res, err := app.Execute(ctx, "trader", pool, swapMsg("ukrw", "777777", ""), asset.Coins{asset.NewCoin("ukrw", 777_777)})
	require.NoError(t, err)
	assert.Equal(t, sim.ReturnAmount.String(), attr(t, res, "return_amount"))
	assert.Equal(t, sim.ReturnAmount.String(), balance(t, app, "trader", "uusd"))
}

func TestUpdatePrice_AnyoneMayCall(t *testing.T) {
	ctx := context.Background()
	app, pool := setupPool(t, "1000000")

	res, err := app.Execute(ctx, "stranger", pool, json.RawMessage(`{"update0_to1_price":{"new_price":"2000000"}}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "update_0_to_1_price", attr(t, res, "action"))
	assert.Equal(t, "2000000", attr(t, res, "new_price"))

	raw, err := app.Query(ctx, pool, json.RawMessage(`{"config":{}}`))
	require.NoError(t, err)
	var cfg ConfigResponse
	require.NoError(t, json.Unmarshal(raw, &cfg))
	assert.Equal(t, "2000000", cfg.Swap0To1Price.String())
	assert.True(t, cfg.AssetInfos[0].Equal(asset.Native("uusd")))
}

func TestQuery_ReverseSimulationAndCumulativePrices(t *testing.T) {
	ctx := context.Background()
	app, pool := setupPool(t, "2000000")
	mint(t, app, pool, asset.NewCoin("uusd", 100), asset.NewCoin("ukrw", 300))

	raw, err := app.Query(ctx, pool, json.RawMessage(`{"reverse_simulation":{"ask_asset":{"info":{"native_token":{"denom":"ukrw"}},"amount":"1000000"}}}`))
	require.NoError(t, err)
	var rev pair.ReverseSimulationResponse
	require.NoError(t, json.Unmarshal(raw, &rev))
	assert.Equal(t, "500000", rev.OfferAmount.String())

	raw, err = app.Query(ctx, pool, json.RawMessage(`{"cumulative_prices":{}}`))
	require.NoError(t, err)
	var cum pair.CumulativePricesResponse
	require.NoError(t, json.Unmarshal(raw, &cum))
	assert.Equal(t, "100", cum.Assets[0].Amount.String())
	assert.Equal(t, "300", cum.Assets[1].Amount.String())
	assert.True(t, cum.TotalShare.IsZero())
}

func TestInstantiate_RejectsMalformedAsset(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app, err := chain.New(store.NewMemory(), chain.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, app.StoreCode("pool", New()))

	msg := json.RawMessage(`{"asset_infos":[{"native_token":{"denom":"uusd"}},{"token":{"contract_addr":"BAD ADDR"}}],"swap_0_to_1_price":"1"}`)
	_, err = app.Instantiate(context.Background(), chain.InstantiateRequest{Code: "pool", Sender: "admin", Label: "p", Msg: msg})
	assert.Error(t, err)
}
