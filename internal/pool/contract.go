// Package pool is a two-asset exchange pool that trades at a fixed stored
// price instead of along a curve.
package pool

import (
	"context"
	"encoding/json"

	"cosmossdk.io/math"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/pair"
	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

var config = store.NewItem[Config]("config")

type InstantiateMsg struct {
	AssetInfos    [2]asset.Info `json:"asset_infos"`
	Swap0To1Price math.Uint     `json:"swap_0_to_1_price"`
}

type UpdatePriceMsg struct {
	NewPrice math.Uint `json:"new_price"`
}

type ExecuteMsg struct {
	Swap            *pair.SwapMsg   `json:"swap,omitempty"`
	Update0To1Price *UpdatePriceMsg `json:"update0_to1_price,omitempty"`
}

type QueryMsg struct {
	Config            *struct{}                    `json:"config,omitempty"`
	Simulation        *pair.SimulationQuery        `json:"simulation,omitempty"`
	ReverseSimulation *pair.ReverseSimulationQuery `json:"reverse_simulation,omitempty"`
	CumulativePrices  *struct{}                    `json:"cumulative_prices,omitempty"`
}

type ConfigResponse = Config

// Contract implements wasm.Contract.
type Contract struct{}

func New() *Contract { return &Contract{} }

func (c *Contract) Instantiate(ctx context.Context, deps wasm.Deps, _ wasm.Env, _ wasm.MessageInfo, raw json.RawMessage) (*wasm.Response, error) {
	var msg InstantiateMsg
	if err := wasm.Decode(raw, &msg); err != nil {
		return nil, err
	}
	for _, info := range msg.AssetInfos {
		if err := info.Check(deps.API.AddrValidate); err != nil {
			return nil, err
		}
	}
	price := msg.Swap0To1Price
	if price.IsNil() {
		price = math.ZeroUint()
	}
	if err := config.Save(ctx, deps.Storage, Config{AssetInfos: msg.AssetInfos, Swap0To1Price: price}); err != nil {
		return nil, err
	}
	return wasm.NewResponse(), nil
}

func (c *Contract) Execute(ctx context.Context, deps wasm.Deps, env wasm.Env, info wasm.MessageInfo, raw json.RawMessage) (*wasm.Response, error) {
	var msg ExecuteMsg
	if err := wasm.DecodeVariant(raw, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.Swap != nil:
		offer := msg.Swap.OfferAsset
		if offer.Amount.IsNil() {
			offer.Amount = math.ZeroUint()
		}
		if err := offer.Info.Check(deps.API.AddrValidate); err != nil {
			return nil, err
		}
		if !offer.IsNativeToken() {
			return nil, ErrCw20DirectSwap
		}
		receiver := info.Sender
		if msg.Swap.To != nil {
			if err := deps.API.AddrValidate(*msg.Swap.To); err != nil {
				return nil, err
			}
			receiver = *msg.Swap.To
		}
		return swap(ctx, deps, env, info.Sender, receiver, offer)
	default:
		return updatePrice(ctx, deps, msg.Update0To1Price.NewPrice)
	}
}

// swap pays out at the stored price. Belief price and max spread are
// accepted on the wire and ignored.
func swap(ctx context.Context, deps wasm.Deps, env wasm.Env, sender, receiver string, offer asset.Asset) (*wasm.Response, error) {
	cfg, err := config.Load(ctx, deps.Storage)
	if err != nil {
		return nil, err
	}

	// Both reserve reads look at asset 0; asset 1 is never checked.
	reserve0, err := pair.QueryPool(ctx, deps.Querier, cfg.AssetInfos[0], env.Contract.Address)
	if err != nil {
		return nil, err
	}
	reserve1, err := pair.QueryPool(ctx, deps.Querier, cfg.AssetInfos[0], env.Contract.Address)
	if err != nil {
		return nil, err
	}
	if reserve0.IsZero() || reserve1.IsZero() {
		return nil, ErrInsufficientLiquidity
	}

	returnAmount, askInfo, err := ReturnAmount(cfg, offer)
	if err != nil {
		return nil, err
	}

	return wasm.NewResponse().
		AddMessage(wasm.NewBankSend(receiver, asset.Coin{Denom: askInfo.String(), Amount: returnAmount})).
		AddAttribute("action", "swap").
		AddAttribute("sender", sender).
		AddAttribute("receiver", receiver).
		AddAttribute("offer_asset", offer.Info.String()).
		AddAttribute("ask_asset", askInfo.String()).
		AddAttribute("offer_amount", offer.Amount.String()).
		AddAttribute("return_amount", returnAmount.String()).
		AddAttribute("tax_amount", "0").
		AddAttribute("spread_amount", "0").
		AddAttribute("commission_amount", "0").
		AddAttribute("maker_fee_amount", "0"), nil
}

// updatePrice has no sender check: anyone may move the price.
func updatePrice(ctx context.Context, deps wasm.Deps, price math.Uint) (*wasm.Response, error) {
	cfg, err := config.Load(ctx, deps.Storage)
	if err != nil {
		return nil, err
	}
	if price.IsNil() {
		price = math.ZeroUint()
	}
	cfg.Swap0To1Price = price
	if err := config.Save(ctx, deps.Storage, cfg); err != nil {
		return nil, err
	}
	return wasm.NewResponse().
		AddAttribute("action", "update_0_to_1_price").
		AddAttribute("new_price", price.String()), nil
}

func (c *Contract) Query(ctx context.Context, deps wasm.Deps, env wasm.Env, raw json.RawMessage) (json.RawMessage, error) {
	var msg QueryMsg
	if err := wasm.DecodeVariant(raw, &msg); err != nil {
		return nil, err
	}
	cfg, err := config.Load(ctx, deps.Storage)
	if err != nil {
		return nil, err
	}

	switch {
	case msg.Config != nil:
		return json.Marshal(ConfigResponse(cfg))
	case msg.Simulation != nil:
		out, _, err := ReturnAmount(cfg, msg.Simulation.OfferAsset)
		if err != nil {
			return nil, err
		}
		return json.Marshal(pair.SimulationResponse{
			ReturnAmount:     out,
			SpreadAmount:     math.ZeroUint(),
			CommissionAmount: math.ZeroUint(),
		})
	case msg.ReverseSimulation != nil:
		out, _, err := OfferAmount(cfg, msg.ReverseSimulation.AskAsset)
		if err != nil {
			return nil, err
		}
		return json.Marshal(pair.ReverseSimulationResponse{
			OfferAmount:      out,
			SpreadAmount:     math.ZeroUint(),
			CommissionAmount: math.ZeroUint(),
		})
	default:
		return cumulativePrices(ctx, deps, env, cfg)
	}
}

func cumulativePrices(ctx context.Context, deps wasm.Deps, env wasm.Env, cfg Config) (json.RawMessage, error) {
	var res pair.CumulativePricesResponse
	for i, info := range cfg.AssetInfos {
		amt, err := pair.QueryPool(ctx, deps.Querier, info, env.Contract.Address)
		if err != nil {
			return nil, err
		}
		res.Assets[i] = asset.Asset{Info: info, Amount: amt}
	}
	res.TotalShare = math.ZeroUint()
	res.Price0CumulativeLast = math.ZeroUint()
	res.Price1CumulativeLast = math.ZeroUint()
	return json.Marshal(res)
}
