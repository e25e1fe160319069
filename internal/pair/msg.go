// Package pair is the message protocol spoken between the router and the
// pools it forwards swaps to.
package pair

import (
	"context"
	"encoding/json"

	"cosmossdk.io/math"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

// SwapMsg asks a pool to swap offer_asset, which must be attached as funds.
type SwapMsg struct {
	OfferAsset  asset.Asset     `json:"offer_asset"`
	BeliefPrice *math.LegacyDec `json:"belief_price"`
	MaxSpread   *math.LegacyDec `json:"max_spread"`
	To          *string         `json:"to"`
}

type ExecuteMsg struct {
	Swap *SwapMsg `json:"swap,omitempty"`
}

type SimulationQuery struct {
	OfferAsset asset.Asset `json:"offer_asset"`
}

type ReverseSimulationQuery struct {
	AskAsset asset.Asset `json:"ask_asset"`
}

type QueryMsg struct {
	Simulation        *SimulationQuery        `json:"simulation,omitempty"`
	ReverseSimulation *ReverseSimulationQuery `json:"reverse_simulation,omitempty"`
	CumulativePrices  *struct{}               `json:"cumulative_prices,omitempty"`
}

type SimulationResponse struct {
	ReturnAmount     math.Uint `json:"return_amount"`
	SpreadAmount     math.Uint `json:"spread_amount"`
	CommissionAmount math.Uint `json:"commission_amount"`
}

type ReverseSimulationResponse struct {
	OfferAmount      math.Uint `json:"offer_amount"`
	SpreadAmount     math.Uint `json:"spread_amount"`
	CommissionAmount math.Uint `json:"commission_amount"`
}

type CumulativePricesResponse struct {
	Assets               [2]asset.Asset `json:"assets"`
	TotalShare           math.Uint      `json:"total_share"`
	Price0CumulativeLast math.Uint      `json:"price0_cumulative_last"`
	Price1CumulativeLast math.Uint      `json:"price1_cumulative_last"`
}

// cw20 balance query, the only token-contract call a pool makes.
type tokenBalanceQuery struct {
	Balance struct {
		Address string `json:"address"`
	} `json:"balance"`
}

type tokenBalanceResponse struct {
	Balance math.Uint `json:"balance"`
}

func Simulate(ctx context.Context, q wasm.Querier, pool string, offer asset.Asset) (SimulationResponse, error) {
	return wasm.QuerySmartJSON[SimulationResponse](ctx, q, pool, QueryMsg{Simulation: &SimulationQuery{OfferAsset: offer}})
}

func ReverseSimulate(ctx context.Context, q wasm.Querier, pool string, ask asset.Asset) (ReverseSimulationResponse, error) {
	return wasm.QuerySmartJSON[ReverseSimulationResponse](ctx, q, pool, QueryMsg{ReverseSimulation: &ReverseSimulationQuery{AskAsset: ask}})
}

func CumulativePrices(ctx context.Context, q wasm.Querier, pool string) (CumulativePricesResponse, error) {
	return wasm.QuerySmartJSON[CumulativePricesResponse](ctx, q, pool, QueryMsg{CumulativePrices: &struct{}{}})
}

// QueryPool returns account's holding of info. Token contracts that fail
// to answer count as a zero balance.
func QueryPool(ctx context.Context, q wasm.Querier, info asset.Info, account string) (math.Uint, error) {
	if info.IsNative() {
		c, err := q.QueryBalance(ctx, account, info.NativeToken.Denom)
		if err != nil {
			return math.ZeroUint(), err
		}
		return c.Amount, nil
	}

	var req tokenBalanceQuery
	req.Balance.Address = account
	raw, err := json.Marshal(req)
	if err != nil {
		return math.ZeroUint(), err
	}
	res, err := q.QuerySmart(ctx, info.Token.ContractAddr, raw)
	if err != nil {
		return math.ZeroUint(), nil
	}
	var out tokenBalanceResponse
	if err := json.Unmarshal(res, &out); err != nil || out.Balance.IsNil() {
		return math.ZeroUint(), nil
	}
	return out.Balance, nil
}
