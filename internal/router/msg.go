package router

import (
	"cosmossdk.io/math"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
)

// InstantiateMsg sets the owner. A missing owner means the instantiating
// account.
type InstantiateMsg struct {
	Owner *string `json:"owner,omitempty"`
}

type UpdatePairConfigMsg struct {
	AssetInfos  []asset.Info    `json:"asset_infos"`
	PairAddress string          `json:"pair_address"`
	MaxSpread   *math.LegacyDec `json:"max_spread,omitempty"`
	To          *string         `json:"to,omitempty"`
}

type ChangeOwnerMsg struct {
	NewOwner string `json:"new_owner"`
}

type UpdatePairStatusMsg struct {
	AssetInfos []asset.Info `json:"asset_infos"`
	IsDisabled bool         `json:"is_disabled"`
}

type UpdatePairMaxSpreadMsg struct {
	AssetInfos []asset.Info    `json:"asset_infos"`
	MaxSpread  *math.LegacyDec `json:"max_spread"`
}

type SetWhitelistMsg struct {
	Caller      string `json:"caller"`
	IsWhitelist bool   `json:"is_whitelist"`
}

type SwapDenomMsg struct {
	FromCoin    asset.Coin `json:"from_coin"`
	TargetDenom string     `json:"target_denom"`
	ToAddress   *string    `json:"to_address,omitempty"`
}

type ExecuteMsg struct {
	UpdatePairConfig    *UpdatePairConfigMsg    `json:"update_pair_config,omitempty"`
	ChangeOwner         *ChangeOwnerMsg         `json:"change_owner,omitempty"`
	UpdatePairStatus    *UpdatePairStatusMsg    `json:"update_pair_status,omitempty"`
	UpdatePairMaxSpread *UpdatePairMaxSpreadMsg `json:"update_pair_max_spread,omitempty"`
	SetWhitelist        *SetWhitelistMsg        `json:"set_whitelist,omitempty"`
	SwapDenom           *SwapDenomMsg           `json:"swap_denom,omitempty"`
}

type AssetInfosQuery struct {
	AssetInfos []asset.Info `json:"asset_infos"`
}

type IsSwapWhitelistQuery struct {
	Caller string `json:"caller"`
}

type SimulationQuery struct {
	AssetInfos []asset.Info `json:"asset_infos"`
	OfferAsset asset.Asset  `json:"offer_asset"`
}

type ReverseSimulationQuery struct {
	AssetInfos []asset.Info `json:"asset_infos"`
	AskAsset   asset.Asset  `json:"ask_asset"`
}

type QueryMsg struct {
	QueryConfig            *struct{}               `json:"query_config,omitempty"`
	QueryIsSwapWhitelist   *IsSwapWhitelistQuery   `json:"query_is_swap_whitelist,omitempty"`
	QueryPairConfig        *AssetInfosQuery        `json:"query_pair_config,omitempty"`
	QuerySwapInfo          *AssetInfosQuery        `json:"query_swap_info,omitempty"`
	QuerySimulation        *SimulationQuery        `json:"query_simulation,omitempty"`
	QueryReverseSimulation *ReverseSimulationQuery `json:"query_reverse_simulation,omitempty"`
	QueryCumulativePrices  *AssetInfosQuery        `json:"query_cumulative_prices,omitempty"`
}

type ConfigResponse struct {
	Owner string `json:"owner"`
}

type SwapInfoResponse struct {
	TotalAmountIn  math.Uint `json:"total_amount_in"`
	TotalAmountOut math.Uint `json:"total_amount_out"`
}

type PairConfigResponse struct {
	PairAddress string          `json:"pair_address"`
	IsDisabled  bool            `json:"is_disabled"`
	MaxSpread   *math.LegacyDec `json:"max_spread"`
	To          *string         `json:"to"`
}
