package router

import (
	"context"

	"cosmossdk.io/math"

	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
)

type Config struct {
	Owner string `json:"owner"`
}

// PairConfig routes one asset pair to a pool.
type PairConfig struct {
	PairAddress string          `json:"pair_address"`
	IsDisabled  bool            `json:"is_disabled"`
	MaxSpread   *math.LegacyDec `json:"max_spread"`
	To          *string         `json:"to"`
}

// SwapInfo is the running volume for a pair. It only ever grows.
type SwapInfo struct {
	TotalAmountIn  math.Uint `json:"total_amount_in"`
	TotalAmountOut math.Uint `json:"total_amount_out"`
}

var (
	configItem  = store.NewItem[Config]("config")
	pairConfigs = store.NewMap[PairConfig]("pair_configs")
	swapInfos   = store.NewMap[SwapInfo]("swap_infos")
	whitelist   = store.NewMap[bool]("swap_whitelist")
)

func loadPairConfig(ctx context.Context, s store.KVStore, key []byte) (PairConfig, error) {
	cfg, ok, err := pairConfigs.MayLoad(ctx, s, key)
	if err != nil {
		return PairConfig{}, err
	}
	if !ok {
		return PairConfig{}, ErrPairNotFound
	}
	return cfg, nil
}

func loadSwapInfo(ctx context.Context, s store.KVStore, key []byte) (SwapInfo, error) {
	info, _, err := swapInfos.MayLoad(ctx, s, key)
	if err != nil {
		return SwapInfo{}, err
	}
	if info.TotalAmountIn.IsNil() {
		info.TotalAmountIn = math.ZeroUint()
	}
	if info.TotalAmountOut.IsNil() {
		info.TotalAmountOut = math.ZeroUint()
	}
	return info, nil
}

func isWhitelisted(ctx context.Context, s store.KVStore, account string) (bool, error) {
	allowed, _, err := whitelist.MayLoad(ctx, s, []byte(account))
	return allowed, err
}
