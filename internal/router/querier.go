package router

import (
	"context"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/pair"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

func queryConfig(ctx context.Context, deps wasm.Deps) (ConfigResponse, error) {
	cfg, err := configItem.Load(ctx, deps.Storage)
	if err != nil {
		return ConfigResponse{}, err
	}
	return ConfigResponse{Owner: cfg.Owner}, nil
}

func queryPairConfig(ctx context.Context, deps wasm.Deps, infos []asset.Info) (PairConfigResponse, error) {
	key, err := pairKey(infos)
	if err != nil {
		return PairConfigResponse{}, err
	}
	pc, err := loadPairConfig(ctx, deps.Storage, key)
	if err != nil {
		return PairConfigResponse{}, err
	}
	return PairConfigResponse(pc), nil
}

// querySwapInfo reads zero totals for pairs that never swapped.
func querySwapInfo(ctx context.Context, deps wasm.Deps, infos []asset.Info) (SwapInfoResponse, error) {
	key, err := pairKey(infos)
	if err != nil {
		return SwapInfoResponse{}, err
	}
	info, err := loadSwapInfo(ctx, deps.Storage, key)
	if err != nil {
		return SwapInfoResponse{}, err
	}
	return SwapInfoResponse(info), nil
}

// poolFor resolves the pool registered for a pair. Disabled pairs still
// resolve so quotes stay available.
func poolFor(ctx context.Context, deps wasm.Deps, infos []asset.Info) (string, error) {
	key, err := pairKey(infos)
	if err != nil {
		return "", err
	}
	pc, err := loadPairConfig(ctx, deps.Storage, key)
	if err != nil {
		return "", err
	}
	return pc.PairAddress, nil
}

func querySimulation(ctx context.Context, deps wasm.Deps, q *SimulationQuery) (pair.SimulationResponse, error) {
	addr, err := poolFor(ctx, deps, q.AssetInfos)
	if err != nil {
		return pair.SimulationResponse{}, err
	}
	return pair.Simulate(ctx, deps.Querier, addr, q.OfferAsset)
}

func queryReverseSimulation(ctx context.Context, deps wasm.Deps, q *ReverseSimulationQuery) (pair.ReverseSimulationResponse, error) {
	addr, err := poolFor(ctx, deps, q.AssetInfos)
	if err != nil {
		return pair.ReverseSimulationResponse{}, err
	}
	return pair.ReverseSimulate(ctx, deps.Querier, addr, q.AskAsset)
}

func queryCumulativePrices(ctx context.Context, deps wasm.Deps, infos []asset.Info) (pair.CumulativePricesResponse, error) {
	addr, err := poolFor(ctx, deps, infos)
	if err != nil {
		return pair.CumulativePricesResponse{}, err
	}
	return pair.CumulativePrices(ctx, deps.Querier, addr)
}
