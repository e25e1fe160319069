// Package router is the swap router contract. It keeps the owner, the pair
// registry, the per-pair swap ledger and the swap whitelist, and turns a
// whitelisted caller's native coin into a swap on the pool registered for
// the pair.
package router

import (
	"context"
	"encoding/json"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

// Contract implements wasm.Contract.
type Contract struct{}

func New() *Contract { return &Contract{} }

func (c *Contract) Instantiate(ctx context.Context, deps wasm.Deps, _ wasm.Env, info wasm.MessageInfo, raw json.RawMessage) (*wasm.Response, error) {
	var msg InstantiateMsg
	if err := wasm.Decode(raw, &msg); err != nil {
		return nil, err
	}
	owner := info.Sender
	if msg.Owner != nil {
		owner = *msg.Owner
	}
	if err := deps.API.AddrValidate(owner); err != nil {
		return nil, err
	}
	if err := configItem.Save(ctx, deps.Storage, Config{Owner: owner}); err != nil {
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
	case msg.UpdatePairConfig != nil:
		if len(msg.UpdatePairConfig.AssetInfos) != 2 {
			return nil, ErrInvalidParameter
		}
		return updatePairConfig(ctx, deps, info, msg.UpdatePairConfig)
	case msg.ChangeOwner != nil:
		return changeOwner(ctx, deps, info, msg.ChangeOwner.NewOwner)
	case msg.UpdatePairStatus != nil:
		if len(msg.UpdatePairStatus.AssetInfos) != 2 {
			return nil, ErrInvalidParameter
		}
		return updatePairStatus(ctx, deps, info, msg.UpdatePairStatus)
	case msg.UpdatePairMaxSpread != nil:
		if len(msg.UpdatePairMaxSpread.AssetInfos) != 2 {
			return nil, ErrInvalidParameter
		}
		return updatePairMaxSpread(ctx, deps, info, msg.UpdatePairMaxSpread)
	case msg.SetWhitelist != nil:
		return setWhitelist(ctx, deps, info, msg.SetWhitelist)
	default:
		return swapDenom(ctx, deps, env, info, msg.SwapDenom)
	}
}

func (c *Contract) Query(ctx context.Context, deps wasm.Deps, _ wasm.Env, raw json.RawMessage) (json.RawMessage, error) {
	var msg QueryMsg
	if err := wasm.DecodeVariant(raw, &msg); err != nil {
		return nil, err
	}

	var (
		res any
		err error
	)
	switch {
	case msg.QueryConfig != nil:
		res, err = queryConfig(ctx, deps)
	case msg.QueryIsSwapWhitelist != nil:
		res, err = isWhitelisted(ctx, deps.Storage, msg.QueryIsSwapWhitelist.Caller)
	case msg.QueryPairConfig != nil:
		res, err = queryPairConfig(ctx, deps, msg.QueryPairConfig.AssetInfos)
	case msg.QuerySwapInfo != nil:
		res, err = querySwapInfo(ctx, deps, msg.QuerySwapInfo.AssetInfos)
	case msg.QuerySimulation != nil:
		res, err = querySimulation(ctx, deps, msg.QuerySimulation)
	case msg.QueryReverseSimulation != nil:
		res, err = queryReverseSimulation(ctx, deps, msg.QueryReverseSimulation)
	default:
		res, err = queryCumulativePrices(ctx, deps, msg.QueryCumulativePrices.AssetInfos)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

// pairKey derives the registry key for a two-asset list.
func pairKey(infos []asset.Info) ([]byte, error) {
	if len(infos) != 2 {
		return nil, ErrInvalidParameter
	}
	return asset.PairKey(infos[0], infos[1]), nil
}
