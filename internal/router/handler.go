package router

import (
	"context"
	"strings"

	"cosmossdk.io/math"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/pair"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

// assertOwner loads the config and fails unless sender is the owner.
func assertOwner(ctx context.Context, deps wasm.Deps, sender string) (Config, error) {
	cfg, err := configItem.Load(ctx, deps.Storage)
	if err != nil {
		return Config{}, err
	}
	if sender != cfg.Owner {
		return Config{}, ErrUnauthorized
	}
	return cfg, nil
}

// updatePairConfig replaces the whole entry. The pair always comes back
// enabled, and omitted optional fields are cleared.
func updatePairConfig(ctx context.Context, deps wasm.Deps, info wasm.MessageInfo, msg *UpdatePairConfigMsg) (*wasm.Response, error) {
	if _, err := assertOwner(ctx, deps, info.Sender); err != nil {
		return nil, err
	}
	for _, ai := range msg.AssetInfos {
		if err := ai.Check(deps.API.AddrValidate); err != nil {
			return nil, err
		}
	}
	if err := deps.API.AddrValidate(msg.PairAddress); err != nil {
		return nil, err
	}
	if msg.To != nil {
		if err := deps.API.AddrValidate(*msg.To); err != nil {
			return nil, err
		}
	}
	if msg.MaxSpread != nil && msg.MaxSpread.IsNegative() {
		return nil, ErrInvalidParameter
	}

	key, err := pairKey(msg.AssetInfos)
	if err != nil {
		return nil, err
	}
	pc := PairConfig{
		PairAddress: msg.PairAddress,
		IsDisabled:  false,
		MaxSpread:   msg.MaxSpread,
		To:          msg.To,
	}
	if err := pairConfigs.Save(ctx, deps.Storage, key, pc); err != nil {
		return nil, err
	}

	return wasm.NewResponse().
		AddAttribute("action", "update_pair_config").
		AddAttribute("pair_address", msg.PairAddress).
		AddAttribute("max_spread", formatDecimal(msg.MaxSpread)), nil
}

func changeOwner(ctx context.Context, deps wasm.Deps, info wasm.MessageInfo, newOwner string) (*wasm.Response, error) {
	cfg, err := assertOwner(ctx, deps, info.Sender)
	if err != nil {
		return nil, err
	}
	if err := deps.API.AddrValidate(newOwner); err != nil {
		return nil, err
	}
	cfg.Owner = newOwner
	if err := configItem.Save(ctx, deps.Storage, cfg); err != nil {
		return nil, err
	}
	return wasm.NewResponse().
		AddAttribute("action", "change_owner").
		AddAttribute("new_owner", newOwner), nil
}

func updatePairStatus(ctx context.Context, deps wasm.Deps, info wasm.MessageInfo, msg *UpdatePairStatusMsg) (*wasm.Response, error) {
	if _, err := assertOwner(ctx, deps, info.Sender); err != nil {
		return nil, err
	}
	key, err := pairKey(msg.AssetInfos)
	if err != nil {
		return nil, err
	}
	pc, err := loadPairConfig(ctx, deps.Storage, key)
	if err != nil {
		return nil, err
	}
	pc.IsDisabled = msg.IsDisabled
	if err := pairConfigs.Save(ctx, deps.Storage, key, pc); err != nil {
		return nil, err
	}
	return wasm.NewResponse().
		AddAttribute("action", "update_pair_status").
		AddAttribute("pair_address", pc.PairAddress).
		AddBool("is_disabled", pc.IsDisabled), nil
}

func updatePairMaxSpread(ctx context.Context, deps wasm.Deps, info wasm.MessageInfo, msg *UpdatePairMaxSpreadMsg) (*wasm.Response, error) {
	if _, err := assertOwner(ctx, deps, info.Sender); err != nil {
		return nil, err
	}
	// max spread is an unsigned ratio
	if msg.MaxSpread == nil || msg.MaxSpread.IsNegative() {
		return nil, ErrInvalidParameter
	}
	key, err := pairKey(msg.AssetInfos)
	if err != nil {
		return nil, err
	}
	pc, err := loadPairConfig(ctx, deps.Storage, key)
	if err != nil {
		return nil, err
	}
	pc.MaxSpread = msg.MaxSpread
	if err := pairConfigs.Save(ctx, deps.Storage, key, pc); err != nil {
		return nil, err
	}
	return wasm.NewResponse().
		AddAttribute("action", "update_pair_max_spread").
		AddAttribute("pair_address", pc.PairAddress).
		AddAttribute("max_spread", formatDecimal(pc.MaxSpread)), nil
}

func setWhitelist(ctx context.Context, deps wasm.Deps, info wasm.MessageInfo, msg *SetWhitelistMsg) (*wasm.Response, error) {
	if _, err := assertOwner(ctx, deps, info.Sender); err != nil {
		return nil, err
	}
	if err := deps.API.AddrValidate(msg.Caller); err != nil {
		return nil, err
	}
	if err := whitelist.Save(ctx, deps.Storage, []byte(msg.Caller), msg.IsWhitelist); err != nil {
		return nil, err
	}
	return wasm.NewResponse().
		AddAttribute("action", "set_whitelist").
		AddAttribute("caller", msg.Caller).
		AddBool("is_whitelist", msg.IsWhitelist), nil
}

// swapDenom quotes the swap, books the quote in the ledger and hands the
// attached coin to the pool. The pool call runs after this handler inside
// the same transaction, so a failed pool swap also undoes the ledger write.
func swapDenom(ctx context.Context, deps wasm.Deps, _ wasm.Env, info wasm.MessageInfo, msg *SwapDenomMsg) (*wasm.Response, error) {
	sender := info.Sender
	allowed, err := isWhitelisted(ctx, deps.Storage, sender)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	from := msg.FromCoin
	if from.Denom == msg.TargetDenom {
		return nil, ErrInvalidDenom
	}
	if asset.IsZero(from.Amount) {
		return nil, ErrInvalidAmount
	}
	payment, ok := info.Funds.FindExact(from)
	if !ok {
		return nil, &MissingFundsError{Denom: from.Denom}
	}

	var redirect *string
	if msg.ToAddress != nil {
		if err := deps.API.AddrValidate(*msg.ToAddress); err != nil {
			return nil, err
		}
		redirect = msg.ToAddress
	}

	offerInfo := asset.Native(from.Denom)
	key := asset.PairKey(offerInfo, asset.Native(msg.TargetDenom))

	pc, err := loadPairConfig(ctx, deps.Storage, key)
	if err != nil {
		return nil, err
	}
	if pc.IsDisabled {
		return nil, ErrPairNotFound
	}
	ledger, err := loadSwapInfo(ctx, deps.Storage, key)
	if err != nil {
		return nil, err
	}

	offer := asset.Asset{Info: offerInfo, Amount: payment.Amount}
	sim, err := pair.Simulate(ctx, deps.Querier, pc.PairAddress, offer)
	if err != nil {
		return nil, err
	}
	if ledger.TotalAmountIn, err = asset.CheckedAdd(ledger.TotalAmountIn, payment.Amount); err != nil {
		return nil, err
	}
	if ledger.TotalAmountOut, err = asset.CheckedAdd(ledger.TotalAmountOut, sim.ReturnAmount); err != nil {
		return nil, err
	}

	recipient := sender
	switch {
	case pc.To != nil:
		recipient = *pc.To
	case redirect != nil:
		recipient = *redirect
	}
	swapMsg, err := wasm.NewWasmExecute(pc.PairAddress, pair.ExecuteMsg{Swap: &pair.SwapMsg{
		OfferAsset: offer,
		MaxSpread:  pc.MaxSpread,
		To:         &recipient,
	}}, asset.Coins{payment})
	if err != nil {
		return nil, err
	}

	if err := swapInfos.Save(ctx, deps.Storage, key, ledger); err != nil {
		return nil, err
	}

	return wasm.NewResponse().
		AddMessage(swapMsg).
		AddAttribute("action", "swap").
		AddAttribute("from_coin", from.String()).
		AddAttribute("target_denom", msg.TargetDenom), nil
}

// formatDecimal renders a decimal without trailing zeros; nil is "0".
func formatDecimal(d *math.LegacyDec) string {
	if d == nil || d.IsNil() {
		return "0"
	}
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
