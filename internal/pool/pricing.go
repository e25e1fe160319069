package pool

import (
	"cosmossdk.io/math"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
)

var (
	// priceScale: the stored price is asset1 per 1e6 asset0.
	priceScale = math.NewUint(1_000_000)
	// inverse price is computed as inverseNumerator/price and then scaled
	// back down by inverseScale.
	inverseNumerator = math.NewUintFromString("1000000000000000000000")
	inverseScale     = math.NewUintFromString("1000000000000000")
)

// Config is the pool's stored state.
type Config struct {
	AssetInfos    [2]asset.Info `json:"asset_infos"`
	Swap0To1Price math.Uint     `json:"swap_0_to_1_price"`
}

// side returns 0 or 1 for the pool slot info occupies. An asset outside the
// pool is refused with ErrAssetMismatch instead of being priced as asset1,
// a deliberate departure from the pair contract this pool stands in for.
func (c Config) side(info asset.Info) (int, error) {
	switch {
	case info.Equal(c.AssetInfos[0]):
		return 0, nil
	case info.Equal(c.AssetInfos[1]):
		return 1, nil
	default:
		return 0, ErrAssetMismatch
	}
}

// ReturnAmount prices offer against the pool and returns the amount paid
// out together with the asset it is paid in. Both Simulation and Swap go
// through here.
func ReturnAmount(cfg Config, offer asset.Asset) (math.Uint, asset.Info, error) {
	side, err := cfg.side(offer.Info)
	if err != nil {
		return math.ZeroUint(), asset.Info{}, err
	}

	if side == 0 {
		// floor(price * amount / 1e6)
		out, err := asset.CheckedMul(cfg.Swap0To1Price, offer.Amount)
		if err != nil {
			return math.ZeroUint(), asset.Info{}, err
		}
		out, err = asset.CheckedQuo(out, priceScale)
		return out, cfg.AssetInfos[1], err
	}

	// floor(floor(1e21 / price) * amount / 1e15). The two truncations are
	// part of the result and must not be merged.
	inv, err := asset.CheckedQuo(inverseNumerator, cfg.Swap0To1Price)
	if err != nil {
		return math.ZeroUint(), asset.Info{}, err
	}
	out, err := asset.CheckedMul(inv, offer.Amount)
	if err != nil {
		return math.ZeroUint(), asset.Info{}, err
	}
	out, err = asset.CheckedQuo(out, inverseScale)
	return out, cfg.AssetInfos[0], err
}

// OfferAmount is the reverse of ReturnAmount: how much must be offered to
// receive ask. It divides by the same scaled price the forward direction
// multiplies by, truncating the same way.
func OfferAmount(cfg Config, ask asset.Asset) (math.Uint, asset.Info, error) {
	side, err := cfg.side(ask.Info)
	if err != nil {
		return math.ZeroUint(), asset.Info{}, err
	}

	if side == 1 {
		// asking for asset1: amount * 1e6 / price, offered in asset0
		out, err := asset.CheckedMul(ask.Amount, priceScale)
		if err != nil {
			return math.ZeroUint(), asset.Info{}, err
		}
		out, err = asset.CheckedQuo(out, cfg.Swap0To1Price)
		return out, cfg.AssetInfos[0], err
	}

	// asking for asset0: amount * 1e15 / floor(1e21 / price), offered in asset1
	inv, err := asset.CheckedQuo(inverseNumerator, cfg.Swap0To1Price)
	if err != nil {
		return math.ZeroUint(), asset.Info{}, err
	}
	out, err := asset.CheckedMul(ask.Amount, inverseScale)
	if err != nil {
		return math.ZeroUint(), asset.Info{}, err
	}
	out, err = asset.CheckedQuo(out, inv)
	return out, cfg.AssetInfos[1], err
}
