package pool

import "errors"

var (
	ErrCw20DirectSwap        = errors.New("CW20 tokens can be swapped via Cw20::Send message only")
	ErrInsufficientLiquidity = errors.New("Insufficient liquidity")
	ErrAssetMismatch         = errors.New("Asset mismatch between the requested and the stored asset in contract")
)
