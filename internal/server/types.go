package server

import (
	"encoding/json"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK      bool   `json:"ok"`
	ChainID string `json:"chain_id"`
	Height  uint64 `json:"height"`
}

// ExecuteRequest runs msg against a contract on behalf of sender.
// Signature is the sender's base58 signature over the wallet.SignDoc built
// from the chain id, contract, sender, nonce, msg and funds.
type ExecuteRequest struct {
	Sender    string          `json:"sender"`
	Nonce     uint64          `json:"nonce"`
	Msg       json.RawMessage `json:"msg"`
	Funds     asset.Coins     `json:"funds,omitempty"`
	Signature string          `json:"signature"`
}

// ExecuteResponse describes a committed transaction
type ExecuteResponse struct {
	TxID   string          `json:"tx_id"`
	Height uint64          `json:"height"`
	Events []wasm.Event    `json:"events"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// SequenceResponse carries the nonce the account's next request must use
type SequenceResponse struct {
	Address  string `json:"address"`
	Sequence uint64 `json:"sequence"`
}

type QueryRequest struct {
	Msg json.RawMessage `json:"msg"`
}

type MintRequest struct {
	Address string      `json:"address"`
	Coins   asset.Coins `json:"coins"`
}

type BalanceResponse struct {
	Address string     `json:"address"`
	Balance asset.Coin `json:"balance"`
}

// SwapsRecentResponse represents recent swaps response
type SwapsRecentResponse struct {
	Items any `json:"items"`
}
