// Package wasm defines the boundary between the host runtime and the
// contracts it runs: environment, messages, responses and the read-only
// querier a contract uses to reach the bank and other contracts.
package wasm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
)

type BlockInfo struct {
	Height  uint64    `json:"height"`
	Time    time.Time `json:"time"`
	ChainID string    `json:"chain_id"`
}

type ContractInfo struct {
	Address string `json:"address"`
}

type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
	TxID     string       `json:"tx_id,omitempty"`
}

// MessageInfo carries the caller and the coins it attached. The funds have
// already been moved to the contract by the time a handler runs.
type MessageInfo struct {
	Sender string      `json:"sender"`
	Funds  asset.Coins `json:"funds"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is the record of one handler invocation inside a transaction.
type Event struct {
	Type       string      `json:"type"`
	Contract   string      `json:"contract"`
	Sender     string      `json:"sender"`
	Attributes []Attribute `json:"attributes"`
}

// Get returns the first attribute value for key.
func (e Event) Get(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

type BankSend struct {
	ToAddress string      `json:"to_address"`
	Amount    asset.Coins `json:"amount"`
}

type BankMsg struct {
	Send *BankSend `json:"send,omitempty"`
}

type WasmExecute struct {
	ContractAddr string          `json:"contract_addr"`
	Msg          json.RawMessage `json:"msg"`
	Funds        asset.Coins     `json:"funds"`
}

type WasmMsg struct {
	Execute *WasmExecute `json:"execute,omitempty"`
}

// CosmosMsg is an outbound effect; exactly one field is set.
type CosmosMsg struct {
	Bank *BankMsg `json:"bank,omitempty"`
	Wasm *WasmMsg `json:"wasm,omitempty"`
}

// SubMsg wraps an outbound message. Sub-messages never reply: a failure
// aborts the whole transaction.
type SubMsg struct {
	ID  uint64    `json:"id"`
	Msg CosmosMsg `json:"msg"`
}

// Response is what a handler returns: attributes plus the outbound messages
// the host runs after the handler, inside the same transaction.
type Response struct {
	Attributes []Attribute     `json:"attributes"`
	Messages   []SubMsg        `json:"messages"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func NewResponse() *Response {
	return &Response{}
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

func (r *Response) AddBool(key string, value bool) *Response {
	return r.AddAttribute(key, strconv.FormatBool(value))
}

func (r *Response) AddMessage(msg CosmosMsg) *Response {
	r.Messages = append(r.Messages, SubMsg{Msg: msg})
	return r
}

// NewBankSend builds a bank transfer to addr.
func NewBankSend(to string, coins ...asset.Coin) CosmosMsg {
	return CosmosMsg{Bank: &BankMsg{Send: &BankSend{ToAddress: to, Amount: coins}}}
}

// NewWasmExecute JSON-encodes msg into an execute call on contract.
func NewWasmExecute(contract string, msg any, funds asset.Coins) (CosmosMsg, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return CosmosMsg{}, fmt.Errorf("encode execute msg: %w", err)
	}
	return CosmosMsg{Wasm: &WasmMsg{Execute: &WasmExecute{ContractAddr: contract, Msg: raw, Funds: funds}}}, nil
}

// Querier is a contract's read-only window onto the rest of the chain.
type Querier interface {
	QueryBalance(ctx context.Context, addr, denom string) (asset.Coin, error)
	QuerySmart(ctx context.Context, contract string, msg json.RawMessage) (json.RawMessage, error)
}

// QuerySmartJSON encodes req, runs a smart query and decodes the reply into T.
func QuerySmartJSON[T any](ctx context.Context, q Querier, contract string, req any) (T, error) {
	var out T
	raw, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("encode query: %w", err)
	}
	res, err := q.QuerySmart(ctx, contract, raw)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(res, &out); err != nil {
		return out, fmt.Errorf("decode query response from %s: %w", contract, err)
	}
	return out, nil
}

// Deps is what a handler gets to work with. Storage is already scoped to
// the contract's own namespace.
type Deps struct {
	Storage store.KVStore
	API     API
	Querier Querier
}

// Contract is the set of entry points the host calls.
type Contract interface {
	Instantiate(ctx context.Context, deps Deps, env Env, info MessageInfo, msg json.RawMessage) (*Response, error)
	Execute(ctx context.Context, deps Deps, env Env, info MessageInfo, msg json.RawMessage) (*Response, error)
	Query(ctx context.Context, deps Deps, env Env, msg json.RawMessage) (json.RawMessage, error)
}
