package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

type tx struct {
	app      *App
	id       string
	height   uint64
	time     time.Time
	sender   string
	contract string
	branch   *store.Branch
	events   []wasm.Event
	data     json.RawMessage
}

func (t *tx) env(contract string) wasm.Env {
	return wasm.Env{
		Block:    wasm.BlockInfo{Height: t.height, Time: t.time, ChainID: t.app.chainID},
		Contract: wasm.ContractInfo{Address: contract},
		TxID:     t.id,
	}
}

func (t *tx) deps(contract string, depth int) wasm.Deps {
	return wasm.Deps{
		Storage: contractStore(t.branch, contract),
		API:     t.app.api,
		Querier: &querier{app: t.app, st: t.branch, depth: depth},
	}
}

func (t *tx) execute(ctx context.Context, sender, contract string, msg json.RawMessage, funds asset.Coins, depth int) error {
	if depth > t.app.maxDepth {
		return ErrMaxDepth
	}
	meta, err := loadContract(ctx, t.branch, contract)
	if err != nil {
		return err
	}
	code, ok := t.app.codes[meta.Code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCodeNotFound, meta.Code)
	}
	if err := transfer(ctx, t.branch, sender, contract, funds); err != nil {
		return err
	}

	info := wasm.MessageInfo{Sender: sender, Funds: funds}
	res, err := code.Execute(ctx, t.deps(contract, depth), t.env(contract), info, msg)
	if err != nil {
		return err
	}
	return t.handleResponse(ctx, "execute", contract, sender, res, depth)
}

// handleResponse records the handler's event, then runs its outbound
// messages in order, depth-first.
func (t *tx) handleResponse(ctx context.Context, kind, contract, sender string, res *wasm.Response, depth int) error {
	if res == nil {
		res = wasm.NewResponse()
	}
	t.events = append(t.events, wasm.Event{
		Type:       kind,
		Contract:   contract,
		Sender:     sender,
		Attributes: res.Attributes,
	})
	if depth == 0 && len(res.Data) > 0 {
		t.data = res.Data
	}

	for _, sub := range res.Messages {
		if err := t.dispatch(ctx, contract, sub.Msg, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) dispatch(ctx context.Context, from string, msg wasm.CosmosMsg, depth int) error {
	switch {
	case msg.Bank != nil && msg.Bank.Send != nil:
		send := msg.Bank.Send
		if err := t.app.api.AddrValidate(send.ToAddress); err != nil {
			return fmt.Errorf("bank send recipient: %w", err)
		}
		if err := transfer(ctx, t.branch, from, send.ToAddress, send.Amount); err != nil {
			return err
		}
		t.events = append(t.events, wasm.Event{
			Type:   "transfer",
			Sender: from,
			Attributes: []wasm.Attribute{
				{Key: "recipient", Value: send.ToAddress},
				{Key: "sender", Value: from},
				{Key: "amount", Value: send.Amount.String()},
			},
		})
		return nil
	case msg.Wasm != nil && msg.Wasm.Execute != nil:
		ex := msg.Wasm.Execute
		return t.execute(ctx, from, ex.ContractAddr, ex.Msg, ex.Funds, depth)
	default:
		return ErrEmptyMsg
	}
}
