// Package chain is the host runtime the contracts run on. It owns code
// registration, contract instances, bank balances and the transaction
// boundary: every call commits or rolls back as one unit.
package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

const defaultMaxDepth = 10

var (
	seqItem    = store.NewItem[uint64]("chain/seq")
	heightItem = store.NewItem[uint64]("chain/height")
	contracts  = store.NewMap[ContractMeta]("contracts")
	labels     = store.NewMap[string]("labels")
	sequences  = store.NewMap[uint64]("accounts/seq")
)

// ContractMeta is the persisted record of an instance.
type ContractMeta struct {
	Address       string `json:"address"`
	Code          string `json:"code"`
	Label         string `json:"label"`
	Admin         string `json:"admin,omitempty"`
	Creator       string `json:"creator"`
	CreatedHeight uint64 `json:"created_height"`
}

// TxResult describes a committed transaction.
type TxResult struct {
	TxID     string          `json:"tx_id"`
	Height   uint64          `json:"height"`
	Time     time.Time       `json:"time"`
	Sender   string          `json:"sender"`
	Contract string          `json:"contract,omitempty"`
	Events   []wasm.Event    `json:"events"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// EventSink is notified after a transaction commits. Errors are logged and
// never undo the commit.
type EventSink interface {
	HandleTx(ctx context.Context, res *TxResult) error
}

type InstantiateRequest struct {
	Code   string
	Sender string
	Admin  string
	Label  string
	Msg    json.RawMessage
	Funds  asset.Coins
}

type App struct {
	mu       sync.RWMutex
	backend  store.Backend
	api      wasm.API
	codes    map[string]wasm.Contract
	sinks    []EventSink
	chainID  string
	maxDepth int
	now      func() time.Time
	log      *logrus.Logger
}

type Option func(*App)

func WithLogger(l *logrus.Logger) Option {
	return func(a *App) { a.log = l }
}

func WithChainID(id string) Option {
	return func(a *App) { a.chainID = id }
}

func WithAPI(api wasm.API) Option {
	return func(a *App) { a.api = api }
}

func WithEventSink(s EventSink) Option {
	return func(a *App) { a.sinks = append(a.sinks, s) }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func WithMaxDepth(n int) Option {
	return func(a *App) { a.maxDepth = n }
}

func New(backend store.Backend, opts ...Option) (*App, error) {
	if backend == nil {
		return nil, fmt.Errorf("store backend is nil")
	}
	a := &App{
		backend:  backend,
		api:      wasm.DefaultAPI{},
		codes:    make(map[string]wasm.Contract),
		chainID:  "localnet",
		maxDepth: defaultMaxDepth,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *App) ChainID() string { return a.chainID }

func (a *App) API() wasm.API { return a.api }

// StoreCode registers contract logic under name. Codes live in memory and
// must be registered again on every boot, before any instance is used.
func (a *App) StoreCode(name string, c wasm.Contract) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.codes[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, name)
	}
	a.codes[name] = c
	return nil
}

// AddEventSink registers s for every transaction committed after the call.
func (a *App) AddEventSink(s EventSink) {
	a.mu.Lock()
	a.sinks = append(a.sinks, s)
	a.mu.Unlock()
}

// Instantiate creates a new contract instance and runs its instantiate entry
// point. The new address is in TxResult.Contract.
func (a *App) Instantiate(ctx context.Context, req InstantiateRequest) (*TxResult, error) {
	if req.Label == "" {
		return nil, ErrEmptyLabel
	}
	return a.run(ctx, req.Sender, nil, func(t *tx) error {
		code, ok := a.codes[req.Code]
		if !ok {
			return fmt.Errorf("%w: %s", ErrCodeNotFound, req.Code)
		}
		taken, err := store.Has(ctx, t.branch, labels.Key([]byte(req.Label)))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrDuplicateLabel, req.Label)
		}

		seq, _, err := seqItem.MayLoad(ctx, t.branch)
		if err != nil {
			return err
		}
		addr := fmt.Sprintf("contract%d", seq)
		if err := seqItem.Save(ctx, t.branch, seq+1); err != nil {
			return err
		}
		meta := ContractMeta{
			Address:       addr,
			Code:          req.Code,
			Label:         req.Label,
			Admin:         req.Admin,
			Creator:       req.Sender,
			CreatedHeight: t.height,
		}
		if err := contracts.Save(ctx, t.branch, []byte(addr), meta); err != nil {
			return err
		}
		if err := labels.Save(ctx, t.branch, []byte(req.Label), addr); err != nil {
			return err
		}
		t.contract = addr

		if err := transfer(ctx, t.branch, req.Sender, addr, req.Funds); err != nil {
			return err
		}
		info := wasm.MessageInfo{Sender: req.Sender, Funds: req.Funds}
		res, err := code.Instantiate(ctx, t.deps(addr, 0), t.env(addr), info, req.Msg)
		if err != nil {
			return err
		}
		return t.handleResponse(ctx, "instantiate", addr, req.Sender, res, 0)
	})
}

// Execute runs msg against contract on behalf of sender, moving funds to
// the contract first.
func (a *App) Execute(ctx context.Context, sender, contract string, msg json.RawMessage, funds asset.Coins) (*TxResult, error) {
	return a.run(ctx, sender, nil, func(t *tx) error {
		t.contract = contract
		return t.execute(ctx, sender, contract, msg, funds, 0)
	})
}

// ExecuteSigned is Execute for a transaction signed outside the process.
// nonce must equal the sender's sequence. The sequence advances even when
// the call itself rolls back, so a signed request is accepted at most once.
func (a *App) ExecuteSigned(ctx context.Context, sender string, nonce uint64, contract string, msg json.RawMessage, funds asset.Coins) (*TxResult, error) {
	return a.run(ctx, sender, &nonce, func(t *tx) error {
		t.contract = contract
		return t.execute(ctx, sender, contract, msg, funds, 0)
	})
}

// Sequence returns the nonce the next signed transaction from addr must carry.
func (a *App) Sequence(ctx context.Context, addr string) (uint64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	seq, _, err := sequences.MayLoad(ctx, a.backend, []byte(addr))
	return seq, err
}

func (a *App) useSequence(ctx context.Context, addr string, nonce uint64) error {
	seq, _, err := sequences.MayLoad(ctx, a.backend, []byte(addr))
	if err != nil {
		return err
	}
	if nonce != seq {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidNonce, seq, nonce)
	}
	return sequences.Save(ctx, a.backend, []byte(addr), seq+1)
}

// Mint credits coins to addr in its own transaction.
func (a *App) Mint(ctx context.Context, addr string, coins asset.Coins) (*TxResult, error) {
	if err := a.api.AddrValidate(addr); err != nil {
		return nil, err
	}
	return a.run(ctx, addr, nil, func(t *tx) error {
		if err := mint(ctx, t.branch, addr, coins); err != nil {
			return err
		}
		t.events = append(t.events, wasm.Event{
			Type:   "mint",
			Sender: addr,
			Attributes: []wasm.Attribute{
				{Key: "recipient", Value: addr},
				{Key: "amount", Value: coins.String()},
			},
		})
		return nil
	})
}

// Query runs a read-only query against committed state.
func (a *App) Query(ctx context.Context, contract string, msg json.RawMessage) (json.RawMessage, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	q := &querier{app: a, st: store.ReadOnly(a.backend)}
	return q.QuerySmart(ctx, contract, msg)
}

func (a *App) Balance(ctx context.Context, addr, denom string) (asset.Coin, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	bal, err := getBalance(ctx, a.backend, addr, denom)
	if err != nil {
		return asset.Coin{}, err
	}
	return asset.Coin{Denom: denom, Amount: bal}, nil
}

func (a *App) ContractInfo(ctx context.Context, addr string) (ContractMeta, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return loadContract(ctx, a.backend, addr)
}

// LookupLabel resolves an instance label to its address.
func (a *App) LookupLabel(ctx context.Context, label string) (string, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return labels.MayLoad(ctx, a.backend, []byte(label))
}

func (a *App) Height(ctx context.Context) (uint64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	h, _, err := heightItem.MayLoad(ctx, a.backend)
	return h, err
}

func loadContract(ctx context.Context, st store.KVStore, addr string) (ContractMeta, error) {
	meta, ok, err := contracts.MayLoad(ctx, st, []byte(addr))
	if err != nil {
		return ContractMeta{}, err
	}
	if !ok {
		return ContractMeta{}, fmt.Errorf("%w: %s", ErrContractNotFound, addr)
	}
	return meta, nil
}

func contractStore(st store.KVStore, addr string) store.KVStore {
	return store.Prefix(st, []byte("wasm/"+addr+"/"))
}

// run opens a branch, runs fn, and commits or discards. Calls are serialised.
// A non-nil nonce is checked and consumed outside the branch.
func (a *App) run(ctx context.Context, sender string, nonce *uint64, fn func(*tx) error) (*TxResult, error) {
	a.mu.Lock()

	if nonce != nil {
		if err := a.useSequence(ctx, sender, *nonce); err != nil {
			a.mu.Unlock()
			return nil, err
		}
	}

	t := &tx{
		app:    a,
		id:     uuid.NewString(),
		time:   a.now(),
		sender: sender,
		branch: store.NewBranch(a.backend),
	}
	logger := a.log.WithFields(logrus.Fields{"tx_id": t.id, "sender": sender})

	err := a.runTx(ctx, t, fn)
	if err != nil {
		t.branch.Discard()
		a.mu.Unlock()
		logger.WithField("contract", t.contract).WithError(err).Warn("tx rolled back")
		return nil, &TxError{TxID: t.id, Contract: t.contract, Err: err}
	}

	res := &TxResult{
		TxID:     t.id,
		Height:   t.height,
		Time:     t.time,
		Sender:   sender,
		Contract: t.contract,
		Events:   t.events,
		Data:     t.data,
	}
	sinks := append([]EventSink(nil), a.sinks...)
	a.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"contract": t.contract,
		"height":   t.height,
		"events":   len(t.events),
	}).Info("tx committed")

	for _, s := range sinks {
		if err := s.HandleTx(ctx, res); err != nil {
			logger.WithError(err).Warn("event sink failed")
		}
	}
	return res, nil
}

func (a *App) runTx(ctx context.Context, t *tx, fn func(*tx) error) error {
	if err := a.api.AddrValidate(t.sender); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	h, _, err := heightItem.MayLoad(ctx, t.branch)
	if err != nil {
		return err
	}
	t.height = h + 1
	if err := fn(t); err != nil {
		return err
	}
	if err := heightItem.Save(ctx, t.branch, t.height); err != nil {
		return err
	}
	if err := t.branch.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// querier reads through st, which is the open branch during a transaction
// so contracts see the uncommitted writes of the same unit.
type querier struct {
	app   *App
	st    store.KVStore
	depth int
}

func (q *querier) QueryBalance(ctx context.Context, addr, denom string) (asset.Coin, error) {
	bal, err := getBalance(ctx, q.st, addr, denom)
	if err != nil {
		return asset.Coin{}, err
	}
	return asset.Coin{Denom: denom, Amount: bal}, nil
}

func (q *querier) QuerySmart(ctx context.Context, contract string, msg json.RawMessage) (json.RawMessage, error) {
	if q.depth > q.app.maxDepth {
		return nil, ErrMaxDepth
	}
	meta, err := loadContract(ctx, q.st, contract)
	if err != nil {
		return nil, err
	}
	code, ok := q.app.codes[meta.Code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCodeNotFound, meta.Code)
	}
	deps := wasm.Deps{
		Storage: store.ReadOnly(contractStore(q.st, contract)),
		API:     q.app.api,
		Querier: &querier{app: q.app, st: q.st, depth: q.depth + 1},
	}
	h, _, err := heightItem.MayLoad(ctx, q.st)
	if err != nil {
		return nil, err
	}
	env := wasm.Env{
		Block:    wasm.BlockInfo{Height: h, Time: q.app.now(), ChainID: q.app.chainID},
		Contract: wasm.ContractInfo{Address: contract},
	}
	return code.Query(ctx, deps, env, msg)
}

// IsNotFound reports whether err means a missing contract or code.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound) || errors.Is(err, ErrCodeNotFound)
}
