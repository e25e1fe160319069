package chain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

var errBoom = errors.New("boom")

var counterKey = store.NewItem[int]("count")

type counterExec struct {
	Incr    *struct{} `json:"incr,omitempty"`
	Fail    *struct{} `json:"fail,omitempty"`
	Pay     *payMsg   `json:"pay,omitempty"`
	Forward *fwdMsg   `json:"forward,omitempty"`
}

type payMsg struct {
	To     string      `json:"to"`
	Amount asset.Coins `json:"amount"`
}

type fwdMsg struct {
	Contract string          `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
}

// counter is a minimal contract used to drive the host.
type counter struct{}

func (counter) Instantiate(ctx context.Context, deps wasm.Deps, _ wasm.Env, _ wasm.MessageInfo, _ json.RawMessage) (*wasm.Response, error) {
	return wasm.NewResponse(), counterKey.Save(ctx, deps.Storage, 0)
}

func (counter) Execute(ctx context.Context, deps wasm.Deps, _ wasm.Env, _ wasm.MessageInfo, raw json.RawMessage) (*wasm.Response, error) {
	var msg counterExec
	if err := wasm.DecodeVariant(raw, &msg); err != nil {
		return nil, err
	}
	n, err := counterKey.Load(ctx, deps.Storage)
	if err != nil {
		return nil, err
	}
	if err := counterKey.Save(ctx, deps.Storage, n+1); err != nil {
		return nil, err
	}
	res := wasm.NewResponse().AddAttribute("action", "incr")

	switch {
	case msg.Fail != nil:
		return nil, errBoom
	case msg.Pay != nil:
		res.AddMessage(wasm.NewBankSend(msg.Pay.To, msg.Pay.Amount...))
	case msg.Forward != nil:
		res.AddMessage(wasm.CosmosMsg{Wasm: &wasm.WasmMsg{Execute: &wasm.WasmExecute{
			ContractAddr: msg.Forward.Contract,
			Msg:          msg.Forward.Msg,
		}}})
	}
	return res, nil
}

func (counter) Query(ctx context.Context, deps wasm.Deps, _ wasm.Env, raw json.RawMessage) (json.RawMessage, error) {
	if string(raw) == `{"write":{}}` {
		return nil, counterKey.Save(ctx, deps.Storage, 99)
	}
	n, err := counterKey.Load(ctx, deps.Storage)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]int{"count": n})
}

type recordingSink struct {
	got []*TxResult
}

func (s *recordingSink) HandleTx(_ context.Context, res *TxResult) error {
	s.got = append(s.got, res)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupApp(t *testing.T) (*App, *recordingSink) {
	sink := &recordingSink{}
	app, err := New(store.NewMemory(), WithLogger(quietLogger()), WithEventSink(sink))
	require.NoError(t, err)
	require.NoError(t, app.StoreCode("counter", counter{}))
	return app, sink
}

func instantiateCounter(t *testing.T, app *App, label string) string {
	res, err := app.Instantiate(context.Background(), InstantiateRequest{
		Code:   "counter",
		Sender: "creator",
		Label:  label,
		Msg:    json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	return res.Contract
}

func count(t *testing.T, app *App, addr string) int {
	raw, err := app.Query(context.Background(), addr, json.RawMessage(`{"count":{}}`))
	require.NoError(t, err)
	var out map[string]int
	require.NoError(t, json.Unmarshal(raw, &out))
	return out["count"]
}

func TestInstantiate_AssignsSequentialAddresses(t *testing.T) {
	app, _ := setupApp(t)
	ctx := context.Background()

	a := instantiateCounter(t, app, "one")
	b := instantiateCounter(t, app, "two")
	assert.Equal(t, "contract0", a)
	assert.Equal(t, "contract1", b)

	addr, ok, err := app.LookupLabel(ctx, "two")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, b, addr)

	_, err = app.Instantiate(ctx, InstantiateRequest{Code: "counter", Sender: "creator", Label: "one", Msg: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	_, err = app.Instantiate(ctx, InstantiateRequest{Code: "missing", Sender: "creator", Label: "x"})
	assert.ErrorIs(t, err, ErrCodeNotFound)

	meta, err := app.ContractInfo(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "counter", meta.Code)
	assert.Equal(t, "creator", meta.Creator)
}

func TestExecute_CommitsAndNotifiesSinks(t *testing.T) {
	app, sink := setupApp(t)
	addr := instantiateCounter(t, app, "c")

	res, err := app.Execute(context.Background(), "alice", addr, json.RawMessage(`{"incr":{}}`), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.TxID)
	require.Len(t, res.Events, 1)
	v, _ := res.Events[0].Get("action")
	assert.Equal(t, "incr", v)

	assert.Equal(t, 1, count(t, app, addr))
	assert.Len(t, sink.got, 2)

	h, err := app.Height(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), h)
}

func TestExecute_RollsBackStateAndFunds(t *testing.T) {
	app, sink := setupApp(t)
	ctx := context.Background()
	addr := instantiateCounter(t, app, "c")
	_, err := app.Mint(ctx, "alice", asset.Coins{asset.NewCoin("uusd", 100)})
	require.NoError(t, err)
	before := len(sink.got)

	_, err = app.Execute(ctx, "alice", addr, json.RawMessage(`{"fail":{}}`), asset.Coins{asset.NewCoin("uusd", 40)})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	var te *TxError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, addr, te.Contract)
	assert.Equal(t, errBoom, Cause(err))

	assert.Equal(t, 0, count(t, app, addr))
	bal, err := app.Balance(ctx, "alice", "uusd")
	require.NoError(t, err)
	assert.Equal(t, "100", bal.Amount.String())
	assert.Len(t, sink.got, before)
}

func TestExecute_InsufficientFunds(t *testing.T) {
	app, _ := setupApp(t)
	addr := instantiateCounter(t, app, "c")

	_, err := app.Execute(context.Background(), "alice", addr, json.RawMessage(`{"incr":{}}`), asset.Coins{asset.NewCoin("uusd", 1)})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 0, count(t, app, addr))
}

func TestExecute_ZeroCoinRejected(t *testing.T) {
	app, _ := setupApp(t)
	addr := instantiateCounter(t, app, "c")

	_, err := app.Execute(context.Background(), "alice", addr, json.RawMessage(`{"incr":{}}`), asset.Coins{asset.NewCoin("uusd", 0)})
	assert.ErrorIs(t, err, ErrEmptyCoin)
}

func TestExecute_BankSendFromContract(t *testing.T) {
	app, _ := setupApp(t)
	ctx := context.Background()
	addr := instantiateCounter(t, app, "c")
	_, err := app.Mint(ctx, "alice", asset.Coins{asset.NewCoin("uusd", 100)})
	require.NoError(t, err)

	msg := json.RawMessage(`{"pay":{"to":"bob","amount":[{"denom":"uusd","amount":"30"}]}}`)
	res, err := app.Execute(ctx, "alice", addr, msg, asset.Coins{asset.NewCoin("uusd", 50)})
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, "transfer", res.Events[1].Type)

	bob, _ := app.Balance(ctx, "bob", "uusd")
	held, _ := app.Balance(ctx, addr, "uusd")
	alice, _ := app.Balance(ctx, "alice", "uusd")
	assert.Equal(t, "30", bob.Amount.String())
	assert.Equal(t, "20", held.Amount.String())
	assert.Equal(t, "50", alice.Amount.String())
}

func TestExecute_SubMessageFailureRollsBackParent(t *testing.T) {
	app, _ := setupApp(t)
	ctx := context.Background()
	first := instantiateCounter(t, app, "first")
	second := instantiateCounter(t, app, "second")

	ok := json.RawMessage(`{"forward":{"contract":"` + second + `","msg":{"incr":{}}}}`)
	res, err := app.Execute(ctx, "alice", first, ok, nil)
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, first, res.Events[1].Sender)
	assert.Equal(t, 1, count(t, app, first))
	assert.Equal(t, 1, count(t, app, second))

	bad := json.RawMessage(`{"forward":{"contract":"` + second + `","msg":{"fail":{}}}}`)
	_, err = app.Execute(ctx, "alice", first, bad, nil)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, count(t, app, first))
	assert.Equal(t, 1, count(t, app, second))
}

func TestExecute_DepthLimit(t *testing.T) {
	app, err := New(store.NewMemory(), WithLogger(quietLogger()), WithMaxDepth(1))
	require.NoError(t, err)
	require.NoError(t, app.StoreCode("counter", counter{}))
	a := instantiateCounter(t, app, "a")

	inner := `{"forward":{"contract":"` + a + `","msg":{"incr":{}}}}`
	outer := json.RawMessage(`{"forward":{"contract":"` + a + `","msg":` + inner + `}}`)
	_, err = app.Execute(context.Background(), "alice", a, outer, nil)
	assert.ErrorIs(t, err, ErrMaxDepth)
}

func TestQuery_IsReadOnly(t *testing.T) {
	app, _ := setupApp(t)
	addr := instantiateCounter(t, app, "c")

	_, err := app.Query(context.Background(), addr, json.RawMessage(`{"write":{}}`))
	assert.ErrorIs(t, err, store.ErrReadOnly)

	_, err = app.Query(context.Background(), "contract42", json.RawMessage(`{}`))
	assert.True(t, IsNotFound(err))
}

func TestExecute_InvalidSender(t *testing.T) {
	app, _ := setupApp(t)
	addr := instantiateCounter(t, app, "c")

	_, err := app.Execute(context.Background(), "A", addr, json.RawMessage(`{"incr":{}}`), nil)
	assert.ErrorIs(t, err, wasm.ErrAddrTooShort)
}

func TestExecuteSigned_ConsumesSequence(t *testing.T) {
	app, _ := setupApp(t)
	addr := instantiateCounter(t, app, "c")
	ctx := context.Background()

	seq, err := app.Sequence(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seq)

	_, err = app.ExecuteSigned(ctx, "alice", 0, addr, json.RawMessage(`{"incr":{}}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, app, addr))

	// replaying nonce 0 is refused before the contract runs
	_, err = app.ExecuteSigned(ctx, "alice", 0, addr, json.RawMessage(`{"incr":{}}`), nil)
	assert.ErrorIs(t, err, ErrInvalidNonce)
	assert.Equal(t, 1, count(t, app, addr))

	seq, err = app.Sequence(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)
}

func TestExecuteSigned_FailedCallStillAdvancesSequence(t *testing.T) {
	app, _ := setupApp(t)
	addr := instantiateCounter(t, app, "c")
	ctx := context.Background()

	_, err := app.ExecuteSigned(ctx, "alice", 0, addr, json.RawMessage(`{"fail":{}}`), nil)
	require.Error(t, err)

	seq, err := app.Sequence(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	_, err = app.ExecuteSigned(ctx, "alice", 0, addr, json.RawMessage(`{"incr":{}}`), nil)
	assert.ErrorIs(t, err, ErrInvalidNonce)
}

func TestBalanceKey_LengthPrefixed(t *testing.T) {
	long := strings.Repeat("a", 65537)
	assert.NotEqual(t, balanceKey(long, "x"), balanceKey("a", long[1:]+"x"))
}
