package wasm

import (
	"encoding/json"
	"testing"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMsg struct {
	Ping *struct{}        `json:"ping,omitempty"`
	Echo *struct{ V int } `json:"echo,omitempty"`
}

func TestDecodeVariant(t *testing.T) {
	var m testMsg
	require.NoError(t, DecodeVariant(json.RawMessage(`{"ping":{}}`), &m))
	assert.NotNil(t, m.Ping)

	var unknown testMsg
	err := DecodeVariant(json.RawMessage(`{"pong":{}}`), &unknown)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "Error parsing into type")

	var none testMsg
	assert.Error(t, DecodeVariant(json.RawMessage(`{}`), &none))

	var two testMsg
	assert.Error(t, DecodeVariant(json.RawMessage(`{"ping":{},"echo":{"V":1}}`), &two))
}

func TestDefaultAPI(t *testing.T) {
	api := DefaultAPI{}
	assert.NoError(t, api.AddrValidate("addr0000"))
	assert.ErrorIs(t, api.AddrValidate("ab"), ErrAddrTooShort)
	assert.ErrorIs(t, api.AddrValidate("Addr0000"), ErrAddrNotNormalized)
	assert.ErrorIs(t, api.AddrValidate("addr 0000"), ErrAddrNotNormalized)

	// base58 account keys are mixed case
	assert.NoError(t, api.AddrValidate("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"))
	assert.True(t, IsAccountKey("So11111111111111111111111111111111111111112"))
	assert.False(t, IsAccountKey("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt"))
	assert.False(t, IsAccountKey("contract1"))
}

func TestResponseBuilders(t *testing.T) {
	msg, err := NewWasmExecute("contract1", map[string]any{"swap": map[string]any{}}, asset.Coins{asset.NewCoin("uusd", 5)})
	require.NoError(t, err)

	res := NewResponse().
		AddAttribute("action", "swap").
		AddBool("is_disabled", true).
		AddMessage(msg)

	ev := Event{Attributes: res.Attributes}
	v, ok := ev.Get("is_disabled")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	require.Len(t, res.Messages, 1)
	assert.JSONEq(t, `{"swap":{}}`, string(res.Messages[0].Msg.Wasm.Execute.Msg))
}
