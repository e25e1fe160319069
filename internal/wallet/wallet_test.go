package wallet

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
)

func testWallet(t *testing.T) *Wallet {
	t.Helper()
	w, err := Generate()
	require.NoError(t, err)
	return w
}

func TestNewWallet_Base58AndJSON(t *testing.T) {
	w := testWallet(t)

	fromB58, err := NewWallet(w.PrivateKey())
	require.NoError(t, err)
	assert.Equal(t, w.Address(), fromB58.Address())

	raw, err := base58.Decode(w.PrivateKey())
	require.NoError(t, err)
	ints := make([]string, len(raw))
	for i, b := range raw {
		ints[i] = fmt.Sprint(b)
	}
	fromJSON, err := NewWallet("[" + strings.Join(ints, ",") + "]")
	require.NoError(t, err)
	assert.Equal(t, w.Address(), fromJSON.Address())
}

func TestNewWallet_Invalid(t *testing.T) {
	for _, bad := range []string{"", "  ", "not-base58-0OIl", "[1,2,3]", "[256]", base58.Encode(make([]byte, 32))} {
		_, err := NewWallet(bad)
		assert.Error(t, err, bad)
	}
}

func TestAddressIsPublicKey(t *testing.T) {
	w := testWallet(t)
	pub, err := base58.Decode(w.Address())
	require.NoError(t, err)
	assert.Len(t, pub, ed25519.PublicKeySize)
}

func TestSignAndVerify(t *testing.T) {
	w := testWallet(t)
	other := testWallet(t)
	payload := []byte("payload")

	sig := w.Sign(payload)
	require.NoError(t, Verify(w.Address(), payload, sig))

	assert.ErrorIs(t, Verify(w.Address(), []byte("tampered"), sig), ErrInvalidSignature)
	assert.ErrorIs(t, Verify(other.Address(), payload, sig), ErrInvalidSignature)
	assert.ErrorIs(t, Verify("owner", payload, sig), ErrInvalidAddress)
	assert.ErrorIs(t, Verify(w.Address(), payload, ""), ErrInvalidSignature)
	assert.ErrorIs(t, Verify(w.Address(), payload, "0OIl"), ErrInvalidSignature)
}

func TestSignDoc(t *testing.T) {
	w := testWallet(t)
	doc := SignDoc{
		ChainID:  "swap-local-1",
		Contract: "contract1",
		Nonce:    3,
		Msg:      json.RawMessage(`{"set_whitelist":{"caller":"trader","is_whitelist":true}}`),
	}

	sig, err := w.SignDoc(doc)
	require.NoError(t, err)

	doc.Sender = w.Address()
	require.NoError(t, VerifyDoc(doc, sig))

	// empty and missing funds sign the same bytes
	withEmpty := doc
	withEmpty.Funds = asset.Coins{}
	assert.NoError(t, VerifyDoc(withEmpty, sig))

	for name, mutate := range map[string]func(d *SignDoc){
		"nonce":    func(d *SignDoc) { d.Nonce++ },
		"contract": func(d *SignDoc) { d.Contract = "contract2" },
		"chain":    func(d *SignDoc) { d.ChainID = "other-1" },
		"funds":    func(d *SignDoc) { d.Funds = asset.Coins{asset.NewCoin("uusd", 1)} },
		"msg":      func(d *SignDoc) { d.Msg = json.RawMessage(`{"change_owner":{"new_owner":"mallory"}}`) },
	} {
		d := doc
		mutate(&d)
		assert.ErrorIs(t, VerifyDoc(d, sig), ErrInvalidSignature, name)
	}
}
