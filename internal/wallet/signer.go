package wallet

import (
	"encoding/json"
	"fmt"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
)

// SignDoc is the payload an execute request signs. It binds the chain id,
// the target contract and the sender's nonce.
type SignDoc struct {
	ChainID  string          `json:"chain_id"`
	Contract string          `json:"contract"`
	Sender   string          `json:"sender"`
	Nonce    uint64          `json:"nonce"`
	Msg      json.RawMessage `json:"msg"`
	Funds    asset.Coins     `json:"funds"`
}

// Bytes is the canonical encoding: compact JSON with empty funds as null.
func (d SignDoc) Bytes() ([]byte, error) {
	if len(d.Funds) == 0 {
		d.Funds = nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("wallet: encode sign doc: %w", err)
	}
	return b, nil
}

// SignDoc fills in the sender and signs the doc.
func (w *Wallet) SignDoc(d SignDoc) (string, error) {
	d.Sender = w.Address()
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return w.Sign(b), nil
}

// VerifyDoc checks that signature was made by d.Sender over d.
func VerifyDoc(d SignDoc, signature string) error {
	b, err := d.Bytes()
	if err != nil {
		return err
	}
	return Verify(d.Sender, b, signature)
}
