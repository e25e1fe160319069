package models

import "time"

// SwapEvent is the read-model record of one committed pool swap. Amounts
// are base-10 integer strings.
type SwapEvent struct {
	TxID         string    `json:"tx_id"`
	Height       uint64    `json:"height"`
	Timestamp    time.Time `json:"timestamp"`
	Pair         string    `json:"pair"` // "<offer>/<ask>"
	Router       string    `json:"router,omitempty"`
	Pool         string    `json:"pool"`
	Sender       string    `json:"sender"`
	Receiver     string    `json:"receiver"`
	OfferAsset   string    `json:"offer_asset"`
	AskAsset     string    `json:"ask_asset"`
	OfferAmount  string    `json:"offer_amount"`
	ReturnAmount string    `json:"return_amount"`
}
