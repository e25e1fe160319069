package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/KryptoniteDAO/swap-extention-old/internal/chain"
	"github.com/KryptoniteDAO/swap-extention-old/internal/models"
	"github.com/KryptoniteDAO/swap-extention-old/internal/storage"
)

// SwapSink turns committed pool swaps into SwapEvents and hands them to
// the cache and the history store. Either may be nil.
type SwapSink struct {
	cache storage.SwapCache
	store storage.SwapStore
	log   *logrus.Logger
}

func NewSwapSink(cache storage.SwapCache, store storage.SwapStore, log *logrus.Logger) *SwapSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SwapSink{cache: cache, store: store, log: log}
}

func (s *SwapSink) HandleTx(ctx context.Context, res *chain.TxResult) error {
	var errs []error
	for _, swap := range ExtractSwaps(res) {
		if s.cache != nil {
			if err := s.cache.AddRecentSwap(ctx, swap); err != nil {
				errs = append(errs, err)
			}
			if err := s.cache.PublishSwap(ctx, swap); err != nil {
				errs = append(errs, err)
			}
		}
		if s.store != nil {
			if err := s.store.InsertSwap(ctx, swap); err != nil {
				errs = append(errs, err)
			}
		}
		s.log.WithFields(logrus.Fields{
			"tx_id":  swap.TxID,
			"pair":   swap.Pair,
			"pool":   swap.Pool,
			"in":     swap.OfferAmount,
			"out":    swap.ReturnAmount,
			"router": swap.Router,
		}).Debug("swap recorded")
	}
	if len(errs) > 0 {
		return fmt.Errorf("record swaps for tx %s: %w", res.TxID, errors.Join(errs...))
	}
	return nil
}

// ExtractSwaps finds pool swap events in a committed transaction. A pool
// swap is an execute event carrying action=swap and a return_amount; the
// router's own action=swap event has no return_amount.
func ExtractSwaps(res *chain.TxResult) []*models.SwapEvent {
	if res == nil {
		return nil
	}

	var out []*models.SwapEvent
	for i, ev := range res.Events {
		if ev.Type != "execute" {
			continue
		}
		action, _ := ev.Get("action")
		returned, ok := ev.Get("return_amount")
		if action != "swap" || !ok {
			continue
		}
		offer, _ := ev.Get("offer_asset")
		ask, _ := ev.Get("ask_asset")
		offerAmt, _ := ev.Get("offer_amount")
		sender, _ := ev.Get("sender")
		receiver, _ := ev.Get("receiver")

		out = append(out, &models.SwapEvent{
			TxID:         res.TxID,
			Height:       res.Height,
			Timestamp:    res.Time,
			Pair:         offer + "/" + ask,
			Router:       routerFor(res, i, ev.Sender),
			Pool:         ev.Contract,
			Sender:       sender,
			Receiver:     receiver,
			OfferAsset:   offer,
			AskAsset:     ask,
			OfferAmount:  offerAmt,
			ReturnAmount: returned,
		})
	}
	return out
}

// routerFor returns the contract that called the pool, if any.
func routerFor(res *chain.TxResult, idx int, caller string) string {
	for j := idx - 1; j >= 0; j-- {
		if res.Events[j].Contract == caller {
			return caller
		}
	}
	return ""
}
