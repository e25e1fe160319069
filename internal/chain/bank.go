package chain

import (
	"context"
	"encoding/binary"
	"fmt"

	"cosmossdk.io/math"
	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
)

var balances = store.NewMap[math.Uint]("balances")

func balanceKey(addr, denom string) []byte {
	k := make([]byte, 0, binary.MaxVarintLen64+len(addr)+len(denom))
	k = binary.AppendUvarint(k, uint64(len(addr)))
	k = append(k, addr...)
	return append(k, denom...)
}

func getBalance(ctx context.Context, st store.KVStore, addr, denom string) (math.Uint, error) {
	bal, ok, err := balances.MayLoad(ctx, st, balanceKey(addr, denom))
	if err != nil {
		return math.ZeroUint(), err
	}
	if !ok || bal.IsNil() {
		return math.ZeroUint(), nil
	}
	return bal, nil
}

func mint(ctx context.Context, st store.KVStore, addr string, coins asset.Coins) error {
	for _, c := range coins {
		if asset.IsZero(c.Amount) {
			return ErrEmptyCoin
		}
		bal, err := getBalance(ctx, st, addr, c.Denom)
		if err != nil {
			return err
		}
		next, err := asset.CheckedAdd(bal, c.Amount)
		if err != nil {
			return err
		}
		if err := balances.Save(ctx, st, balanceKey(addr, c.Denom), next); err != nil {
			return err
		}
	}
	return nil
}

func transfer(ctx context.Context, st store.KVStore, from, to string, coins asset.Coins) error {
	for _, c := range coins {
		if asset.IsZero(c.Amount) {
			return ErrEmptyCoin
		}
		bal, err := getBalance(ctx, st, from, c.Denom)
		if err != nil {
			return err
		}
		if bal.LT(c.Amount) {
			return fmt.Errorf("%w: %s has %s%s, needs %s", ErrInsufficientFunds, from, bal, c.Denom, c)
		}
		if err := balances.Save(ctx, st, balanceKey(from, c.Denom), bal.Sub(c.Amount)); err != nil {
			return err
		}
		if err := mint(ctx, st, to, asset.Coins{c}); err != nil {
			return err
		}
	}
	return nil
}
