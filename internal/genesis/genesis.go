package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cosmossdk.io/math"
	"github.com/sirupsen/logrus"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/chain"
	"github.com/KryptoniteDAO/swap-extention-old/internal/pool"
	"github.com/KryptoniteDAO/swap-extention-old/internal/router"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wasm"
)

// Code names the daemon registers contracts under.
const (
	CodeRouter = "router"
	CodePool   = "pool"

	RouterLabel = "router"
)

type Balance struct {
	Address string      `json:"address"`
	Coins   asset.Coins `json:"coins"`
}

type Pool struct {
	Label         string        `json:"label"`
	Admin         string        `json:"admin"`
	AssetInfos    [2]asset.Info `json:"asset_infos"`
	Swap0To1Price math.Uint     `json:"swap_0_to_1_price"`
}

type Router struct {
	Admin string `json:"admin"`
	Owner string `json:"owner,omitempty"`
}

// Pair registers a pool, by label, with the router.
type Pair struct {
	Pool      string          `json:"pool"`
	MaxSpread *math.LegacyDec `json:"max_spread,omitempty"`
	To        *string         `json:"to,omitempty"`
}

type Genesis struct {
	ChainID   string    `json:"chain_id"`
	Balances  []Balance `json:"balances"`
	Pools     []Pool    `json:"pools"`
	Router    Router    `json:"router"`
	Pairs     []Pair    `json:"pairs"`
	Whitelist []string  `json:"whitelist"`
}

// Result lists the addresses genesis created or found.
type Result struct {
	Router  string
	Pools   map[string]string
	Applied bool
}

// Load reads and parses a genesis file
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Genesis, error) {
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse genesis JSON: %w", err)
	}
	return &g, nil
}

// Validate checks the document against api without touching any state.
func (g *Genesis) Validate(api wasm.API) error {
	var errs []error

	for i, b := range g.Balances {
		if err := api.AddrValidate(b.Address); err != nil {
			errs = append(errs, fmt.Errorf("balance %d: %w", i, err))
		}
	}

	labels := make(map[string]bool, len(g.Pools))
	for i, p := range g.Pools {
		if p.Label == "" {
			errs = append(errs, fmt.Errorf("pool %d: empty label", i))
			continue
		}
		if p.Label == RouterLabel || labels[p.Label] {
			errs = append(errs, fmt.Errorf("pool %d (%s): duplicate label", i, p.Label))
		}
		labels[p.Label] = true
		if err := api.AddrValidate(p.Admin); err != nil {
			errs = append(errs, fmt.Errorf("pool %d (%s): admin: %w", i, p.Label, err))
		}
		for _, info := range p.AssetInfos {
			if err := info.Check(api.AddrValidate); err != nil {
				errs = append(errs, fmt.Errorf("pool %d (%s): %w", i, p.Label, err))
			}
		}
		if asset.IsZero(p.Swap0To1Price) {
			errs = append(errs, fmt.Errorf("pool %d (%s): zero price", i, p.Label))
		}
	}

	if err := api.AddrValidate(g.Router.Admin); err != nil {
		errs = append(errs, fmt.Errorf("router admin: %w", err))
	}
	if g.Router.Owner != "" {
		if err := api.AddrValidate(g.Router.Owner); err != nil {
			errs = append(errs, fmt.Errorf("router owner: %w", err))
		}
	}

	for i, p := range g.Pairs {
		if !labels[p.Pool] {
			errs = append(errs, fmt.Errorf("pair %d: unknown pool %q", i, p.Pool))
		}
	}
	for i, addr := range g.Whitelist {
		if err := api.AddrValidate(addr); err != nil {
			errs = append(errs, fmt.Errorf("whitelist %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

func (g *Genesis) owner() string {
	if g.Router.Owner != "" {
		return g.Router.Owner
	}
	return g.Router.Admin
}

// Apply mints balances, instantiates pools and the router, then registers
// pairs and the whitelist through ordinary router transactions. It does
// nothing when a router instance already exists.
func Apply(ctx context.Context, app *chain.App, g *Genesis, log *logrus.Logger) (*Result, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if g.ChainID != "" && g.ChainID != app.ChainID() {
		return nil, fmt.Errorf("genesis chain id %q does not match %q", g.ChainID, app.ChainID())
	}

	res := &Result{Pools: make(map[string]string, len(g.Pools))}

	routerAddr, found, err := app.LookupLabel(ctx, RouterLabel)
	if err != nil {
		return nil, err
	}
	if found {
		res.Router = routerAddr
		for _, p := range g.Pools {
			if addr, ok, err := app.LookupLabel(ctx, p.Label); err == nil && ok {
				res.Pools[p.Label] = addr
			}
		}
		log.WithField("router", routerAddr).Info("Genesis already applied, skipping")
		return res, nil
	}

	if err := g.Validate(app.API()); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}

	for _, b := range g.Balances {
		if len(b.Coins) == 0 {
			continue
		}
		if _, err := app.Mint(ctx, b.Address, b.Coins); err != nil {
			return nil, fmt.Errorf("mint %s: %w", b.Address, err)
		}
	}

	for _, p := range g.Pools {
		msg, err := json.Marshal(pool.InstantiateMsg{AssetInfos: p.AssetInfos, Swap0To1Price: p.Swap0To1Price})
		if err != nil {
			return nil, err
		}
		tx, err := app.Instantiate(ctx, chain.InstantiateRequest{
			Code:   CodePool,
			Sender: p.Admin,
			Admin:  p.Admin,
			Label:  p.Label,
			Msg:    msg,
		})
		if err != nil {
			return nil, fmt.Errorf("instantiate pool %s: %w", p.Label, err)
		}
		res.Pools[p.Label] = tx.Contract
		log.WithFields(logrus.Fields{
			"label":   p.Label,
			"address": tx.Contract,
			"assets":  p.AssetInfos[0].String() + "/" + p.AssetInfos[1].String(),
		}).Info("Pool instantiated")
	}

	owner := g.owner()
	msg, err := json.Marshal(router.InstantiateMsg{Owner: &owner})
	if err != nil {
		return nil, err
	}
	tx, err := app.Instantiate(ctx, chain.InstantiateRequest{
		Code:   CodeRouter,
		Sender: g.Router.Admin,
		Admin:  g.Router.Admin,
		Label:  RouterLabel,
		Msg:    msg,
	})
	if err != nil {
		return nil, fmt.Errorf("instantiate router: %w", err)
	}
	res.Router = tx.Contract

	for _, p := range g.Pairs {
		cfg := poolConfig(g, p.Pool)
		if err := execute(ctx, app, owner, res.Router, router.ExecuteMsg{
			UpdatePairConfig: &router.UpdatePairConfigMsg{
				AssetInfos:  cfg.AssetInfos[:],
				PairAddress: res.Pools[p.Pool],
				MaxSpread:   p.MaxSpread,
				To:          p.To,
			},
		}); err != nil {
			return nil, fmt.Errorf("register pair %s: %w", p.Pool, err)
		}
	}

	for _, addr := range g.Whitelist {
		if err := execute(ctx, app, owner, res.Router, router.ExecuteMsg{
			SetWhitelist: &router.SetWhitelistMsg{Caller: addr, IsWhitelist: true},
		}); err != nil {
			return nil, fmt.Errorf("whitelist %s: %w", addr, err)
		}
	}

	res.Applied = true
	log.WithFields(logrus.Fields{
		"router":    res.Router,
		"owner":     owner,
		"pools":     len(res.Pools),
		"pairs":     len(g.Pairs),
		"whitelist": len(g.Whitelist),
	}).Info("Genesis applied")
	return res, nil
}

func poolConfig(g *Genesis, label string) Pool {
	for _, p := range g.Pools {
		if p.Label == label {
			return p
		}
	}
	return Pool{}
}

func execute(ctx context.Context, app *chain.App, sender, contract string, msg router.ExecuteMsg) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = app.Execute(ctx, sender, contract, raw, nil)
	return err
}
