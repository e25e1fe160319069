package main

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/pair"
	"github.com/KryptoniteDAO/swap-extention-old/internal/router"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wallet"
)

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap <coin> <target-denom>",
		Short: "Swap a native coin through the router",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := routerAddr(cmd)
			if err != nil {
				return err
			}
			coin, err := asset.ParseCoin(args[0])
			if err != nil {
				return err
			}
			w, err := signer(cmd)
			if err != nil {
				return err
			}
			to, _ := cmd.Flags().GetString("to-address")

			msg := router.SwapDenomMsg{FromCoin: coin, TargetDenom: args[1]}
			if to != "" {
				msg.ToAddress = &to
			}
			res, err := newClient(cmd).Execute(cmd.Context(), r, w, router.ExecuteMsg{SwapDenom: &msg}, asset.Coins{coin})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().String("to-address", "", "deliver the output to this account")
	return cmd
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote <pair> <amount><denom>",
		Short: "Simulate a swap; with --reverse the coin is the desired output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := routerAddr(cmd)
			if err != nil {
				return err
			}
			infos, err := parsePair(args[0])
			if err != nil {
				return err
			}
			coin, err := asset.ParseCoin(args[1])
			if err != nil {
				return err
			}
			a := asset.Asset{Info: asset.Native(coin.Denom), Amount: coin.Amount}

			reverse, _ := cmd.Flags().GetBool("reverse")
			c := newClient(cmd)
			if reverse {
				var out pair.ReverseSimulationResponse
				q := router.QueryMsg{QueryReverseSimulation: &router.ReverseSimulationQuery{AssetInfos: infos, AskAsset: a}}
				if err := c.Query(cmd.Context(), r, q, &out); err != nil {
					return err
				}
				return printJSON(cmd, out)
			}
			var out pair.SimulationResponse
			q := router.QueryMsg{QuerySimulation: &router.SimulationQuery{AssetInfos: infos, OfferAsset: a}}
			if err := c.Query(cmd.Context(), r, q, &out); err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().Bool("reverse", false, "quote the offer needed for the given output")
	return cmd
}

func newPairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Inspect and manage pair registrations",
	}

	get := &cobra.Command{
		Use:   "get <pair>",
		Short: "Show the pair config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := routerAddr(cmd)
			if err != nil {
				return err
			}
			infos, err := parsePair(args[0])
			if err != nil {
				return err
			}
			var out router.PairConfigResponse
			if err := newClient(cmd).Query(cmd.Context(), r, router.QueryMsg{QueryPairConfig: &router.AssetInfosQuery{AssetInfos: infos}}, &out); err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}

	set := &cobra.Command{
		Use:   "set <pair> <pool-address>",
		Short: "Register or replace a pair (owner only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := parsePair(args[0])
			if err != nil {
				return err
			}
			msg := router.UpdatePairConfigMsg{AssetInfos: infos, PairAddress: args[1]}
			if s, _ := cmd.Flags().GetString("max-spread"); s != "" {
				d, err := math.LegacyNewDecFromStr(s)
				if err != nil {
					return fmt.Errorf("invalid max spread: %w", err)
				}
				msg.MaxSpread = &d
			}
			if to, _ := cmd.Flags().GetString("to"); to != "" {
				msg.To = &to
			}
			return ownerExec(cmd, router.ExecuteMsg{UpdatePairConfig: &msg})
		},
	}
	set.Flags().String("max-spread", "", "maximum spread, e.g. 0.01")
	set.Flags().String("to", "", "send every swap output of this pair here")

	status := &cobra.Command{
		Use:   "status <pair> <enabled|disabled>",
		Short: "Enable or disable a pair (owner only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := parsePair(args[0])
			if err != nil {
				return err
			}
			var disabled bool
			switch args[1] {
			case "enabled":
			case "disabled":
				disabled = true
			default:
				return fmt.Errorf("status must be enabled or disabled, got %q", args[1])
			}
			return ownerExec(cmd, router.ExecuteMsg{UpdatePairStatus: &router.UpdatePairStatusMsg{AssetInfos: infos, IsDisabled: disabled}})
		},
	}

	spread := &cobra.Command{
		Use:   "spread <pair> <max-spread>",
		Short: "Change a pair's max spread (owner only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := parsePair(args[0])
			if err != nil {
				return err
			}
			d, err := math.LegacyNewDecFromStr(args[1])
			if err != nil {
				return fmt.Errorf("invalid max spread: %w", err)
			}
			return ownerExec(cmd, router.ExecuteMsg{UpdatePairMaxSpread: &router.UpdatePairMaxSpreadMsg{AssetInfos: infos, MaxSpread: &d}})
		},
	}

	cmd.AddCommand(get, set, status, spread)
	return cmd
}

func newLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger <pair>",
		Short: "Show cumulative swap totals for a pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := routerAddr(cmd)
			if err != nil {
				return err
			}
			infos, err := parsePair(args[0])
			if err != nil {
				return err
			}
			var out router.SwapInfoResponse
			if err := newClient(cmd).Query(cmd.Context(), r, router.QueryMsg{QuerySwapInfo: &router.AssetInfosQuery{AssetInfos: infos}}, &out); err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func newWhitelistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Query or change who may swap",
	}

	get := &cobra.Command{
		Use:   "get <address>",
		Short: "Report whether an account may swap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := routerAddr(cmd)
			if err != nil {
				return err
			}
			var allowed bool
			q := router.QueryMsg{QueryIsSwapWhitelist: &router.IsSwapWhitelistQuery{Caller: args[0]}}
			if err := newClient(cmd).Query(cmd.Context(), r, q, &allowed); err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"caller": args[0], "is_whitelist": allowed})
		},
	}

	set := &cobra.Command{
		Use:   "set <address> <true|false>",
		Short: "Grant or revoke swap access (owner only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			allowed, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid flag value %q: %w", args[1], err)
			}
			return ownerExec(cmd, router.ExecuteMsg{SetWhitelist: &router.SetWhitelistMsg{Caller: args[0], IsWhitelist: allowed}})
		},
	}
	cmd.AddCommand(get, set)
	return cmd
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address> <denom>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coin, err := newClient(cmd).Balance(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), coin.String())
			return err
		},
	}
}

func newMintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mint <address> <coins>",
		Short: "Credit coins to an account (gateway admin key required)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coins, err := asset.ParseCoins(args[1])
			if err != nil {
				return err
			}
			res, err := newClient(cmd).Mint(cmd.Context(), args[0], coins)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func newRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently committed swaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			swaps, err := newClient(cmd).RecentSwaps(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, swaps)
		},
	}
	cmd.Flags().Int("limit", 20, "number of swaps, 1 to 200")
	return cmd
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Create or inspect signing keys",
	}

	create := &cobra.Command{
		Use:   "new",
		Short: "Generate a keypair and print its address and private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := wallet.Generate()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"address": w.Address(), "private_key": w.PrivateKey()})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the address of --key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := signer(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), w.Address())
			return err
		},
	}

	cmd.AddCommand(create, show)
	return cmd
}

// ownerExec signs msg with --key, which must belong to the router owner
func ownerExec(cmd *cobra.Command, msg router.ExecuteMsg) error {
	r, err := routerAddr(cmd)
	if err != nil {
		return err
	}
	w, err := signer(cmd)
	if err != nil {
		return err
	}
	res, err := newClient(cmd).Execute(cmd.Context(), r, w, msg, nil)
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}
