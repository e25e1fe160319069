package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/client"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wallet"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "swapctl",
		Short:        "Swap router command line client",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("node", envOr("ROUTERD_URL", "http://localhost:8080"), "routerd base URL")
	root.PersistentFlags().String("api-key", os.Getenv("API_KEY"), "gateway API key")
	root.PersistentFlags().String("admin-key", os.Getenv("ADMIN_KEY"), "gateway admin key, needed by mint")
	root.PersistentFlags().String("router", os.Getenv("ROUTER_ADDR"), "router contract address")
	root.PersistentFlags().String("key", os.Getenv("WALLET_PRIVATE_KEY"), "base58 private key that signs transactions")

	root.AddCommand(
		newSwapCmd(),
		newQuoteCmd(),
		newPairCmd(),
		newLedgerCmd(),
		newWhitelistCmd(),
		newBalanceCmd(),
		newMintCmd(),
		newRecentCmd(),
		newKeysCmd(),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient(cmd *cobra.Command) *client.Client {
	node, _ := cmd.Flags().GetString("node")
	key, _ := cmd.Flags().GetString("api-key")
	c := client.NewClient(node, key)
	c.AdminKey, _ = cmd.Flags().GetString("admin-key")
	return c
}

// signer loads the wallet that signs executes
func signer(cmd *cobra.Command) (*wallet.Wallet, error) {
	key, _ := cmd.Flags().GetString("key")
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("--key (or WALLET_PRIVATE_KEY) is required")
	}
	return wallet.NewWallet(key)
}

func routerAddr(cmd *cobra.Command) (string, error) {
	addr, _ := cmd.Flags().GetString("router")
	if strings.TrimSpace(addr) == "" {
		return "", fmt.Errorf("--router (or ROUTER_ADDR) is required")
	}
	return addr, nil
}

// parsePair reads "a,b" into the two asset infos of a pair.
func parsePair(s string) ([]asset.Info, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("pair must be two assets separated by a comma, got %q", s)
	}
	return []asset.Info{asset.ParseInfo(parts[0]), asset.ParseInfo(parts[1])}, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
