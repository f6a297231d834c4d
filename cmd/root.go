package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/config"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/bidcli/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	log     *zap.Logger
	verbose bool
	demo    bool
	rpcURL  string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "bidcli",
	Short: "On-chain auctions from your terminal",
	Long: `bidcli drives an Auction contract on a local Hardhat node.

  It finds the latest deployment, connects a wallet from the OS keychain,
  lists items with a short-lived cache, and shows your own bids and items
  immediately while their transactions confirm.

Without a reachable contract bidcli falls back to a built-in demo
dataset. Force it with --demo.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		// A missing .env is fine.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if demo {
			cfg.Demo = true
		}
		if rpcURL != "" {
			cfg.RPCURL = rpcURL
		}

		log, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		zap.ReplaceGlobals(log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// newLogger returns a development logger when verbose, otherwise a
// production logger that only reports warnings and errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	zc.Encoding = "console"
	zc.DisableStacktrace = true
	return zc.Build()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, explain(err))
		os.Exit(1)
	}
}

func init() {
	// BIDCLI_CONFIG_DIR overrides the --config default.
	if envDir := os.Getenv("BIDCLI_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.bidcli)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&demo, "demo", false, "use the built-in demo dataset")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "", "node RPC URL (default from config)")

	rootCmd.AddCommand(
		connectCmd,
		statusCmd,
		itemsCmd,
		itemCmd,
		addCmd,
		bidCmd,
		endCmd,
		deploymentCmd,
		cacheCmd,
		walletCmd,
		serveCmd,
		watchCmd,
	)
}
