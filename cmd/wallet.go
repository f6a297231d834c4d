package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bidcli/internal/ui"
	"github.com/Mohsinsiddi/bidcli/internal/wallet"
)

var walletKeyFlag string

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Import a private key into the OS keychain",
	Long: `Import a private key for signing. The key is stored in the OS keychain
and never written to the wallet list.

The key is read from --key, then BIDCLI_KEY, then standard input. For a
Hardhat node, any of the accounts printed by ` + "`npx hardhat node`" + ` works.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		key, err := readKey()
		if err != nil {
			return err
		}

		mgr := newWalletManager()
		w, err := mgr.Import(name, key)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, ui.Success(fmt.Sprintf("Signing wallet %q imported: %s", name, ui.Addr(w.Address))))
		if !w.IsDefault {
			fmt.Fprintln(stdout, ui.Hint(fmt.Sprintf("Set as default with: bidcli wallet use %s", name)))
		}
		return nil
	},
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> <address>",
	Short: "Add a watch-only wallet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newWalletManager().Add(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(stdout, ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", args[0], ui.Addr(args[1]))))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		wallets := newWalletManager().List()
		if len(wallets) == 0 {
			fmt.Fprintln(stdout, ui.Info("No wallets configured yet."))
			fmt.Fprintln(stdout, ui.Hint("Import one with: bidcli wallet import dev --key 0x..."))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.IsDefault {
				def = "✓"
			}
			t.AddRow(ui.Row{w.Name, w.Address, w.Type, def})
		}
		fmt.Fprintln(stdout, t.Render())
		fmt.Fprintln(stdout, ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := newWalletManager().SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintln(stdout, ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !ui.NewPrompter(stdin, stdout).ConfirmDanger(fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Fprintln(stdout, ui.Meta("Cancelled."))
			return nil
		}
		if err := newWalletManager().Remove(name); err != nil {
			return err
		}
		fmt.Fprintln(stdout, ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

func readKey() (string, error) {
	if walletKeyFlag != "" {
		return walletKeyFlag, nil
	}
	if k := os.Getenv("BIDCLI_KEY"); k != "" {
		return k, nil
	}
	fmt.Fprint(stderr, "Private key: ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("reading key: %w", err)
		}
		return "", wallet.ErrInvalidKey
	}
	return line, nil
}

func init() {
	walletImportCmd.Flags().StringVar(&walletKeyFlag, "key", "", "hex private key")
	walletCmd.AddCommand(walletImportCmd, walletAddCmd, walletListCmd, walletUseCmd, walletRemoveCmd)
}
