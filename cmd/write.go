package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bidcli/internal/config"
	"github.com/Mohsinsiddi/bidcli/internal/session"
	"github.com/Mohsinsiddi/bidcli/internal/ui"
)

var (
	addDescription string
	bidName        string
	writeNoWait    bool
)

var addCmd = &cobra.Command{
	Use:   "add <name> <starting-price-eth>",
	Short: "List a new item for auction",
	Args:  cobra.ExactArgs(2),
	Example: `  bidcli add "Vintage Lamp" 0.5 --desc "Brass, 1920s"
  bidcli add "Poster" 0.01 --no-wait`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, appOptions{}, func(a *app) error {
			it, st, err := a.ctl.AddItem(ctx, args[0], addDescription, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, ui.Info(fmt.Sprintf("Item %q listed as #%d (pending)", it.Name, it.ID)))
			return settle(ctx, st, "Item confirmed on chain")
		})
	},
}

var bidCmd = &cobra.Command{
	Use:   "bid <item-id> <amount-eth>",
	Short: "Bid on an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return withApp(ctx, appOptions{}, func(a *app) error {
			name := bidName
			if name == "" {
				if w := a.wallets.Default(); w != nil {
					name = w.Name
				}
			}
			b, st, err := a.ctl.PlaceBid(ctx, id, name, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, ui.Info(fmt.Sprintf("Bid of %s ETH on #%d submitted as %q", b.AmountEther, id, b.BidderName)))
			return settle(ctx, st, "Bid confirmed on chain")
		})
	},
}

var endCmd = &cobra.Command{
	Use:   "end <item-id>",
	Short: "End the auction for an item (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return withApp(ctx, appOptions{}, func(a *app) error {
			if !a.ctl.State().IsOwner {
				fmt.Fprintln(stderr, ui.Warn("Only the contract owner can end auctions; the transaction will likely revert."))
			}
			sp := ui.NewSpinnerTo(stderr, fmt.Sprintf("Ending auction #%d…", id))
			sp.Start()
			waitCtx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
			receipt, err := a.ctl.EndAuction(waitCtx, id)
			cancel()
			sp.Stop()
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Auction #%d ended", id)
			if receipt != nil {
				msg += fmt.Sprintf(" in block #%s (%s)", receipt.BlockNumber, ui.TruncateAddr(receipt.TxHash.Hex()))
			}
			fmt.Fprintln(stdout, ui.Success(msg))
			return nil
		})
	},
}

// settle waits for a write unless --no-wait was given. A nil settlement
// (demo mode) is reported as done straight away.
func settle(ctx context.Context, st *session.Settlement, done string) error {
	if st == nil {
		fmt.Fprintln(stdout, ui.Success(done+" (demo)"))
		return nil
	}
	if writeNoWait {
		fmt.Fprintln(stdout, ui.Meta("tx "+st.Hash().Hex()))
		fmt.Fprintln(stdout, ui.Hint("Check progress with: bidcli items"))
		return nil
	}

	sp := ui.NewSpinnerTo(stderr, "Waiting for "+ui.TruncateAddr(st.Hash().Hex())+"…")
	sp.Start()
	waitCtx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
	defer cancel()
	err := st.Wait(waitCtx)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("transaction %s: %w", st.Hash().Hex(), err)
	}
	fmt.Fprintln(stdout, ui.Success(done))
	return nil
}

func init() {
	addCmd.Flags().StringVar(&addDescription, "desc", "", "item description")
	bidCmd.Flags().StringVar(&bidName, "name", "", "bidder display name (default: wallet name)")
	for _, c := range []*cobra.Command{addCmd, bidCmd} {
		c.Flags().BoolVar(&writeNoWait, "no-wait", false, "return once the transaction is sent")
	}
}
