package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
	"github.com/Mohsinsiddi/bidcli/internal/session"
	"github.com/Mohsinsiddi/bidcli/internal/ui"
)

var (
	itemsActive bool
	itemsJSON   bool
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List auction items",
	Long: `List every auction item. Items and bids you submitted that are still
confirming are shown in the pending style.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), appOptions{}, func(a *app) error {
			items := a.ctl.GetAllItems(cmd.Context())
			if itemsActive {
				items = activeOnly(items)
			}
			if itemsJSON {
				return writeJSON(items)
			}
			if len(items) == 0 {
				fmt.Fprintln(stdout, ui.Info("No auction items yet."))
				fmt.Fprintln(stdout, ui.Hint("Add one with: bidcli add \"Vintage Lamp\" 0.5"))
				return nil
			}
			fmt.Fprintln(stdout, ui.ItemTable(items).Render())
			fmt.Fprintln(stdout, ui.Meta(fmt.Sprintf("%d item(s)", len(items))))
			return nil
		})
	},
}

var itemCmd = &cobra.Command{
	Use:   "item <id>",
	Short: "Show one auction item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), appOptions{}, func(a *app) error {
			it, ok := a.ctl.GetItem(cmd.Context(), id)
			if !ok {
				return fmt.Errorf("%w: %d", session.ErrItemNotFound, id)
			}
			if itemsJSON {
				return writeJSON(it)
			}
			fmt.Fprintln(stdout, renderItem(it))
			return nil
		})
	},
}

func renderItem(it auction.Item) string {
	bidder := it.HighestBidder
	if it.BidderName != "" {
		bidder = fmt.Sprintf("%s (%s)", it.BidderName, ui.TruncateAddr(it.HighestBidder))
	}
	if bidder == "" {
		bidder = "-"
	}
	return ui.KeyValueBlock(fmt.Sprintf("Item #%d", it.ID), [][2]string{
		{"Name", it.Name},
		{"Description", it.Description},
		{"Starting price", auction.FormatEther(it.StartingPrice) + " ETH"},
		{"Highest bid", auction.FormatEther(it.HighestBid) + " ETH"},
		{"Highest bidder", bidder},
		{"Status", ui.ItemStatus(it)},
	})
}

func activeOnly(items []auction.Item) []auction.Item {
	out := make([]auction.Item, 0, len(items))
	for _, it := range items {
		if it.Active {
			out = append(out, it)
		}
	}
	return out
}

func parseItemID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	itemsCmd.Flags().BoolVar(&itemsActive, "active", false, "only items still open for bids")
	itemsCmd.Flags().BoolVar(&itemsJSON, "json", false, "print JSON")
	itemCmd.Flags().BoolVar(&itemsJSON, "json", false, "print JSON")
}
