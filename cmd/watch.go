package cmd

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bidcli/internal/session"
	"github.com/Mohsinsiddi/bidcli/internal/ui"
)

var watchEvery time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live auction board",
	Long: `Show all auction items and refresh them on an interval. Reads go
through the session cache, and the background sync keeps it fresh.

Keyboard controls:
  ↑↓ / j k   navigate rows
  r           refresh now
  q           quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, appOptions{}, func(a *app) error {
			every := watchEvery
			if every <= 0 {
				every = cfg.WatchEvery()
			}
			if a.provider != nil {
				a.provider.Watch(every)
				a.ctl.Listen(ctx, func(chainID int64) {
					reloadSession(ctx, a.ctl, chainID)
				})
			}

			board := ui.NewBoard(func() ui.BoardSnapshot {
				return boardSnapshot(ctx, a.ctl)
			}, every)
			_, err := tea.NewProgram(board, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout)).Run()
			return err
		})
	},
}

func boardSnapshot(ctx context.Context, ctl *session.Controller) ui.BoardSnapshot {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	items := ctl.GetAllItems(ctx)
	st := ctl.State()
	snap := ui.BoardSnapshot{
		Items:    items,
		Mode:     st.Mode.String(),
		Account:  st.Account,
		Pending:  st.PendingItems + st.PendingBids,
		LastSync: st.LastSync,
		Err:      st.Error,
	}
	if st.Network != nil {
		snap.Network = st.Network.Name
	}
	return snap
}

func init() {
	watchCmd.Flags().DurationVar(&watchEvery, "every", 0, "refresh interval (default from config)")
}
