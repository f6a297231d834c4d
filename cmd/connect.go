package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/chain"
	"github.com/Mohsinsiddi/bidcli/internal/deployment"
	"github.com/Mohsinsiddi/bidcli/internal/session"
	"github.com/Mohsinsiddi/bidcli/internal/ui"
)

var connectYes bool

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the default wallet to the auction contract",
	Long: `Connect the default wallet and bind the latest Auction deployment.

The wallet is asked for access (skip the prompt with --yes), moved to the
Hardhat network if needed, and the contract is probed. When no contract
answers, bidcli switches to demo mode and says why.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, appOptions{approve: !connectYes}, func(a *app) error {
			fmt.Fprintln(stdout, renderState(a.ctl.State()))
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show node, deployment and session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := chain.Ping(ctx, cfg.RPCURL)
		if err != nil {
			log.Debug("ping failed", zap.Error(err))
		}
		fmt.Fprintln(stdout, renderHealth(h))

		return withApp(ctx, appOptions{}, func(a *app) error {
			fmt.Fprintln(stdout, renderState(a.ctl.State()))
			return nil
		})
	},
}

func renderHealth(h chain.Health) string {
	if !h.Healthy {
		return ui.Err(fmt.Sprintf("Node %s unreachable", cfg.RPCURL))
	}
	return ui.Success(fmt.Sprintf("Node %s  chain %d  block #%d  %s",
		h.URL, h.ChainID, h.BlockNumber, h.Latency.Round(time.Millisecond)))
}

func renderState(s session.State) string {
	mode := s.Mode.String()
	if s.Demo {
		mode = ui.StyleWarning.Render("demo")
	}
	pairs := [][2]string{
		{"Status", s.Status.String()},
		{"Mode", mode},
	}
	if s.Account != "" {
		pairs = append(pairs, [2]string{"Account", s.Account})
	}
	if s.Network != nil {
		pairs = append(pairs, [2]string{"Network", fmt.Sprintf("%s (%d)", s.Network.Name, s.Network.ChainID)})
	}
	if s.ContractAddress != "" {
		pairs = append(pairs, [2]string{"Contract", s.ContractAddress})
	}
	if s.Deployment != nil {
		deployed := s.Deployment.DeploymentTime
		if deployment.IsRecent(deployed, deployment.RecentThreshold) {
			deployed += " (recent)"
		}
		if deployed != "" {
			pairs = append(pairs, [2]string{"Deployed", deployed})
		}
	}
	owner := "no"
	if s.IsOwner {
		owner = "yes"
	}
	pairs = append(pairs, [2]string{"Owner", owner})
	if s.PendingItems+s.PendingBids > 0 {
		pairs = append(pairs, [2]string{"Pending", fmt.Sprintf("%d item(s), %d bid(s)", s.PendingItems, s.PendingBids)})
	}

	out := ui.KeyValueBlock("Session", pairs)
	if s.Error != "" {
		out += "\n" + ui.Warn(s.Error)
	}
	return out
}

func init() {
	connectCmd.Flags().BoolVarP(&connectYes, "yes", "y", false, "do not ask before sharing the account")
}
