package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bidcli/internal/deployment"
	"github.com/Mohsinsiddi/bidcli/internal/ui"
)

var deploymentWriteEnv bool

var deploymentCmd = &cobra.Command{
	Use:   "deployment",
	Short: "Inspect and refresh the Auction deployment",
}

var deploymentShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the last known deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, ok := newResolver().Persisted()
		if !ok {
			fmt.Fprintln(stdout, ui.Info("No deployment recorded yet."))
			fmt.Fprintln(stdout, ui.Hint("Deploy the contract, then run: bidcli deployment refresh"))
			return nil
		}
		fmt.Fprintln(stdout, renderDeployment(d))
		return nil
	},
}

var deploymentRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Detect the latest deployment and remember it",
	Long: `Look for a deployment descriptor, in order: the deploy server
(deployment_url), the local descriptor file (deployment_file) and the
generated env config (generated_config). The first one that is valid for
the required chain is persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newResolver()
		d, err := r.Detect(cmd.Context())
		if err != nil {
			return err
		}
		if err := r.Persist(d); err != nil {
			return err
		}
		fmt.Fprintln(stdout, ui.Success("Deployment detected"))
		fmt.Fprintln(stdout, renderDeployment(d))

		if deploymentWriteEnv {
			if err := deployment.WriteEnvConfig(cfg.GeneratedConfig, d); err != nil {
				return fmt.Errorf("writing %s: %w", cfg.GeneratedConfig, err)
			}
			fmt.Fprintln(stdout, ui.Success("Wrote "+cfg.GeneratedConfig))
		}
		return nil
	},
}

func renderDeployment(d *deployment.Descriptor) string {
	deployed := d.DeploymentTime
	if deployed == "" {
		deployed = "-"
	} else if deployment.IsRecent(d.DeploymentTime, deployment.RecentThreshold) {
		deployed += " (recent)"
	}
	return ui.KeyValueBlock("Deployment", [][2]string{
		{"Contract", d.ContractAddress},
		{"Deployer", d.DeployerAddress},
		{"Network", fmt.Sprintf("%s (%d)", d.Network, d.ChainID)},
		{"Block", strconv.FormatUint(d.BlockNumber, 10)},
		{"Deployed", deployed},
		{"Sample items", strconv.Itoa(d.SampleItems)},
	})
}

func init() {
	deploymentRefreshCmd.Flags().BoolVar(&deploymentWriteEnv, "write-env", false, "also write the generated env config")
	deploymentCmd.AddCommand(deploymentShowCmd, deploymentRefreshCmd)
}
