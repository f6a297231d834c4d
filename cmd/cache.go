package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bidcli/internal/cache"
	"github.com/Mohsinsiddi/bidcli/internal/ui"
)

var cacheAPI string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the read cache of a running `bidcli serve`",
	Long: `The cache lives in the process that serves the session. These
commands talk to a running ` + "`bidcli serve`" + ` (see --api).`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		var st cache.Stats
		if err := callAPI(cmd.Context(), http.MethodGet, "/api/cache", &st); err != nil {
			return err
		}
		if st.Size == 0 {
			fmt.Fprintln(stdout, ui.Info("Cache is empty."))
			return nil
		}
		t := ui.NewTable([]ui.Column{{Title: "KEY", Width: 40}})
		for _, k := range st.Keys {
			t.AddRow(ui.Row{k})
		}
		fmt.Fprintln(stdout, t.Render())
		fmt.Fprintln(stdout, ui.Meta(fmt.Sprintf("%d entr(ies)", st.Size)))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached read",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := callAPI(cmd.Context(), http.MethodDelete, "/api/cache", nil); err != nil {
			return err
		}
		fmt.Fprintln(stdout, ui.Success("Cache cleared."))
		return nil
	},
}

func apiBase() string {
	if cacheAPI != "" {
		return cacheAPI
	}
	return "http://" + cfg.ListenAddr
}

func callAPI(ctx context.Context, method, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, apiBase()+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("is `bidcli serve` running? %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheAPI, "api", "", "bridge URL (default: http://<listen_addr>)")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}
