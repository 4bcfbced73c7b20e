package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khrees2412/jobhunter/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show statistics, agent state and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}

		stats, err := a.Client.DashboardStats(ctx, userID)
		if err != nil {
			return err
		}
		d := ui.Dashboard{Stats: stats}

		// the agent panel is optional; a failure there should not hide the stats
		if d.Status, err = a.Client.RunStatus(ctx); err != nil {
			a.Logger.Warn("agent status unavailable", zap.Error(err))
		}
		if d.Next, err = a.Client.NextScan(ctx); err != nil {
			a.Logger.Warn("next scan unavailable", zap.Error(err))
		}
		if d.Last, err = a.Client.LastScan(ctx); err != nil {
			a.Logger.Warn("last scan unavailable", zap.Error(err))
		}

		cmd.Println(ui.RenderDashboard(d, a.Now()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
