package cmd

import (
	"github.com/spf13/cobra"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/ui"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Agent activity and scan history",
}

var agentTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show recent agent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := a.Client.AgentTimeline(cmd.Context(), userID, limit)
		if err != nil {
			return err
		}
		cmd.Println(ui.Title("Agent Activity"))
		cmd.Println(ui.RenderTimeline(entries, a.Now()))
		return nil
	},
}

var scanHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past scans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := a.Client.ScanHistory(cmd.Context(), userID, limit)
		if err != nil {
			return err
		}
		cmd.Println(ui.Title("Scan History"))
		cmd.Println(ui.RenderHistory(runs, a.Now()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.AddCommand(agentTimelineCmd, scanHistoryCmd)

	agentTimelineCmd.Flags().Int("limit", api.DefaultTimelineLimit, "Maximum number of entries")
	scanHistoryCmd.Flags().Int("limit", api.DefaultHistoryLimit, "Maximum number of scans")
}
