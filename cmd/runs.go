package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khrees2412/jobhunter/internal/app"
	"github.com/khrees2412/jobhunter/internal/poller"
	"github.com/khrees2412/jobhunter/internal/ui"
	"github.com/khrees2412/jobhunter/pkg/models"
)

var runsCmd = &cobra.Command{
	Use:     "runs",
	Aliases: []string{"agent"},
	Short:   "Control the scanning agent",
}

var runStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the agent state and scan schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		status, err := a.Client.RunStatus(ctx)
		if err != nil {
			return err
		}
		next, err := a.Client.NextScan(ctx)
		if err != nil {
			return err
		}
		last, err := a.Client.LastScan(ctx)
		if err != nil {
			return err
		}

		now := a.Now()
		cmd.Printf("%s %s\n", ui.Label("Agent:"), ui.AgentBadge(status.Status))
		cmd.Printf("%s %s\n", ui.Label("Next scan:"), ui.Until(next.NextScan, now))
		cmd.Printf("%s %s (%d jobs)\n", ui.Label("Last scan:"), last.LastScan.Relative(now), last.JobsScanned)
		return nil
	},
}

var startRunCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an agent run now",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		started, err := a.Client.StartRun(cmd.Context(), userID)
		if err != nil {
			return err
		}
		cmd.Println(ui.Success("Agent started"))
		if started.RunID != "" {
			cmd.Printf("%s %s\n", ui.Label("Run:"), started.RunID)
		}
		return nil
	},
}

var stopRunCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		status, err := a.Client.StopRun(cmd.Context(), userID)
		if err != nil {
			return err
		}
		cmd.Printf("%s %s\n", ui.Label("Agent:"), ui.AgentBadge(status.Status))
		return nil
	},
}

var autoScanCmd = &cobra.Command{
	Use:       "auto-scan <on|off>",
	Short:     "Turn scheduled scans on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var enabled bool
		switch strings.ToLower(args[0]) {
		case "on", "true", "yes":
			enabled = true
		case "off", "false", "no":
		default:
			return invalidArg("auto-scan takes on or off, got %q", args[0])
		}

		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		result, err := a.Client.SetAutoScan(cmd.Context(), userID, enabled)
		if err != nil {
			return err
		}
		// refresh the stored profile so the cached preferences match
		if _, _, err := a.LoadProfile(cmd.Context(), userID); err != nil {
			a.Logger.Warn("failed to refresh profile after auto-scan change", zap.Error(err))
		}

		state := "off"
		if result.Enabled {
			state = "on"
		}
		cmd.Println(ui.Success("Auto-scan " + state))
		return nil
	},
}

var nextScanCmd = &cobra.Command{
	Use:   "next",
	Short: "Show when the next scheduled scan runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		next, err := a.Client.NextScan(cmd.Context())
		if err != nil {
			return err
		}
		line := ui.Until(next.NextScan, a.Now())
		if !next.NextScan.IsZero() {
			line += ui.Muted(" (" + next.NextScan.Local().Format("Mon 15:04") + ")")
		}
		cmd.Printf("%s %s\n", ui.Label("Next scan:"), line)
		return nil
	},
}

var lastScanCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the last completed scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		last, err := a.Client.LastScan(cmd.Context())
		if err != nil {
			return err
		}
		if last.LastScan.IsZero() {
			cmd.Println(ui.Muted("No scan has completed yet."))
			return nil
		}
		cmd.Printf("%s %s, %d jobs scanned\n", ui.Label("Last scan:"), last.LastScan.Relative(a.Now()), last.JobsScanned)
		return nil
	},
}

var runTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the steps of the current run",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := a.Client.RunTimeline(cmd.Context(), userID, limit)
		if err != nil {
			return err
		}
		cmd.Println(ui.RenderTimeline(entries, a.Now()))
		return nil
	},
}

var watchRunsCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow agent status and run steps until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		duration, _ := cmd.Flags().GetDuration("duration")

		ctx := cmd.Context()
		if duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, duration)
			defer cancel()
		}

		w := &watcher{app: a, userID: userID, out: cmd.OutOrStdout(), seen: map[string]bool{}}
		p := poller.New(a.Logger)
		if err := p.Every("agent-status", a.Config.StatusPollInterval, w.pollStatus); err != nil {
			return err
		}
		if err := p.Every("run-timeline", a.Config.TimelinePollInterval, w.pollTimeline); err != nil {
			return err
		}

		cmd.Println(ui.Muted("Watching the agent; press Ctrl+C to stop."))
		p.Start(ctx)
		<-ctx.Done()
		p.Stop()
		return nil
	},
}

// watcher prints agent status changes and timeline steps it has not shown yet
type watcher struct {
	app    *app.App
	userID string
	out    io.Writer

	mu     sync.Mutex
	status models.AgentStatus
	seen   map[string]bool
}

func (w *watcher) pollStatus(ctx context.Context) error {
	status, err := w.app.Client.RunStatus(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if status.Status != w.status {
		w.status = status.Status
		fmt.Fprintf(w.out, "%s %s\n", ui.Label("Agent:"), ui.AgentBadge(status.Status))
	}
	return nil
}

func (w *watcher) pollTimeline(ctx context.Context) error {
	entries, err := w.app.Client.RunTimeline(ctx, w.userID, 0)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.app.Now()
	// entries arrive newest first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		key := e.ID
		if key == "" {
			key = e.Step + "@" + e.Timestamp.Format(time.RFC3339Nano)
		}
		if w.seen[key] {
			continue
		}
		w.seen[key] = true
		fmt.Fprintln(w.out, ui.RenderTimeline([]models.TimelineEntry{e}, now))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runStatusCmd, startRunCmd, stopRunCmd, autoScanCmd,
		nextScanCmd, lastScanCmd, runTimelineCmd, watchRunsCmd)

	runTimelineCmd.Flags().Int("limit", 0, "Maximum number of steps")
	watchRunsCmd.Flags().Duration("duration", 0, "Stop watching after this long (default: until interrupted)")
}
