package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/app"
	"github.com/khrees2412/jobhunter/internal/board"
	"github.com/khrees2412/jobhunter/internal/capture"
	"github.com/khrees2412/jobhunter/internal/export"
	"github.com/khrees2412/jobhunter/internal/ui"
	"github.com/khrees2412/jobhunter/pkg/models"
)

var jobsCmd = &cobra.Command{
	Use:     "jobs",
	Aliases: []string{"job"},
	Short:   "Browse and act on scanned jobs",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	Example: `  jobhunter jobs list
  jobhunter jobs list --status matched --min-score 0.8 --sort-by match_score --sort-order desc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		filter, err := jobFilterFromFlags(cmd, a)
		if err != nil {
			return err
		}

		total, savedAt, err := a.LoadJobs(cmd.Context(), userID, filter)
		if err != nil {
			return err
		}
		printStale(cmd, a, savedAt)
		cmd.Println(ui.RenderJobList(a.Jobs.Jobs(), total))
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show one job with its match reasoning and outreach",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		job, err := findJob(cmd, a, userID, args[0])
		if err != nil {
			return err
		}
		cmd.Println(ui.RenderJobDetail(*job, a.Now()))
		return nil
	},
}

var scanJobsCmd = &cobra.Command{
	Use:   "scan",
	Short: "Ask the backend to scan job boards now",
	Example: `  jobhunter jobs scan
  jobhunter jobs scan --source linkedin --source indeed --keyword golang --threshold 0.8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}

		sources, _ := cmd.Flags().GetStringSlice("source")
		keywords, _ := cmd.Flags().GetStringSlice("keyword")
		location, _ := cmd.Flags().GetString("location")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		if threshold < 0 || threshold > 1 {
			return invalidArg("--threshold must be between 0 and 1")
		}

		started, err := a.Client.TriggerScan(cmd.Context(), models.ScanRequest{
			UserID:         userID,
			Sources:        sources,
			MatchThreshold: threshold,
			Keywords:       keywords,
			Location:       location,
		})
		if err != nil {
			return err
		}

		cmd.Println(ui.Success(started.Message))
		if started.ScanRunID != "" {
			cmd.Printf("%s %s\n", ui.Label("Scan run:"), started.ScanRunID)
			cmd.Println(ui.Muted("Follow it with 'jobhunter runs watch' or list its jobs with --scan-run " + started.ScanRunID))
		}
		return nil
	},
}

var outreachJobCmd = &cobra.Command{
	Use:   "outreach <job-id>",
	Short: "Generate outreach messages and move the job to Drafts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mover, err := singleJobMover(cmd, args[0])
		if err != nil {
			return err
		}
		content, err := mover.GenerateOutreach(cmd.Context(), args[0])
		if !content.IsEmpty() {
			cmd.Println(ui.RenderOutreach(content))
		}
		return err
	},
}

var moveJobCmd = &cobra.Command{
	Use:   "move <job-id> <column>",
	Short: "Move a job to a board column",
	Long: `Move a job to one of the board columns: pending (Pending Review), ready
(Ready for Outreach), drafts, applied or rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := board.ParseColumn(args[1])
		if err != nil {
			return fmt.Errorf("%w: %v", app.ErrInvalidArgument, err)
		}
		mover, err := singleJobMover(cmd, args[0])
		if err != nil {
			return err
		}
		if err := mover.Move(cmd.Context(), args[0], col); err != nil {
			return err
		}
		cmd.Println(ui.Success(fmt.Sprintf("Moved %s to %s", args[0], col.Title())))
		return nil
	},
}

var applyJobCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Mark a job as applied",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mover, err := singleJobMover(cmd, args[0])
		if err != nil {
			return err
		}
		if err := mover.MarkApplied(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Println(ui.Success("Marked " + args[0] + " as applied"))
		return nil
	},
}

var rejectJobCmd = &cobra.Command{
	Use:   "reject <job-id>",
	Short: "Reject a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mover, err := singleJobMover(cmd, args[0])
		if err != nil {
			return err
		}
		if err := mover.Reject(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Println(ui.Success("Rejected " + args[0]))
		return nil
	},
}

var exportJobsCmd = &cobra.Command{
	Use:   "export",
	Short: "Export jobs and a board summary to an Excel workbook",
	Example: `  jobhunter jobs export
  jobhunter jobs export --out applied.xlsx --status applied`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		filter, err := jobFilterFromFlags(cmd, a)
		if err != nil {
			return err
		}

		_, savedAt, err := a.LoadJobs(cmd.Context(), userID, filter)
		if err != nil {
			return err
		}
		printStale(cmd, a, savedAt)

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = export.FileName(a.Now())
		}
		jobs := a.Jobs.Jobs()
		if err := export.WriteFile(out, jobs); err != nil {
			return err
		}
		cmd.Println(ui.Success(fmt.Sprintf("Exported %d jobs to %s", len(jobs), out)))
		return nil
	},
}

var captureJobCmd = &cobra.Command{
	Use:   "capture <job-id>",
	Short: "Save a screenshot and text copy of the job listing",
	Long: `Open the job's listing in headless Chrome and save a full-page PNG and the
page text under capture_dir, so postings can be read after they expire.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		job, err := findJob(cmd, a, userID, args[0])
		if err != nil {
			return err
		}

		progress := capture.NewProgress(cmd.OutOrStdout())
		result, err := capture.New(a.Config.CaptureDir, a.Logger).Capture(cmd.Context(), *job, progress)
		if err != nil {
			return err
		}
		cmd.Printf("%s %s\n", ui.Label("Screenshot:"), result.Screenshot)
		cmd.Printf("%s %s\n", ui.Label("Text:"), result.Text)
		return nil
	},
}

// findJob fetches one job, from the snapshot when offline
func findJob(cmd *cobra.Command, a *app.App, userID, jobID string) (*models.Job, error) {
	if a.Offline {
		_, savedAt, err := a.LoadJobs(cmd.Context(), userID, api.JobFilter{})
		if err != nil {
			return nil, err
		}
		printStale(cmd, a, savedAt)
		job, ok := a.Jobs.Get(jobID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", board.ErrUnknownJob, jobID)
		}
		return &job, nil
	}
	return a.Client.GetJob(cmd.Context(), jobID)
}

// singleJobMover loads one job into the store and returns a mover for it.
// Failed changes reload the whole list as usual.
func singleJobMover(cmd *cobra.Command, jobID string) (*board.Mover, error) {
	a, userID, err := session(cmd)
	if err != nil {
		return nil, err
	}
	if a.Offline {
		return nil, invalidArg("changing a job needs the backend; drop --offline")
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, invalidArg("job id is required")
	}

	job, err := a.Client.GetJob(cmd.Context(), jobID)
	if err != nil {
		return nil, err
	}
	a.Jobs.Add(*job)

	mover := board.NewMover(a.Client, a.Jobs, userID, a.Logger,
		board.WithFilter(api.JobFilter{Limit: a.Config.JobsLimit}))
	return mover, nil
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(listJobsCmd, showJobCmd, scanJobsCmd, outreachJobCmd,
		moveJobCmd, applyJobCmd, rejectJobCmd, exportJobsCmd, captureJobCmd)

	addJobFilterFlags(listJobsCmd)
	addJobFilterFlags(exportJobsCmd)
	exportJobsCmd.Flags().StringP("out", "o", "", "Output file (default jobhunter_jobs_<date>.xlsx)")

	scanJobsCmd.Flags().StringSlice("source", nil, "Job board to scan; repeatable (default: all)")
	scanJobsCmd.Flags().StringSlice("keyword", nil, "Search keyword; repeatable (default: profile keywords)")
	scanJobsCmd.Flags().String("location", "", "Location to search (default: profile preference)")
	scanJobsCmd.Flags().Float64("threshold", 0.7, "Minimum match score for a job to be matched")
}
