package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/app"
	"github.com/khrees2412/jobhunter/internal/board"
	"github.com/khrees2412/jobhunter/internal/ui"
	"github.com/khrees2412/jobhunter/pkg/models"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show your jobs as a Kanban board",
	Long: `Show jobs in five columns: Pending Review, Ready for Outreach, Drafts,
Applied and Rejected. With -i the board stays open and accepts commands to move
cards, generate outreach, apply and reject.`,
	Example: `  jobhunter board
  jobhunter board -i
  jobhunter board --source linkedin --min-score 0.7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}

		filter, err := jobFilterFromFlags(cmd, a)
		if err != nil {
			return err
		}
		interactive, _ := cmd.Flags().GetBool("interactive")
		width, _ := cmd.Flags().GetInt("width")

		if !interactive {
			_, savedAt, err := a.LoadJobs(ctx, userID, filter)
			if err != nil {
				return err
			}
			printStale(cmd, a, savedAt)
			cmd.Println(ui.RenderBoard(board.Group(a.Jobs.Jobs()), width))
			return nil
		}

		if a.Offline {
			return invalidArg("the interactive board needs the backend; drop --offline")
		}
		sess := ui.NewSession(cmd.OutOrStdout(), width)
		mover := board.NewMover(a.Client, a.Jobs, userID, a.Logger,
			board.WithFilter(filter),
			board.WithOnChange(sess.OnChange),
		)
		return sess.Run(ctx, cmd.InOrStdin(), mover)
	},
}

func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil {
		return n
	}
	return 0
}

// addJobFilterFlags registers the list filters shared by board and jobs list
func addJobFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "", "Only jobs with this status (new, matched, outreach, draft, applied, rejected)")
	cmd.Flags().String("source", "", "Only jobs from this source")
	cmd.Flags().String("scan-run", "", "Only jobs found by this scan run")
	cmd.Flags().Float64("min-score", 0, "Minimum match score between 0 and 1")
	cmd.Flags().String("sort-by", "", "Sort field, e.g. match_score or posted_at")
	cmd.Flags().String("sort-order", "", "asc or desc")
	cmd.Flags().Int("limit", 0, "Maximum number of jobs (default from config)")
}

func jobFilterFromFlags(cmd *cobra.Command, a *app.App) (api.JobFilter, error) {
	status, _ := cmd.Flags().GetString("status")
	source, _ := cmd.Flags().GetString("source")
	scanRun, _ := cmd.Flags().GetString("scan-run")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	sortBy, _ := cmd.Flags().GetString("sort-by")
	sortOrder, _ := cmd.Flags().GetString("sort-order")
	limit, _ := cmd.Flags().GetInt("limit")

	filter := api.JobFilter{
		Limit:     a.Config.JobsLimit,
		Source:    source,
		ScanRunID: scanRun,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
	if limit > 0 {
		filter.Limit = limit
	}
	if status != "" {
		if err := a.Validator.Var(status, "jobstatus"); err != nil {
			return filter, invalidArg("%q is not a job status", status)
		}
		filter.Status = models.JobStatus(status)
	}
	if minScore < 0 || minScore > 1 {
		return filter, invalidArg("--min-score must be between 0 and 1")
	}
	filter.MinMatchScore = minScore
	if sortOrder != "" && sortOrder != "asc" && sortOrder != "desc" {
		return filter, invalidArg("--sort-order must be asc or desc")
	}
	return filter, nil
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolP("interactive", "i", false, "Keep the board open and accept commands")
	boardCmd.Flags().Int("width", terminalWidth(), "Terminal width; narrower boards are stacked")
	addJobFilterFlags(boardCmd)
}
