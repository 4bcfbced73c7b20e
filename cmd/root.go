package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/app"
	"github.com/khrees2412/jobhunter/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "jobhunter",
	Short: "Terminal client for the JobHunter AI backend",
	Long: `jobhunter talks to a JobHunter AI backend: review scanned jobs on a Kanban
board, generate outreach, manage your profile and templates, and control the
scanning agent.`,
	Version:       "0.1.0",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Root().PersistentFlags()
		configDir, _ := flags.GetString("config-dir")
		user, _ := flags.GetString("user")
		verbose, _ := flags.GetBool("verbose")
		offline, _ := flags.GetBool("offline")

		application, err := app.NewApp(cmd.Context(), app.Options{
			ConfigDir: configDir,
			User:      user,
			Verbose:   verbose,
			Offline:   offline,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", "", "Directory holding config.yaml, cache and logs (default ~/.jobhunter)")
	rootCmd.PersistentFlags().String("user", "", "Act as this user id instead of the configured one")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Mirror logs to stderr")
	rootCmd.PersistentFlags().Bool("offline", false, "Use cached data only")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err, retryHint(err, os.Args[1:])))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	executed, err := rootCmd.ExecuteContextC(ctx)
	if executed != nil {
		if application := app.GetAppFromContext(executed.Context()); application != nil {
			if cerr := application.Close(); cerr != nil {
				application.Logger.Warn("failed to close app", zap.Error(cerr))
			}
		}
	}
	return err
}

// retryHint suggests rerunning the command when the failure may be transient
func retryHint(err error, args []string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && !errors.Is(err, api.ErrServer) {
		return ""
	}
	if errors.Is(err, app.ErrNoUser) || errors.Is(err, app.ErrInvalidArgument) {
		return ""
	}
	return strings.TrimSpace("jobhunter " + strings.Join(args, " "))
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	return app.FromContext(cmd.Context())
}

// session returns the app and the acting user id
func session(cmd *cobra.Command) (*app.App, string, error) {
	a, err := appFrom(cmd)
	if err != nil {
		return nil, "", err
	}
	userID, err := a.UserID()
	if err != nil {
		return nil, "", err
	}
	return a, userID, nil
}

func printStale(cmd *cobra.Command, a *app.App, savedAt time.Time) {
	if !savedAt.IsZero() {
		cmd.Println(ui.RenderStale(savedAt, a.Now()))
	}
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", app.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
