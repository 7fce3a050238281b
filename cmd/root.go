package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khrees2412/jobapplier/internal/app"
	"github.com/spf13/cobra"
)

// Values of the --action flag
const (
	actionRenameCVs        = "rename_cvs"
	actionFillCoverLetters = "fill_cover_letters"
	actionCompanyReport    = "company_report"
)

var rootCmd = &cobra.Command{
	Use:   "jobapplier",
	Short: "Job application helper backed by a Notion database",
	Long: `jobapplier reads your job applications from a Notion database and takes care
of the chores around them: it uploads templated cover letters, renames your
résumés after the job titles, reports on companies and renumbers entries.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: `  jobapplier --action fill_cover_letters
  jobapplier --action rename_cvs
  jobapplier --action company_report --company acme`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")

		// Initialize app with all dependencies
		application, err := app.NewApp(cmd.Context(), app.Options{ConfigPath: configPath, LogLevel: logLevel})
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store app in command context
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		action, _ := cmd.Flags().GetString("action")
		company, _ := cmd.Flags().GetString("company")

		switch action {
		case "":
			return cmd.Help()
		case actionRenameCVs:
			return runRenameResumes(cmd)
		case actionFillCoverLetters:
			return runFillLetters(cmd, fillOptions{})
		case actionCompanyReport:
			if company == "" {
				return fmt.Errorf("%w: --company is required with --action %s", app.ErrInvalidArgument, actionCompanyReport)
			}
			return runCompanyReport(cmd, company)
		default:
			return fmt.Errorf("%w: unknown action %q (choose %s, %s or %s)", app.ErrInvalidArgument,
				action, actionRenameCVs, actionFillCoverLetters, actionCompanyReport)
		}
	},
}

// Execute runs the root command
func Execute() {
	// Cancel in-flight requests on Ctrl-C
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)
	rootCmd.SetOut(os.Stdout)
	executed, err := rootCmd.ExecuteC()

	// Cleanup: close app resources
	if executed != nil {
		if appInstance := app.GetAppFromContext(executed.Context()); appInstance != nil {
			appInstance.Close()
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		if errors.Is(err, app.ErrNotConfigured) {
			fmt.Fprintln(os.Stderr, "Run 'jobapplier config set --key notion_token --value ...' or set NOTION_TOKEN and NOTION_DATABASE_ID")
		}
		os.Exit(1)
	}
}

// getApp returns the App stored by PersistentPreRunE
func getApp(cmd *cobra.Command) (*app.App, error) {
	a := app.GetAppFromContext(cmd.Context())
	if a == nil {
		return nil, errors.New("application not initialized")
	}
	return a, nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.jobapplier/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().String("action", "", "Run one action: rename_cvs, fill_cover_letters or company_report")
	rootCmd.Flags().String("company", "", "Company substring for --action company_report")
}
