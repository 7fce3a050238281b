package cmd

import (
	"fmt"

	"github.com/khrees2412/jobapplier/internal/app"
	"github.com/khrees2412/jobapplier/pkg/models"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past runs from the local journal",
	Example: `  jobapplier history
  jobapplier history --run 6f1c...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if a.Journal == nil {
			return fmt.Errorf("%w: the journal is disabled (journal_path is empty)", app.ErrInvalidArgument)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")

		if runID != "" {
			run, err := a.Journal.GetRun(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("fetch run: %w", err)
			}
			if run == nil {
				return fmt.Errorf("run %s not found", runID)
			}
			entries, err := a.Journal.ListEntries(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("fetch entries: %w", err)
			}

			cmd.Println(titleStyle.Render(fmt.Sprintf("Run %s (%s)", run.ID, run.Action)))
			cmd.Printf("%s %s\n", labelStyle.Render("Started:"), run.StartedAt.Local().Format("Jan 2, 2006 15:04"))
			for _, e := range entries {
				status := e.Status
				if e.Status == models.EntryFailed {
					status = errorStyle.Render(status)
				}
				cmd.Printf("  %-8s %s at %s %s\n", status, e.JobTitle, e.Company, dimStyle.Render(e.Detail))
			}
			return nil
		}

		runs, err := a.Journal.ListRuns(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("fetch runs: %w", err)
		}
		if len(runs) == 0 {
			cmd.Println("No runs recorded yet.")
			return nil
		}

		cmd.Println(titleStyle.Render("Recent Runs"))
		for _, run := range runs {
			state := "running"
			if run.FinishedAt != nil {
				state = fmt.Sprintf("%d ok, %d failed", run.Succeeded, run.Failed)
			}
			cmd.Printf("%s %s %s %s\n",
				dimStyle.Render(run.StartedAt.Local().Format("Jan 2 15:04")),
				labelStyle.Render(run.Action),
				valueStyle.Render(state),
				dimStyle.Render(run.ID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 20, "Number of runs to show")
	historyCmd.Flags().String("run", "", "Show the entries of one run")
}
