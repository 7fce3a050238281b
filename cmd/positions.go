package cmd

import (
	"fmt"

	"github.com/khrees2412/jobapplier/internal/pipeline"
	"github.com/spf13/cobra"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Maintain the Position property",
}

var assignPositionsCmd = &cobra.Command{
	Use:   "assign",
	Short: "Renumber every entry from N down to 1 in database order",
	Long: `Computes position = N - index for the N entries in the order Notion returns
them. Nothing is written unless --apply is given.`,
	Example: `  jobapplier positions assign
  jobapplier positions assign --apply`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		apply, _ := cmd.Flags().GetBool("apply")

		recs, err := a.LoadRecords(cmd.Context())
		if err != nil {
			return err
		}

		assigner := pipeline.NewPositionAssigner(a.Notion, a.JournalOrNil(), a.Config.PositionProperty, a.Logger)
		results := assigner.Assign(cmd.Context(), recs, !apply)

		title := "Planned Positions (dry run)"
		if apply {
			title = "Assigned Positions"
		}
		cmd.Println(titleStyle.Render(title))
		for _, res := range results {
			plan := res.Value
			label := labelStyle.Render(fmt.Sprintf("%4d", plan.Position))
			if res.Err != nil {
				cmd.Printf("%s %s %s\n", label, describe(res.Record), errorStyle.Render(res.Err.Error()))
				continue
			}
			cmd.Printf("%s %s\n", label, describe(res.Record))
		}

		if !apply {
			cmd.Println(dimStyle.Render("\nRun with --apply to write these positions"))
			return nil
		}
		return summarize(cmd, len(results), pipeline.Failed(results))
	},
}

func init() {
	rootCmd.AddCommand(positionsCmd)
	positionsCmd.AddCommand(assignPositionsCmd)

	assignPositionsCmd.Flags().Bool("apply", false, "Write the positions to Notion")
}
