package cmd

import (
	"fmt"
	"strings"

	"github.com/khrees2412/jobapplier/internal/app"
	"github.com/khrees2412/jobapplier/internal/pipeline"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Search your applications",
}

var companyReportCmd = &cobra.Command{
	Use:   "company <substring>",
	Short: "List applications whose company contains a substring",
	Long:  "Case and accent insensitive: 'societe' matches 'Société Générale'.",
	Args:  cobra.MinimumNArgs(1),
	Example: `  jobapplier report company acme
  jobapplier report company "societe generale"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompanyReport(cmd, strings.Join(args, " "))
	},
}

func runCompanyReport(cmd *cobra.Command, company string) error {
	company = strings.TrimSpace(company)
	if company == "" {
		return fmt.Errorf("%w: the company substring is blank", app.ErrInvalidArgument)
	}
	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	recs, err := a.LoadRecords(cmd.Context())
	if err != nil {
		return err
	}

	rows := pipeline.CompanyReport(cmd.Context(), recs, company)
	if len(rows) == 0 {
		cmd.Printf("No application matches %q\n", company)
		return nil
	}

	cmd.Println(titleStyle.Render("Applications matching " + company))
	for i, row := range rows {
		cmd.Printf("\n%s %s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), row.JobTitle)
		cmd.Printf("   %s %s\n", labelStyle.Render("Company:"), valueStyle.Render(row.Company))
		if row.DateApplied != nil {
			cmd.Printf("   %s %s\n", labelStyle.Render("Applied:"), valueStyle.Render(row.DateApplied.Format("Jan 2, 2006")))
		}
		if row.Origin != "" {
			cmd.Printf("   %s %s\n", labelStyle.Render("Origin:"), valueStyle.Render(row.Origin))
		}
		stage := row.Stage
		if stage == "" {
			stage = "pending"
		}
		cmd.Printf("   %s %s\n", labelStyle.Render("Stage:"), valueStyle.Render(stage))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(companyReportCmd)
}
