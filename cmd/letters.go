package cmd

import (
	"fmt"

	"github.com/khrees2412/jobapplier/internal/app"
	"github.com/khrees2412/jobapplier/internal/export"
	"github.com/khrees2412/jobapplier/internal/notion"
	"github.com/khrees2412/jobapplier/internal/pipeline"
	"github.com/khrees2412/jobapplier/pkg/models"
	"github.com/spf13/cobra"
)

var lettersCmd = &cobra.Command{
	Use:   "letters",
	Short: "Generate cover letters",
	Long:  "Fill the cover letter templates for pending applications",
}

var fillLettersCmd = &cobra.Command{
	Use:   "fill",
	Short: "Upload a cover letter to every pending application",
	Long: `For every entry without a stage and with a language, fill the template of that
language and append the letter as a block of the entry's page.`,
	Example: `  jobapplier letters fill
  jobapplier letters fill --block-type code --skip-sent`,
	RunE: func(cmd *cobra.Command, args []string) error {
		blockType, _ := cmd.Flags().GetString("block-type")
		skipSent, _ := cmd.Flags().GetBool("skip-sent")
		return runFillLetters(cmd, fillOptions{blockType: blockType, skipSent: skipSent})
	},
}

var previewLetterCmd = &cobra.Command{
	Use:     "preview",
	Short:   "Print a filled letter without touching Notion",
	Example: `  jobapplier letters preview --lang FR --company Atos --title "Ingénieur DevOps"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		langFlag, _ := cmd.Flags().GetString("lang")
		company, _ := cmd.Flags().GetString("company")
		title, _ := cmd.Flags().GetString("title")

		lang, err := models.ParseLanguage(langFlag)
		if err != nil {
			return err
		}
		letter, err := a.Builder.Build(lang, company, title)
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Cover letter (%s)", lang)))
		cmd.Println(letter)
		return nil
	},
}

var exportLettersCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the letters of pending applications to disk",
	Example: `  jobapplier letters export
  jobapplier letters export --format pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return fmt.Errorf("%w: %v", app.ErrInvalidArgument, err)
		}

		recs, err := a.LoadRecords(cmd.Context())
		if err != nil {
			return err
		}

		opts := export.Options{
			Dir:     a.Config.LettersDir,
			Format:  format,
			Journal: a.JournalOrNil(),
			Logger:  a.Logger,
		}
		if format == export.FormatPDF {
			opts.Renderer = export.NewChromeRenderer(a.Logger)
		}

		results, err := export.New(a.Builder, opts).Export(cmd.Context(), recs)
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render("Exported Letters"))
		for _, res := range results {
			if res.Err != nil {
				cmd.Printf("  %s %s\n", errorStyle.Render("✗"), describe(res.Record)+": "+res.Err.Error())
				continue
			}
			cmd.Printf("  ✓ %s %s\n", describe(res.Record), dimStyle.Render(res.Value))
		}
		return summarize(cmd, len(results), pipeline.Failed(results))
	},
}

type fillOptions struct {
	blockType string
	skipSent  bool
}

func runFillLetters(cmd *cobra.Command, opts fillOptions) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	if opts.blockType == "" {
		opts.blockType = a.Config.BlockType
	}
	bt, err := notion.ParseBlockType(opts.blockType)
	if err != nil {
		return fmt.Errorf("%w: %v", app.ErrInvalidArgument, err)
	}

	recs, err := a.LoadRecords(cmd.Context())
	if err != nil {
		return err
	}

	d := pipeline.NewDispatcher(a.Builder, a.Notion, a.JournalOrNil(), a.Logger)
	report, err := d.Run(cmd.Context(), recs, pipeline.DispatchOptions{BlockType: bt, SkipSent: opts.skipSent})
	if err != nil {
		return err
	}

	cmd.Println(titleStyle.Render("Cover Letters"))
	for _, r := range report.Skipped {
		cmd.Printf("  %s %s\n", dimStyle.Render("-"), dimStyle.Render(describe(r)+" (already sent)"))
	}
	for _, res := range report.Results {
		if res.Err != nil {
			cmd.Printf("  %s %s: %v\n", errorStyle.Render("✗"), describe(res.Record), res.Err)
			continue
		}
		cmd.Printf("  ✓ %s\n", describe(res.Record))
	}
	if report.RunID != "" {
		cmd.Printf("%s %s\n", labelStyle.Render("Run:"), valueStyle.Render(report.RunID))
	}
	return summarize(cmd, len(report.Results), report.Failed())
}

// describe is the one-line label of an application in command output
func describe(r models.ApplicationRecord) string {
	title, company := r.JobTitle, r.Company
	if title == "" {
		title = "(no title)"
	}
	if company == "" {
		company = "(no company)"
	}
	return fmt.Sprintf("%s at %s [%s]", title, company, r.Language)
}

// summarize prints the totals and turns failures into a non-zero exit
func summarize(cmd *cobra.Command, total, failed int) error {
	cmd.Printf("\n%s %d processed, %d failed\n", labelStyle.Render("Done:"), total, failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", app.ErrPartialFailure, failed, total)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(lettersCmd)
	lettersCmd.AddCommand(fillLettersCmd)
	lettersCmd.AddCommand(previewLetterCmd)
	lettersCmd.AddCommand(exportLettersCmd)

	fillLettersCmd.Flags().String("block-type", "", "Block type: paragraph or code (default from config)")
	fillLettersCmd.Flags().Bool("skip-sent", false, "Skip entries that already got a letter in a journaled run")

	previewLetterCmd.Flags().String("lang", "EN", "Letter language: EN or FR")
	previewLetterCmd.Flags().String("company", "", "Company name")
	previewLetterCmd.Flags().String("title", "", "Job title")

	exportLettersCmd.Flags().String("format", "txt", "Output format: txt or pdf")
}
