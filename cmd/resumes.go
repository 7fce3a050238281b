package cmd

import (
	"path/filepath"

	"github.com/khrees2412/jobapplier/internal/pipeline"
	"github.com/khrees2412/jobapplier/internal/resume"
	"github.com/khrees2412/jobapplier/pkg/models"
	"github.com/spf13/cobra"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "Manage résumé files",
}

var renameResumesCmd = &cobra.Command{
	Use:   "rename",
	Short: "Copy raw résumés to job-specific file names",
	Long: `Pairs the PDFs of cv_raw_dir (sorted by name) with the pending applications
(highest position first) and copies each PDF to cv_renamed_dir under a name
derived from the job title. The raw files are never moved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRenameResumes(cmd)
	},
}

func runRenameResumes(cmd *cobra.Command) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	recs, err := a.LoadRecords(cmd.Context())
	if err != nil {
		return err
	}

	renamer := resume.NewRenamer(a.Config.CVRawDir, a.Config.CVRenamedDir, a.Logger)
	copies, err := renamer.Rename(cmd.Context(), recs)
	if err != nil {
		return err
	}

	byID := make(map[string]models.ApplicationRecord, len(recs))
	for _, r := range recs {
		byID[r.ID] = r
	}
	journal := pipeline.NewRecorder(a.JournalOrNil(), a.Logger)
	journal.Start(cmd.Context(), models.ActionRenameResumes)
	defer journal.Finish(cmd.Context())

	cmd.Println(titleStyle.Render("Renamed Résumés"))
	if len(copies) == 0 {
		cmd.Println("Nothing to rename. Put PDFs in " + a.Config.CVRawDir)
		return nil
	}
	for _, c := range copies {
		journal.Entry(cmd.Context(), byID[c.RecordID], models.EntryOK, c.Target)
		cmd.Printf("  %s → %s\n", dimStyle.Render(filepath.Base(c.Source)), valueStyle.Render(filepath.Base(c.Target)))
	}
	cmd.Printf("\n%s %d copied to %s\n", labelStyle.Render("Done:"), len(copies), a.Config.CVRenamedDir)
	return nil
}

func init() {
	rootCmd.AddCommand(resumesCmd)
	resumesCmd.AddCommand(renameResumesCmd)
}
