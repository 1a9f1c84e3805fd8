package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobswipe/internal/resume"
)

var (
	importSections []string
	importAppend   bool
	importServer   string
	importDryRun   bool
)

var importResumeCmd = &cobra.Command{
	Use:   "import-resume <file>",
	Short: "Fill your profile from a resume",
	Long: `Upload a resume to the parsing service and merge the result into your profile.

Only non-empty parsed values that differ from your profile are applied.
List sections replace your entries unless --append is given.

Sections: personal, summary, experience, education, skills, certifications, languages

Examples:
  jobswipe import-resume resume.pdf
  jobswipe import-resume resume.pdf --sections personal,skills --append
  jobswipe import-resume resume.pdf --dry-run --server http://localhost:5000`,
	Args: cobra.ExactArgs(1),
	RunE: runImportResume,
}

func init() {
	importResumeCmd.Flags().StringSliceVar(&importSections, "sections", nil, "Sections to import (default all)")
	importResumeCmd.Flags().BoolVar(&importAppend, "append", false, "Append list entries instead of replacing them")
	importResumeCmd.Flags().StringVar(&importServer, "server", "", "Parsing service URL (default "+resume.DefaultServerURL+")")
	importResumeCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would change without saving")
	rootCmd.AddCommand(importResumeCmd)
}

func runImportResume(cmd *cobra.Command, args []string) error {
	path := args[0]

	toggles := resume.DefaultToggles()
	if len(importSections) > 0 {
		t, err := resume.TogglesFor(importSections)
		if err != nil {
			return err
		}
		toggles = t
	}
	var opts []resume.MergeOption
	if importAppend {
		opts = append(opts, resume.WithListMode(resume.Append))
	}

	return withSession(cmd, func(s *session) error {
		serverURL := importServer
		if serverURL == "" {
			serverURL = s.cfg.ServerURL
		}
		client := resume.NewClient(serverURL, resume.WithClientLogger(s.logger))

		fmt.Fprintf(cmd.OutOrStdout(), "Parsing %s...\n", path)
		res := client.ParseFile(cmd.Context(), path)
		if !res.Success {
			return errors.New(res.Error)
		}

		patch := resume.Merge(res.Data, toggles, s.store.GetState().User, opts...)
		s.printer.PrintImportPreview(res, patch)

		if importDryRun || patch.Empty() {
			return nil
		}
		n := s.store.ImportResume(patch)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d section(s) into your profile\n", n)
		return nil
	})
}
