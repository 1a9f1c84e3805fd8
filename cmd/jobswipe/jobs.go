package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/jobswipe/internal/ranking"
	"github.com/jonathan/jobswipe/internal/types"
)

var (
	jobsRanked bool
	jobsLimit  int
	jobsTypes  []string
	jobsRemote bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the job catalog",
	Long: `List the job catalog in catalog order, or ranked against your profile.

Ranking weighs skill overlap, preferred job types and remote work.
Examples:
  jobswipe jobs
  jobswipe jobs --ranked --limit 3
  jobswipe jobs --ranked --type Full-time --type Contract --remote`,
	Args: cobra.NoArgs,
	RunE: runJobs,
}

func init() {
	jobsCmd.Flags().BoolVar(&jobsRanked, "ranked", false, "Order jobs by match against your profile")
	jobsCmd.Flags().IntVarP(&jobsLimit, "limit", "n", 0, "Show at most this many jobs (0 shows all)")
	jobsCmd.Flags().StringSliceVar(&jobsTypes, "type", nil, "Preferred job types for ranking (Full-time, Part-time, Contract, Remote)")
	jobsCmd.Flags().BoolVar(&jobsRemote, "remote", false, "Prefer remote jobs when ranking")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	prefs := ranking.Preferences{}
	for _, raw := range jobsTypes {
		jt, err := types.ParseJobType(raw)
		if err != nil {
			return err
		}
		prefs.JobTypes = append(prefs.JobTypes, jt)
	}

	return withSession(cmd, func(s *session) error {
		st := s.store.GetState()
		if err := requireJobs(st); err != nil {
			return err
		}

		if jobsRanked {
			fromProfile := ranking.PreferencesFor(st.User)
			prefs.Remote = prefs.Remote || jobsRemote || fromProfile.Remote
			ranked := ranking.Rank(st.User, prefs, st.Jobs)
			s.printer.PrintRanked(ranking.Top(ranked, jobsLimit))
			return nil
		}

		jobs := st.Jobs
		if jobsLimit > 0 && jobsLimit < len(jobs) {
			jobs = jobs[:jobsLimit]
		}
		for _, job := range jobs {
			s.printer.PrintJob(job, st.IsSaved(job.ID))
		}
		return nil
	})
}
