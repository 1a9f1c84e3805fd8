package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobswipe/internal/state"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved jobs",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved jobs",
	Args:  cobra.NoArgs,
	RunE:  runSavedList,
}

var savedRemoveCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a job from the saved list",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedRemove,
}

var savedApplyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Mark a saved job as applied",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedApply,
}

func init() {
	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedRemoveCmd)
	savedCmd.AddCommand(savedApplyCmd)
	rootCmd.AddCommand(savedCmd)
}

func runSavedList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		s.printer.PrintSavedJobs(s.store.GetState().SavedJobs)
		return nil
	})
}

func runSavedRemove(cmd *cobra.Command, args []string) error {
	id := args[0]
	return withSession(cmd, func(s *session) error {
		job, ok := s.store.GetState().SavedJob(id)
		if !ok {
			return fmt.Errorf("job %q is not saved", id)
		}
		st := s.store.Dispatch(state.RemoveSavedJob{ID: id})
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s at %s\n", job.Title, job.Company)
		s.printer.PrintSavedJobs(st.SavedJobs)
		return nil
	})
}

func runSavedApply(cmd *cobra.Command, args []string) error {
	id := args[0]
	return withSession(cmd, func(s *session) error {
		job, ok := s.store.GetState().SavedJob(id)
		if !ok {
			return fmt.Errorf("job %q is not saved", id)
		}
		if job.Applied {
			fmt.Fprintf(cmd.OutOrStdout(), "Already applied to %s at %s\n", job.Title, job.Company)
			return nil
		}
		st := s.store.Dispatch(state.ApplyToJob{ID: id})
		fmt.Fprintf(cmd.OutOrStdout(), "Applied to %s at %s\n", job.Title, job.Company)
		s.printer.PrintSavedJobs(st.SavedJobs)
		return nil
	})
}
