package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobswipe/internal/state"
)

// retryTimeout bounds how long retry waits for the catalog
const retryTimeout = 30 * time.Second

var likeCmd = &cobra.Command{
	Use:   "like",
	Short: "Save the current job and move to the next one",
	Args:  cobra.NoArgs,
	RunE:  runLike,
}

var passCmd = &cobra.Command{
	Use:   "pass",
	Short: "Skip the current job",
	Args:  cobra.NoArgs,
	RunE:  runPass,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start again from the first job",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Reload the job catalog after a failure",
	Args:  cobra.NoArgs,
	RunE:  runRetry,
}

func init() {
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(passCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(retryCmd)
}

var errNoCurrentJob = errors.New("no more jobs; run 'jobswipe reset' to start over")

func runLike(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		st := s.store.GetState()
		if err := requireJobs(st); err != nil {
			return err
		}
		job, ok := st.CurrentJob()
		if !ok {
			return errNoCurrentJob
		}

		s.store.Dispatch(state.SaveJob{Job: job})
		next := s.store.Dispatch(state.NextJob{})

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s at %s\n", job.Title, job.Company)
		s.printer.PrintStatus(next)
		return nil
	})
}

func runPass(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		st := s.store.GetState()
		if err := requireJobs(st); err != nil {
			return err
		}
		job, ok := st.CurrentJob()
		if !ok {
			return errNoCurrentJob
		}

		next := s.store.Dispatch(state.NextJob{})
		fmt.Fprintf(cmd.OutOrStdout(), "Passed on %s at %s\n", job.Title, job.Company)
		s.printer.PrintStatus(next)
		return nil
	})
}

func runReset(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		s.printer.PrintStatus(s.store.Dispatch(state.ResetJobIndex{}))
		return nil
	})
}

func runRetry(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		if st := s.store.GetState(); st.Error == "" && len(st.Jobs) > 0 {
			s.printer.PrintStatus(st)
			return nil
		}

		settled := make(chan state.AppState, 1)
		unsubscribe := s.store.OnChange(func(st state.AppState) {
			if !st.Loading {
				select {
				case settled <- st:
				default:
				}
			}
		})
		defer unsubscribe()

		s.store.Dispatch(state.RetryFetch{})

		select {
		case st := <-settled:
			if err := requireJobs(st); err != nil {
				s.printer.PrintStatus(st)
				return err
			}
			s.restoreCursor(cmd.Context())
			s.printer.PrintStatus(s.store.GetState())
			return nil
		case <-time.After(retryTimeout):
			return fmt.Errorf("catalog did not load within %s", retryTimeout)
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	})
}
