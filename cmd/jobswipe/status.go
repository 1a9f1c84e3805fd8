package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current job and swipe counters",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dump the full application state",
	Args:  cobra.NoArgs,
	RunE:  runDebug,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(debugCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		s.printer.PrintStatus(s.store.GetState())
		return nil
	})
}

func runDebug(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		s.printer.PrintDebug(s.store.GetState())
		return nil
	})
}
