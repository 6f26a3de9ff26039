package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amonks/agenda/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive agenda",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !interactive() {
		return fmt.Errorf("tui requires an interactive terminal")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, onboarded := s.agenda.Profile(); !onboarded && s.config.Profile.Name != "" {
		if _, err := s.agenda.SetName(s.config.Profile.Name); err != nil {
			return err
		}
	}

	repeat, err := s.config.RepeatWindow()
	if err != nil {
		return err
	}
	return tui.Run(s.agenda, tui.Options{RepeatWindow: repeat})
}
