package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amonks/agenda/agenda"
)

var greetCmd = &cobra.Command{
	Use:   "greet",
	Short: "Print the greeting and today's date",
	Long: `Print the greeting and today's date.

The first run asks for your name when interactive. Use --name to set or
change it; [profile] name in the config is used when none is stored.`,
	Args: cobra.NoArgs,
	RunE: runGreet,
}

var greetName string

func init() {
	rootCmd.AddCommand(greetCmd)
	greetCmd.Flags().StringVar(&greetName, "name", "", "Set the name used in the greeting")
}

func runGreet(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := onboard(cmd, s); err != nil {
		return err
	}

	line, header := s.agenda.Greeting()
	fmt.Fprintln(cmd.OutOrStdout(), line)
	fmt.Fprintln(cmd.OutOrStdout(), header)
	return nil
}

// onboard stores a name from --name, the config or an interactive prompt,
// in that order. It leaves the profile empty when none is available.
func onboard(cmd *cobra.Command, s *session) error {
	if hasChangedFlags(cmd, "name") {
		_, err := s.agenda.SetName(greetName)
		return err
	}
	if _, onboarded := s.agenda.Profile(); onboarded {
		return nil
	}
	if s.config.Profile.Name != "" {
		_, err := s.agenda.SetName(s.config.Profile.Name)
		return err
	}
	if !interactive() {
		return nil
	}

	for {
		name, err := prompter.Ask("Come ti chiami?")
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		_, err = s.agenda.SetName(name)
		if !errors.Is(err, agenda.ErrEmptyName) {
			return err
		}
	}
}
