package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/agenda/agenda"
	"github.com/amonks/agenda/internal/clock"
	"github.com/amonks/agenda/internal/config"
	"github.com/amonks/agenda/internal/paths"
)

// nowEnvVar pins the CLI clock to an RFC 3339 timestamp.
const nowEnvVar = "AGENDA_NOW"

// session is an opened agenda plus the configuration it was opened with.
type session struct {
	agenda *agenda.Agenda
	config *config.Config
	logger *log.Logger
}

func (s *session) Close() error {
	return s.agenda.Close()
}

func openSession(cmd *cobra.Command) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	dir := cfg.Storage.Dir
	if hasChangedFlags(cmd, "state-dir") {
		dir = globalStateDir
	}
	dir, err = paths.ResolveStateDir(dir)
	if err != nil {
		return nil, err
	}

	backend := cfg.Storage.Backend
	if hasChangedFlags(cmd, "backend") {
		backend = globalBackend
	}

	transition, err := cfg.TransitionWindow()
	if err != nil {
		return nil, err
	}

	clk, err := cliClock()
	if err != nil {
		return nil, err
	}

	logger := newLogger(globalVerbose)
	logger.Printf("opening %s (backend %q)", dir, backend)

	a, err := agenda.Open(agenda.Options{
		Dir:              dir,
		Backend:          backend,
		Logger:           logger,
		Clock:            clk,
		TransitionWindow: transition,
	})
	if err != nil {
		return nil, err
	}
	return &session{agenda: a, config: cfg, logger: logger}, nil
}

func newLogger(verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "agenda: ", log.LstdFlags)
}

func cliClock() (clock.Clock, error) {
	value := os.Getenv(nowEnvVar)
	if value == "" {
		return clock.Real{}, nil
	}
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", nowEnvVar, value, err)
	}
	return clock.Fixed{At: at}, nil
}
