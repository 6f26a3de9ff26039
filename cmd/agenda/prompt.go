package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user questions on an interactive terminal.
type Prompter interface {
	Confirm(message string) (bool, error)
	Ask(message string) (string, error)
}

// StdioPrompter prompts on stdout and reads answers from stdin.
type StdioPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newStdioPrompter() *StdioPrompter {
	return &StdioPrompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// Confirm asks a yes/no question. "y", "yes", "s" and "si" are yes.
func (p *StdioPrompter) Confirm(message string) (bool, error) {
	answer, err := p.Ask(message + " [y/n]:")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "si", "sì":
		return true, nil
	default:
		return false, nil
	}
}

// Ask prints message and returns the trimmed line typed in reply.
func (p *StdioPrompter) Ask(message string) (string, error) {
	fmt.Fprintf(p.out, "%s ", message)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// prompter is replaced in tests.
var prompter Prompter = newStdioPrompter()

// interactive reports whether stdin is a terminal.
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirmDestructive asks before a delete unless skip is set or stdin is not
// a terminal.
func confirmDestructive(skip bool, message string) (bool, error) {
	if skip || !interactive() {
		return true, nil
	}
	confirmed, err := prompter.Confirm(message)
	if err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}
	return confirmed, nil
}
