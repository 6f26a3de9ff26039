package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce  sync.Once
	agendaPath string
	buildErr   error
)

// BuildAgenda builds the agenda binary once and returns its path.
func BuildAgenda(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "agenda-bin-")
		if err != nil {
			buildErr = err
			return
		}

		agendaPath = filepath.Join(binDir, "agenda")
		cmd := exec.Command("go", "build", "-o", agendaPath, "./cmd/agenda")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build agenda: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return agendaPath
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("AGENDA", BuildAgenda(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdListID finds a list by label in `list ls --json` output and stores its
// ID in an env var.
func CmdListID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("listid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: listid FILE LABEL VAR")
	}

	var items []struct {
		ID    string `json:"value"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &items); err != nil {
		ts.Fatalf("parse list output: %v", err)
	}

	for _, item := range items {
		if item.Label == args[1] {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("list with label %q not found", args[1])
}

// CmdTaskID finds a task by description in `task ls --json` output and
// stores its ID in an env var.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: taskid FILE DESCRIPTION VAR")
	}

	var items []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &items); err != nil {
		ts.Fatalf("parse task output: %v", err)
	}

	for _, item := range items {
		if item.Description == args[1] {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("task with description %q not found", args[1])
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
