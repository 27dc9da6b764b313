package coding

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/dispatch"
	"github.com/enso-labs/gilfoyle-sub000/pkg/security/workspace"
)

// defaultCommandTimeout applies when the caller requests none.
const defaultCommandTimeout = 30 * time.Second

// NewTerminalCommandSpec builds the terminal_command tool: runs a shell
// command in the workspace with a capped timeout and truncated combined
// output. Caller-requested timeouts above the configured ceiling are
// clamped, never honored.
func NewTerminalCommandSpec(guard *workspace.Guard, limits Limits) dispatch.Spec {
	limits = limits.normalized()
	return dispatch.Spec{
		Description: "Execute a shell command in the workspace directory",
		Args: map[string]string{
			"command": "the shell command to run",
			"timeout": "optional timeout in seconds (capped)",
		},
		Required: []string{"command"},
		Run: func(ctx context.Context, args map[string]interface{}) (string, error) {
			command := stringArg(args, "command")

			timeout := defaultCommandTimeout
			if secs, ok := args["timeout"].(float64); ok && secs > 0 {
				timeout = time.Duration(secs * float64(time.Second))
			}
			if timeout > limits.CommandTimeoutCeiling {
				timeout = limits.CommandTimeoutCeiling
			}

			execCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			cmd := exec.CommandContext(execCtx, "sh", "-c", command)
			cmd.Dir = guard.WorkspaceDir()

			output, err := cmd.CombinedOutput()
			if execCtx.Err() == context.DeadlineExceeded {
				return "", fmt.Errorf("command timed out after %s", timeout)
			}
			if err != nil {
				return "", fmt.Errorf("command failed: %w\n%s", err, limits.Truncate(string(output)))
			}

			text := strings.TrimRight(string(output), "\n")
			if text == "" {
				text = "(no output)"
			}
			return limits.Truncate(text), nil
		},
	}
}

// NewGitStatusSpec builds the git_status tool: branch plus porcelain
// working-tree state for the workspace.
func NewGitStatusSpec(guard *workspace.Guard, limits Limits) dispatch.Spec {
	limits = limits.normalized()
	return dispatch.Spec{
		Description: "Show the git working tree status of the workspace",
		Run: func(ctx context.Context, _ map[string]interface{}) (string, error) {
			execCtx, cancel := context.WithTimeout(ctx, defaultCommandTimeout)
			defer cancel()

			cmd := exec.CommandContext(execCtx, "git", "status", "--porcelain=v1", "--branch")
			cmd.Dir = guard.WorkspaceDir()

			output, err := cmd.CombinedOutput()
			if err != nil {
				return "", fmt.Errorf("git status failed: %w\n%s", err, strings.TrimSpace(string(output)))
			}

			text := strings.TrimRight(string(output), "\n")
			if !strings.ContainsRune(text, '\n') {
				// Only the branch header line: nothing to commit.
				text += "\nworking tree clean"
			}
			return limits.Truncate(text), nil
		},
	}
}
