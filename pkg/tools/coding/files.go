// Package coding implements the file and shell tool executors: reading,
// creating, and finding files inside a guarded workspace, reporting git
// state, and running shell commands under fixed resource bounds. Each
// constructor returns a dispatch.Spec ready for registry registration.
package coding

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/dispatch"
	"github.com/enso-labs/gilfoyle-sub000/pkg/security/workspace"
)

const (
	// defaultMaxOutputBytes bounds every tool's returned text, keeping a
	// single tool result from flooding the conversation context.
	defaultMaxOutputBytes = 10000

	// defaultCommandTimeoutCeiling is the hard cap on caller-requested
	// command timeouts.
	defaultCommandTimeoutCeiling = 60 * time.Second
)

// truncationMarker is appended to output that was cut at the byte limit.
const truncationMarker = "\n... [output truncated]"

// maxSearchResults bounds file_search result lists.
const maxSearchResults = 200

// Limits carries the resource bounds the tool executors enforce. Zero
// fields take the defaults, so Limits{} behaves like DefaultLimits().
type Limits struct {
	// MaxOutputBytes cuts tool output past this many bytes.
	MaxOutputBytes int

	// CommandTimeoutCeiling clamps caller-requested command timeouts.
	CommandTimeoutCeiling time.Duration
}

// DefaultLimits returns the built-in bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxOutputBytes:        defaultMaxOutputBytes,
		CommandTimeoutCeiling: defaultCommandTimeoutCeiling,
	}
}

func (l Limits) normalized() Limits {
	if l.MaxOutputBytes <= 0 {
		l.MaxOutputBytes = defaultMaxOutputBytes
	}
	if l.CommandTimeoutCeiling <= 0 {
		l.CommandTimeoutCeiling = defaultCommandTimeoutCeiling
	}
	return l
}

// Truncate cuts text at the byte limit and appends the truncation marker.
func (l Limits) Truncate(text string) string {
	limit := l.normalized().MaxOutputBytes
	if len(text) <= limit {
		return text
	}
	return text[:limit] + truncationMarker
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// NewReadFileSpec builds the read_file tool: guarded read of one file,
// returned with line numbers for easy reference in later turns.
func NewReadFileSpec(guard *workspace.Guard, limits Limits) dispatch.Spec {
	limits = limits.normalized()
	return dispatch.Spec{
		Description: "Read the contents of a file in the workspace",
		Args: map[string]string{
			"filepath": "path to the file, relative to the workspace",
		},
		Required: []string{"filepath"},
		Run: func(_ context.Context, args map[string]interface{}) (string, error) {
			path := stringArg(args, "filepath")

			abs, err := guard.ResolvePath(path)
			if err != nil {
				return "", err
			}
			if guard.ShouldIgnore(abs) {
				return "", fmt.Errorf("file %q is excluded by ignore rules", path)
			}

			data, err := os.ReadFile(abs)
			if err != nil {
				return "", fmt.Errorf("failed to read %s: %w", path, err)
			}

			var b strings.Builder
			for i, line := range strings.Split(string(data), "\n") {
				fmt.Fprintf(&b, "%d | %s\n", i+1, line)
			}
			return limits.Truncate(b.String()), nil
		},
	}
}

// NewCreateFileSpec builds the create_file tool: guarded write, creating
// parent directories as needed. Existing files are not overwritten.
func NewCreateFileSpec(guard *workspace.Guard) dispatch.Spec {
	return dispatch.Spec{
		Description: "Create a new file in the workspace with the given content",
		Args: map[string]string{
			"filepath": "path for the new file, relative to the workspace",
			"content":  "content to write",
		},
		Required: []string{"filepath", "content"},
		Run: func(_ context.Context, args map[string]interface{}) (string, error) {
			path := stringArg(args, "filepath")
			content := stringArg(args, "content")

			abs, err := guard.ResolvePath(path)
			if err != nil {
				return "", err
			}
			if guard.ShouldIgnore(abs) {
				return "", fmt.Errorf("path %q is excluded by ignore rules", path)
			}
			if _, err := os.Stat(abs); err == nil {
				return "", fmt.Errorf("file %s already exists", path)
			}

			if err := os.MkdirAll(filepath.Dir(abs), 0750); err != nil {
				return "", fmt.Errorf("failed to create parent directories: %w", err)
			}
			if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
				return "", fmt.Errorf("failed to write %s: %w", path, err)
			}

			return fmt.Sprintf("Created %s (%d bytes)", path, len(content)), nil
		},
	}
}

// NewFileSearchSpec builds the file_search tool: glob matching over the
// workspace tree, honoring ignore rules, optionally rooted at a
// subdirectory.
func NewFileSearchSpec(guard *workspace.Guard, limits Limits) dispatch.Spec {
	limits = limits.normalized()
	return dispatch.Spec{
		Description: "Find files in the workspace whose names match a glob pattern",
		Args: map[string]string{
			"pattern":   "glob pattern to match file names against (e.g. *.go, **/*_test.go)",
			"directory": "optional subdirectory to search in",
		},
		Required: []string{"pattern"},
		Run: func(_ context.Context, args map[string]interface{}) (string, error) {
			pattern := stringArg(args, "pattern")

			matcher, err := glob.Compile(pattern, '/')
			if err != nil {
				return "", fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}

			root := guard.WorkspaceDir()
			if dir := stringArg(args, "directory"); dir != "" {
				root, err = guard.ResolvePath(dir)
				if err != nil {
					return "", err
				}
			}

			var matches []string
			walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil // skip unreadable entries
				}
				if guard.ShouldIgnore(path) {
					if d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
				if d.IsDir() {
					return nil
				}

				rel, err := filepath.Rel(guard.WorkspaceDir(), path)
				if err != nil {
					return nil
				}
				rel = filepath.ToSlash(rel)
				if matcher.Match(rel) || matcher.Match(filepath.Base(rel)) {
					matches = append(matches, rel)
					if len(matches) >= maxSearchResults {
						return filepath.SkipAll
					}
				}
				return nil
			})
			if walkErr != nil {
				return "", fmt.Errorf("search failed: %w", walkErr)
			}

			if len(matches) == 0 {
				return fmt.Sprintf("No files matching %q", pattern), nil
			}
			return limits.Truncate(fmt.Sprintf("Found %d file(s):\n%s", len(matches), strings.Join(matches, "\n"))), nil
		},
	}
}

// NewPwdSpec builds the pwd tool: reports the workspace root.
func NewPwdSpec(guard *workspace.Guard) dispatch.Spec {
	return dispatch.Spec{
		Description: "Print the current working directory",
		Run: func(_ context.Context, _ map[string]interface{}) (string, error) {
			return guard.WorkspaceDir(), nil
		},
	}
}
