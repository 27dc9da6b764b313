// Package workspace enforces workspace boundaries on file system
// operations. File tools resolve every caller-supplied path through a
// Guard so traversal attempts and ignored paths never reach the OS.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// defaultIgnorePatterns are always excluded from file operations and
// searches, regardless of workspace contents.
var defaultIgnorePatterns = []string{
	".git/**",
	"node_modules/**",
	"**/*.pem",
	"**/*.key",
	"**/.env",
	"**/.env.*",
}

// Guard restricts file operations to a workspace root and filters paths
// against ignore patterns.
type Guard struct {
	workspaceDir string
	ignores      []glob.Glob
}

// NewGuard creates a guard rooted at the given directory. Extra ignore
// patterns (gitignore-style globs) extend the built-in defaults.
func NewGuard(workspaceDir string, extraIgnores ...string) (*Guard, error) {
	if workspaceDir == "" {
		return nil, fmt.Errorf("workspace directory cannot be empty")
	}

	absPath, err := filepath.Abs(workspaceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace directory: %w", err)
	}

	// Resolve symlinks in the root itself so the containment check below
	// compares canonical paths (on macOS /var is a link to /private/var).
	evalPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate workspace directory symlinks: %w", err)
	}

	patterns := append(append([]string{}, defaultIgnorePatterns...), extraIgnores...)
	ignores := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		ignores = append(ignores, g)
	}

	return &Guard{workspaceDir: evalPath, ignores: ignores}, nil
}

// WorkspaceDir returns the absolute workspace root.
func (g *Guard) WorkspaceDir() string {
	return g.workspaceDir
}

// ResolvePath converts a workspace-relative (or absolute) path to a
// cleaned absolute path and verifies it stays inside the workspace.
// Symlinks are resolved before the containment check, so a link inside
// the workspace pointing outside it is rejected rather than followed.
func (g *Guard) ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(g.workspaceDir, abs)
	}
	abs = g.resolveSymlinks(filepath.Clean(abs))

	if abs != g.workspaceDir && !strings.HasPrefix(abs, g.workspaceDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside workspace boundaries", path)
	}
	return abs, nil
}

// resolveSymlinks canonicalizes a path that may not exist yet: the path
// itself when it does, otherwise the nearest existing ancestor with the
// remaining components rejoined. Create operations need this so a new
// file under an existing (possibly linked) directory still validates.
func (g *Guard) resolveSymlinks(absPath string) string {
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved
	}

	dir := absPath
	var rest []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return absPath
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...)
		}
		if _, err := os.Lstat(dir); err == nil {
			// Parent exists but cannot be resolved, keep the lexical path.
			return absPath
		}
	}
}

// ShouldIgnore reports whether the path matches any ignore pattern.
// Matching is done against the workspace-relative form with forward
// slashes, so patterns behave the same on every platform.
func (g *Guard) ShouldIgnore(absPath string) bool {
	rel, err := filepath.Rel(g.workspaceDir, absPath)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)

	for _, ig := range g.ignores {
		if ig.Match(rel) {
			return true
		}
	}
	return false
}
