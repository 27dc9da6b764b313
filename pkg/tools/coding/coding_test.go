package coding

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enso-labs/gilfoyle-sub000/pkg/security/workspace"
)

func newGuard(t *testing.T) *workspace.Guard {
	t.Helper()
	g, err := workspace.NewGuard(t.TempDir())
	require.NoError(t, err)
	return g
}

func TestReadFile(t *testing.T) {
	guard := newGuard(t)
	spec := NewReadFileSpec(guard, DefaultLimits())

	require.NoError(t, os.WriteFile(filepath.Join(guard.WorkspaceDir(), "hello.txt"),
		[]byte("line one\nline two"), 0644))

	t.Run("Success", func(t *testing.T) {
		out, err := spec.Run(context.Background(), map[string]interface{}{"filepath": "hello.txt"})
		require.NoError(t, err)
		assert.Contains(t, out, "1 | line one")
		assert.Contains(t, out, "2 | line two")
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := spec.Run(context.Background(), map[string]interface{}{"filepath": "nope.txt"})
		assert.Error(t, err)
	})

	t.Run("Traversal", func(t *testing.T) {
		_, err := spec.Run(context.Background(), map[string]interface{}{"filepath": "../../etc/passwd"})
		assert.Error(t, err)
	})

	t.Run("Ignored", func(t *testing.T) {
		envPath := filepath.Join(guard.WorkspaceDir(), ".env")
		require.NoError(t, os.WriteFile(envPath, []byte("SECRET=1"), 0600))
		_, err := spec.Run(context.Background(), map[string]interface{}{"filepath": ".env"})
		assert.Error(t, err)
	})
}

func TestCreateFile(t *testing.T) {
	guard := newGuard(t)
	spec := NewCreateFileSpec(guard)

	t.Run("Success", func(t *testing.T) {
		out, err := spec.Run(context.Background(), map[string]interface{}{
			"filepath": "sub/dir/new.txt",
			"content":  "hello",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Created sub/dir/new.txt")

		data, err := os.ReadFile(filepath.Join(guard.WorkspaceDir(), "sub", "dir", "new.txt"))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("RefusesOverwrite", func(t *testing.T) {
		_, err := spec.Run(context.Background(), map[string]interface{}{
			"filepath": "sub/dir/new.txt",
			"content":  "other",
		})
		assert.Error(t, err)
	})
}

func TestFileSearch(t *testing.T) {
	guard := newGuard(t)
	spec := NewFileSearchSpec(guard, DefaultLimits())

	for _, p := range []string{"a.go", "b.txt", "sub/c.go", ".git/d.go"} {
		full := filepath.Join(guard.WorkspaceDir(), p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0750))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}

	t.Run("BaseNamePattern", func(t *testing.T) {
		out, err := spec.Run(context.Background(), map[string]interface{}{"pattern": "*.go"})
		require.NoError(t, err)
		assert.Contains(t, out, "a.go")
		assert.Contains(t, out, "sub/c.go")
		assert.NotContains(t, out, "b.txt")
		assert.NotContains(t, out, ".git", "ignored directories must be skipped")
	})

	t.Run("Subdirectory", func(t *testing.T) {
		out, err := spec.Run(context.Background(), map[string]interface{}{
			"pattern":   "*.go",
			"directory": "sub",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "sub/c.go")
		assert.NotContains(t, out, "a.go")
	})

	t.Run("NoMatches", func(t *testing.T) {
		out, err := spec.Run(context.Background(), map[string]interface{}{"pattern": "*.rs"})
		require.NoError(t, err)
		assert.Contains(t, out, "No files matching")
	})

	t.Run("BadPattern", func(t *testing.T) {
		_, err := spec.Run(context.Background(), map[string]interface{}{"pattern": "[unclosed"})
		assert.Error(t, err)
	})
}

func TestPwd(t *testing.T) {
	guard := newGuard(t)
	out, err := NewPwdSpec(guard).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, guard.WorkspaceDir(), out)
}

func TestTerminalCommand(t *testing.T) {
	guard := newGuard(t)
	spec := NewTerminalCommandSpec(guard, DefaultLimits())

	t.Run("Success", func(t *testing.T) {
		out, err := spec.Run(context.Background(), map[string]interface{}{"command": "echo hi"})
		require.NoError(t, err)
		assert.Equal(t, "hi", out)
	})

	t.Run("RunsInWorkspace", func(t *testing.T) {
		out, err := spec.Run(context.Background(), map[string]interface{}{"command": "pwd"})
		require.NoError(t, err)
		assert.Contains(t, out, filepath.Base(guard.WorkspaceDir()))
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		_, err := spec.Run(context.Background(), map[string]interface{}{"command": "exit 3"})
		assert.Error(t, err)
	})

	t.Run("Timeout", func(t *testing.T) {
		// A sub-second timeout kills the sleep well before it finishes.
		_, err := spec.Run(context.Background(), map[string]interface{}{
			"command": "sleep 5",
			"timeout": 0.2,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
	})

	t.Run("EmptyOutput", func(t *testing.T) {
		out, err := spec.Run(context.Background(), map[string]interface{}{"command": "true"})
		require.NoError(t, err)
		assert.Equal(t, "(no output)", out)
	})
}

func TestTruncate(t *testing.T) {
	limits := DefaultLimits()

	small := "short"
	assert.Equal(t, small, limits.Truncate(small))

	big := strings.Repeat("x", limits.MaxOutputBytes+100)
	got := limits.Truncate(big)
	assert.Len(t, got, limits.MaxOutputBytes+len(truncationMarker))
	assert.True(t, strings.HasSuffix(got, "[output truncated]"))

	// Zero-valued limits fall back to the defaults.
	assert.Len(t, Limits{}.Truncate(big), limits.MaxOutputBytes+len(truncationMarker))
}

func TestConfiguredLimits(t *testing.T) {
	guard := newGuard(t)

	t.Run("OutputLimitApplies", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(guard.WorkspaceDir(), "big.txt"),
			[]byte(strings.Repeat("y", 500)), 0644))

		spec := NewReadFileSpec(guard, Limits{MaxOutputBytes: 100})
		out, err := spec.Run(context.Background(), map[string]interface{}{"filepath": "big.txt"})
		require.NoError(t, err)
		assert.Len(t, out, 100+len(truncationMarker))
		assert.True(t, strings.HasSuffix(out, "[output truncated]"))
	})

	t.Run("TimeoutCeilingApplies", func(t *testing.T) {
		// The requested 10s is clamped to the 200ms ceiling, so the sleep
		// is killed almost immediately.
		spec := NewTerminalCommandSpec(guard, Limits{CommandTimeoutCeiling: 200 * time.Millisecond})
		start := time.Now()
		_, err := spec.Run(context.Background(), map[string]interface{}{
			"command": "sleep 5",
			"timeout": 10.0,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
		assert.Less(t, time.Since(start), 3*time.Second)
	})
}
