// Package tools assembles the built-in tool executors into a dispatch
// registry. The engine itself only depends on the executor contract; this
// package is where the host binds the concrete implementations.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/dispatch"
	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/intent"
	"github.com/enso-labs/gilfoyle-sub000/pkg/security/workspace"
	"github.com/enso-labs/gilfoyle-sub000/pkg/tools/calc"
	"github.com/enso-labs/gilfoyle-sub000/pkg/tools/coding"
	"github.com/enso-labs/gilfoyle-sub000/pkg/tools/web"
)

// Option adjusts the resource bounds the built-in tools run under.
type Option func(*coding.Limits)

// WithMaxOutputBytes overrides the tool output byte limit.
func WithMaxOutputBytes(n int) Option {
	return func(l *coding.Limits) {
		l.MaxOutputBytes = n
	}
}

// WithCommandTimeoutCeiling overrides the cap on caller-requested command
// timeouts.
func WithCommandTimeoutCeiling(d time.Duration) Option {
	return func(l *coding.Limits) {
		l.CommandTimeoutCeiling = d
	}
}

// NewDefaultRegistry builds a registry with every built-in tool bound to a
// workspace guard rooted at workspaceDir.
func NewDefaultRegistry(workspaceDir string, opts ...Option) (*dispatch.Registry, error) {
	guard, err := workspace.NewGuard(workspaceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace guard: %w", err)
	}

	limits := coding.DefaultLimits()
	for _, opt := range opts {
		opt(&limits)
	}

	registry := dispatch.NewRegistry()
	specs := map[intent.Kind]dispatch.Spec{
		intent.KindMathCalculator:  NewMathCalculatorSpec(),
		intent.KindWebSearch:       web.NewWebSearchSpec(web.NewSearcher()),
		intent.KindReadFile:        coding.NewReadFileSpec(guard, limits),
		intent.KindCreateFile:      coding.NewCreateFileSpec(guard),
		intent.KindFileSearch:      coding.NewFileSearchSpec(guard, limits),
		intent.KindGitStatus:       coding.NewGitStatusSpec(guard, limits),
		intent.KindPwd:             coding.NewPwdSpec(guard),
		intent.KindTerminalCommand: coding.NewTerminalCommandSpec(guard, limits),
	}

	for kind, spec := range specs {
		if err := registry.Register(kind, spec); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", kind, err)
		}
	}
	return registry, nil
}

// NewMathCalculatorSpec builds the math_calculator tool.
func NewMathCalculatorSpec() dispatch.Spec {
	return dispatch.Spec{
		Description: "Evaluate an arithmetic expression",
		Args: map[string]string{
			"expression": "the expression to evaluate (e.g. 15 * 23)",
		},
		Required: []string{"expression"},
		Run: func(_ context.Context, args map[string]interface{}) (string, error) {
			expression, _ := args["expression"].(string)
			return calc.Evaluate(expression)
		},
	}
}
