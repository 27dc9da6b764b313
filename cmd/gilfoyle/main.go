// Package main provides the gilfoyle interactive terminal assistant. It
// hosts the conversation engine in a line-based REPL: plain input runs a
// full turn, slash commands operate on the conversation record itself.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/enso-labs/gilfoyle-sub000/pkg/agent"
	"github.com/enso-labs/gilfoyle-sub000/pkg/config"
	"github.com/enso-labs/gilfoyle-sub000/pkg/export"
	"github.com/enso-labs/gilfoyle-sub000/pkg/llm"
	"github.com/enso-labs/gilfoyle-sub000/pkg/llm/openai"
	"github.com/enso-labs/gilfoyle-sub000/pkg/thread"
	"github.com/enso-labs/gilfoyle-sub000/pkg/tools"
)

const version = "0.1.0"

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	ConfigFile   string
	SystemPrompt string
	Workspace    string
	ShowVersion  bool
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("gilfoyle v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, cliConfig); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags.
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.APIKey, "api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key")
	flag.StringVar(&cliConfig.BaseURL, "base-url", os.Getenv("OPENAI_BASE_URL"), "OpenAI API base URL")
	flag.StringVar(&cliConfig.Model, "model", "", "LLM model to use")
	flag.StringVar(&cliConfig.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cliConfig.SystemPrompt, "system-prompt", "", "Override the system prompt")
	flag.StringVar(&cliConfig.Workspace, "workspace", ".", "Workspace directory for file tools")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Gilfoyle - LLM Terminal Assistant\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gilfoyle [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSlash commands inside the REPL:\n")
		fmt.Fprintf(os.Stderr, "  /export <markdown|json|txt> [file]  Export the conversation\n")
		fmt.Fprintf(os.Stderr, "  /compact                            Summarize older events\n")
		fmt.Fprintf(os.Stderr, "  /usage                              Show token usage\n")
		fmt.Fprintf(os.Stderr, "  /init                               Write a GILFOYLE.md project primer\n")
		fmt.Fprintf(os.Stderr, "  /quit                               Exit\n")
	}

	flag.Parse()
	return cliConfig
}

// run builds the engine from configuration and enters the REPL.
func run(ctx context.Context, cliConfig *CLIConfig) error {
	cfg, err := loadConfig(cliConfig.ConfigFile)
	if err != nil {
		return err
	}

	// CLI flags override the config file.
	model := cliConfig.Model
	if model == "" {
		model = cfg.LLM.Model
	}
	baseURL := cliConfig.BaseURL
	if baseURL == "" {
		baseURL = cfg.LLM.BaseURL
	}
	workspaceDir := cliConfig.Workspace
	if workspaceDir == "." && cfg.Agent.Workspace != "" {
		workspaceDir = cfg.Agent.Workspace
	}
	systemPrompt := cliConfig.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = cfg.Agent.SystemPrompt
	}

	factory := llm.NewFactory(func(m string) (llm.Provider, error) {
		opts := []openai.ProviderOption{openai.WithModel(m)}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		return openai.NewProvider(cliConfig.APIKey, opts...)
	})

	var registryOpts []tools.Option
	if cfg.Agent.MaxOutputBytes > 0 {
		registryOpts = append(registryOpts, tools.WithMaxOutputBytes(cfg.Agent.MaxOutputBytes))
	}
	if cfg.Agent.CommandTimeoutCeiling > 0 {
		registryOpts = append(registryOpts,
			tools.WithCommandTimeoutCeiling(time.Duration(cfg.Agent.CommandTimeoutCeiling)*time.Second))
	}
	registry, err := tools.NewDefaultRegistry(workspaceDir, registryOpts...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	agentOpts := []agent.Option{
		agent.WithModel(model),
		agent.WithRegistry(registry),
	}
	if cfg.LLM.ClassifierModel != "" {
		agentOpts = append(agentOpts, agent.WithClassifierModel(cfg.LLM.ClassifierModel))
	}
	ag := agent.New(factory, agentOpts...)

	var state thread.State
	if systemPrompt != "" {
		state = ag.Initialize(systemPrompt)
	} else {
		state = ag.Initialize()
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Markdown rendering is cosmetic, plain output still works.
		renderer = nil
	}

	fmt.Printf("gilfoyle v%s (model: %s)\n", version, ag.Model())
	fmt.Println(infoStyle.Render("Type a query, or /quit to exit."))

	return repl(ctx, ag, state, renderer, workspaceDir)
}

// repl reads lines until EOF, /quit, or context cancellation. Stdin is
// read from a goroutine so a signal interrupts the loop immediately
// instead of waiting for the next keypress.
func repl(ctx context.Context, ag *agent.Agent, state thread.State, renderer *glamour.TermRenderer, workspaceDir string) error {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- scanner.Err()
	}()

	for {
		fmt.Print(promptStyle.Render("> "))

		var line string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			fmt.Println()
			return err
		case line = <-lines:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			var quit bool
			state, quit = handleCommand(ctx, ag, state, line, workspaceDir)
			if quit {
				return nil
			}
			continue
		}

		var content string
		content, state = ag.ProcessQuery(ctx, line, state)
		printReply(renderer, content)
	}
}

// handleCommand dispatches a slash command and returns the (possibly
// updated) state plus whether the REPL should exit.
func handleCommand(ctx context.Context, ag *agent.Agent, state thread.State, line, workspaceDir string) (thread.State, bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return state, true

	case "/usage":
		fmt.Println(infoStyle.Render(fmt.Sprintf(
			"Tokens: %d prompt + %d completion = %d total",
			state.Usage.PromptTokens, state.Usage.CompletionTokens, state.Usage.TotalTokens,
		)))

	case "/compact":
		before := len(state.Events)
		state = ag.Compact(ctx, state)
		if len(state.Events) < before {
			fmt.Println(infoStyle.Render(fmt.Sprintf("Compacted %d events into a summary.", before)))
		} else {
			fmt.Println(infoStyle.Render("Nothing to compact."))
		}

	case "/export":
		if len(fields) < 2 {
			fmt.Println(errorStyle.Render("Usage: /export <markdown|json|txt> [file]"))
			break
		}
		out, err := export.Export(state, export.Format(fields[1]))
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			break
		}
		if len(fields) >= 3 {
			if err := os.WriteFile(fields[2], []byte(out), 0o644); err != nil {
				fmt.Println(errorStyle.Render(fmt.Sprintf("failed to write export: %v", err)))
				break
			}
			fmt.Println(infoStyle.Render("Exported to " + fields[2]))
		} else {
			fmt.Println(out)
		}

	case "/init":
		if err := writeProjectPrimer(workspaceDir); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		} else {
			fmt.Println(infoStyle.Render("Wrote GILFOYLE.md"))
		}

	default:
		fmt.Println(errorStyle.Render("Unknown command: " + fields[0]))
	}
	return state, false
}

// writeProjectPrimer creates a GILFOYLE.md skeleton in the workspace for
// the user to fill in. It refuses to overwrite an existing one.
func writeProjectPrimer(workspaceDir string) error {
	path := filepath.Join(workspaceDir, "GILFOYLE.md")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("GILFOYLE.md already exists")
	}

	abs, err := filepath.Abs(workspaceDir)
	if err != nil {
		abs = workspaceDir
	}
	primer := fmt.Sprintf(`# Project Notes

Workspace: %s

## Overview

Describe what this project does and any context the assistant should know.

## Conventions

List build commands, test commands, and style rules here.
`, abs)

	return os.WriteFile(path, []byte(primer), 0o644)
}

// printReply renders assistant output as markdown when a renderer is
// available, falling back to plain text.
func printReply(renderer *glamour.TermRenderer, content string) {
	if renderer != nil {
		if rendered, err := renderer.Render(content); err == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Println(content)
}

// loadConfig resolves the config path (flag or default location) and loads it.
func loadConfig(explicit string) (*config.Config, error) {
	path := explicit
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			// No home directory means no default config, not a fatal error.
			return config.Load("")
		}
		path = defaultPath
	}
	return config.Load(path)
}
