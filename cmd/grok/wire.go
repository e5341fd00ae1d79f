package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/config"
	"github.com/Forgate-Labs/Grok-CLI/internal/console"
	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/platform"
	"github.com/Forgate-Labs/Grok-CLI/internal/policy"
	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/Forgate-Labs/Grok-CLI/internal/provider/gemini"
	"github.com/Forgate-Labs/Grok-CLI/internal/provider/xai"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/directory"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/file"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/plan"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/search"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/executor"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/fs"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/path"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/shell"
	"github.com/Forgate-Labs/Grok-CLI/internal/workdir"
	"github.com/Forgate-Labs/Grok-CLI/internal/workflow/loop"
	"github.com/Forgate-Labs/Grok-CLI/internal/workflow/toolmanager"
)

// chatProvider is what the engine and the models command need from a provider.
type chatProvider interface {
	Stream(ctx context.Context, req provider.Request) (provider.Stream, error)
	Model() string
	SetModel(model string) error
	ListModels(ctx context.Context) ([]string, error)
}

// missingKeyError reports a provider without credentials.
type missingKeyError struct {
	Provider string
	EnvVar   string
}

func (e *missingKeyError) Error() string {
	return fmt.Sprintf("no API key for %s: set %s or add it to %s", e.Provider, e.EnvVar, policy.FileName)
}

// app holds the long-lived services built at startup.
type app struct {
	cfg      *config.Config
	platform *platform.Service
	dirs     *workdir.Service
	store    *policy.Store
	shell    *executor.ShellExecutor
	provider chatProvider
}

// setup loads configuration and builds the services shared by every command.
func setup(ctx context.Context, opts *options) (*app, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.provider != "" {
		cfg.Provider.Name = opts.provider
	}
	if opts.model != "" {
		cfg.Provider.Model = opts.model
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	configureLogging(cfg, opts.debug)

	start, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	start, err = path.CanonicaliseRoot(start)
	if err != nil {
		return nil, err
	}

	plat := platform.New()
	dirs, err := workdir.New(start, plat)
	if err != nil {
		return nil, err
	}

	storePath := policy.FindInAncestors(start)
	if storePath == "" {
		storePath = filepath.Join(start, policy.FileName)
	}
	store, err := policy.Open(storePath)
	if err != nil {
		return nil, err
	}

	p, err := createProvider(ctx, cfg.Provider, store)
	if err != nil {
		return nil, err
	}

	logging.Info("startup", "provider", cfg.Provider.Name, "model", p.Model(), "dir", start, "policy", storePath, "platform", plat.ShellLabel())
	return &app{
		cfg:      cfg,
		platform: plat,
		dirs:     dirs,
		store:    store,
		shell:    executor.NewShellExecutor(plat, cfg.Tools.DefaultMaxCommandOutputSize),
		provider: p,
	}, nil
}

func loadConfig(explicit string) (*config.Config, error) {
	loader := config.NewLoader()
	if explicit != "" {
		return loader.LoadFile(explicit)
	}
	return loader.Load()
}

// configureLogging enables the file log when a directory is configured or
// --debug is set. Failures leave logging disabled.
func configureLogging(cfg *config.Config, debug bool) {
	dir := cfg.Log.Dir
	level := logging.ParseLevel(cfg.Log.Level)
	if debug {
		level = logging.LevelDebug
		if dir == "" {
			dir = configDir()
		}
	}
	if dir == "" {
		return
	}
	if err := logging.EnableFileLogging(dir, level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
}

func configDir() string {
	if p := config.NewLoader().DefaultPath(); p != "" {
		return filepath.Dir(p)
	}
	return ""
}

// apiKey prefers the environment over the policy file.
func apiKey(envVar string, store *policy.Store) string {
	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		return key
	}
	if envVar == "XAI_API_KEY" {
		return store.APIKey()
	}
	return ""
}

func createProvider(ctx context.Context, cfg config.ProviderConfig, store *policy.Store) (chatProvider, error) {
	switch cfg.Name {
	case config.ProviderGemini:
		key := apiKey("GEMINI_API_KEY", store)
		if key == "" {
			return nil, &missingKeyError{Provider: "gemini", EnvVar: "GEMINI_API_KEY"}
		}
		client, err := gemini.NewSDKClient(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return gemini.New(client, cfg.Model, cfg.Temperature), nil
	default:
		key := apiKey("XAI_API_KEY", store)
		if key == "" {
			return nil, &missingKeyError{Provider: "xai", EnvVar: "XAI_API_KEY"}
		}
		return xai.New(xai.Config{
			APIKey:      key,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxRetries:  cfg.MaxRetries,
		})
	}
}

// toolDeps are the services the tool set is built from.
type toolDeps struct {
	cfg      config.ToolsConfig
	platform *platform.Service
	dirs     *workdir.Service
	shell    *executor.ShellExecutor
	gate     *policy.Gate
	plans    *plan.Store
}

// createTools builds the fixed tool set.
func createTools(d toolDeps) *toolmanager.ToolManager {
	osFS := fs.NewOSFileSystem()
	bounded := path.NewResolver(d.dirs)
	engine := search.NewEngine(d.platform, d.shell, d.dirs)

	return toolmanager.NewToolManager(
		shell.NewRunCommandTool(d.shell, d.gate, d.dirs, d.cfg.DefaultShellTimeout),
		shell.NewCodeExecutionTool(d.shell, d.gate, d.dirs, d.platform.Family(), d.cfg.DefaultShellTimeout),
		file.NewEditFileTool(file.NewEditService(osFS, d.dirs, d.cfg.MaxEditFileSize)),
		file.NewReadLocalFileTool(osFS, bounded, d.cfg.MaxReadFileSize),
		search.NewSearchTool(engine, d.cfg.DefaultSearchMaxResults, d.cfg.SearchTimeout),
		directory.NewChangeDirectoryTool(d.dirs),
		directory.NewListDirectoryTool(osFS, d.dirs, d.cfg.DefaultListDirectoryLimit, d.cfg.MaxListDirectoryResults),
		plan.NewSetPlanTool(d.plans),
		plan.NewShareReasoningTool(),
		plan.NewWorkflowDoneTool(),
	)
}

// runInteractive wires the engine to the console and blocks until the user exits.
func runInteractive(ctx context.Context, opts *options) error {
	mode, err := resolveMode(opts.mode, opts.debug, os.Getenv("GROK_MODE"))
	if err != nil {
		return &exitError{code: 2}
	}

	a, err := setup(ctx, opts)
	if err != nil {
		var missing *missingKeyError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return &exitError{code: 2}
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return &exitError{code: 1}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := a.store.Watch(ctx); err != nil {
			logging.Warn("policy watch stopped", "error", err)
		}
	}()

	editor := console.NewLineEditor(console.EditorConfig{
		HistoryFile: historyFile(),
		Commands:    console.Commands,
	})
	defer editor.Close()

	gate := policy.NewGate(a.store, console.NewApprover(editor, editor.Output()))
	tools := createTools(toolDeps{
		cfg:      a.cfg.Tools,
		platform: a.platform,
		dirs:     a.dirs,
		shell:    a.shell,
		gate:     gate,
		plans:    plan.NewStore(),
	})

	engine := loop.NewEngine(a.provider, tools, loop.Config{
		MaxIterations:  a.cfg.Workflow.MaxIterations,
		CompletionTool: a.cfg.Workflow.CompletionTool,
		PrePrompt:      a.store.PrePrompt,
	})

	c := console.New(engine, editor, a.shell, a.dirs, platform.NewCommandAdapter(a.platform.Family()), console.Options{
		Mode:           mode,
		Markdown:       mode == console.ModeNormal && console.IsTerminal(os.Stdout),
		Width:          console.TerminalWidth(100),
		ShellTimeout:   a.cfg.Tools.DefaultShellTimeout,
		ProviderName:   a.cfg.Provider.Name,
		InterruptTurns: true,
	})
	return c.Run(ctx)
}

// resolveMode applies --debug, then --mode, then GROK_MODE.
func resolveMode(flag string, debug bool, env string) (console.Mode, error) {
	if debug {
		return console.ModeDebug, nil
	}
	if flag != "" {
		m, err := console.ParseMode(flag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return m, err
	}
	m, err := console.ParseMode(env)
	if err != nil {
		logging.Warn("ignoring GROK_MODE", "value", env, "error", err)
		return console.ModeNormal, nil
	}
	return m, nil
}

func historyFile() string {
	if dir := configDir(); dir != "" {
		return filepath.Join(dir, "history")
	}
	return ""
}
