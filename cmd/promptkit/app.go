package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/promptkit/internal/composer"
	"github.com/alexisbeaulieu97/promptkit/internal/config"
	"github.com/alexisbeaulieu97/promptkit/internal/events"
	"github.com/alexisbeaulieu97/promptkit/internal/gitstatus"
	"github.com/alexisbeaulieu97/promptkit/internal/logger"
	"github.com/alexisbeaulieu97/promptkit/internal/logging"
	"github.com/alexisbeaulieu97/promptkit/internal/ports"
	"github.com/alexisbeaulieu97/promptkit/internal/promptctx"
	"github.com/alexisbeaulieu97/promptkit/internal/segment"
	"github.com/alexisbeaulieu97/promptkit/internal/segment/builtin"
	"github.com/alexisbeaulieu97/promptkit/internal/theme"
)

// AppContext bundles the services a command works with.
type AppContext struct {
	Config   *config.Config
	Logger   ports.Logger
	Themes   *theme.Registry
	Segments *segment.Registry
	Prompt   *promptctx.Context
	Composer *composer.Composer
	Hub      *events.Hub

	// ThemeErrors collects theme files that failed to load; they do not stop
	// startup.
	ThemeErrors error
}

// newApp reads configuration and wires the registries, context and composer.
// Log entries emitted before the configured logger exists are buffered and
// replayed into it.
func newApp(ctx context.Context, cmd *cobra.Command, flags *rootFlags, env *environment) (*AppContext, error) {
	buffer := logging.NewEventBuffer(0)
	boot := logging.NewBufferedLogger(buffer)

	cfg, err := config.Load(flags.configPath, env.getenv)
	if err != nil {
		return nil, newCommandError("start", "loading configuration", err, "Check the configuration file and PROMPTKIT_* variables.")
	}
	boot.Debug(ctx, "configuration loaded", "theme", cfg.Theme, "git_provider", cfg.Git.Provider)

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if flags.theme != "" {
		cfg.Theme = flags.theme
	}

	log, err := logging.New(logging.Options{
		Writer: cmd.ErrOrStderr(),
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Layer:  "cli",
	})
	if err != nil {
		return nil, newCommandError("start", "configuring logging", err, "Use log.level debug, info, warn or error and log.format text, json or logfmt.")
	}
	buffer.Flush(log)

	regLog, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Console: cfg.Log.Format == "text",
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, newCommandError("start", "configuring logging", err, "Use one of debug, info, warn or error.")
	}

	app := &AppContext{Config: cfg, Logger: log}

	app.Themes = theme.NewRegistry(nil, regLog)
	if err := theme.RegisterBuiltins(app.Themes); err != nil {
		return nil, err
	}
	loader := theme.NewLoader(cfg.ThemePaths, log)
	if err := loader.LoadAll(ctx, app.Themes); err != nil {
		log.Warn(ctx, "some theme files were not loaded", "error", err)
		app.ThemeErrors = err
	}
	if err := app.Themes.SetActive(cfg.Theme); err != nil {
		if flags.theme != "" {
			return nil, newCommandError("start", "selecting theme "+cfg.Theme, err, "Run 'promptkit themes list' to see available themes.")
		}
		log.Warn(ctx, "configured theme unavailable, using default", "theme", cfg.Theme, "error", err)
		if err := app.Themes.SetActive(theme.DefaultThemeName); err != nil {
			return nil, err
		}
	}

	app.Segments = segment.NewRegistry(regLog)
	if err := builtin.Register(app.Segments, builtin.Options{
		Git:               gitProvider(cfg),
		GitTimeout:        cfg.GitTimeout(),
		DirectoryMaxWidth: cfg.Segments.DirectoryMaxWidth,
	}); err != nil {
		return nil, err
	}

	app.Prompt, err = promptctx.New(promptctx.Options{Env: env.system, Prober: env.prober})
	if err != nil {
		return nil, newCommandError("start", "reading shell state", err, "Make sure the working directory still exists.")
	}

	app.Composer, err = composer.New(app.Themes, app.Segments, app.Prompt, composer.Options{
		Capacity: cfg.Capacity,
		NoColor:  !cfg.ColorEnabled(app.Prompt.Terminal.TTY),
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	app.Hub = events.NewHub(log)
	if err := app.Composer.Attach(app.Hub); err != nil {
		return nil, err
	}
	return app, nil
}

// Close releases the registries.
func (a *AppContext) Close() {
	if a == nil {
		return
	}
	if a.Composer != nil {
		a.Composer.Detach()
	}
	a.Segments.Cleanup()
	a.Themes.Cleanup()
}

func gitProvider(cfg *config.Config) gitstatus.Provider {
	if cfg.Git.Provider == "command" {
		return gitstatus.Command{Binary: cfg.Git.Binary}
	}
	return gitstatus.GoGit{}
}

// withApp runs fn with a fully wired AppContext and a session-scoped context.
func withApp(cmd *cobra.Command, flags *rootFlags, env *environment, name string, fn func(context.Context, *AppContext) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ports.WithSessionID(ctx, ports.GenerateSessionID())

	app, err := newApp(ctx, cmd, flags, env)
	if err != nil {
		return err
	}
	defer app.Close()

	log := app.Logger.With("command", name)
	log.Debug(ctx, "command started")
	if err := fn(ctx, app); err != nil {
		var cmdErr *commandError
		if !errors.As(err, &cmdErr) {
			log.Error(ctx, "command failed", "error", err)
		}
		return err
	}
	return nil
}
