package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/promptkit/internal/composer"
	"github.com/alexisbeaulieu97/promptkit/internal/ports"
)

type renderOptions struct {
	part     string
	shell    string
	exitCode int
	duration time.Duration
	jobs     int
	cwd      string
}

func newRenderCmd(flags *rootFlags, env *environment) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the prompt for the current shell state",
		Long: `Render the active theme's prompt. The result goes to stdout without a
trailing newline. When rendering fails the plain "$ " prompt is printed instead,
so a broken theme never leaves the shell without a prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validShell(opts.shell) {
				return newCommandError("render", "checking flags", fmt.Errorf("unknown shell %q", opts.shell), "Use --shell plain, bash or zsh.")
			}
			switch opts.part {
			case "ps1", "ps2", "right", "all":
			default:
				return newCommandError("render", "checking flags", fmt.Errorf("unknown part %q", opts.part), "Use --part ps1, ps2, right or all.")
			}

			err := withApp(cmd, flags, env, "render", func(ctx context.Context, app *AppContext) error {
				return runRender(ctx, cmd, app, opts)
			})
			if err != nil {
				writeRender(cmd.OutOrStdout(), composer.Fallback(isRoot(env)), opts)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.part, "part", "ps1", "Prompt to print: ps1, ps2, right or all")
	cmd.Flags().StringVar(&opts.shell, "shell", "plain", "Escape output for: plain, bash or zsh")
	cmd.Flags().IntVar(&opts.exitCode, "exit-code", 0, "Exit code of the last command")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "Duration of the last command")
	cmd.Flags().IntVar(&opts.jobs, "jobs", 0, "Number of background jobs")
	cmd.Flags().StringVar(&opts.cwd, "cwd", "", "Working directory to render for")

	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, app *AppContext, opts *renderOptions) error {
	if opts.cwd != "" {
		if err := app.Hub.Publish(ctx, ports.Event{
			Type: ports.EventDirectoryChanged,
			Data: ports.DirectoryChanged{From: app.Prompt.Cwd, To: opts.cwd},
		}); err != nil {
			app.Logger.Warn(ctx, "directory change not applied", "error", err)
		}
	}
	if cmd.Flags().Changed("exit-code") || cmd.Flags().Changed("duration") {
		if err := app.Hub.Publish(ctx, ports.Event{
			Type: ports.EventPostCommand,
			Data: ports.PostCommand{ExitCode: opts.exitCode, Duration: opts.duration},
		}); err != nil {
			app.Logger.Warn(ctx, "command result not applied", "error", err)
		}
	}
	app.Prompt.SetJobCount(opts.jobs)

	out, err := app.Composer.Render(ctx)
	if err != nil {
		app.Logger.Warn(ctx, "render failed, using fallback prompt", "theme", app.Themes.Active().Name, "error", err)
		out = composer.Fallback(app.Prompt.IsRoot)
	}
	if out.PS1.Truncated {
		app.Logger.Debug(ctx, "prompt truncated", "capacity", app.Config.Capacity)
	}
	writeRender(cmd.OutOrStdout(), out, opts)
	return nil
}

func writeRender(w io.Writer, out composer.PromptOutput, opts *renderOptions) {
	esc := func(s string) string { return escapeForShell(s, opts.shell) }
	switch opts.part {
	case "ps2":
		_, _ = io.WriteString(w, esc(out.PS2.Text))
	case "right":
		_, _ = io.WriteString(w, esc(out.RPrompt.Text))
	case "all":
		var b strings.Builder
		b.WriteString(assignment("PS1", esc(out.PS1.Text)))
		b.WriteString(assignment("PS2", esc(out.PS2.Text)))
		b.WriteString(assignment("RPROMPT", esc(out.RPrompt.Text)))
		_, _ = io.WriteString(w, b.String())
	default:
		_, _ = io.WriteString(w, esc(out.PS1.Text))
	}
}

func isRoot(env *environment) bool {
	account, err := env.system.User()
	return err == nil && account.UID == "0"
}
