package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/promptkit/internal/promptctx"
	"github.com/alexisbeaulieu97/promptkit/internal/tui/picker"
)

type rootFlags struct {
	configPath string
	theme      string
	logLevel   string
	verbose    bool
}

// environment holds the operating system collaborators commands use, so tests
// can substitute them.
type environment struct {
	getenv    func(string) string
	system    promptctx.Environment
	prober    promptctx.TerminalProber
	runPicker func(picker.Model) (picker.Model, error)
}

func defaultEnvironment() *environment {
	return &environment{
		getenv:    os.Getenv,
		system:    promptctx.OSEnvironment{},
		prober:    promptctx.OSProber{},
		runPicker: runPickerProgram,
	}
}

func runPickerProgram(m picker.Model) (picker.Model, error) {
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return m, err
	}
	if pm, ok := final.(picker.Model); ok {
		return pm, nil
	}
	return m, nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(defaultEnvironment())
}

func newRootCmdWith(env *environment) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "promptkit",
		Short:         "promptkit renders themed shell prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the configuration file")
	cmd.PersistentFlags().StringVarP(&flags.theme, "theme", "t", "", "Theme to use instead of the configured one")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newRenderCmd(flags, env))
	cmd.AddCommand(newThemesCmd(flags, env))
	cmd.AddCommand(newSegmentsCmd(flags, env))
	cmd.AddCommand(newValidateCmd(flags, env))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
