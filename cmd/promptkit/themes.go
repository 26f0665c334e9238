package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/promptkit/internal/theme"
	"github.com/alexisbeaulieu97/promptkit/internal/tui/picker"
	"github.com/alexisbeaulieu97/promptkit/pkg/diff"
)

func newThemesCmd(flags *rootFlags, env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "Inspect, preview and export themes",
	}

	cmd.AddCommand(newThemesListCmd(flags, env))
	cmd.AddCommand(newThemesShowCmd(flags, env))
	cmd.AddCommand(newThemesExportCmd(flags, env))
	cmd.AddCommand(newThemesPreviewCmd(flags, env))
	cmd.AddCommand(newThemesPickCmd(flags, env))
	cmd.AddCommand(newThemesDiffCmd(flags, env))

	return cmd
}

type themeSummary struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Version      string   `json:"version"`
	InheritsFrom string   `json:"inherits_from,omitempty"`
	Capabilities []string `json:"capabilities"`
	Active       bool     `json:"active"`
}

func summarize(t *theme.Theme) themeSummary {
	return themeSummary{
		Name:         t.Name,
		Description:  t.Description,
		Category:     string(t.Category),
		Version:      t.Version,
		InheritsFrom: t.InheritsFrom,
		Capabilities: t.Capabilities.Names(),
		Active:       t.Active(),
	}
}

func newThemesListCmd(flags *rootFlags, env *environment) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, env, "themes.list", func(ctx context.Context, app *AppContext) error {
				themes := app.Themes.All()
				if jsonOutput {
					summaries := make([]themeSummary, 0, len(themes))
					for _, t := range themes {
						summaries = append(summaries, summarize(t))
					}
					return writeJSON(cmd.OutOrStdout(), summaries)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "  NAME\tCATEGORY\tDESCRIPTION")
				for _, t := range themes {
					marker := " "
					if t.Active() {
						marker = "*"
					}
					fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, t.Name, t.Category, t.Description)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func newThemesShowCmd(flags *rootFlags, env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <theme>",
		Short: "Show a theme's metadata, colors and layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, env, "themes.show", func(ctx context.Context, app *AppContext) error {
				t, err := findTheme(app, "show theme", args[0])
				if err != nil {
					return err
				}
				renderThemeDetails(cmd.OutOrStdout(), t)
				return nil
			})
		},
	}
	return cmd
}

func renderThemeDetails(w io.Writer, t *theme.Theme) {
	fmt.Fprintf(w, "Theme:        %s\n", t.Name)
	fmt.Fprintf(w, "Description:  %s\n", valueOrFallback(t.Description, "(none)"))
	fmt.Fprintf(w, "Author:       %s\n", valueOrFallback(t.Author, "(unknown)"))
	fmt.Fprintf(w, "Version:      %s\n", t.Version)
	fmt.Fprintf(w, "Category:     %s\n", t.Category)
	fmt.Fprintf(w, "Inherits:     %s\n", valueOrFallback(t.InheritsFrom, "(none)"))
	fmt.Fprintf(w, "Capabilities: %s\n", valueOrFallback(strings.Join(t.Capabilities.Names(), ", "), "(none)"))
	if len(t.Segments) > 0 {
		fmt.Fprintf(w, "Segments:     %s\n", strings.Join(t.Segments, ", "))
	}

	fmt.Fprintf(w, "\nColors:\n")
	for _, name := range t.ColorNamesInUse() {
		c, _ := t.Colors.Lookup(name)
		fmt.Fprintf(w, "  %-14s %s %s\n", name, c.Style().Render("■■"), c.String())
	}

	fmt.Fprintf(w, "\nLayout:\n")
	fmt.Fprintf(w, "  left:         %s\n", t.Layout.Left)
	if t.Layout.Right != "" {
		fmt.Fprintf(w, "  right:        %s\n", t.Layout.Right)
	}
	if t.Layout.Continuation != "" {
		fmt.Fprintf(w, "  continuation: %s\n", t.Layout.Continuation)
	}
}

func newThemesExportCmd(flags *rootFlags, env *environment) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "export <theme>",
		Short: "Write a theme as a YAML theme file",
		Long:  `Export a theme, builtin or loaded, as YAML. Without --output the file is written to stdout.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, env, "themes.export", func(ctx context.Context, app *AppContext) error {
				t, err := findTheme(app, "export theme", args[0])
				if err != nil {
					return err
				}
				if outputDir == "" {
					return theme.Export(cmd.OutOrStdout(), t)
				}
				path, err := theme.ExportFile(outputDir, t)
				if err != nil {
					return newCommandError("export theme", fmt.Sprintf("writing into %s", outputDir), err, "Check that the directory is writable.")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", t.Name, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write <theme>.yaml into")
	return cmd
}

func newThemesPreviewCmd(flags *rootFlags, env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [theme...]",
		Short: "Render the prompt with one or more themes",
		Long:  `Render the current shell state with each named theme, or with every theme when none is named.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, env, "themes.preview", func(ctx context.Context, app *AppContext) error {
				themes := app.Themes.All()
				if len(args) > 0 {
					themes = themes[:0:0]
					for _, name := range args {
						t, err := findTheme(app, "preview theme", name)
						if err != nil {
							return err
						}
						themes = append(themes, t)
					}
				}

				var errs []error
				for _, t := range themes {
					text, err := previewText(ctx, app, t)
					if err != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: error: %v\n\n", t.Name, err)
						errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s:\n%s\n\n", t.Name, text)
				}
				if len(errs) > 0 {
					return newCommandError("preview themes", "rendering", errors.Join(errs...), "Run 'promptkit validate' on the theme files.")
				}
				return nil
			})
		},
	}
	return cmd
}

// previewText renders t and lays out the prompts the way a shell shows them.
func previewText(ctx context.Context, app *AppContext, t *theme.Theme) (string, error) {
	out, err := app.Composer.RenderTheme(ctx, t)
	if err != nil {
		return "", err
	}
	text := out.PS1.Text
	if out.RPrompt.Text != "" {
		text += "  " + out.RPrompt.Text
	}
	if out.PS2.Text != "" {
		text += "\n" + out.PS2.Text
	}
	return text, nil
}

func newThemesPickCmd(flags *rootFlags, env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a theme interactively",
		Long: `Browse themes with a live preview. The chosen name is printed to stdout;
set it as "theme" in the configuration file or export PROMPTKIT_THEME to keep it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, env, "themes.pick", func(ctx context.Context, app *AppContext) error {
				preview := func(name string) (string, error) {
					t, err := app.Themes.Find(name)
					if err != nil {
						return "", err
					}
					return previewText(ctx, app, t)
				}

				m := picker.New(picker.EntriesFrom(app.Themes.All()), preview)
				final, err := env.runPicker(m)
				if err != nil {
					return newCommandError("pick theme", "running the picker", err, "Run the command from an interactive terminal.")
				}
				name, ok := final.Selected()
				if !ok {
					app.Logger.Info(ctx, "no theme selected")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
	return cmd
}

func newThemesDiffCmd(flags *rootFlags, env *environment) *cobra.Command {
	var stat bool

	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Compare the exported form of two themes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, env, "themes.diff", func(ctx context.Context, app *AppContext) error {
				var exported [2][]byte
				for i, name := range args {
					t, err := findTheme(app, "diff themes", name)
					if err != nil {
						return err
					}
					var buf bytes.Buffer
					if err := theme.Export(&buf, t); err != nil {
						return newCommandError("diff themes", fmt.Sprintf("exporting %q", name), err, "Run 'promptkit validate' to check the theme.")
					}
					exported[i] = buf.Bytes()
				}

				out := cmd.OutOrStdout()
				if stat {
					removed, added := diff.Changed(exported[0], exported[1])
					fmt.Fprintf(out, "%s -> %s: %d removed, %d added\n", args[0], args[1], removed, added)
					return nil
				}
				text := diff.Unified(exported[0], exported[1], args[0]+".yaml", args[1]+".yaml")
				if text == "" {
					fmt.Fprintf(out, "themes %s and %s are identical\n", args[0], args[1])
					return nil
				}
				fmt.Fprint(out, text)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&stat, "stat", false, "Print only the number of changed lines")
	return cmd
}

func findTheme(app *AppContext, operation, name string) (*theme.Theme, error) {
	t, err := app.Themes.Find(name)
	if err != nil {
		return nil, newCommandError(operation, fmt.Sprintf("looking up theme %q", name), err, "Run 'promptkit themes list' to view registered themes.")
	}
	return t, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func valueOrFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
