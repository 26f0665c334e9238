package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/promptkit/internal/segment/builtin"
	"github.com/alexisbeaulieu97/promptkit/internal/template"
	"github.com/alexisbeaulieu97/promptkit/internal/theme"
)

func newValidateCmd(flags *rootFlags, env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [theme-file...]",
		Short: "Check theme files",
		Long: `Decode and validate theme files. Without arguments every file on the theme
search path is loaded and registered, which also checks inheritance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return withApp(cmd, flags, env, "validate", func(ctx context.Context, app *AppContext) error {
					if app.ThemeErrors != nil {
						return newCommandError("validate themes", "loading the theme search path", app.ThemeErrors, "Fix or remove the files listed above.")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d themes registered\n", app.Themes.Len())
					return nil
				})
			}
			return validateFiles(cmd.OutOrStdout(), args)
		},
	}
	return cmd
}

func validateFiles(w io.Writer, paths []string) error {
	known := make(map[string]bool)
	for _, s := range builtin.All(builtin.Options{}) {
		known[s.Info().Name] = true
	}

	var errs []error
	for _, path := range paths {
		t, err := theme.LoadFile(path)
		if err != nil {
			fmt.Fprintf(w, "FAIL %s\n  %v\n", path, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s (%s)\n", path, t.Name)
		for _, name := range unknownSegments(t, known) {
			fmt.Fprintf(w, "  warning: unknown segment %q renders empty\n", name)
		}
	}
	if len(errs) > 0 {
		return newCommandError("validate themes", fmt.Sprintf("%d of %d files rejected", len(errs), len(paths)), errors.Join(errs...), "Fix the reported fields and run validate again.")
	}
	return nil
}

func unknownSegments(t *theme.Theme, known map[string]bool) []string {
	seen := make(map[string]bool)
	var unknown []string
	for _, src := range []string{t.Layout.Left, t.Layout.Right, t.Layout.Continuation} {
		tmpl, err := template.Parse(src)
		if err != nil {
			continue
		}
		for _, name := range tmpl.Names() {
			if !known[name] && !seen[name] {
				seen[name] = true
				unknown = append(unknown, name)
			}
		}
	}
	return unknown
}
