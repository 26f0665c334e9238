package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type segmentSummary struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Version      string   `json:"version"`
	Capabilities string   `json:"capabilities"`
	Properties   []string `json:"properties,omitempty"`
}

func newSegmentsCmd(flags *rootFlags, env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Inspect prompt segments",
	}
	cmd.AddCommand(newSegmentsListCmd(flags, env))
	return cmd
}

func newSegmentsListCmd(flags *rootFlags, env *environment) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered segments and their properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, env, "segments.list", func(ctx context.Context, app *AppContext) error {
				infos := app.Segments.List()
				if jsonOutput {
					summaries := make([]segmentSummary, 0, len(infos))
					for _, info := range infos {
						summaries = append(summaries, segmentSummary{
							Name:         info.Name,
							Description:  info.Description,
							Version:      info.Version,
							Capabilities: info.Capabilities.String(),
							Properties:   info.Properties,
						})
					}
					return writeJSON(cmd.OutOrStdout(), summaries)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tPROPERTIES\tDESCRIPTION")
				for _, info := range infos {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, valueOrFallback(strings.Join(info.Properties, ","), "-"), info.Description)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
