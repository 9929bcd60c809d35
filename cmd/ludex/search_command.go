package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ludex/internal/metadata"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search the metadata sources for a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("title must not be empty")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			storeSource, librarySource, err := ctx.buildSources(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch sourceFlag {
			case "store":
				return searchOne(cmd.Context(), out, storeSource, title)
			case "library":
				return searchOne(cmd.Context(), out, librarySource, title)
			case "both":
				if err := searchOne(cmd.Context(), out, librarySource, title); err != nil {
					return err
				}
				return searchOne(cmd.Context(), out, storeSource, title)
			default:
				return fmt.Errorf("unknown source %q (use store, library, or both)", sourceFlag)
			}
		},
	}

	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "both", "Source to query: store, library, or both")
	return cmd
}

func searchOne(ctx context.Context, out io.Writer, source metadata.Source, title string) error {
	candidates, err := source.Search(ctx, title)
	if err != nil {
		return fmt.Errorf("search %s: %w", source.Tag(), err)
	}

	fmt.Fprintf(out, "\n%s results for %q:\n", source.Tag(), title)
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No matches")
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for _, candidate := range candidates {
		year := ""
		if candidate.ReleaseYear > 0 {
			year = strconv.Itoa(candidate.ReleaseYear)
		}
		rating := ""
		if candidate.Rating > 0 {
			rating = fmt.Sprintf("%.0f", candidate.Rating)
		}
		rows = append(rows, []string{
			candidate.ID,
			candidate.Name,
			strconv.Itoa(candidate.Score),
			year,
			rating,
			candidate.Genres,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Name", "Score", "Year", "Rating", "Genres"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	return nil
}
