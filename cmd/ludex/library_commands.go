package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ludex/internal/catalog"
	"ludex/internal/textutil"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var unresolvedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var games []*catalog.GameRecord
			if unresolvedOnly {
				games, err = store.Unresolved(cmd.Context())
			} else {
				games, err = store.List(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list library: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(games) == 0 {
				fmt.Fprintln(out, "Library is empty")
				return nil
			}

			rows := make([][]string, 0, len(games))
			for _, game := range games {
				rows = append(rows, []string{
					strconv.FormatInt(game.ID, 10),
					game.Title,
					game.StoreID,
					game.CatalogID,
					game.ReleaseDate,
					yesNo(game.Played),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Store ID", "Catalog ID", "Released", "Played"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d entries\n", len(games))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&unresolvedOnly, "unresolved", "u", false, "Show only entries missing an identifier")
	return cmd
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var storeID, catalogID string
	var raw bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a game to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			original := title
			if !raw {
				title = textutil.CleanReleaseTitle(title)
			}
			if title == "" {
				return fmt.Errorf("nothing left of %q after cleaning; retry with --raw", original)
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entry := &catalog.GameRecord{
				Title:     title,
				StoreID:   strings.TrimSpace(storeID),
				CatalogID: strings.TrimSpace(catalogID),
			}
			if title != original {
				entry.OriginalTitle = original
			}

			added, err := store.Add(cmd.Context(), entry)
			if err != nil {
				return fmt.Errorf("add entry: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %q as entry %d\n", added.Title, added.ID)
			if added.OriginalTitle != "" {
				fmt.Fprintf(out, "Cleaned from %q\n", added.OriginalTitle)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storeID, "store-id", "", "Known storefront app id")
	cmd.Flags().StringVar(&catalogID, "catalog-id", "", "Known catalog game id")
	cmd.Flags().BoolVar(&raw, "raw", false, "Keep the title as given, skipping release-name cleanup")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id|title>",
		Short: "Remove a library entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := findEntry(cmd.Context(), store, args[0])
			if err != nil {
				return fmt.Errorf("find entry: %w", err)
			}
			removed, err := store.Remove(cmd.Context(), entry.ID)
			if err != nil {
				return fmt.Errorf("remove entry: %w", err)
			}
			if !removed {
				return fmt.Errorf("entry %d not found", entry.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q (entry %d)\n", entry.Title, entry.ID)
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|title>",
		Short: "Show one library entry in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := findEntry(cmd.Context(), store, args[0])
			if err != nil {
				return fmt.Errorf("find entry: %w", err)
			}

			rows := [][]string{
				{"ID", strconv.FormatInt(entry.ID, 10)},
				{"Title", entry.Title},
			}
			if entry.OriginalTitle != "" {
				rows = append(rows, []string{"Original title", entry.OriginalTitle})
			}
			rows = append(rows,
				[]string{"Store ID", entry.StoreID},
				[]string{"Catalog ID", entry.CatalogID},
				[]string{"Developer", entry.Developer},
				[]string{"Publisher", entry.Publisher},
				[]string{"Genres", entry.Genres},
				[]string{"Themes", entry.Themes},
				[]string{"Perspective", entry.PlayerPerspective},
				[]string{"Released", entry.ReleaseDate},
				[]string{"Played", yesNo(entry.Played)},
			)
			if entry.UserRating > 0 {
				rows = append(rows, []string{"User rating", fmt.Sprintf("%.1f", entry.UserRating)})
			}
			if entry.CriticRating > 0 {
				rows = append(rows, []string{"Critic rating", fmt.Sprintf("%.1f", entry.CriticRating)})
			}
			if entry.PersonalRating > 0 {
				rows = append(rows, []string{"Personal rating", strconv.Itoa(entry.PersonalRating)})
			}
			for _, link := range [][2]string{
				{"Store page", entry.StoreLink},
				{"SteamDB", entry.StoreDBLink},
				{"Catalog page", entry.CatalogLink},
				{"Wiki", entry.WikiLink},
				{"Trailer", entry.TrailerURL},
			} {
				if link[1] != "" {
					rows = append(rows, []string{link[0], link[1]})
				}
			}
			if count := len(entry.Screenshots); count > 0 {
				rows = append(rows, []string{"Screenshots", strconv.Itoa(count)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			if entry.Description != "" {
				fmt.Fprintf(out, "\n%s\n", entry.Description)
			}
			return nil
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import library entries from a JSON or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			added, skipped, err := store.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("import library: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries (%d already present)\n", added, skipped)
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the library to a JSON or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.ExportFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("export library: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", count, args[0])
			return nil
		},
	}
}
