package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ludex/internal/matchprompt"
	"ludex/internal/metadata"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var storeID, catalogID string

	cmd := &cobra.Command{
		Use:   "resolve <id|title>",
		Short: "Resolve metadata for one library entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := findEntry(cmd.Context(), store, args[0])
			if err != nil {
				return fmt.Errorf("find entry: %w", err)
			}

			pipeline, err := ctx.buildPipeline(logger)
			if err != nil {
				return err
			}

			request := metadata.Request{
				Title:     entry.SearchTitle(),
				StoreID:   entry.StoreID,
				CatalogID: entry.CatalogID,
			}
			// Explicit flags override whatever the entry already has.
			if storeID != "" {
				request.StoreID = storeID
			}
			if catalogID != "" {
				request.CatalogID = catalogID
			}

			resolution, err := pipeline.Resolve(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("resolve entry: %w", err)
			}

			out := cmd.OutOrStdout()
			overwrite := true
			switch resolution.Status {
			case metadata.StatusResolved:
				// fall through to apply below

			case metadata.StatusAmbiguous:
				picker := matchprompt.New(os.Stdin, out)
				choice, picked, err := picker.Pick(entry, resolution.Candidates)
				if err != nil {
					return err
				}
				if choice == nil {
					fmt.Fprintln(out, "No match selected; entry unchanged")
					return nil
				}
				overwrite = picked
				if choice.Source == metadata.SourceStore {
					request.StoreID = choice.ID
				} else {
					request.CatalogID = choice.ID
				}
				resolution, err = pipeline.Resolve(cmd.Context(), request)
				if err != nil {
					return fmt.Errorf("resolve selection: %w", err)
				}
				if resolution.Status != metadata.StatusResolved {
					return fmt.Errorf("selected match did not resolve")
				}

			case metadata.StatusEmpty:
				fmt.Fprintf(out, "Nothing found for %q\n", entry.SearchTitle())
				return nil
			}

			metadata.ApplyToEntry(entry, resolution.Record, overwrite)
			if err := store.Update(cmd.Context(), entry); err != nil {
				return fmt.Errorf("save entry: %w", err)
			}

			fmt.Fprintf(out, "Resolved %q (store %s, catalog %s)\n",
				entry.Title, valueOrDash(entry.StoreID), valueOrDash(entry.CatalogID))
			return nil
		},
	}

	cmd.Flags().StringVar(&storeID, "store-id", "", "Force a storefront app id")
	cmd.Flags().StringVar(&catalogID, "catalog-id", "", "Force a catalog game id")
	return cmd
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
