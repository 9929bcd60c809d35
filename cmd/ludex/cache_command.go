package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ludex/internal/assetcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "cache <id|title>",
		Short: "Download an entry's artwork and microtrailer to the local cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
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

			cache, err := assetcache.New(cfg)
			if err != nil {
				return fmt.Errorf("open asset cache: %w", err)
			}

			out := cmd.OutOrStdout()
			if purge {
				if err := cache.Purge(entry); err != nil {
					return err
				}
				entry.ImageCachePaths = nil
				entry.MicrotrailerCachePath = ""
				if err := store.Update(cmd.Context(), entry); err != nil {
					return fmt.Errorf("save entry: %w", err)
				}
				fmt.Fprintf(out, "Purged cached assets for %q\n", entry.Title)
				return nil
			}

			var images []string
			fetched, failed := 0, 0
			urls := entry.Screenshots
			if entry.CoverURL != "" {
				urls = append([]string{entry.CoverURL}, urls...)
			}
			for _, url := range urls {
				rel, err := cache.Fetch(cmd.Context(), entry, url)
				if err != nil {
					failed++
					if errors.Is(err, assetcache.ErrTooSmall) || errors.Is(err, assetcache.ErrTooLarge) {
						fmt.Fprintf(out, "  rejected %s: %v\n", url, err)
					}
					continue
				}
				images = append(images, rel)
				fetched++
			}
			entry.ImageCachePaths = images

			if len(entry.Microtrailers) > 0 {
				rel, err := cache.Fetch(cmd.Context(), entry, entry.Microtrailers[0])
				if err != nil {
					failed++
				} else {
					entry.MicrotrailerCachePath = rel
					fetched++
				}
			}

			if err := store.Update(cmd.Context(), entry); err != nil {
				return fmt.Errorf("save entry: %w", err)
			}

			fmt.Fprintf(out, "Cached %d assets for %q under %s", fetched, entry.Title, cache.Root())
			if failed > 0 {
				fmt.Fprintf(out, " (%d failed)", failed)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Remove the entry's cached assets instead of downloading")
	return cmd
}
