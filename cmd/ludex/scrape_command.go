package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ludex/internal/batch"
	"ludex/internal/matchprompt"
	"ludex/internal/notifications"
)

func newScrapeCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool
	var limit int

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Resolve metadata for all unresolved library entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			// One batch at a time per database.
			release, err := store.AcquireBatchLock(runCtx)
			if err != nil {
				return fmt.Errorf("another scrape is already running: %w", err)
			}
			defer release()

			entries, err := store.Unresolved(runCtx)
			if err != nil {
				return fmt.Errorf("load unresolved entries: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "All entries already have both identifiers")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			pipeline, err := ctx.buildPipeline(logger)
			if err != nil {
				return err
			}

			var picker batch.Picker
			if !assumeYes {
				picker = matchprompt.New(os.Stdin, out)
			}

			orchestrator, err := batch.New(store, pipeline, picker, batch.Options{
				ChunkSize:    cfg.Scrape.ChunkSize,
				RowThrottle:  time.Duration(cfg.Scrape.RowThrottleMS) * time.Millisecond,
				StallTimeout: time.Duration(cfg.Scrape.StallTimeoutSeconds) * time.Second,
			}, logger)
			if err != nil {
				return fmt.Errorf("create batch orchestrator: %w", err)
			}

			notifier := notifications.NewService(cfg)
			_ = notifier.NotifyBatchStarted(runCtx, len(entries))

			fmt.Fprintf(out, "Resolving %d entries\n", len(entries))
			done := make(chan struct{})
			go func() {
				defer close(done)
				renderEvents(out, orchestrator.Events())
			}()

			stats, runErr := orchestrator.Run(runCtx, entries)
			<-done

			printBatchReport(out, stats)
			// Notifications go out even for a cancelled run; the report is
			// the user's record of what completed.
			notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = notifier.NotifyBatchCompleted(notifyCtx, stats)
			_ = notifier.NotifyReviewNeeded(notifyCtx, stats.ManualNeeded)

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				_ = notifier.NotifyError(notifyCtx, runErr, "scrape")
			}
			return runErr
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Never prompt; leave ambiguous entries for later")
	cmd.Flags().IntVar(&limit, "limit", 0, "Resolve at most this many entries (0 means all)")
	return cmd
}

func renderEvents(out io.Writer, events <-chan batch.Event) {
	for event := range events {
		switch event.Kind {
		case batch.EventChunkStarted:
			fmt.Fprintf(out, "Chunk %d/%d\n", event.Chunk, event.ChunkCount)
		case batch.EventRowResolved:
			fmt.Fprintf(out, "  resolved  %s\n", event.Title)
		case batch.EventRowQueued:
			fmt.Fprintf(out, "  queued    %s (manual match)\n", event.Title)
		case batch.EventRowSkipped:
			fmt.Fprintf(out, "  skipped   %s\n", event.Title)
		case batch.EventRowFailed:
			if event.Err != nil {
				fmt.Fprintf(out, "  failed    %s: %v\n", event.Title, event.Err)
			} else {
				fmt.Fprintf(out, "  failed    %s: nothing found\n", event.Title)
			}
		case batch.EventStalled:
			fmt.Fprintf(out, "  still working on chunk %d...\n", event.Chunk)
		case batch.EventManualResolved:
			fmt.Fprintf(out, "  resolved  %s (manual)\n", event.Title)
		}
	}
}

func printBatchReport(out io.Writer, stats *batch.Stats) {
	if stats == nil {
		return
	}
	rows := [][]string{
		{"Total", strconv.Itoa(stats.Total)},
		{"Resolved", strconv.Itoa(stats.Successful)},
		{"Failed", strconv.Itoa(stats.Failed)},
		{"Manual review", strconv.Itoa(stats.ManualNeeded)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
		{"Success rate", fmt.Sprintf("%.0f%%", stats.SuccessRate())},
		{"Duration", stats.Duration().Round(time.Second).String()},
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Batch", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}
