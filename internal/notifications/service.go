package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ludex/internal/batch"
	"ludex/internal/config"
)

const userAgent = "ludex/0.1"

// Service defines the notification surface exposed to batch components.
type Service interface {
	NotifyBatchStarted(ctx context.Context, count int) error
	NotifyBatchCompleted(ctx context.Context, stats *batch.Stats) error
	NotifyReviewNeeded(ctx context.Context, count int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		batchEnabled: cfg.Notifications.Batch,
		review:       cfg.Notifications.Review,
		errors:       cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	batchEnabled bool
	review       bool
	errors       bool
}

func (n *ntfyService) NotifyBatchStarted(ctx context.Context, count int) error {
	if !n.batchEnabled {
		return nil
	}
	data := payload{
		title:   "Ludex - Batch Started",
		message: fmt.Sprintf("Started resolving %d entries", count),
		tags:    []string{"ludex", "batch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, stats *batch.Stats) error {
	if !n.batchEnabled || stats == nil {
		return nil
	}

	duration := stats.Duration().Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if stats.Failed == 0 && stats.ManualNeeded == 0 {
		title = "Ludex - Batch Complete"
		message = fmt.Sprintf("Resolved %d of %d entries in %s", stats.Successful, stats.Total, durationText)
	} else {
		title = "Ludex - Batch Complete (attention needed)"
		message = fmt.Sprintf("Resolved %d, failed %d, manual review %d in %s",
			stats.Successful, stats.Failed, stats.ManualNeeded, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"ludex", "batch", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyReviewNeeded(ctx context.Context, count int) error {
	if !n.review || count <= 0 {
		return nil
	}
	data := payload{
		title:   "Ludex - Review Needed",
		message: fmt.Sprintf("%d entries need a manual match\nRun the scrape again interactively", count),
		tags:    []string{"ludex", "review"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}

	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Ludex - Error",
		message:  builder.String(),
		tags:     []string{"ludex", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Ludex - Test",
		message:  "Notification system test",
		tags:     []string{"ludex", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchStarted(context.Context, int) error            { return nil }
func (noopService) NotifyBatchCompleted(context.Context, *batch.Stats) error { return nil }
func (noopService) NotifyReviewNeeded(context.Context, int) error            { return nil }
func (noopService) NotifyError(context.Context, error, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
