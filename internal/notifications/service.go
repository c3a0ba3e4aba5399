package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quill/internal/config"
)

const userAgent = "Quill-Go/0.1.0"

// Service defines the notification surface exposed to the CLI.
type Service interface {
	NotifyPostPublished(ctx context.Context, title string, postID int64) error
	NotifyPostUpdated(ctx context.Context, title string, postID int64) error
	NotifySubmissionFailed(ctx context.Context, title string, err error) error
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
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		published: cfg.Notifications.Published,
		updated:   cfg.Notifications.Updated,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	published bool
	updated   bool
	errors    bool
}

func (n *ntfyService) NotifyPostPublished(ctx context.Context, title string, postID int64) error {
	if !n.published {
		return nil
	}
	data := payload{
		title:   "Quill - Post Published",
		message: fmt.Sprintf("Published: %s (post %d)", strings.TrimSpace(title), postID),
		tags:    []string{"quill", "post", "published"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPostUpdated(ctx context.Context, title string, postID int64) error {
	if !n.updated {
		return nil
	}
	data := payload{
		title:   "Quill - Post Updated",
		message: fmt.Sprintf("Updated: %s (post %d)", strings.TrimSpace(title), postID),
		tags:    []string{"quill", "post", "updated"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySubmissionFailed(ctx context.Context, title string, err error) error {
	if !n.errors {
		return nil
	}
	data := payload{
		title:    "Quill - Submission Failed",
		message:  fmt.Sprintf("Failed to submit %s: %v", strings.TrimSpace(title), err),
		tags:     []string{"quill", "post", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Quill - Test",
		message: "Test notification from quill",
		tags:    []string{"quill", "test"},
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

func (noopService) NotifyPostPublished(context.Context, string, int64) error    { return nil }
func (noopService) NotifyPostUpdated(context.Context, string, int64) error      { return nil }
func (noopService) NotifySubmissionFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
