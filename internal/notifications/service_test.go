package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/config"
	"quill/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyPostPublished(context.Background(), "Example", 1); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceSendsHeadersAndBody(t *testing.T) {
	var (
		gotTitle    string
		gotTags     string
		gotPriority string
		gotBody     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		gotPriority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.NotifySubmissionFailed(context.Background(), "Trip report", errors.New("boom")); err != nil {
		t.Fatalf("NotifySubmissionFailed: %v", err)
	}
	if gotTitle != "Quill - Submission Failed" {
		t.Errorf("title = %q", gotTitle)
	}
	if gotTags != "quill,post,error" {
		t.Errorf("tags = %q", gotTags)
	}
	if gotPriority != "high" {
		t.Errorf("priority = %q", gotPriority)
	}
	if gotBody == "" {
		t.Error("empty body")
	}
}

func TestNtfyServiceHonorsEventToggles(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Published = false
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyPostPublished(context.Background(), "quiet", 1); err != nil {
		t.Fatalf("NotifyPostPublished: %v", err)
	}
	if requests != 0 {
		t.Fatalf("disabled event sent %d requests", requests)
	}
	if err := svc.NotifyPostUpdated(context.Background(), "loud", 2); err != nil {
		t.Fatalf("NotifyPostUpdated: %v", err)
	}
	if requests != 1 {
		t.Fatalf("requests = %d", requests)
	}
}

func TestNtfyServiceSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected an error from a non-2xx response")
	}
}
