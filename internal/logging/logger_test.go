package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"quill/internal/logging"
)

func TestConsoleFormatIncludesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	scoped := logging.NewComponentLogger(logger, "preview")
	scoped.Info("generated", logging.Args(logging.String(logging.FieldAttachmentID, "abc"), logging.Int("width", 640))...)

	line := buf.String()
	if !strings.Contains(line, "INFO preview: generated") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "attachment_id=abc") || !strings.Contains(line, "width=640") {
		t.Fatalf("attrs missing from line: %q", line)
	}
}

func TestJSONFormatEmitsStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("submitted", logging.Args(logging.Int64(logging.FieldPostID, 42))...)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON output: %v (%q)", err, buf.String())
	}
	if record["msg"] != "submitted" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["post_id"] != float64(42) {
		t.Fatalf("unexpected post_id: %v", record["post_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("info record should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Fatal("warn record missing")
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
