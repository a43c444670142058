package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "json", slog.LevelInfo))
	logger.Debug("hidden")
	logger.Info("hello", "user_id", "u1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["user_id"] != "u1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewHandlerText(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "", slog.LevelWarn))
	logger.Info("hidden")
	logger.Warn("visible")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Errorf("info line should be filtered: %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("visible")) {
		t.Errorf("warn line missing: %q", buf.String())
	}
}
