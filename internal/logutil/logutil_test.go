package logutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dfryer1193/agenda/internal/config"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(\"loud\") error = nil, want error")
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info().Msg("dropped")
	logger.Warn().Str("path", "images/a.png").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "kept" {
		t.Errorf("message = %v, want kept", entry["message"])
	}
	if entry["path"] != "images/a.png" {
		t.Errorf("path = %v, want images/a.png", entry["path"])
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(config.LoggingConfig{Format: "xml"}, &buf); err == nil {
		t.Error("New() error = nil, want error for unknown format")
	}
}
