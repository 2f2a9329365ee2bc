package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "geofence-api", "info", "json")

	logger.Debug("hidden")
	logger.Info("geofence registered", "id", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "geofence registered" || rec["service"] != "geofence-api" || rec["id"] != float64(7) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "", "debug", "text").Debug("zone skipped", "reason", "bad")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "reason=bad") {
		t.Errorf("unexpected text output %q", out)
	}
	if strings.Contains(out, "service=") {
		t.Error("no service attribute expected")
	}
}
