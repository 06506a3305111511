package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		// Lowercase
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		// Uppercase
		{"DEBUG", LevelDebug},
		{"INFO", LevelInfo},
		{"WARN", LevelWarn},
		{"WARNING", LevelWarn},
		{"ERROR", LevelError},

		// Mixed case
		{"Debug", LevelDebug},
		{"Info", LevelInfo},
		{"Warn", LevelWarn},
		{"Warning", LevelWarn},
		{"Error", LevelError},
		{"dEbUg", LevelDebug},

		// Empty string defaults to Info
		{"", LevelInfo},

		// Unrecognized defaults to Info
		{"trace", LevelInfo},
		{"fatal", LevelInfo},
		{"unknown", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"", FormatText},
		{"yaml", FormatText}, // unrecognized defaults to text
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseFormat(tt.input)
			if result != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLookupLevel(t *testing.T) {
	if _, ok := LookupLevel("verbose"); ok {
		t.Error("LookupLevel(verbose) should not be recognized")
	}
	if l, ok := LookupLevel(" Warn "); !ok || l != LevelWarn {
		t.Errorf("LookupLevel(\" Warn \") = %v, %v", l, ok)
	}
}

func TestLookupFormat(t *testing.T) {
	if _, ok := LookupFormat("yaml"); ok {
		t.Error("LookupFormat(yaml) should not be recognized")
	}
	if f, ok := LookupFormat("JSON"); !ok || f != FormatJSON {
		t.Errorf("LookupFormat(JSON) = %v, %v", f, ok)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "route", "r1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, `msg=shown route=r1`) {
		t.Errorf("missing warn record: %q", out)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf}).Info("route added", "route", "r1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}
	if rec["msg"] != "route added" || rec["route"] != "r1" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestTee(t *testing.T) {
	var console, file bytes.Buffer
	logger := Tee(Config{Level: LevelInfo, Format: FormatText, Output: &console}, &file, LevelInfo)

	logger.With("component", "registry").Info("route deleted", "route", "r1")
	logger.Debug("dropped")

	if !strings.Contains(console.String(), `msg="route deleted" component=registry route=r1`) {
		t.Errorf("console output = %q", console.String())
	}
	var rec map[string]any
	if err := json.Unmarshal(file.Bytes(), &rec); err != nil {
		t.Fatalf("file output is not one JSON record: %v: %q", err, file.String())
	}
	if rec["component"] != "registry" || rec["route"] != "r1" {
		t.Errorf("unexpected file record: %v", rec)
	}
}

func TestTee_IndependentLevels(t *testing.T) {
	var console, file bytes.Buffer
	logger := Tee(Config{Level: LevelWarn, Format: FormatText, Output: &console}, &file, LevelDebug)

	if !logger.Enabled(context.Background(), LevelDebug) {
		t.Fatal("debug should be enabled through the file side")
	}

	logger.Debug("dispatch call", "op", "get_routes")
	if console.Len() != 0 {
		t.Errorf("console should be quiet at warn, got %q", console.String())
	}
	if !strings.Contains(file.String(), `"op":"get_routes"`) {
		t.Errorf("file output = %q", file.String())
	}

	file.Reset()
	quiet := Tee(Config{Level: LevelDebug, Output: &console}, &file, LevelError)
	quiet.Info("route added")
	if file.Len() != 0 {
		t.Errorf("file should be quiet at error, got %q", file.String())
	}
	if !strings.Contains(console.String(), `msg="route added"`) {
		t.Errorf("console output = %q", console.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTee_FailingSideDoesNotStopOther(t *testing.T) {
	var console bytes.Buffer
	logger := Tee(Config{Level: LevelInfo, Output: &console}, failingWriter{}, LevelInfo)

	r := slog.NewRecord(time.Now(), LevelInfo, "route added", 0)
	err := logger.Handler().Handle(context.Background(), r)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected the file error, got %v", err)
	}
	if !strings.Contains(console.String(), `msg="route added"`) {
		t.Errorf("console output = %q", console.String())
	}
}

func TestTee_NilWriter(t *testing.T) {
	var console bytes.Buffer
	Tee(Config{Output: &console}, nil, LevelDebug).Info("x")
	if !strings.Contains(console.String(), "msg=x") {
		t.Errorf("console output = %q", console.String())
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	if logger == nil {
		t.Fatal("Nop returned nil")
	}
	logger.Error("discarded")
}
