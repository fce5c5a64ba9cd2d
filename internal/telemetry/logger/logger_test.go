package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty config", cfg: Config{}},
		{name: "text", cfg: Config{Level: "info", Format: "text"}},
		{name: "json upper case", cfg: Config{Level: "debug", Format: "JSON"}},
		{name: "unknown format", cfg: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_JSONLevels(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
		{"ACCESS", l.Access},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("cert ready", "cert_file", "cert.pem")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != "cert ready" {
				t.Errorf("msg = %v, want %q", entry["msg"], "cert ready")
			}
			if entry["cert_file"] != "cert.pem" {
				t.Errorf("cert_file = %v, want %q", entry["cert_file"], "cert.pem")
			}
		})
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Access("request", "request", "GET /index.html HTTP/1.1", "status", 200)

	out := buf.String()
	for _, want := range []string{"time=", "level=ACCESS", `request="GET /index.html HTTP/1.1"`, "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q: %s", want, out)
		}
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.With("component", "tlscert").Info("generated")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry["component"] != "tlscert" {
		t.Errorf("component = %v, want tlscert", entry["component"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "error", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	if buf.Len() > 0 {
		t.Errorf("diagnostics below error should be filtered, got: %s", buf.String())
	}

	l.Access("request")
	if buf.Len() == 0 {
		t.Error("access lines should pass any level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	NewStdLogger(l, slog.LevelWarn).Printf("http: TLS handshake error from %s", "127.0.0.1:5000")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["msg"] != "http: TLS handshake error from 127.0.0.1:5000" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l == nil {
		t.Fatal("Discard() returned nil")
	}
	l.Error("dropped")
	l.Access("dropped")
}

func TestSetDefault(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	prev := Default()
	SetDefault(l)
	defer SetDefault(prev)

	Default().Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("Default() should write to the logger set by SetDefault, got: %q", buf.String())
	}
}
