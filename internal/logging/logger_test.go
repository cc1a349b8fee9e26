package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"climate-server/internal/config"
)

func TestNewLogger_releaseWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}

	logger := newLogger(&buf, cfg, "1.2.3", "climate-server")
	logger.Info("hello", "route", "/api/v1.0/tobs")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	want := map[string]string{
		"msg":     "hello",
		"app":     "climate-server",
		"version": "1.2.3",
		"env":     "prod",
		"route":   "/api/v1.0/tobs",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v; want %q", k, rec[k], v)
		}
	}
}

func TestNewLogger_respectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}

	logger := newLogger(&buf, cfg, "1.2.3", "climate-server")
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn not written: %q", buf.String())
	}
}

func TestNewLogger_devUsesTint(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}

	logger := newLogger(&buf, cfg, "dev", "climate-server")
	logger.Debug("dataset opened")

	out := buf.String()
	if !strings.Contains(out, "dataset opened") {
		t.Fatalf("output = %q; want message", out)
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Fatalf("dev output should be text, got JSON: %q", out)
	}
	if !strings.Contains(out, "climate-server") {
		t.Errorf("output = %q; want app attribute", out)
	}
}
