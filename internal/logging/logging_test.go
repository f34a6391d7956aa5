// SPDX-License-Identifier: EPL-2.0

package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zapcore.Level
		err  error
	}{
		{"", zapcore.InfoLevel, nil},
		{"debug", zapcore.DebugLevel, nil},
		{" INFO ", zapcore.InfoLevel, nil},
		{"warning", zapcore.WarnLevel, nil},
		{"error", zapcore.ErrorLevel, nil},
		{"loud", zapcore.InfoLevel, ErrUnknownLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if !errors.Is(err, tt.err) {
				t.Fatalf("ParseLevel(%q) error = %v, want %v", tt.in, err, tt.err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_WritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := New(
		WithOutput(path),
		WithLevel(zapcore.DebugLevel),
		WithFields(map[string]any{"component": "test", "": "dropped"}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("hello", zap.Int("frames", 30))
	if err := Sync(logger); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("log line is not JSON: %q", data)
	}
	if rec["msg"] != "hello" || rec["component"] != "test" || rec["frames"] != float64(30) {
		t.Errorf("record = %v", rec)
	}
	if _, ok := rec[""]; ok {
		t.Error("empty field key was kept")
	}
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := New(WithOutput(path), WithLevel(zapcore.WarnLevel))
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	_ = Sync(logger)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), "loud") {
		t.Errorf("log = %q", data)
	}
}

func TestNew_Development(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.txt")
	logger, err := New(WithOutput(path), WithDevelopment(true))
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("console")
	_ = Sync(logger)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if json.Valid(data) || !strings.Contains(string(data), "console") {
		t.Errorf("expected console encoding, got %q", data)
	}
}
