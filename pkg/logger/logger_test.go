package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	SetLevel(0)

	Get().Info(context.Background(), "test message", String("k", "v"), Int("n", 3))

	out := buf.String()
	if !strings.Contains(out, "test message") || !strings.Contains(out, "k=v") || !strings.Contains(out, "n=3") {
		t.Fatalf("unexpected log output: %q", out)
	}
	if !strings.Contains(out, "source=logger/logger_test.go:") {
		t.Fatalf("expected caller source in output: %q", out)
	}
}

func TestLoggerInitNilWriter(t *testing.T) {
	if err := Init(nil); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("session").Warn(context.Background(), "careful", Error(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, "component=session") || !strings.Contains(out, "error=boom") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer SetLevelString("info")

	if err := SetLevelString("error"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	Get().Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at error level, got %q", buf.String())
	}

	if err := SetLevelString("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestInitFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	closer, err := InitFile(dir)
	if err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	SetLevelString("info")
	Get().Info(context.Background(), "to file")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("log file missing record: %q", string(data))
	}
}
