package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestConsoleWarnHasNoStacktrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadra.log")
	Init(Options{Mode: "development", Level: "warn", Path: path})
	t.Cleanup(func() { Init(Options{Level: "warn"}) })

	Get().Warnw("insight request failed", "error", "timeout")
	Get().Errorw("persist state", "error", "disk full")

	out := readLog(t, path)
	if !strings.Contains(out, "insight request failed") || !strings.Contains(out, "persist state") {
		t.Fatalf("expected both entries, got:\n%s", out)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 || strings.Contains(out, "tRunner") {
		t.Fatalf("console output should be one line per entry, got:\n%s", out)
	}
}

func TestLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadra.log")
	Init(Options{Level: "warn", Path: path})
	t.Cleanup(func() { Init(Options{Level: "warn"}) })

	Get().Infow("starting ui")
	Get().Warnw("discarding unreadable document")

	out := readLog(t, path)
	if strings.Contains(out, "starting ui") {
		t.Fatal("info should be filtered at warn level")
	}
	if !strings.Contains(out, "discarding unreadable document") {
		t.Fatalf("warn should be logged, got:\n%s", out)
	}
}

func TestGetWithoutInit(t *testing.T) {
	mu.Lock()
	sugar = nil
	mu.Unlock()
	if Get() == nil {
		t.Fatal("Get should build a default logger")
	}
}
