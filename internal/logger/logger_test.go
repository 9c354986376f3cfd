package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fileOnly(level, path string) Options {
	return Options{Level: level, File: Rotation{Path: path, MaxSizeMB: 10, MaxBackups: 1}}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestSetup_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "step.log")

	// 1 MB is the smallest size lumberjack rotates at.
	opts := Options{Level: "debug", File: Rotation{Path: path, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 1}}
	if err := Setup(opts); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer Sync()

	pad := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("tick %d: %s", i, pad)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var rotated []string
	current := false
	for _, e := range entries {
		switch {
		case e.Name() == "step.log":
			current = true
		case strings.HasPrefix(e.Name(), "step-20") && strings.HasSuffix(e.Name(), ".log"):
			rotated = append(rotated, e.Name())
		}
	}
	if !current {
		t.Error("step.log missing")
	}
	if len(rotated) == 0 {
		t.Errorf("no rotated files among %d entries", len(entries))
	}
}

func TestSetup_Levels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level   string
		present []string
		absent  []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			path := filepath.Join(dir, "level-"+tt.level+".log")
			if err := Setup(fileOnly(tt.level, path)); err != nil {
				t.Fatalf("Setup: %v", err)
			}

			Log.Debug("debug message")
			Log.Info("info message")
			Log.Warn("warn message")
			Log.Error("error message")

			out := readLog(t, path)
			for _, s := range tt.present {
				if !strings.Contains(out, s) {
					t.Errorf("missing %s", s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("unexpected %s", s)
				}
			}
		})
	}
}

func TestSetup_BadLevel(t *testing.T) {
	if err := Setup(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInit_FileUsesDefaultRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.log")
	if err := Init("info", path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = Setup(Options{}) })

	Log.Info("started")
	if out := readLog(t, path); !strings.Contains(out, "started") {
		t.Errorf("log = %q", out)
	}
}

func TestDefaultRotation(t *testing.T) {
	got := DefaultRotation("/tmp/step.log")
	want := Rotation{Path: "/tmp/step.log", MaxSizeMB: 20, MaxBackups: 5, MaxAgeDays: 14, Compress: true}
	if got != want {
		t.Errorf("DefaultRotation = %+v, want %+v", got, want)
	}
}

func TestSetup_NoOutputs(t *testing.T) {
	if err := Setup(Options{Level: "debug"}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	Log.Info("dropped")
	Named("locomotion").Debug("dropped")
	Sync()
}

func TestNamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.log")
	if err := Setup(fileOnly("debug", path)); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	Named("doors").Info("door opened")

	if out := readLog(t, path); !strings.Contains(out, "doors") {
		t.Errorf("component name missing from %q", out)
	}
}
