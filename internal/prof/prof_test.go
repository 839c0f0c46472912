package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPU: filepath.Join(dir, "cpu.pprof"),
		Mem: filepath.Join(dir, "mem.pprof"),
	}
	s, err := Start(cfg)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	for _, path := range []string{cfg.CPU, cfg.Mem} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Fatalf("profile %s missing or empty: %v", path, err)
		}
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	cfg := Config{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")}
	if _, err := Start(cfg); err == nil {
		t.Fatalf("expected error for an unwritable path")
	}
	if (Config{}).Enabled() {
		t.Fatalf("empty config must be disabled")
	}
}
