package main

import (
	"context"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pkt.systems/pslog"
)

func TestParseMixDefaultsAreValid(t *testing.T) {
	t.Parallel()

	m, err := parseMix(defaultMix)
	if err != nil {
		t.Fatalf("default mix: %v", err)
	}
	if m.total == 0 {
		t.Fatal("default mix has no weight")
	}
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		if op := m.pick(rng); op == "" {
			t.Fatal("pick returned empty operation")
		}
	}
}

func TestParseMixRejectsBadEntries(t *testing.T) {
	t.Parallel()

	cases := []string{
		"set",            // missing weight
		"set=0",          // non-positive weight
		"set=-3",         // negative weight
		"set=x",          // non-numeric weight
		"teleport=5",     // unknown operation
		"",               // nothing selected
		"  , , ",         // nothing selected either
	}
	for _, spec := range cases {
		if _, err := parseMix(spec); err == nil {
			t.Fatalf("expected error for mix %q", spec)
		}
	}
}

func TestParseMixSingleOperation(t *testing.T) {
	t.Parallel()

	m, err := parseMix("get=1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 20; i++ {
		if op := m.pick(rng); op != "get" {
			t.Fatalf("expected get, got %q", op)
		}
	}
}

func TestApplyScenarioOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `
rows: 32
cols: 16
users: 64
workers: 4
duration: 5s
mix:
  set: 3
  get: 1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	cfg := stressConfig{rows: 8, cols: 8, users: 16, workers: 8, duration: time.Minute}
	if err := applyScenario(&cfg, path); err != nil {
		t.Fatalf("apply scenario: %v", err)
	}
	if cfg.rows != 32 || cfg.cols != 16 || cfg.users != 64 || cfg.workers != 4 {
		t.Fatalf("scenario not applied: %+v", cfg)
	}
	if cfg.duration != 5*time.Second {
		t.Fatalf("expected 5s duration, got %s", cfg.duration)
	}
	if cfg.mix == nil || cfg.mix.total != 4 {
		t.Fatalf("expected mix total 4, got %+v", cfg.mix)
	}
}

func TestApplyScenarioRejectsBadDuration(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("duration: soon\n"), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	cfg := stressConfig{}
	if err := applyScenario(&cfg, path); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

func TestRunStressCompletesOpBudget(t *testing.T) {
	t.Parallel()

	mix, err := parseMix("set=2,get=2,swap_rows=1,search=1")
	if err != nil {
		t.Fatalf("parse mix: %v", err)
	}
	cfg := stressConfig{
		rows:     4,
		cols:     4,
		users:    4,
		workers:  3,
		opBudget: 500,
		mix:      mix,
		seed:     7,
	}
	logger := pslog.NewStructured(io.Discard)
	res, err := runStress(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("run stress: %v", err)
	}
	if res.total == 0 {
		t.Fatal("expected operations to be counted")
	}
	if res.total > cfg.opBudget {
		t.Fatalf("op budget exceeded: %d > %d", res.total, cfg.opBudget)
	}
}
