package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"pkt.systems/pslog"

	"pkt.systems/gridlock"
)

// growCap bounds how far add_row/add_col operations may grow the grid during
// a run, so long runs do not trade lock contention for memory pressure.
const growCap = 512

var opNames = []string{
	"get", "set", "search", "search_row", "search_col", "search_range",
	"find_all", "replace_all", "swap_rows", "swap_cols",
	"add_row", "add_col", "save",
}

const defaultMix = "get=35,set=35,search=4,search_row=4,search_col=4," +
	"search_range=3,find_all=4,replace_all=3,swap_rows=3,swap_cols=2," +
	"add_row=1,add_col=1,save=1"

type stressConfig struct {
	rows      int
	cols      int
	users     int
	workers   int
	duration  time.Duration
	opBudget  int64
	mix       *mixTable
	seed      uint64
	outDir    string
	keepFiles bool
}

type stressResult struct {
	elapsed time.Duration
	counts  map[string]int64
	total   int64
	cpuPct  float64
	rssMax  uint64
}

// mixTable is a weighted choice over operation names.
type mixTable struct {
	names   []string
	weights []int
	total   int
}

// parseMix parses "op=weight,op=weight" into a mix table. Unknown operation
// names and non-positive weights are rejected.
func parseMix(s string) (*mixTable, error) {
	known := make(map[string]bool, len(opNames))
	for _, name := range opNames {
		known[name] = true
	}
	m := &mixTable{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, weightStr, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("mix entry %q: want op=weight", part)
		}
		name = strings.TrimSpace(name)
		if !known[name] {
			return nil, fmt.Errorf("mix entry %q: unknown operation", name)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(weightStr))
		if err != nil || weight < 1 {
			return nil, fmt.Errorf("mix entry %q: weight must be a positive integer", part)
		}
		m.names = append(m.names, name)
		m.weights = append(m.weights, weight)
		m.total += weight
	}
	if m.total == 0 {
		return nil, fmt.Errorf("mix %q selects no operations", s)
	}
	return m, nil
}

func mixFromMap(weights map[string]int) (*mixTable, error) {
	keys := make([]string, 0, len(weights))
	for name := range weights {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, name := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", name, weights[name]))
	}
	return parseMix(strings.Join(parts, ","))
}

func (m *mixTable) pick(rng *rand.Rand) string {
	n := rng.IntN(m.total)
	for i, w := range m.weights {
		if n < w {
			return m.names[i]
		}
		n -= w
	}
	return m.names[len(m.names)-1]
}

// scenario mirrors stressConfig for YAML scenario files. Zero values leave
// the flag-derived setting untouched.
type scenario struct {
	Rows     int            `yaml:"rows"`
	Cols     int            `yaml:"cols"`
	Users    int            `yaml:"users"`
	Workers  int            `yaml:"workers"`
	Duration string         `yaml:"duration"`
	Ops      int64          `yaml:"ops"`
	Seed     uint64         `yaml:"seed"`
	Mix      map[string]int `yaml:"mix"`
}

func configFromViper() (stressConfig, error) {
	cfg := stressConfig{
		rows:      viper.GetInt("rows"),
		cols:      viper.GetInt("cols"),
		users:     viper.GetInt("users"),
		workers:   viper.GetInt("workers"),
		duration:  viper.GetDuration("duration"),
		opBudget:  viper.GetInt64("ops"),
		seed:      viper.GetUint64("seed"),
		outDir:    viper.GetString("out-dir"),
		keepFiles: viper.GetBool("keep-files"),
	}
	if cfg.workers < 1 {
		return cfg, fmt.Errorf("workers must be positive, got %d", cfg.workers)
	}
	mixSpec := strings.TrimSpace(viper.GetString("mix"))
	if mixSpec == "" {
		mixSpec = defaultMix
	}
	mix, err := parseMix(mixSpec)
	if err != nil {
		return cfg, err
	}
	cfg.mix = mix
	return cfg, nil
}

func applyScenario(cfg *stressConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", path, err)
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Rows > 0 {
		cfg.rows = sc.Rows
	}
	if sc.Cols > 0 {
		cfg.cols = sc.Cols
	}
	if sc.Users > 0 {
		cfg.users = sc.Users
	}
	if sc.Workers > 0 {
		cfg.workers = sc.Workers
	}
	if sc.Duration != "" {
		d, err := time.ParseDuration(sc.Duration)
		if err != nil {
			return fmt.Errorf("scenario %s: duration: %w", path, err)
		}
		cfg.duration = d
	}
	if sc.Ops > 0 {
		cfg.opBudget = sc.Ops
	}
	if sc.Seed != 0 {
		cfg.seed = sc.Seed
	}
	if len(sc.Mix) > 0 {
		mix, err := mixFromMap(sc.Mix)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", path, err)
		}
		cfg.mix = mix
	}
	return nil
}

func runStress(ctx context.Context, cfg stressConfig, logger pslog.Logger) (*stressResult, error) {
	grid, err := gridlock.NewWithConfig(gridlock.Config{
		Rows:   cfg.rows,
		Cols:   cfg.cols,
		Users:  cfg.users,
		Logger: logger.With("sys", "grid"),
	})
	if err != nil {
		return nil, err
	}

	runID := xid.New().String()
	outDir := cfg.outDir
	if outDir == "" {
		dir, err := os.MkdirTemp("", "gridlock-stress-"+runID+"-")
		if err != nil {
			return nil, fmt.Errorf("create save dir: %w", err)
		}
		outDir = dir
		if !cfg.keepFiles {
			defer os.RemoveAll(dir)
		}
	}

	seed := cfg.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Info("stress.run.begin",
		"run_id", runID,
		"rows", cfg.rows,
		"cols", cfg.cols,
		"users", cfg.users,
		"workers", cfg.workers,
		"seed", seed,
	)

	runCtx := ctx
	var cancel context.CancelFunc
	if cfg.opBudget <= 0 {
		runCtx, cancel = context.WithTimeout(ctx, cfg.duration)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	counts := make([]atomic.Int64, len(opNames))
	countIdx := make(map[string]int, len(opNames))
	for i, name := range opNames {
		countIdx[name] = i
	}
	var remaining atomic.Int64
	remaining.Store(cfg.opBudget)
	var errOnce sync.Once
	var runErr error

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < cfg.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, uint64(worker)))
			savePath := filepath.Join(outDir, fmt.Sprintf("%s-w%d.grid", runID, worker))
			for runCtx.Err() == nil {
				if cfg.opBudget > 0 && remaining.Add(-1) < 0 {
					cancel()
					return
				}
				op := cfg.mix.pick(rng)
				if err := applyOp(grid, op, rng, savePath); err != nil {
					errOnce.Do(func() { runErr = err })
					cancel()
					return
				}
				counts[countIdx[op]].Add(1)
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if runErr != nil {
		return nil, fmt.Errorf("worker operation failed: %w", runErr)
	}
	if err := sweepGrid(grid); err != nil {
		return nil, fmt.Errorf("post-run sweep: %w", err)
	}

	result := &stressResult{
		elapsed: elapsed,
		counts:  make(map[string]int64, len(opNames)),
	}
	for i, name := range opNames {
		n := counts[i].Load()
		result.counts[name] = n
		result.total += n
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if pct, err := proc.CPUPercent(); err == nil {
			result.cpuPct = pct
		}
		if mi, err := proc.MemoryInfo(); err == nil && mi != nil {
			result.rssMax = mi.RSS
		}
	}
	logger.Info("stress.run.complete",
		"run_id", runID,
		"ops", result.total,
		"elapsed", elapsed.String(),
	)
	return result, nil
}

// applyOp performs one randomized operation against the shared grid. Bounds
// are drawn from the current size; the grid only grows, so a coordinate valid
// at draw time stays valid.
func applyOp(g *gridlock.Grid, op string, rng *rand.Rand, savePath string) error {
	rows, cols := g.Size()
	r, c := rng.IntN(rows), rng.IntN(cols)
	switch op {
	case "get":
		_, err := g.Get(r, c)
		return err
	case "set":
		return g.Set(r, c, randomValue(rng))
	case "search":
		g.Search(randomValue(rng))
		return nil
	case "search_row":
		_, err := g.SearchRow(r, randomValue(rng))
		return err
	case "search_col":
		_, err := g.SearchCol(c, randomValue(rng))
		return err
	case "search_range":
		r2 := r + rng.IntN(rows-r)
		c2 := c + rng.IntN(cols-c)
		_, _, err := g.SearchRange(r, c, r2, c2, randomValue(rng))
		return err
	case "find_all":
		g.FindAll(randomValue(rng), rng.IntN(2) == 0)
		return nil
	case "replace_all":
		g.ReplaceAll(randomValue(rng), randomValue(rng), rng.IntN(2) == 0)
		return nil
	case "swap_rows":
		return g.SwapRows(r, rng.IntN(rows))
	case "swap_cols":
		return g.SwapCols(c, rng.IntN(cols))
	case "add_row":
		if rows >= growCap {
			_, err := g.Get(r, c)
			return err
		}
		return g.AddRow(r)
	case "add_col":
		if cols >= growCap {
			_, err := g.Get(r, c)
			return err
		}
		return g.AddCol(c)
	case "save":
		return g.Save(savePath)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

// randomValue draws from a small vocabulary so searches and replaces actually
// collide with values written by other workers.
func randomValue(rng *rand.Rand) string {
	vocab := [...]string{"", "x", "X", "alpha", "BETA", "gamma", "delta-9", "épsilon"}
	return vocab[rng.IntN(len(vocab))]
}

// sweepGrid reads every cell once after the run; any out-of-range or torn
// state turns into a hard failure here.
func sweepGrid(g *gridlock.Grid) error {
	rows, cols := g.Size()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if _, err := g.Get(r, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func printSummary(w io.Writer, cfg stressConfig, res *stressResult) {
	rate := float64(res.total) / res.elapsed.Seconds()
	fmt.Fprintf(w, "workers:  %d\n", cfg.workers)
	fmt.Fprintf(w, "elapsed:  %s\n", res.elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "ops:      %s (%s/s)\n",
		humanize.Comma(res.total), humanize.CommafWithDigits(rate, 0))
	for _, name := range opNames {
		if n := res.counts[name]; n > 0 {
			fmt.Fprintf(w, "  %-13s %s\n", name, humanize.Comma(n))
		}
	}
	if res.cpuPct > 0 {
		fmt.Fprintf(w, "cpu:      %.1f%%\n", res.cpuPct)
	}
	if res.rssMax > 0 {
		fmt.Fprintf(w, "rss:      %s\n", humanize.IBytes(res.rssMax))
	}
}
