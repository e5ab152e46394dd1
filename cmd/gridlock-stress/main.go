// Command gridlock-stress drives a shared gridlock.Grid with many concurrent
// workers performing a randomized, weighted mix of operations, then reports
// throughput and process cost. It consumes only the public gridlock API and
// exists to shake out contention and ordering bugs under load.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"pkt.systems/pslog"

	"pkt.systems/gridlock"
)

func main() {
	os.Exit(submain(context.Background()))
}

func submain(ctx context.Context) int {
	baseLogger := pslog.LoggerFromEnv(
		pslog.WithEnvPrefix("GRIDLOCK_LOG_"),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeStructured, MinLevel: pslog.InfoLevel}),
		pslog.WithEnvWriter(os.Stderr),
	).With("app", "gridlock-stress")
	cmd := newRootCommand(baseLogger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			baseLogger.Error("command failed", "error", err)
		}
		return 1
	}
	return 0
}

func newRootCommand(baseLogger pslog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gridlock-stress",
		Short:         "gridlock-stress hammers one shared grid with randomized concurrent operations",
		SilenceErrors: true,
		Example: `
  # 8 workers, default mix, 30 seconds
  gridlock-stress --workers 8 --duration 30s

  # bigger grid, more locks, op budget instead of a clock
  gridlock-stress --rows 64 --cols 64 --users 128 --ops 1000000

  # custom mix inline, or a YAML scenario file
  gridlock-stress --mix "set=50,get=40,swap_rows=5,add_row=5"
  gridlock-stress --scenario stress.yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger := baseLogger
			logLevel := strings.TrimSpace(viper.GetString("log-level"))
			if logLevel != "" {
				if level, ok := pslog.ParseLevel(logLevel); ok {
					logger = logger.LogLevel(level)
				}
			}

			cfg, err := configFromViper()
			if err != nil {
				return err
			}
			if path := strings.TrimSpace(viper.GetString("scenario")); path != "" {
				if err := applyScenario(&cfg, path); err != nil {
					return err
				}
			}

			result, err := runStress(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), cfg, result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int("rows", gridlock.DefaultRows, "initial number of rows")
	flags.Int("cols", gridlock.DefaultCols, "initial number of columns")
	flags.Int("users", gridlock.DefaultUsers, "lock pool size (expected concurrency)")
	flags.Int("workers", 8, "concurrent workers sharing the grid")
	flags.Duration("duration", 30*time.Second, "how long to run (ignored when --ops is set)")
	flags.Int64("ops", 0, "total operation budget across all workers (0 uses --duration)")
	flags.String("mix", "", "weighted operation mix, e.g. set=40,get=40,swap_rows=5")
	flags.String("scenario", "", "YAML scenario file overriding flags")
	flags.Uint64("seed", 0, "deterministic workload seed (0 seeds from time)")
	flags.String("out-dir", "", "directory for save files (default: a temp dir removed afterwards)")
	flags.Bool("keep-files", false, "keep save files written during the run")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")

	bindFlags(cmd)
	return cmd
}

func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if err := viper.BindPFlag(flag.Name, flag); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag.Name, err))
		}
	})
	viper.SetEnvPrefix("GRIDLOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
