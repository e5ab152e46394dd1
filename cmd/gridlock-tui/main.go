// Command gridlock-tui is a terminal front end for a gridlock grid: it
// renders the grid as a spreadsheet and supports cursor navigation, in-place
// cell editing, row/column insertion, swaps, search, and save/load. It is
// strictly a consumer of the public gridlock API.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"pkt.systems/gridlock"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		rows    int
		cols    int
		users   int
		logPath string
	)
	cmd := &cobra.Command{
		Use:           "gridlock-tui [file]",
		Short:         "gridlock-tui edits a shared text grid in the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger, closeLogger, err := newTUILogger(logPath)
			if err != nil {
				return err
			}
			defer closeLogger()

			grid, err := gridlock.NewWithConfig(gridlock.Config{
				Rows:   rows,
				Cols:   cols,
				Users:  users,
				Logger: logger,
			})
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
				if err := grid.Load(path); err != nil {
					// A missing file is fine: start empty, save creates it.
					if !errors.Is(err, os.ErrNotExist) {
						return err
					}
				}
			}
			app, err := newApp(grid, path)
			if err != nil {
				return err
			}
			return app.run()
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&rows, "rows", gridlock.DefaultRows, "rows when starting without a file")
	flags.IntVar(&cols, "cols", gridlock.DefaultCols, "columns when starting without a file")
	flags.IntVar(&users, "users", gridlock.DefaultUsers, "lock pool size")
	flags.StringVar(&logPath, "log-file", "", "append structured logs to this file (stderr would corrupt the screen)")
	return cmd
}

func newTUILogger(path string) (pslog.Logger, func(), error) {
	if path == "" {
		logger := pslog.NewWithOptions(io.Discard, pslog.Options{
			Mode:     pslog.ModeStructured,
			MinLevel: pslog.Disabled,
		})
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := pslog.NewWithOptions(f, pslog.Options{
		Mode:     pslog.ModeStructured,
		MinLevel: pslog.DebugLevel,
	}).With("app", "gridlock-tui")
	return logger, func() { _ = f.Close() }, nil
}
