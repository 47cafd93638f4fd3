// Package main implements texrboard, a terminal UI for TensorBoard.
//
// texrboard either connects to a running TensorBoard server or starts an
// embedded one for a local logdir (or a .tar.gz log archive), then shows
// runs and metrics in a full-screen TUI.
package main

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"charm.land/log/v2"

	"github.com/bitplane/texrboard/internal/app"
	"github.com/bitplane/texrboard/internal/backend"
	"github.com/bitplane/texrboard/internal/config"
	"github.com/bitplane/texrboard/internal/logging"
	"github.com/bitplane/texrboard/internal/tb"
	"github.com/bitplane/texrboard/internal/term"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	flagLogdir  string
	flagLogFile string
	flagHost    string
	flagPort    int
	flagDebug   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "texrboard",
		Short: "TUI replacement for TensorBoard",
		Long: `texrboard - TUI replacement for TensorBoard

A terminal-based interface for viewing TensorBoard logs and metrics.
Point it at a logdir (or a .tar.gz log archive) to start an embedded
TensorBoard server, or at the host/port of one that is already running.`,
		Example: `  # Start an embedded server for a logdir
  texrboard --logdir ./runs

  # Extract an archived logdir and serve it
  texrboard --log-file runs.tar.gz

  # Connect to an existing server
  texrboard --host localhost --port 6006`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&flagLogdir, "logdir", "", "Path to TensorBoard logs directory (starts embedded server)")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Path to .tar.gz log archive (extracts and starts embedded server)")
	rootCmd.Flags().StringVar(&flagHost, "host", "", "TensorBoard server host (default from config, localhost)")
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "TensorBoard server port (default from config, 6006)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.MarkFlagsMutuallyExclusive("logdir", "log-file", "host")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage texrboard configuration",
	}
	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	configCmd.AddCommand(configPathCmd)

	fixCmd := &cobra.Command{
		Use:   "fix",
		Short: "Reset the terminal to a sane state",
		Long: `Write ANSI reset codes to stdout to repair a terminal that a crashed
full-screen application left in a broken mode. Same as the fixterm binary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return term.Restore(os.Stdout)
		},
	}

	rootCmd.AddCommand(configCmd, fixCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s", version, commit, date)),
	); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	closeLog, err := logging.Setup(flagDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		log.Warn("config load failed, using defaults", "err", err)
		cfg = config.Default()
	}
	if flagHost != "" {
		cfg.Server.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}

	manager := tb.NewManager()
	defer manager.Stop()
	// The TUI corrupts the terminal when it dies mid-frame; always put the
	// terminal back together on the way out.
	defer func() { _ = term.Reset(os.Stdout) }()

	logdir := flagLogdir
	if flagLogFile != "" {
		logdir, err = tb.ExtractLogArchive(flagLogFile)
		if err != nil {
			return err
		}
	}

	serverURL := cfg.BaseURL()
	if logdir != "" {
		serverURL, err = manager.Start(ctx, logdir)
		if err != nil {
			return err
		}
	}

	client := tb.NewClient(serverURL, cfg.Timeout())
	defer client.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var p *tea.Program
	b := backend.New(client, func(msg tea.Msg) {
		p.Send(msg)
	})

	var embedded *tb.Manager
	if logdir != "" {
		embedded = manager
		if cfg.Refresh.WatchLogdir {
			if err := b.WatchLogdir(ctx, logdir); err != nil {
				log.Warn("logdir watcher disabled", "err", err)
			}
		}
	}

	board := app.New(client, b, embedded, cfg)
	p = tea.NewProgram(board)

	go b.Run(ctx, cfg.Interval())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
