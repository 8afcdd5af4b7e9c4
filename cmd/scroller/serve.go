package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/deliciousfudge/2d-side-scroller/internal/config"
	"github.com/deliciousfudge/2d-side-scroller/internal/games/runner"
	"github.com/deliciousfudge/2d-side-scroller/internal/platform/metrics"
	"github.com/deliciousfudge/2d-side-scroller/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scroller SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a mode picker menu.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.scroller/host_key

Examples:
  scroller serve                           # Listen on :23234 with auto-generated key
  scroller serve --ssh :2222               # Listen on port 2222
  scroller serve --metrics-addr :9090      # Expose Prometheus metrics
  scroller serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Logger:      logger.WithPrefix("scroller-ssh"),
	}

	addr := flagMetricsAddr
	if !cmd.Flags().Changed("metrics-addr") {
		addr = config.GetEnv(config.EnvMetricsAddr, addr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if addr != "" {
		m := metrics.New()
		runner.SetObserver(m)
		cfg.Metrics = m
		go func() {
			if err := metrics.Serve(ctx, addr, m, logger); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting scroller SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
