package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crunch/internal/platform/tui"
)

var serveCfg = tui.DefaultSSHServerConfig()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve crunch over SSH",
	Long: `Start an SSH server. Every connection gets its own menu and game;
scores are saved under the SSH user name and shared by all players.
Point several servers at one leaderboard with --redis.

A host key is generated at ~/.crunch/host_key unless --host-key is given.

Examples:
  crunch serve                            # listen on :23234
  crunch serve --ssh :2222 --max-sessions 8
  crunch serve --host-key ./host_key
  crunch serve --redis redis://db:6379/0  # shared leaderboard

Players connect with:
  ssh -t localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveCfg.Address, "ssh", serveCfg.Address, "Address to listen on (host:port)")
	f.StringVar(&serveCfg.HostKeyPath, "host-key", "", "Host key file (generated when empty)")
	f.DurationVar(&serveCfg.IdleTimeout, "idle-timeout", serveCfg.IdleTimeout, "Disconnect players idle this long")
	f.IntVar(&serveCfg.MaxSessions, "max-sessions", serveCfg.MaxSessions, "Concurrent players allowed (0 = unlimited)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := serveCfg
	cfg.TickRate = flagFPS

	opts := uiOptions()
	defer closeStore(opts)

	server, err := tui.NewSSHServer(cfg, opts)
	if err != nil {
		fail(opts, fmt.Errorf("creating server: %w", err))
	}

	fmt.Printf("Serving crunch on %s (ssh -t localhost -p %s), Ctrl+C to stop\n", cfg.Address, port(cfg.Address))
	if err := server.ListenAndServe(context.Background()); err != nil {
		fail(opts, err)
	}
}
