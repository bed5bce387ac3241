package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-crunch/internal/core"
)

const (
	shutdownTimeout = 10 * time.Second
	maxPlayerName   = 24
)

// SSHServerConfig configures the SSH front end.
type SSHServerConfig struct {
	Address     string        // host:port to listen on
	HostKeyPath string        // Generated at ~/.crunch/host_key when empty
	IdleTimeout time.Duration // Idle connections are closed after this
	MaxSessions int           // Concurrent players; 0 means no limit
	TickRate    int
}

// DefaultSSHServerConfig returns the settings `crunch serve` starts with.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		MaxSessions: 32,
		TickRate:    core.DefaultConfig().TickRate,
	}
}

// SSHServer gives every SSH connection its own crunch session. The score
// store in Options is shared by all of them and owned by the caller.
type SSHServer struct {
	config SSHServerConfig
	opts   Options
	server *ssh.Server
	active atomic.Int32
}

// NewSSHServer prepares a server; call ListenAndServe to start it.
func NewSSHServer(cfg SSHServerConfig, opts Options) (*SSHServer, error) {
	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &SSHServer{config: cfg, opts: opts}
	s.opts.Logger = opts.logger().WithPrefix("ssh")

	// Middleware runs last to first: sessions are counted and logged
	// before a program is started.
	s.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newProgram),
			s.limitSessions,
			s.logSessions,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	return s, nil
}

// hostKeyPath resolves where the host key lives and makes sure its
// directory exists.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".crunch", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// newProgram builds the session model for one connection.
func (s *SSHServer) newProgram(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.opts.logger().Warn("no PTY requested", "user", sess.User())
		wish.Fatalln(sess, "crunch needs a terminal, connect with ssh -t")
		return nil, nil
	}

	opts := s.opts
	opts.Player = playerName(sess.User())
	opts.Logger = opts.logger().With("player", opts.Player)

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}
	return NewSessionModel(opts, cfg), []tea.ProgramOption{tea.WithAltScreen()}
}

// playerName turns an SSH user into a scoreboard name.
func playerName(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		return "guest"
	}
	if r := []rune(user); len(r) > maxPlayerName {
		user = string(r[:maxPlayerName])
	}
	return user
}

// limitSessions turns connections away once MaxSessions players are on.
func (s *SSHServer) limitSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.active.Add(1)
		defer s.active.Add(-1)

		if limit := s.config.MaxSessions; limit > 0 && int(n) > limit {
			s.opts.logger().Warn("session refused", "user", sess.User(), "active", n-1, "limit", limit)
			wish.Fatalln(sess, "crunch is full, try again later")
			return
		}
		next(sess)
	}
}

// logSessions records when each connection starts and ends.
func (s *SSHServer) logSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		log := s.opts.logger().With("user", sess.User(), "remote", sess.RemoteAddr().String())
		start := time.Now()
		log.Info("session started")
		next(sess)
		log.Info("session ended", "duration", time.Since(start).Round(time.Second))
	}
}

// Active returns the number of connected sessions.
func (s *SSHServer) Active() int {
	return int(s.active.Load())
}

// ListenAndServe serves until ctx is done or the process is interrupted,
// then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.opts.logger().Info("starting SSH server", "address", s.config.Address, "max_sessions", s.config.MaxSessions)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == nil || errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh server: %w", err)
	case <-ctx.Done():
	}

	s.opts.logger().Info("shutting down", "active", s.Active())
	return s.Shutdown()
}

// Shutdown stops accepting connections and waits for sessions to end.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
